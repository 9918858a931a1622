package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Leganyst/salon-platform/internal/apperr"
	"github.com/Leganyst/salon-platform/internal/model"
)

func TestStartLine_MovesAppointmentToInChair(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	staffID := seedStaff(t, env.db, orgID, "alice", svcID)

	appt := mustSchedule(t, env, orgID, svcID)
	lineID := appt.Lines[0].ID.String()

	line, err := env.appointments.StartLine(context.Background(), orgID, lineID, staffID.String(), testDate)
	if err != nil {
		t.Fatalf("start line: %v", err)
	}
	if line.StartedAt == nil {
		t.Fatalf("started_at is nil")
	}
	if line.StaffID == nil || *line.StaffID != staffID {
		t.Fatalf("staff_id = %v, want %s", line.StaffID, staffID)
	}

	var stored model.Appointment
	if err := env.db.First(&stored, "id = ?", appt.ID.String()).Error; err != nil {
		t.Fatalf("load appointment: %v", err)
	}
	if stored.Status != model.AppointmentStatusInChair {
		t.Fatalf("status = %s, want inchair", stored.Status)
	}
}

func TestStartLine_SetsLegacyBarberOnFirstStart(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	haircutID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	colorID := seedService(t, env.db, orgID, "coloring", 60, "80.00")
	aliceID := seedStaff(t, env.db, orgID, "alice", haircutID, colorID)
	bobID := seedStaff(t, env.db, orgID, "bob", haircutID, colorID)

	appt := mustSchedule(t, env, orgID, haircutID, colorID)

	if _, err := env.appointments.StartLine(context.Background(), orgID,
		appt.Lines[0].ID.String(), aliceID.String(), testDate); err != nil {
		t.Fatalf("start first line: %v", err)
	}
	if _, err := env.appointments.StartLine(context.Background(), orgID,
		appt.Lines[1].ID.String(), bobID.String(), testDate); err != nil {
		t.Fatalf("start second line: %v", err)
	}

	var stored model.Appointment
	if err := env.db.First(&stored, "id = ?", appt.ID.String()).Error; err != nil {
		t.Fatalf("load appointment: %v", err)
	}
	if stored.Status != model.AppointmentStatusInChair {
		t.Fatalf("status = %s, want inchair", stored.Status)
	}
	// Легаси-поле хранит первого стартовавшего мастера и не переписывается.
	if stored.BarberID == nil || *stored.BarberID != aliceID {
		t.Fatalf("barber_id = %v, want %s", stored.BarberID, aliceID)
	}
}

func TestStartLine_AlreadyStarted(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	staffID := seedStaff(t, env.db, orgID, "alice", svcID)

	appt := mustSchedule(t, env, orgID, svcID)
	lineID := appt.Lines[0].ID.String()

	if _, err := env.appointments.StartLine(context.Background(), orgID, lineID, staffID.String(), testDate); err != nil {
		t.Fatalf("start line: %v", err)
	}
	_, err := env.appointments.StartLine(context.Background(), orgID, lineID, staffID.String(), testDate)
	if !apperr.Is(err, apperr.KindAlreadyStarted) {
		t.Fatalf("err = %v, want AlreadyStarted", err)
	}
}

func TestStartLine_BusyStaffConflict(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	staffID := seedStaff(t, env.db, orgID, "alice", svcID)

	first := mustSchedule(t, env, orgID, svcID)
	second := mustSchedule(t, env, orgID, svcID)

	if _, err := env.appointments.StartLine(context.Background(), orgID,
		first.Lines[0].ID.String(), staffID.String(), testDate); err != nil {
		t.Fatalf("start first: %v", err)
	}

	// У alice открытая строка: второе назначение блокируется.
	_, err := env.appointments.StartLine(context.Background(), orgID,
		second.Lines[0].ID.String(), staffID.String(), testDate)
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want Conflict", err)
	}
}

func TestCompleteLine_NotStarted(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	seedStaff(t, env.db, orgID, "alice", svcID)

	appt := mustSchedule(t, env, orgID, svcID)

	_, err := env.appointments.CompleteLine(context.Background(), orgID,
		appt.Lines[0].ID.String(), testDate)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
}

func TestCompleteLine_EndBeforeStart(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	staffID := seedStaff(t, env.db, orgID, "alice", svcID)

	appt := mustSchedule(t, env, orgID, svcID)
	lineID := appt.Lines[0].ID.String()

	if _, err := env.appointments.StartLine(context.Background(), orgID, lineID, staffID.String(), testDate); err != nil {
		t.Fatalf("start line: %v", err)
	}
	_, err := env.appointments.CompleteLine(context.Background(), orgID, lineID, testDate.Add(-time.Minute))
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("err = %v, want Validation", err)
	}
}

func TestCompleteLine_TwoLinesSinglePosting(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	haircutID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	colorID := seedService(t, env.db, orgID, "coloring", 60, "80.00")
	aliceID := seedStaff(t, env.db, orgID, "alice", haircutID, colorID)
	bobID := seedStaff(t, env.db, orgID, "bob", haircutID, colorID)

	appt := mustSchedule(t, env, orgID, haircutID, colorID)
	ctx := context.Background()

	if _, err := env.appointments.StartLine(ctx, orgID, appt.Lines[0].ID.String(), aliceID.String(), testDate); err != nil {
		t.Fatalf("start line 1: %v", err)
	}
	if _, err := env.appointments.StartLine(ctx, orgID, appt.Lines[1].ID.String(), bobID.String(), testDate); err != nil {
		t.Fatalf("start line 2: %v", err)
	}

	// Первая строка завершена — запись ещё inchair, проводки нет.
	after, err := env.appointments.CompleteLine(ctx, orgID, appt.Lines[0].ID.String(), testDate.Add(20*time.Minute))
	if err != nil {
		t.Fatalf("complete line 1: %v", err)
	}
	if after.Status != model.AppointmentStatusInChair {
		t.Fatalf("status after first line = %s, want inchair", after.Status)
	}
	var txCount int64
	if err := env.db.Model(&model.Transaction{}).Count(&txCount).Error; err != nil {
		t.Fatalf("count transactions: %v", err)
	}
	if txCount != 0 {
		t.Fatalf("transactions after first line = %d, want 0", txCount)
	}

	// Вторая строка завершает запись: ровно одна проводка на полную сумму.
	after, err = env.appointments.CompleteLine(ctx, orgID, appt.Lines[1].ID.String(), testDate.Add(55*time.Minute))
	if err != nil {
		t.Fatalf("complete line 2: %v", err)
	}
	if after.Status != model.AppointmentStatusCompleted {
		t.Fatalf("status = %s, want completed", after.Status)
	}

	var txs []model.Transaction
	if err := env.db.Find(&txs).Error; err != nil {
		t.Fatalf("load transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("transactions = %d, want 1", len(txs))
	}
	wantTotal := decimal.RequireFromString("105.00")
	if !txs[0].Amount.Equal(wantTotal) {
		t.Fatalf("amount = %s, want %s", txs[0].Amount, wantTotal)
	}
	if txs[0].Type != model.TransactionTypeAppointment {
		t.Fatalf("type = %s, want appointment", txs[0].Type)
	}

	balance, _, err := env.ledger.Balance(ctx, orgID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(wantTotal) {
		t.Fatalf("balance = %s, want %s", balance, wantTotal)
	}
}

func TestCancel_RejectedAfterCompletedLine(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	haircutID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	colorID := seedService(t, env.db, orgID, "coloring", 60, "80.00")
	aliceID := seedStaff(t, env.db, orgID, "alice", haircutID, colorID)

	appt := mustSchedule(t, env, orgID, haircutID, colorID)
	ctx := context.Background()

	if _, err := env.appointments.StartLine(ctx, orgID, appt.Lines[0].ID.String(), aliceID.String(), testDate); err != nil {
		t.Fatalf("start line: %v", err)
	}
	if _, err := env.appointments.CompleteLine(ctx, orgID, appt.Lines[0].ID.String(), testDate.Add(20*time.Minute)); err != nil {
		t.Fatalf("complete line: %v", err)
	}

	_, err := env.appointments.Cancel(ctx, orgID, appt.ID.String())
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("err = %v, want InvalidTransition", err)
	}
}

func TestCancel_TerminalStateRejected(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	seedStaff(t, env.db, orgID, "alice", svcID)

	appt := mustSchedule(t, env, orgID, svcID)
	ctx := context.Background()

	if _, err := env.appointments.Cancel(ctx, orgID, appt.ID.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	_, err := env.appointments.Cancel(ctx, orgID, appt.ID.String())
	if !apperr.Is(err, apperr.KindTerminalState) {
		t.Fatalf("err = %v, want TerminalState", err)
	}

	// Терминальная запись не стартует.
	staffID := seedStaff(t, env.db, orgID, "bob", svcID)
	_, err = env.appointments.StartLine(ctx, orgID, appt.Lines[0].ID.String(), staffID.String(), testDate)
	if !apperr.Is(err, apperr.KindTerminalState) {
		t.Fatalf("start after cancel: err = %v, want TerminalState", err)
	}
}

func TestCancel_ReleasesStartedStaff(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	staffID := seedStaff(t, env.db, orgID, "alice", svcID)
	ctx := context.Background()

	// Отмена из INCHAIR: строка остаётся открытой в БД, но мастера
	// блокировать не должна.
	first := mustSchedule(t, env, orgID, svcID)
	if _, err := env.appointments.StartLine(ctx, orgID,
		first.Lines[0].ID.String(), staffID.String(), testDate); err != nil {
		t.Fatalf("start line: %v", err)
	}
	if _, err := env.appointments.Cancel(ctx, orgID, first.ID.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	second := mustSchedule(t, env, orgID, svcID)
	if _, err := env.appointments.StartLine(ctx, orgID,
		second.Lines[0].ID.String(), staffID.String(), testDate.Add(5*time.Minute)); err != nil {
		t.Fatalf("staff must be free after cancel: %v", err)
	}

	// И назначение на третью запись тоже проходит после завершения второй.
	if _, err := env.appointments.CompleteLine(ctx, orgID,
		second.Lines[0].ID.String(), testDate.Add(20*time.Minute)); err != nil {
		t.Fatalf("complete line: %v", err)
	}
	third := mustSchedule(t, env, orgID, svcID)
	if _, err := env.staff.AssignLine(ctx, orgID,
		third.Lines[0].ID.String(), staffID.String()); err != nil {
		t.Fatalf("assign after cancel and complete: %v", err)
	}
}
