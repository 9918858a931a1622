package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Leganyst/salon-platform/internal/apperr"
)

func TestCreateStaff_LinksCapabilities(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	haircutID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	colorID := seedService(t, env.db, orgID, "coloring", 60, "80.00")

	member, err := env.staff.CreateStaff(context.Background(), orgID, "alice",
		[]uuid.UUID{haircutID, colorID})
	if err != nil {
		t.Fatalf("create staff: %v", err)
	}
	if !member.IsActive {
		t.Fatalf("new staff must be active")
	}

	capable, err := env.staff.ListCapable(context.Background(), orgID, colorID)
	if err != nil {
		t.Fatalf("list capable: %v", err)
	}
	if len(capable) != 1 || capable[0].ID != member.ID {
		t.Fatalf("capable = %v, want the new member", capable)
	}
}

func TestCreateStaff_ForeignServiceRejected(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	otherOrgID := seedOrg(t, env.db)
	foreignSvcID := seedService(t, env.db, otherOrgID, "haircut", 30, "25.00")

	_, err := env.staff.CreateStaff(context.Background(), orgID, "alice",
		[]uuid.UUID{foreignSvcID})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}

	_, err = env.staff.CreateStaff(context.Background(), orgID, "", nil)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty name: err = %v, want Validation", err)
	}
}

func TestListCapable_FiltersByServiceAndActivity(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	haircutID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	colorID := seedService(t, env.db, orgID, "coloring", 60, "80.00")
	aliceID := seedStaff(t, env.db, orgID, "alice", haircutID, colorID)
	seedStaff(t, env.db, orgID, "bob", haircutID)

	capable, err := env.staff.ListCapable(context.Background(), orgID, colorID)
	if err != nil {
		t.Fatalf("list capable: %v", err)
	}
	if len(capable) != 1 || capable[0].ID != aliceID {
		t.Fatalf("capable = %v, want only alice", capable)
	}

	// Деактивированный мастер выпадает из выборки.
	if err := env.db.Table("staff_members").
		Where("id = ?", aliceID.String()).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate alice: %v", err)
	}
	capable, err = env.staff.ListCapable(context.Background(), orgID, colorID)
	if err != nil {
		t.Fatalf("list capable: %v", err)
	}
	if len(capable) != 0 {
		t.Fatalf("capable = %d, want 0", len(capable))
	}
}

func TestAssignLine_SetsStaff(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	staffID := seedStaff(t, env.db, orgID, "alice", svcID)

	appt := mustSchedule(t, env, orgID, svcID)

	line, err := env.staff.AssignLine(context.Background(), orgID,
		appt.Lines[0].ID.String(), staffID.String())
	if err != nil {
		t.Fatalf("assign line: %v", err)
	}
	if line.StaffID == nil || *line.StaffID != staffID {
		t.Fatalf("staff_id = %v, want %s", line.StaffID, staffID)
	}
	if line.StartedAt != nil {
		t.Fatalf("assignment must not start the line")
	}
}

func TestAssignLine_BusyStaffConflict(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	staffID := seedStaff(t, env.db, orgID, "alice", svcID)

	first := mustSchedule(t, env, orgID, svcID)
	second := mustSchedule(t, env, orgID, svcID)

	if _, err := env.appointments.StartLine(context.Background(), orgID,
		first.Lines[0].ID.String(), staffID.String(), testDate); err != nil {
		t.Fatalf("start line: %v", err)
	}

	_, err := env.staff.AssignLine(context.Background(), orgID,
		second.Lines[0].ID.String(), staffID.String())
	if !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("err = %v, want Conflict", err)
	}
}

func TestAssignLine_WrongOrganization(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	otherOrgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	staffID := seedStaff(t, env.db, orgID, "alice", svcID)

	appt := mustSchedule(t, env, orgID, svcID)

	_, err := env.staff.AssignLine(context.Background(), otherOrgID,
		appt.Lines[0].ID.String(), staffID.String())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}
