package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/apperr"
	"github.com/Leganyst/salon-platform/internal/lock"
	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/notify"
	"github.com/Leganyst/salon-platform/internal/repository"
)

// AppointmentService — машина состояний записи и её строк услуг.
// PENDING → INCHAIR → COMPLETED; CANCELLED достижим из PENDING и INCHAIR.
// Переходы защищены оптимистичной версией: проигравший гонку получает
// Conflict и повторяет read-modify-write.
type AppointmentService struct {
	db        *gorm.DB
	locker    lock.Locker
	apptRepo  repository.AppointmentRepository
	staffRepo repository.StaffRepository
	ledger    *LedgerService
	notifier  notify.Notifier
	logger    *logrus.Logger
}

func NewAppointmentService(
	db *gorm.DB,
	locker lock.Locker,
	apptRepo repository.AppointmentRepository,
	staffRepo repository.StaffRepository,
	ledger *LedgerService,
	notifier notify.Notifier,
	logger *logrus.Logger,
) *AppointmentService {
	return &AppointmentService{
		db:        db,
		locker:    locker,
		apptRepo:  apptRepo,
		staffRepo: staffRepo,
		ledger:    ledger,
		notifier:  notifier,
		logger:    logger,
	}
}

// StartLine — мастер начинает строку услуги: выставляет StartedAt и StaffID,
// побочно переводит родительскую запись в INCHAIR. Первый стартовавший
// мастер фиксируется в легаси-поле BarberID.
func (s *AppointmentService) StartLine(ctx context.Context, orgID uuid.UUID, lineID, staffID string, at time.Time) (*model.AppointmentLine, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	line, err := s.loadLine(ctx, orgID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Appointment.Status.Terminal() {
		return nil, apperr.TerminalState("appointment is in a terminal state")
	}
	if line.StartedAt != nil {
		return nil, apperr.AlreadyStarted("service line already started")
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("staff member not found")
		}
		return nil, err
	}
	if staff.OrganizationID != orgID {
		return nil, apperr.NotFound("staff member not found")
	}

	busy, err := s.staffRepo.HasOpenLine(ctx, staff.ID)
	if err != nil {
		return nil, err
	}
	if busy {
		return nil, apperr.Conflict("staff member has an unfinished service line")
	}

	becameInChair := false
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.AppointmentLine{}).
			Where("id = ? AND version = ?", line.ID, line.Version).
			Updates(map[string]any{
				"started_at": at,
				"staff_id":   staff.ID,
				"version":    gorm.Expr("version + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.Conflict("service line was modified concurrently")
		}

		if line.Appointment.Status == model.AppointmentStatusPending {
			res = tx.Model(&model.Appointment{}).
				Where("id = ? AND version = ? AND status = ?",
					line.AppointmentID, line.Appointment.Version, model.AppointmentStatusPending).
				Updates(map[string]any{
					"status":    model.AppointmentStatusInChair,
					"barber_id": staff.ID,
					"version":   gorm.Expr("version + 1"),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Conflict("appointment was modified concurrently")
			}
			becameInChair = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if becameInChair {
		// Fire-and-forget: сбой доставки не откатывает переход.
		s.notifier.Publish(ctx, notify.Event{
			Type:           notify.EventAppointmentInChair,
			OrganizationID: orgID.String(),
			AppointmentID:  line.AppointmentID.String(),
			OrderNumber:    line.Appointment.OrderNumber,
			OccurredAt:     at,
		})
	}

	return s.apptRepo.GetLine(ctx, lineID)
}

// CompleteLine — завершение строки услуги. Когда завершены все строки,
// запись переходит в COMPLETED и в той же транзакции БД выполняется
// проводка в Ledger; неудачная проводка откатывает и завершение.
func (s *AppointmentService) CompleteLine(ctx context.Context, orgID uuid.UUID, lineID string, at time.Time) (*model.Appointment, error) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	line, err := s.loadLine(ctx, orgID, lineID)
	if err != nil {
		return nil, err
	}
	if line.Appointment.Status.Terminal() {
		return nil, apperr.TerminalState("appointment is in a terminal state")
	}
	if line.StartedAt == nil {
		return nil, apperr.InvalidTransition("service line has not been started")
	}
	if line.EndedAt != nil {
		return nil, apperr.InvalidTransition("service line already completed")
	}
	if at.Before(*line.StartedAt) {
		return nil, apperr.Validation("end time is before start time")
	}

	completed := false
	// Замок кошелька: завершение последней строки делает проводку.
	err = s.locker.WithLock(ctx, "wallet:"+orgID.String(), func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&model.AppointmentLine{}).
				Where("id = ? AND version = ?", line.ID, line.Version).
				Updates(map[string]any{
					"ended_at": at,
					"version":  gorm.Expr("version + 1"),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Conflict("service line was modified concurrently")
			}

			// Перечитываем все строки уже внутри транзакции.
			var lines []model.AppointmentLine
			if err := tx.Where("appointment_id = ?", line.AppointmentID).Find(&lines).Error; err != nil {
				return err
			}
			for _, l := range lines {
				if l.EndedAt == nil {
					return nil // ещё есть незавершённые строки
				}
			}

			res = tx.Model(&model.Appointment{}).
				Where("id = ? AND version = ? AND status = ?",
					line.AppointmentID, line.Appointment.Version, model.AppointmentStatusInChair).
				Updates(map[string]any{
					"status":  model.AppointmentStatusCompleted,
					"version": gorm.Expr("version + 1"),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return apperr.Conflict("appointment was modified concurrently")
			}

			total := decimal.Zero
			for _, l := range lines {
				total = total.Add(l.Price)
			}

			refID := line.AppointmentID
			if _, err := s.ledger.PostTx(ctx, tx, orgID,
				model.TransactionTypeAppointment, total,
				fmt.Sprintf("appointment #%d", line.Appointment.OrderNumber),
				at, &refID,
			); err != nil {
				return fmt.Errorf("post appointment transaction: %w", err)
			}

			completed = true
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.notifier.Publish(ctx, notify.Event{
			Type:           notify.EventAppointmentCompleted,
			OrganizationID: orgID.String(),
			AppointmentID:  line.AppointmentID.String(),
			OrderNumber:    line.Appointment.OrderNumber,
			OccurredAt:     at,
		})
		s.logger.WithFields(logrus.Fields{
			"module":         "appointment",
			"appointment_id": line.AppointmentID.String(),
		}).Info("appointment completed")
	}

	return s.apptRepo.GetByID(ctx, line.AppointmentID.String())
}

// Cancel — отмена записи. Разрешена только из PENDING/INCHAIR и только
// пока ни одна строка не завершена; действует немедленно и освобождает
// ёмкость для последующих расчётов планировщика.
func (s *AppointmentService) Cancel(ctx context.Context, orgID uuid.UUID, appointmentID string) (*model.Appointment, error) {
	appt, err := s.apptRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("appointment not found")
		}
		return nil, err
	}
	if appt.OrganizationID != orgID {
		return nil, apperr.NotFound("appointment not found")
	}
	if appt.Status.Terminal() {
		return nil, apperr.TerminalState("appointment is in a terminal state")
	}
	for _, l := range appt.Lines {
		if l.EndedAt != nil {
			return nil, apperr.InvalidTransition("appointment has completed service lines")
		}
	}

	res := s.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Where("id = ? AND version = ? AND status IN ?",
			appt.ID, appt.Version,
			[]model.AppointmentStatus{model.AppointmentStatusPending, model.AppointmentStatusInChair}).
		Updates(map[string]any{
			"status":  model.AppointmentStatusCancelled,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("appointment was modified concurrently")
	}

	s.notifier.Publish(ctx, notify.Event{
		Type:           notify.EventAppointmentCancelled,
		OrganizationID: orgID.String(),
		AppointmentID:  appt.ID.String(),
		OrderNumber:    appt.OrderNumber,
		OccurredAt:     time.Now().UTC(),
	})

	return s.apptRepo.GetByID(ctx, appointmentID)
}

func (s *AppointmentService) loadLine(ctx context.Context, orgID uuid.UUID, lineID string) (*model.AppointmentLine, error) {
	line, err := s.apptRepo.GetLine(ctx, lineID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("service line not found")
		}
		return nil, err
	}
	if line.Appointment == nil || line.Appointment.OrganizationID != orgID {
		return nil, apperr.NotFound("service line not found")
	}
	return line, nil
}
