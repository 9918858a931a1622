package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/apperr"
	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/repository"
)

// StaffDirectory — справочник мастеров и назначение строк услуг.
type StaffDirectory struct {
	db          *gorm.DB
	staffRepo   repository.StaffRepository
	apptRepo    repository.AppointmentRepository
	serviceRepo repository.ServiceRepository
}

func NewStaffDirectory(
	db *gorm.DB,
	staffRepo repository.StaffRepository,
	apptRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
) *StaffDirectory {
	return &StaffDirectory{
		db:          db,
		staffRepo:   staffRepo,
		apptRepo:    apptRepo,
		serviceRepo: serviceRepo,
	}
}

// CreateStaff заводит мастера и его набор умений одной транзакцией.
// Все услуги из capabilities должны принадлежать организации.
func (s *StaffDirectory) CreateStaff(ctx context.Context, orgID uuid.UUID, displayName string, capabilities []uuid.UUID) (*model.StaffMember, error) {
	if displayName == "" {
		return nil, apperr.Validation("staff display name is required")
	}

	if len(capabilities) > 0 {
		services, err := s.serviceRepo.ListByIDs(ctx, capabilities)
		if err != nil {
			return nil, err
		}
		if len(services) != len(capabilities) {
			return nil, apperr.NotFound("one or more services not found")
		}
		for _, svc := range services {
			if svc.OrganizationID != orgID {
				return nil, apperr.NotFound("one or more services not found")
			}
		}
	}

	member := &model.StaffMember{
		ID:             uuid.New(),
		OrganizationID: orgID,
		DisplayName:    displayName,
		IsActive:       true,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		for _, serviceID := range capabilities {
			link := &model.StaffService{StaffMemberID: member.ID, ServiceID: serviceID}
			if err := tx.Create(link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

// ListCapable — активные мастера организации, умеющие выполнять услугу.
func (s *StaffDirectory) ListCapable(ctx context.Context, orgID, serviceID uuid.UUID) ([]model.StaffMember, error) {
	return s.staffRepo.ListCapable(ctx, orgID, serviceID)
}

// AssignLine назначает мастера на строку услуги.
// Walk-in семантика пересечения: у открытой строки нет заявленного конца,
// поэтому любая незавершённая строка мастера блокирует новое назначение.
func (s *StaffDirectory) AssignLine(ctx context.Context, orgID uuid.UUID, lineID, staffID string) (*model.AppointmentLine, error) {
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
	if line.Appointment.Status.Terminal() {
		return nil, apperr.TerminalState("appointment is in a terminal state")
	}
	if line.EndedAt != nil {
		return nil, apperr.InvalidTransition("service line already finished")
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

	// Оптимистичная проверка версии: проигравший гонку получает Conflict.
	res := s.db.WithContext(ctx).
		Model(&model.AppointmentLine{}).
		Where("id = ? AND version = ?", line.ID, line.Version).
		Updates(map[string]any{
			"staff_id": staff.ID,
			"version":  gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("service line was modified concurrently")
	}

	return s.apptRepo.GetLine(ctx, lineID)
}
