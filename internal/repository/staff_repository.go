package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/model"
)

type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*model.StaffMember, error)
	// Активные мастера организации, умеющие выполнять услугу.
	ListCapable(ctx context.Context, orgID, serviceID uuid.UUID) ([]model.StaffMember, error)
	// Количество способных мастеров — эффективный параллелизм одной услуги.
	CountCapable(ctx context.Context, orgID, serviceID uuid.UUID) (int64, error)
	// Есть ли у мастера открытая (начатая и не завершённая) строка услуги.
	// Строки отменённых записей не считаются: отмена освобождает мастера.
	HasOpenLine(ctx context.Context, staffID uuid.UUID) (bool, error)
}

type GormStaffRepository struct {
	db *gorm.DB
}

func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

func (r *GormStaffRepository) GetByID(ctx context.Context, id string) (*model.StaffMember, error) {
	var s model.StaffMember
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormStaffRepository) ListCapable(ctx context.Context, orgID, serviceID uuid.UUID) ([]model.StaffMember, error) {
	var staff []model.StaffMember
	err := r.db.WithContext(ctx).
		Table("staff_members").
		Select("staff_members.*").
		Joins("JOIN staff_services ON staff_services.staff_member_id = staff_members.id").
		Where("staff_members.organization_id = ?", orgID).
		Where("staff_members.is_active = ?", true).
		Where("staff_services.service_id = ?", serviceID).
		Order("staff_members.display_name ASC").
		Scan(&staff).Error
	if err != nil {
		return nil, err
	}
	return staff, nil
}

func (r *GormStaffRepository) CountCapable(ctx context.Context, orgID, serviceID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("staff_members").
		Joins("JOIN staff_services ON staff_services.staff_member_id = staff_members.id").
		Where("staff_members.organization_id = ?", orgID).
		Where("staff_members.is_active = ?", true).
		Where("staff_services.service_id = ?", serviceID).
		Count(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormStaffRepository) HasOpenLine(ctx context.Context, staffID uuid.UUID) (bool, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Table("appointment_lines").
		Joins("JOIN appointments ON appointments.id = appointment_lines.appointment_id").
		Where("appointment_lines.staff_id = ?", staffID).
		Where("appointment_lines.started_at IS NOT NULL").
		Where("appointment_lines.ended_at IS NULL").
		Where("appointments.status <> ?", model.AppointmentStatusCancelled).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}
