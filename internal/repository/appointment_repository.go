package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/model"
)

type AppointmentRepository interface {
	// Создать запись вместе со строками услуг.
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	GetLine(ctx context.Context, id string) (*model.AppointmentLine, error)
	// Очередь организации на день: estimated_time asc, при равенстве —
	// порядок прихода. excludeCancelled исключает отменённые.
	ListDay(ctx context.Context, orgID uuid.UUID, date datatypes.Date, excludeCancelled bool) ([]model.Appointment, error)
	// Максимальный выданный талон за день; 0, если записей нет.
	MaxOrderNumber(ctx context.Context, orgID uuid.UUID, date datatypes.Date) (int, error)
}

type GormAppointmentRepository struct {
	db *gorm.DB
}

func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

func (r *GormAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	return r.db.WithContext(ctx).Create(appt).Error
}

func (r *GormAppointmentRepository) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	var a model.Appointment
	err := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Service").
		First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormAppointmentRepository) GetLine(ctx context.Context, id string) (*model.AppointmentLine, error) {
	var l model.AppointmentLine
	err := r.db.WithContext(ctx).
		Preload("Appointment").
		Preload("Service").
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *GormAppointmentRepository) ListDay(
	ctx context.Context,
	orgID uuid.UUID,
	date datatypes.Date,
	excludeCancelled bool,
) ([]model.Appointment, error) {
	q := r.db.WithContext(ctx).
		Preload("Lines").
		Preload("Lines.Service").
		Where("organization_id = ?", orgID).
		Where("date = ?", date)

	if excludeCancelled {
		q = q.Where("status <> ?", model.AppointmentStatusCancelled)
	}

	var appts []model.Appointment
	if err := q.Order("estimated_time ASC, created_at ASC").Find(&appts).Error; err != nil {
		return nil, err
	}
	return appts, nil
}

func (r *GormAppointmentRepository) MaxOrderNumber(ctx context.Context, orgID uuid.UUID, date datatypes.Date) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&model.Appointment{}).
		Select("MAX(order_number)").
		Where("organization_id = ?", orgID).
		Where("date = ?", date).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}
