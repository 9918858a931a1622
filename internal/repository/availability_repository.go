package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/model"
)

type AvailabilityRepository interface {
	// Окно организации; gorm.ErrRecordNotFound, если ещё не создано.
	GetByOrg(ctx context.Context, orgID uuid.UUID) (*model.AvailabilityWindow, error)
	Create(ctx context.Context, window *model.AvailabilityWindow) error
	Update(ctx context.Context, window *model.AvailabilityWindow) error
}

type GormAvailabilityRepository struct {
	db *gorm.DB
}

func NewGormAvailabilityRepository(db *gorm.DB) *GormAvailabilityRepository {
	return &GormAvailabilityRepository{db: db}
}

func (r *GormAvailabilityRepository) GetByOrg(ctx context.Context, orgID uuid.UUID) (*model.AvailabilityWindow, error) {
	var w model.AvailabilityWindow
	if err := r.db.WithContext(ctx).First(&w, "organization_id = ?", orgID).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *GormAvailabilityRepository) Create(ctx context.Context, window *model.AvailabilityWindow) error {
	return r.db.WithContext(ctx).Create(window).Error
}

func (r *GormAvailabilityRepository) Update(ctx context.Context, window *model.AvailabilityWindow) error {
	return r.db.WithContext(ctx).
		Model(&model.AvailabilityWindow{}).
		Where("id = ?", window.ID).
		Updates(map[string]any{
			"opening_minute": window.OpeningMinute,
			"closing_minute": window.ClosingMinute,
			"monday":         window.Monday,
			"tuesday":        window.Tuesday,
			"wednesday":      window.Wednesday,
			"thursday":       window.Thursday,
			"friday":         window.Friday,
			"saturday":       window.Saturday,
			"sunday":         window.Sunday,
		}).Error
}
