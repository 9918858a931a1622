package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/model"
)

type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (*model.Organization, error)
	Create(ctx context.Context, org *model.Organization) error
}

type GormOrganizationRepository struct {
	db *gorm.DB
}

func NewGormOrganizationRepository(db *gorm.DB) *GormOrganizationRepository {
	return &GormOrganizationRepository{db: db}
}

func (r *GormOrganizationRepository) GetByID(ctx context.Context, id string) (*model.Organization, error) {
	var org model.Organization
	if err := r.db.WithContext(ctx).First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

func (r *GormOrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}
