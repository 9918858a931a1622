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

// OrganizationService — бутстрап тенанта.
// Идентичность организации после создания неизменна.
type OrganizationService struct {
	orgRepo repository.OrganizationRepository
}

func NewOrganizationService(orgRepo repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgRepo: orgRepo}
}

// Create заводит организацию с валютой кошелька по умолчанию.
func (s *OrganizationService) Create(ctx context.Context, name, currency string) (*model.Organization, error) {
	if name == "" {
		return nil, apperr.Validation("organization name is required")
	}
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, apperr.Validation("currency must be a 3-letter ISO code")
	}

	org := &model.Organization{
		ID:       uuid.New(),
		Name:     name,
		Currency: currency,
	}
	if err := s.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

// Get возвращает организацию по идентификатору.
func (s *OrganizationService) Get(ctx context.Context, orgID uuid.UUID) (*model.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, orgID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("organization not found")
		}
		return nil, err
	}
	return org, nil
}
