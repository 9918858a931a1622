package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/apperr"
	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/repository"
)

// CatalogService — каталог организации: услуги и товары.
type CatalogService struct {
	db          *gorm.DB
	serviceRepo repository.ServiceRepository
	productRepo repository.ProductRepository
}

func NewCatalogService(
	db *gorm.DB,
	serviceRepo repository.ServiceRepository,
	productRepo repository.ProductRepository,
) *CatalogService {
	return &CatalogService{
		db:          db,
		serviceRepo: serviceRepo,
		productRepo: productRepo,
	}
}

// ListServices — каталог услуг организации с пагинацией.
func (s *CatalogService) ListServices(ctx context.Context, orgID uuid.UUID, onlyActive bool, limit, offset int) ([]model.Service, int64, error) {
	return s.serviceRepo.List(ctx, orgID, onlyActive, limit, offset)
}

// GetService возвращает услугу организации.
func (s *CatalogService) GetService(ctx context.Context, orgID uuid.UUID, serviceID string) (*model.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, err
	}
	if svc.OrganizationID != orgID {
		return nil, apperr.NotFound("service not found")
	}
	return svc, nil
}

// ServiceInput — заявка на создание услуги.
type ServiceInput struct {
	Name        string
	Description string
	DurationMin int64
	DurationMax int64
	Price       decimal.Decimal
}

// CreateService добавляет услугу в каталог.
// Инвариант каталога: 0 < durationMin <= durationMax, цена не отрицательна.
func (s *CatalogService) CreateService(ctx context.Context, orgID uuid.UUID, input ServiceInput) (*model.Service, error) {
	if input.Name == "" {
		return nil, apperr.Validation("service name is required")
	}
	if input.DurationMin <= 0 || input.DurationMax < input.DurationMin {
		return nil, apperr.Validation("service duration range is invalid")
	}
	if input.Price.IsNegative() {
		return nil, apperr.Validation("service price must not be negative")
	}

	svc := &model.Service{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           input.Name,
		Description:    input.Description,
		DurationMin:    input.DurationMin,
		DurationMax:    input.DurationMax,
		Price:          input.Price,
		IsActive:       true,
	}
	if err := s.serviceRepo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// ProductInput — заявка на создание товара.
type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int64
}

// CreateProduct добавляет товар на склад.
func (s *CatalogService) CreateProduct(ctx context.Context, orgID uuid.UUID, input ProductInput) (*model.Product, error) {
	if input.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if input.Price.IsNegative() {
		return nil, apperr.Validation("product price must not be negative")
	}
	if input.Stock < 0 {
		return nil, apperr.Validation("product stock must not be negative")
	}

	p := &model.Product{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           input.Name,
		Price:          input.Price,
		Stock:          input.Stock,
		IsActive:       true,
	}
	if err := s.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct возвращает товар организации.
func (s *CatalogService) GetProduct(ctx context.Context, orgID uuid.UUID, productID string) (*model.Product, error) {
	p, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	if p.OrganizationID != orgID {
		return nil, apperr.NotFound("product not found")
	}
	return p, nil
}
