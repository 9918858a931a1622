package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/apperr"
	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/repository"
)

// AvailabilityService — недельное окно работы организации.
type AvailabilityService struct {
	db        *gorm.DB
	availRepo repository.AvailabilityRepository
	orgRepo   repository.OrganizationRepository
}

func NewAvailabilityService(
	db *gorm.DB,
	availRepo repository.AvailabilityRepository,
	orgRepo repository.OrganizationRepository,
) *AvailabilityService {
	return &AvailabilityService{
		db:        db,
		availRepo: availRepo,
		orgRepo:   orgRepo,
	}
}

// Window возвращает окно организации, лениво создавая дефолтное
// (08:00–18:00, все дни открыты) при первом чтении.
func (s *AvailabilityService) Window(ctx context.Context, orgID uuid.UUID) (*model.AvailabilityWindow, error) {
	w, err := s.availRepo.GetByOrg(ctx, orgID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if _, err := s.orgRepo.GetByID(ctx, orgID.String()); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("organization not found")
		}
		return nil, err
	}

	w = &model.AvailabilityWindow{
		ID:             uuid.New(),
		OrganizationID: orgID,
		OpeningMinute:  model.DefaultOpeningMinute,
		ClosingMinute:  model.DefaultClosingMinute,
		Monday:         true,
		Tuesday:        true,
		Wednesday:      true,
		Thursday:       true,
		Friday:         true,
		Saturday:       true,
		Sunday:         true,
	}
	if err := s.availRepo.Create(ctx, w); err != nil {
		// Гонка двух первых чтений: окно уже создано — перечитываем.
		if existing, getErr := s.availRepo.GetByOrg(ctx, orgID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return w, nil
}

// WindowPatch — частичное обновление окна; nil-поля не трогаются.
type WindowPatch struct {
	OpeningMinute *int
	ClosingMinute *int
	Days          map[time.Weekday]*bool
}

// SetWindow применяет patch с валидацией: closing > opening, минуты в сутках.
func (s *AvailabilityService) SetWindow(ctx context.Context, orgID uuid.UUID, patch WindowPatch) (*model.AvailabilityWindow, error) {
	w, err := s.Window(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if patch.OpeningMinute != nil {
		w.OpeningMinute = *patch.OpeningMinute
	}
	if patch.ClosingMinute != nil {
		w.ClosingMinute = *patch.ClosingMinute
	}
	for day, open := range patch.Days {
		if open != nil {
			w.SetOpenOn(day, *open)
		}
	}

	if w.OpeningMinute < 0 || w.ClosingMinute > 24*60 {
		return nil, apperr.Validation("window minutes must be within a day")
	}
	if w.ClosingMinute <= w.OpeningMinute {
		return nil, apperr.Validation("closing time must be after opening time")
	}

	if err := s.availRepo.Update(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}
