package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/apperr"
	"github.com/Leganyst/salon-platform/internal/lock"
	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/repository"
	"github.com/Leganyst/salon-platform/internal/schedule"
)

// SchedulingService — планировщик очереди: оценка старта и выдача талона
// для броней и walk-in, стоящих в одной очереди организации.
type SchedulingService struct {
	db           *gorm.DB
	locker       lock.Locker
	apptRepo     repository.AppointmentRepository
	serviceRepo  repository.ServiceRepository
	staffRepo    repository.StaffRepository
	availability *AvailabilityService
	logger       *logrus.Logger
}

func NewSchedulingService(
	db *gorm.DB,
	locker lock.Locker,
	apptRepo repository.AppointmentRepository,
	serviceRepo repository.ServiceRepository,
	staffRepo repository.StaffRepository,
	availability *AvailabilityService,
	logger *logrus.Logger,
) *SchedulingService {
	return &SchedulingService{
		db:           db,
		locker:       locker,
		apptRepo:     apptRepo,
		serviceRepo:  serviceRepo,
		staffRepo:    staffRepo,
		availability: availability,
		logger:       logger,
	}
}

// ScheduleRequest — заявка на бронь или walk-in.
type ScheduleRequest struct {
	ServiceIDs    []uuid.UUID
	Date          time.Time
	CustomerName  string
	CustomerPhone string
}

// Schedule вычисляет оценку старта и талон и создаёт PENDING-запись.
// Выделение талона и расчёт оценки идут под замком организации:
// два конкурентных walk-in не должны видеть промежуточное состояние
// друг друга.
func (s *SchedulingService) Schedule(ctx context.Context, orgID uuid.UUID, req ScheduleRequest) (*model.Appointment, error) {
	if len(req.ServiceIDs) == 0 {
		return nil, apperr.Validation("at least one service is required")
	}
	if req.Date.IsZero() {
		return nil, apperr.Validation("date is required")
	}

	services, err := s.loadServices(ctx, orgID, req.ServiceIDs)
	if err != nil {
		return nil, err
	}

	day := schedule.DayOf(req.Date)

	window, err := s.availability.Window(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if !window.OpenOn(schedule.WeekdayOf(day)) {
		return nil, apperr.CapacityExceeded("organization is closed on the requested day")
	}

	// Эффективный параллелизм: сколько заявок такого состава может идти
	// одновременно — минимум по способным мастерам среди требуемых услуг.
	parallelism, err := s.parallelismFor(ctx, orgID, services)
	if err != nil {
		return nil, err
	}
	if parallelism == 0 {
		return nil, apperr.CapacityExceeded("no staff member can perform the requested services")
	}

	var requestedMinutes float64
	for _, svc := range services {
		requestedMinutes += float64(svc.DurationMax)
	}

	var created *model.Appointment
	err = s.locker.WithLock(ctx, "schedule:"+orgID.String(), func(ctx context.Context) error {
		existing, err := s.apptRepo.ListDay(ctx, orgID, day, true)
		if err != nil {
			return err
		}

		// Консервативная оценка: durationMax для всех, включая уже идущие.
		lanes, err := schedule.LaneLoads(conservativeLoads(existing), parallelism)
		if err != nil {
			return err
		}

		estimate := schedule.NextEstimate(window.OpeningMinute, lanes)
		if !schedule.Fits(estimate, requestedMinutes, window.ClosingMinute) {
			return apperr.CapacityExceeded("no slot available before closing time")
		}

		maxTicket, err := s.apptRepo.MaxOrderNumber(ctx, orgID, day)
		if err != nil {
			return err
		}

		appt := &model.Appointment{
			ID:             uuid.New(),
			OrganizationID: orgID,
			Date:           day,
			EstimatedTime:  estimate,
			OrderNumber:    maxTicket + 1,
			Status:         model.AppointmentStatusPending,
			CustomerName:   req.CustomerName,
			CustomerPhone:  req.CustomerPhone,
			Version:        1,
		}
		for _, svc := range services {
			appt.Lines = append(appt.Lines, model.AppointmentLine{
				ID:            uuid.New(),
				AppointmentID: appt.ID,
				ServiceID:     svc.ID,
				Price:         svc.Price,
				Version:       1,
			})
		}

		if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(appt).Error
		}); err != nil {
			return err
		}
		created = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"module":          "scheduling",
		"organization_id": orgID.String(),
		"appointment_id":  created.ID.String(),
		"order_number":    created.OrderNumber,
		"estimated_time":  created.EstimatedTime,
	}).Info("appointment scheduled")

	return created, nil
}

// QueueEntry — строка живой очереди для клиентских экранов.
type QueueEntry struct {
	AppointmentID uuid.UUID
	OrderNumber   int
	Status        model.AppointmentStatus
	CustomerName  string
	// Начальная (персистентная) оценка — не переписывается.
	EstimatedTime float64
	// Пересчитанная на чтении оценка по фактической загрузке.
	ProjectedTime float64
}

// Queue — живая проекция очереди на день. Пересчёт ленивый: выполняется
// только на чтении; для завершённых строк берётся фактическое время,
// для остальных — консервативный максимум. Персистентные оценки записей
// при этом не «исправляются».
func (s *SchedulingService) Queue(ctx context.Context, orgID uuid.UUID, date time.Time, page, pageSize int) (schedule.Page[QueueEntry], error) {
	var empty schedule.Page[QueueEntry]

	day := schedule.DayOf(date)

	window, err := s.availability.Window(ctx, orgID)
	if err != nil {
		return empty, err
	}

	appts, err := s.apptRepo.ListDay(ctx, orgID, day, true)
	if err != nil {
		return empty, err
	}

	parallelism, err := s.dayParallelism(ctx, orgID, appts)
	if err != nil {
		return empty, err
	}

	loads := make([]schedule.Load, 0, len(appts))
	tickets := make(map[uuid.UUID]int, len(appts))
	byID := make(map[uuid.UUID]*model.Appointment, len(appts))
	for i := range appts {
		appt := &appts[i]
		loads = append(loads, schedule.Load{
			AppointmentID: appt.ID,
			Minutes:       actualMinutes(appt),
		})
		tickets[appt.ID] = appt.OrderNumber
		byID[appt.ID] = appt
	}

	projected, err := schedule.Project(loads, tickets, window.OpeningMinute, parallelism)
	if err != nil {
		return empty, err
	}

	entries := make([]QueueEntry, 0, len(projected))
	for _, p := range projected {
		appt := byID[p.AppointmentID]
		entries = append(entries, QueueEntry{
			AppointmentID: appt.ID,
			OrderNumber:   appt.OrderNumber,
			Status:        appt.Status,
			CustomerName:  appt.CustomerName,
			EstimatedTime: appt.EstimatedTime,
			ProjectedTime: p.ProjectedStart,
		})
	}

	return schedule.Paginate(entries, page, pageSize), nil
}

func (s *SchedulingService) loadServices(ctx context.Context, orgID uuid.UUID, ids []uuid.UUID) ([]model.Service, error) {
	services, err := s.serviceRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(services) != len(uniqueIDs(ids)) {
		return nil, apperr.NotFound("one or more services not found")
	}
	for _, svc := range services {
		if svc.OrganizationID != orgID {
			return nil, apperr.NotFound("one or more services not found")
		}
		if !svc.IsActive {
			return nil, apperr.Validationf("service %q is not active", svc.Name)
		}
		if svc.DurationMax <= 0 {
			return nil, apperr.Validationf("service %q has no duration", svc.Name)
		}
	}
	return services, nil
}

func (s *SchedulingService) parallelismFor(ctx context.Context, orgID uuid.UUID, services []model.Service) (int, error) {
	parallelism := -1
	for _, svc := range services {
		capable, err := s.staffRepo.CountCapable(ctx, orgID, svc.ID)
		if err != nil {
			return 0, fmt.Errorf("count capable staff for %s: %w", svc.ID, err)
		}
		if parallelism < 0 || int(capable) < parallelism {
			parallelism = int(capable)
		}
	}
	if parallelism < 0 {
		parallelism = 0
	}
	return parallelism, nil
}

// dayParallelism — параллелизм живой проекции: минимум по способным
// мастерам среди услуг, встречающихся в очереди дня. Тот же расчёт, что
// и при планировании: проекция не должна быть оптимистичнее выданных
// оценок.
func (s *SchedulingService) dayParallelism(ctx context.Context, orgID uuid.UUID, appts []model.Appointment) (int, error) {
	seen := make(map[uuid.UUID]struct{})
	var services []model.Service
	for i := range appts {
		for _, line := range appts[i].Lines {
			if _, ok := seen[line.ServiceID]; ok {
				continue
			}
			seen[line.ServiceID] = struct{}{}
			services = append(services, model.Service{ID: line.ServiceID})
		}
	}

	parallelism, err := s.parallelismFor(ctx, orgID, services)
	if err != nil {
		return 0, err
	}
	if parallelism == 0 {
		parallelism = 1
	}
	return parallelism, nil
}

// conservativeLoads — вклад записей по durationMax (оценка при планировании).
func conservativeLoads(appts []model.Appointment) []schedule.Load {
	loads := make([]schedule.Load, 0, len(appts))
	for i := range appts {
		var minutes float64
		for _, line := range appts[i].Lines {
			if line.Service != nil {
				minutes += float64(line.Service.DurationMax)
			}
		}
		loads = append(loads, schedule.Load{AppointmentID: appts[i].ID, Minutes: minutes})
	}
	return loads
}

// actualMinutes — вклад записи в живую проекцию: фактическое время для
// завершённых строк, консервативный максимум для остальных.
func actualMinutes(appt *model.Appointment) float64 {
	var minutes float64
	for _, line := range appt.Lines {
		if line.StartedAt != nil && line.EndedAt != nil {
			minutes += line.EndedAt.Sub(*line.StartedAt).Minutes()
			continue
		}
		if line.Service != nil {
			minutes += float64(line.Service.DurationMax)
		}
	}
	return minutes
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	result := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}

// DayQueue — записи дня без пересчёта (для отладки и админки).
func (s *SchedulingService) DayQueue(ctx context.Context, orgID uuid.UUID, date time.Time) ([]model.Appointment, error) {
	return s.apptRepo.ListDay(ctx, orgID, schedule.DayOf(date), true)
}
