package schedule

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrNoLanes          = errors.New("schedule: parallelism must be positive")
	ErrInvalidWindow    = errors.New("schedule: closing must be after opening")
	ErrNegativeDuration = errors.New("schedule: duration must be positive")
)

// MinuteOfDay возвращает дробную минуту дня для момента t.
func MinuteOfDay(t time.Time) float64 {
	return float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60.0
}

// DayOf нормализует момент времени в дату (полночь UTC).
func DayOf(t time.Time) datatypes.Date {
	y, m, d := t.UTC().Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// WeekdayOf — день недели для даты.
func WeekdayOf(d datatypes.Date) time.Weekday {
	return time.Time(d).Weekday()
}

// Load — вклад одной записи в загрузку очереди, в минутах.
type Load struct {
	AppointmentID uuid.UUID
	Minutes       float64
}

// LaneLoads раскладывает упорядоченную очередь по p параллельным дорожкам:
// каждая запись уходит в наименее загруженную дорожку, при равенстве —
// в дорожку с меньшим индексом (порядок прихода никогда не нарушается).
// Возвращает итоговые загрузки дорожек в минутах.
func LaneLoads(queue []Load, p int) ([]float64, error) {
	if p <= 0 {
		return nil, ErrNoLanes
	}

	lanes := make([]float64, p)
	for _, entry := range queue {
		if entry.Minutes < 0 {
			return nil, ErrNegativeDuration
		}
		lanes[leastLoaded(lanes)] += entry.Minutes
	}
	return lanes, nil
}

// NextEstimate — минута дня, на которую встанет следующая запись:
// открытие плюс загрузка наименее занятой дорожки.
func NextEstimate(openingMinute int, lanes []float64) float64 {
	if len(lanes) == 0 {
		return float64(openingMinute)
	}
	return float64(openingMinute) + lanes[leastLoaded(lanes)]
}

// Fits проверяет, что запись длительностью durationMax минут, начатая
// в estimate, целиком помещается до закрытия. Переполнение за закрытие
// не бронируется.
func Fits(estimate, durationMax float64, closingMinute int) bool {
	return estimate+durationMax <= float64(closingMinute)
}

// ProjectedEntry — позиция записи в живой проекции очереди.
type ProjectedEntry struct {
	AppointmentID uuid.UUID
	OrderNumber   int
	// Пересчитанная минута дня старта. Персистентная оценка записи
	// при этом не переписывается — см. политику ленивого пересчёта.
	ProjectedStart float64
	Minutes        float64
}

// Project строит живую проекцию очереди: записи в порядке прихода
// раскладываются по дорожкам, каждой приписывается пересчитанный старт.
// Вызывающий подставляет в Load.Minutes фактическое время завершённых
// строк и консервативный максимум для остальных.
func Project(queue []Load, orderNumbers map[uuid.UUID]int, openingMinute int, p int) ([]ProjectedEntry, error) {
	if p <= 0 {
		return nil, ErrNoLanes
	}

	lanes := make([]float64, p)
	result := make([]ProjectedEntry, 0, len(queue))
	for _, entry := range queue {
		if entry.Minutes < 0 {
			return nil, ErrNegativeDuration
		}
		lane := leastLoaded(lanes)
		result = append(result, ProjectedEntry{
			AppointmentID:  entry.AppointmentID,
			OrderNumber:    orderNumbers[entry.AppointmentID],
			ProjectedStart: float64(openingMinute) + lanes[lane],
			Minutes:        entry.Minutes,
		})
		lanes[lane] += entry.Minutes
	}
	return result, nil
}

func leastLoaded(lanes []float64) int {
	best := 0
	for i := 1; i < len(lanes); i++ {
		if lanes[i] < lanes[best] {
			best = i
		}
	}
	return best
}
