package model

import (
	"time"

	"github.com/google/uuid"
)

// Минуты по умолчанию: 08:00–18:00.
const (
	DefaultOpeningMinute = 8 * 60
	DefaultClosingMinute = 18 * 60
)

// availability_windows — недельное окно работы организации.
// Ровно одно на организацию; создаётся лениво с дефолтами при первом чтении.
// Инвариант: ClosingMinute > OpeningMinute, если хотя бы один день открыт.
type AvailabilityWindow struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`

	// Минута дня открытия/закрытия (0..1440).
	OpeningMinute int `gorm:"not null;default:480"`
	ClosingMinute int `gorm:"not null;default:1080"`

	// Флаги открытия по дням недели.
	Monday    bool `gorm:"not null;default:true"`
	Tuesday   bool `gorm:"not null;default:true"`
	Wednesday bool `gorm:"not null;default:true"`
	Thursday  bool `gorm:"not null;default:true"`
	Friday    bool `gorm:"not null;default:true"`
	Saturday  bool `gorm:"not null;default:true"`
	Sunday    bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// OpenOn сообщает, открыта ли организация в указанный день недели.
func (w *AvailabilityWindow) OpenOn(day time.Weekday) bool {
	switch day {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// SetOpenOn выставляет флаг открытия для дня недели.
func (w *AvailabilityWindow) SetOpenOn(day time.Weekday, open bool) {
	switch day {
	case time.Monday:
		w.Monday = open
	case time.Tuesday:
		w.Tuesday = open
	case time.Wednesday:
		w.Wednesday = open
	case time.Thursday:
		w.Thursday = open
	case time.Friday:
		w.Friday = open
	case time.Saturday:
		w.Saturday = open
	default:
		w.Sunday = open
	}
}
