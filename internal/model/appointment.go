package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusInChair   AppointmentStatus = "inchair"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Terminal сообщает, является ли статус терминальным.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusCancelled
}

// ParseAppointmentStatus конвертирует произвольную строку с границы
// в закрытое множество статусов.
func ParseAppointmentStatus(raw string) (AppointmentStatus, bool) {
	switch AppointmentStatus(raw) {
	case AppointmentStatusPending, AppointmentStatusInChair,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return AppointmentStatus(raw), true
	}
	return "", false
}

// appointments — запись (бронь или walk-in) в очереди организации на день.
// PENDING-записи не истекают автоматически: висят до отмены или старта.
type Appointment struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	// День записи (без времени).
	Date datatypes.Date `gorm:"type:date;not null;index"`

	// Минута дня (дробная) — начальная оценка старта.
	// Записывается один раз при планировании и дальше не переписывается;
	// живая очередь пересчитывается на чтении.
	EstimatedTime float64 `gorm:"not null"`

	// Дневной талон очереди: per организация per день, с 1.
	OrderNumber int `gorm:"not null"`

	Status AppointmentStatus `gorm:"type:varchar(32);not null;index"`

	// Легаси-поле единственного мастера на запись: выставляется мастером,
	// начавшим первую услугу. Корректность читает только line-level StaffID.
	BarberID *uuid.UUID `gorm:"type:uuid;index"`

	CustomerName  string `gorm:"type:varchar(255)"`
	CustomerPhone string `gorm:"type:varchar(32)"`

	// Версия для оптимистичных блокировок переходов.
	Version int64 `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Barber       *StaffMember  `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	Lines []AppointmentLine `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// appointment_lines — одна услуга внутри записи.
// Мультисервисная запись может выполняться разными мастерами
// последовательно или параллельно, поэтому у каждой строки свои
// start/end и свой мастер.
type AppointmentLine struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	AppointmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID     uuid.UUID `gorm:"type:uuid;not null;index"`

	StaffID *uuid.UUID `gorm:"type:uuid;index"`

	StartedAt *time.Time `gorm:"type:timestamp with time zone"`
	EndedAt   *time.Time `gorm:"type:timestamp with time zone"`

	// Снимок цены услуги на момент создания записи.
	Price decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	Version int64 `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Appointment *Appointment `gorm:"foreignKey:AppointmentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Service     *Service     `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Staff       *StaffMember `gorm:"foreignKey:StaffID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// Open — строка начата, но не завершена.
func (l *AppointmentLine) Open() bool {
	return l.StartedAt != nil && l.EndedAt == nil
}
