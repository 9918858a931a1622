package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// services — позиция каталога услуг.
// Длительность — диапазон: реальное время работы зависит от клиента.
// Планировщик использует DurationMax как консервативную оценку,
// фактическое время (start→end) — для пересчёта живой очереди.
type Service struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	Name        string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`

	// В минутах.
	DurationMin int64 `gorm:"not null"`
	DurationMax int64 `gorm:"not null"`

	Price decimal.Decimal `gorm:"type:decimal(20,2);not null"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Staff []StaffMember `gorm:"many2many:staff_services;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}
