package model

import (
	"time"

	"github.com/google/uuid"
)

// Organization — корень тенанта. Владеет окном доступности, персоналом,
// кошельком и всеми записями/заказами. Идентичность неизменна после создания.
type Organization struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Name string `gorm:"type:varchar(255);not null"`

	// Валюта по умолчанию для кошелька организации (код ISO 4217).
	Currency string `gorm:"type:varchar(8);not null;default:'USD'"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	// Навигационные поля (опционально, удобно для Preload).
	Window *AvailabilityWindow `gorm:"foreignKey:OrganizationID"`
	Wallet *Wallet             `gorm:"foreignKey:OrganizationID"`
	Staff  []StaffMember       `gorm:"foreignKey:OrganizationID"`
}
