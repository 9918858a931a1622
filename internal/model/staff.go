package model

import (
	"time"

	"github.com/google/uuid"
)

// staff_members — мастер, принадлежит ровно одной организации.
// Набор услуг, которые мастер умеет выполнять, — many2many через staff_services.
type StaffMember struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index"`

	DisplayName string `gorm:"type:varchar(255);not null"`
	Description string `gorm:"type:text"`

	IsActive bool `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"not null;default:now()"`
	UpdatedAt time.Time `gorm:"not null;default:now()"`

	Organization *Organization `gorm:"foreignKey:OrganizationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Services []Service `gorm:"many2many:staff_services;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// staff_services — кастомная join-таблица многие-ко-многим.
type StaffService struct {
	StaffMemberID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ServiceID     uuid.UUID `gorm:"type:uuid;primaryKey"`

	CreatedAt time.Time `gorm:"not null;default:now()"`

	StaffMember *StaffMember `gorm:"foreignKey:StaffMemberID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Service     *Service     `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}
