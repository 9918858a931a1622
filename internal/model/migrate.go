package model

import "gorm.io/gorm"

// AutoMigrate выполняет миграцию всех сущностей ядра.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Organization{},
		&AvailabilityWindow{},
		&StaffMember{},
		&Service{},
		&StaffService{},
		&Appointment{},
		&AppointmentLine{},
		&Wallet{},
		&Transaction{},
		&Product{},
		&Order{},
		&OrderItem{},
	)
}
