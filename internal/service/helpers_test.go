package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Leganyst/salon-platform/internal/lock"
	"github.com/Leganyst/salon-platform/internal/model"
	"github.com/Leganyst/salon-platform/internal/notify"
	"github.com/Leganyst/salon-platform/internal/repository"
)

// Minimal schema for the query/update logic (sqlite-friendly).
var testSchema = []string{
	`CREATE TABLE organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'USD',
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE availability_windows (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL UNIQUE,
		opening_minute INTEGER NOT NULL DEFAULT 480,
		closing_minute INTEGER NOT NULL DEFAULT 1080,
		monday BOOLEAN NOT NULL DEFAULT 1,
		tuesday BOOLEAN NOT NULL DEFAULT 1,
		wednesday BOOLEAN NOT NULL DEFAULT 1,
		thursday BOOLEAN NOT NULL DEFAULT 1,
		friday BOOLEAN NOT NULL DEFAULT 1,
		saturday BOOLEAN NOT NULL DEFAULT 1,
		sunday BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE staff_members (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		display_name TEXT NOT NULL,
		description TEXT,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE services (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		duration_min INTEGER NOT NULL,
		duration_max INTEGER NOT NULL,
		price TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE staff_services (
		staff_member_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		created_at DATETIME,
		PRIMARY KEY (staff_member_id, service_id)
	);`,
	`CREATE TABLE appointments (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		date DATETIME NOT NULL,
		estimated_time REAL NOT NULL,
		order_number INTEGER NOT NULL,
		status TEXT NOT NULL,
		barber_id TEXT,
		customer_name TEXT,
		customer_phone TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE appointment_lines (
		id TEXT PRIMARY KEY,
		appointment_id TEXT NOT NULL,
		service_id TEXT NOT NULL,
		staff_id TEXT,
		started_at DATETIME,
		ended_at DATETIME,
		price TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL UNIQUE,
		balance TEXT NOT NULL DEFAULT '0',
		currency TEXT NOT NULL DEFAULT 'USD',
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE transactions (
		id TEXT PRIMARY KEY,
		wallet_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount TEXT NOT NULL,
		status TEXT NOT NULL,
		description TEXT,
		reference_id TEXT,
		occurred_at DATETIME NOT NULL,
		created_at DATETIME
	);`,
	`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		status TEXT NOT NULL,
		total TEXT NOT NULL,
		delivery_fee TEXT NOT NULL DEFAULT '0',
		customer_name TEXT,
		customer_phone TEXT,
		version INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME,
		updated_at DATETIME
	);`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		created_at DATETIME
	);`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Каждое новое соединение пула открыло бы свою пустую in-memory базу,
	// поэтому пул ограничен одним соединением.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range testSchema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return db
}

type testEnv struct {
	db *gorm.DB

	organizations *OrganizationService
	availability  *AvailabilityService
	staff         *StaffDirectory
	catalog       *CatalogService
	ledger        *LedgerService
	scheduling    *SchedulingService
	appointments  *AppointmentService
	orders        *OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	locker := lock.NewLocalLocker()

	orgRepo := repository.NewGormOrganizationRepository(db)
	availRepo := repository.NewGormAvailabilityRepository(db)
	staffRepo := repository.NewGormStaffRepository(db)
	serviceRepo := repository.NewGormServiceRepository(db)
	apptRepo := repository.NewGormAppointmentRepository(db)
	walletRepo := repository.NewGormWalletRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	productRepo := repository.NewGormProductRepository(db)

	organizations := NewOrganizationService(orgRepo)
	availability := NewAvailabilityService(db, availRepo, orgRepo)
	staff := NewStaffDirectory(db, staffRepo, apptRepo, serviceRepo)
	catalog := NewCatalogService(db, serviceRepo, productRepo)
	ledger := NewLedgerService(db, locker, walletRepo, orgRepo, logger)
	scheduling := NewSchedulingService(db, locker, apptRepo, serviceRepo, staffRepo, availability, logger)
	appointments := NewAppointmentService(db, locker, apptRepo, staffRepo, ledger, notify.NoopNotifier{}, logger)
	orders := NewOrderService(db, locker, orderRepo, ledger, logger)

	return &testEnv{
		db:            db,
		organizations: organizations,
		availability:  availability,
		staff:         staff,
		catalog:       catalog,
		ledger:        ledger,
		scheduling:    scheduling,
		appointments:  appointments,
		orders:        orders,
	}
}

func seedOrg(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()

	org := &model.Organization{ID: uuid.New(), Name: "test salon", Currency: "USD"}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("seed organization: %v", err)
	}
	return org.ID
}

func seedService(t *testing.T, db *gorm.DB, orgID uuid.UUID, name string, durationMax int64, price string) uuid.UUID {
	t.Helper()

	p, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("parse price: %v", err)
	}
	svc := &model.Service{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Name:           name,
		DurationMin:    durationMax / 2,
		DurationMax:    durationMax,
		Price:          p,
		IsActive:       true,
	}
	if err := db.Create(svc).Error; err != nil {
		t.Fatalf("seed service: %v", err)
	}
	return svc.ID
}

func seedStaff(t *testing.T, db *gorm.DB, orgID uuid.UUID, name string, serviceIDs ...uuid.UUID) uuid.UUID {
	t.Helper()

	staff := &model.StaffMember{
		ID:             uuid.New(),
		OrganizationID: orgID,
		DisplayName:    name,
		IsActive:       true,
	}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	for _, svcID := range serviceIDs {
		link := &model.StaffService{StaffMemberID: staff.ID, ServiceID: svcID}
		if err := db.Create(link).Error; err != nil {
			t.Fatalf("seed staff service: %v", err)
		}
	}
	return staff.ID
}

// testDate — фиксированный будний день (понедельник).
var testDate = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func mustSchedule(t *testing.T, env *testEnv, orgID uuid.UUID, serviceIDs ...uuid.UUID) *model.Appointment {
	t.Helper()

	appt, err := env.scheduling.Schedule(context.Background(), orgID, ScheduleRequest{
		ServiceIDs:   serviceIDs,
		Date:         testDate,
		CustomerName: "walk-in",
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	return appt
}
