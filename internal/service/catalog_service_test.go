package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Leganyst/salon-platform/internal/apperr"
)

func TestCreateService_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	ctx := context.Background()

	created, err := env.catalog.CreateService(ctx, orgID, ServiceInput{
		Name:        "haircut",
		Description: "classic cut",
		DurationMin: 20,
		DurationMax: 40,
		Price:       decimal.RequireFromString("25.00"),
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	got, err := env.catalog.GetService(ctx, orgID, created.ID.String())
	if err != nil {
		t.Fatalf("get service: %v", err)
	}
	if got.Name != "haircut" || got.DurationMax != 40 {
		t.Fatalf("service = %+v", got)
	}
	if !got.Price.Equal(decimal.RequireFromString("25.00")) {
		t.Fatalf("price = %s, want 25.00", got.Price)
	}
	if !got.IsActive {
		t.Fatalf("new service must be active")
	}
}

func TestCreateService_Validation(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ServiceInput
	}{
		{"empty name", ServiceInput{DurationMin: 10, DurationMax: 20, Price: decimal.Zero}},
		{"zero duration", ServiceInput{Name: "x", DurationMin: 0, DurationMax: 20, Price: decimal.Zero}},
		{"max below min", ServiceInput{Name: "x", DurationMin: 30, DurationMax: 20, Price: decimal.Zero}},
		{"negative price", ServiceInput{Name: "x", DurationMin: 10, DurationMax: 20,
			Price: decimal.RequireFromString("-1")}},
	}
	for _, tc := range cases {
		if _, err := env.catalog.CreateService(ctx, orgID, tc.input); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%s: err = %v, want Validation", tc.name, err)
		}
	}
}

func TestListServices_FiltersInactive(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	activeID := seedService(t, env.db, orgID, "haircut", 30, "25.00")
	inactiveID := seedService(t, env.db, orgID, "retired", 30, "10.00")
	ctx := context.Background()

	if err := env.db.Table("services").
		Where("id = ?", inactiveID.String()).
		Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate service: %v", err)
	}

	services, total, err := env.catalog.ListServices(ctx, orgID, true, 50, 0)
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if total != 1 || len(services) != 1 || services[0].ID != activeID {
		t.Fatalf("active listing = %v (total %d), want only haircut", services, total)
	}

	_, total, err = env.catalog.ListServices(ctx, orgID, false, 50, 0)
	if err != nil {
		t.Fatalf("list all services: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
}

func TestGetService_WrongOrganization(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	otherOrgID := seedOrg(t, env.db)
	svcID := seedService(t, env.db, orgID, "haircut", 30, "25.00")

	_, err := env.catalog.GetService(context.Background(), otherOrgID, svcID.String())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestCreateProduct_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	ctx := context.Background()

	created, err := env.catalog.CreateProduct(ctx, orgID, ProductInput{
		Name:  "shampoo",
		Price: decimal.RequireFromString("12.50"),
		Stock: 10,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := env.catalog.GetProduct(ctx, orgID, created.ID.String())
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Name != "shampoo" || got.Stock != 10 {
		t.Fatalf("product = %+v", got)
	}

	// Чужая организация товар не видит.
	otherOrgID := seedOrg(t, env.db)
	_, err = env.catalog.GetProduct(ctx, otherOrgID, created.ID.String())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("foreign org: err = %v, want NotFound", err)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)
	orgID := seedOrg(t, env.db)
	ctx := context.Background()

	_, err := env.catalog.CreateProduct(ctx, orgID, ProductInput{Price: decimal.Zero})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty name: err = %v, want Validation", err)
	}

	_, err = env.catalog.CreateProduct(ctx, orgID, ProductInput{
		Name: "shampoo", Price: decimal.RequireFromString("-1"),
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("negative price: err = %v, want Validation", err)
	}

	_, err = env.catalog.CreateProduct(ctx, orgID, ProductInput{
		Name: "shampoo", Price: decimal.Zero, Stock: -5,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("negative stock: err = %v, want Validation", err)
	}
}
