package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Leganyst/salon-platform/internal/apperr"
)

func TestCreateOrganization_DefaultsCurrency(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	org, err := env.organizations.Create(ctx, "salon", "")
	if err != nil {
		t.Fatalf("create organization: %v", err)
	}
	if org.Currency != "USD" {
		t.Fatalf("currency = %s, want USD", org.Currency)
	}

	got, err := env.organizations.Get(ctx, org.ID)
	if err != nil {
		t.Fatalf("get organization: %v", err)
	}
	if got.Name != "salon" {
		t.Fatalf("name = %s, want salon", got.Name)
	}
}

func TestCreateOrganization_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.organizations.Create(ctx, "", "USD"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty name: err = %v, want Validation", err)
	}
	if _, err := env.organizations.Create(ctx, "salon", "DOLLARS"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("bad currency: err = %v, want Validation", err)
	}
}

func TestGetOrganization_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.organizations.Get(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}
