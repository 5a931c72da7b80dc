package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/luminform/atelier/internal/application/catalog"
	partnerapp "github.com/luminform/atelier/internal/application/partner"
	"github.com/luminform/atelier/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCreator struct {
	mock.Mock
}

func (m *mockCreator) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func TestParseCatalog(t *testing.T) {
	products, err := parseCatalog(strings.NewReader(`[
		{"sku": "ARC-1", "name": "Floral Arch", "base_price": "450.00", "currency": "EUR"},
		{"sku": "CHR-1", "name": "Ghost Chair", "category": "seating", "base_price": 12, "currency": "EUR"}
	]`))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.True(t, products[0].BasePrice.Equal(decimal.NewFromInt(450)))
	assert.Equal(t, "seating", products[1].Category)

	_, err = parseCatalog(strings.NewReader(`[]`))
	assert.Error(t, err)
	_, err = parseCatalog(strings.NewReader(`[{"sku": "X", "colour": "red"}]`))
	assert.Error(t, err, "unknown fields are rejected")
}

func TestSeedCatalog_SkipsExisting(t *testing.T) {
	ctx := context.Background()
	creator := new(mockCreator)
	arch := catalogapp.CreateProductRequest{SKU: "ARC-1", Name: "Floral Arch", BasePrice: decimal.NewFromInt(450), Currency: "EUR"}
	chair := catalogapp.CreateProductRequest{SKU: "CHR-1", Name: "Ghost Chair", BasePrice: decimal.NewFromInt(12), Currency: "EUR"}
	creator.On("Create", ctx, arch).Return(nil, shared.NewDomainError("ALREADY_EXISTS", "SKU already exists"))
	creator.On("Create", ctx, chair).Return(&catalogapp.ProductResponse{ID: uuid.New(), SKU: "CHR-1"}, nil)

	created, skipped, err := seedCatalog(ctx, creator, []catalogapp.CreateProductRequest{arch, chair})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, skipped)
}

func TestSeedCatalog_StopsOnError(t *testing.T) {
	ctx := context.Background()
	creator := new(mockCreator)
	bad := catalogapp.CreateProductRequest{SKU: "BAD", Currency: "EURO"}
	creator.On("Create", ctx, bad).Return(nil, shared.NewDomainError("INVALID_INPUT", "Currency must be a 3-letter code"))

	_, _, err := seedCatalog(ctx, creator, []catalogapp.CreateProductRequest{bad})
	assert.ErrorContains(t, err, "product BAD")
}

func TestPrintPartners(t *testing.T) {
	var buf bytes.Buffer
	created := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	err := printPartners(&buf, []partnerapp.PartnerResponse{{
		ID: uuid.New(), Slug: "maison-lumiere", Name: "Maison Lumière", BusinessType: "planner",
		Status: "active", ContactEmail: "hi@maison.example", CreatedAt: created,
	}}, 3)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "maison-lumiere")
	assert.Contains(t, out, "2026-03-14")
	assert.Contains(t, out, "1 of 3 partners")
}

func TestCreateAdmin_RequiresPassword(t *testing.T) {
	t.Setenv(adminPasswordEnv, "")
	root := newRootCmd()
	root.SetArgs([]string{"create-admin", "--email", "root@atelier.test", "--name", "Root"})
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	err := root.Execute()
	assert.ErrorContains(t, err, "password must be at least 8 characters")
}
