package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relovedmarket/reloved-backend/internal/catalog"
	"github.com/relovedmarket/reloved-backend/pkg/db"
	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	apperrors "github.com/relovedmarket/reloved-backend/pkg/errors"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()

	client := openTestDB(t)
	svc, err := NewService(NewRepository(client.DB()), catalog.NewRepository(client.DB()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, client
}

func seedItem(t *testing.T, client *db.Client, code, name string, price string, status enums.ItemStatus) models.Item {
	t.Helper()

	item := models.Item{
		ItemCode:  code,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Owner:     "Alex",
		Type:      enums.ItemTypePreloved,
		Category:  enums.ItemCategoryElectronics,
		Status:    status,
		CreatedBy: uuid.New(),
	}
	if err := client.DB().Create(&item).Error; err != nil {
		t.Fatalf("seed item: %v", err)
	}
	return item
}

func TestViewCreatesEmptyCart(t *testing.T) {
	svc, _ := newTestService(t)
	userID := uuid.New()

	dto, err := svc.View(context.Background(), userID)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(dto.Lines))
	}
	if !dto.Subtotal.IsZero() {
		t.Fatalf("expected zero subtotal, got %s", dto.Subtotal)
	}

	// A second view reuses the same cart row.
	again, err := svc.View(context.Background(), userID)
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	if again.ID != dto.ID {
		t.Fatalf("expected same cart id, got %s and %s", dto.ID, again.ID)
	}
}

func TestAddItemIsIdempotent(t *testing.T) {
	svc, client := newTestService(t)
	userID := uuid.New()
	item := seedItem(t, client, "EL001", "Keyboard", "45.00", enums.ItemStatusAvailable)

	if _, err := svc.AddItem(context.Background(), userID, item.ID); err != nil {
		t.Fatalf("first add: %v", err)
	}
	dto, err := svc.AddItem(context.Background(), userID, item.ID)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if len(dto.Lines) != 1 {
		t.Fatalf("expected one line after duplicate add, got %d", len(dto.Lines))
	}
	if !dto.Subtotal.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("expected subtotal 45.00, got %s", dto.Subtotal)
	}
}

func TestAddItemUnknownItem(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), uuid.New(), uuid.New())
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestAddOrderedItemStillStages(t *testing.T) {
	svc, client := newTestService(t)
	userID := uuid.New()
	item := seedItem(t, client, "EL002", "Monitor", "120.00", enums.ItemStatusOrdered)

	dto, err := svc.AddItem(context.Background(), userID, item.ID)
	if err != nil {
		t.Fatalf("add ordered item: %v", err)
	}
	if len(dto.Lines) != 1 {
		t.Fatalf("expected one line, got %d", len(dto.Lines))
	}
	if dto.Lines[0].Available {
		t.Fatal("ordered item should be flagged unavailable")
	}
	if !dto.Subtotal.IsZero() {
		t.Fatalf("unavailable items must not count toward subtotal, got %s", dto.Subtotal)
	}
}

func TestRemoveItem(t *testing.T) {
	svc, client := newTestService(t)
	userID := uuid.New()
	item := seedItem(t, client, "EL003", "Mouse", "18.50", enums.ItemStatusAvailable)

	if _, err := svc.AddItem(context.Background(), userID, item.ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	dto, err := svc.RemoveItem(context.Background(), userID, item.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatalf("expected empty cart after removal, got %d lines", len(dto.Lines))
	}

	// Removing an item that was never staged is a no-op.
	dto, err = svc.RemoveItem(context.Background(), userID, uuid.New())
	if err != nil {
		t.Fatalf("remove absent item: %v", err)
	}
	if len(dto.Lines) != 0 {
		t.Fatalf("expected cart unchanged, got %d lines", len(dto.Lines))
	}
}

func TestRemoveItemWithoutCart(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.RemoveItem(context.Background(), uuid.New(), uuid.New())
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
