package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relovedmarket/reloved-backend/pkg/config"
	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *Repository) {
	t.Helper()
	client := openTestDB(t)
	repo := NewRepository(client.DB())
	svc, err := NewService(repo, client, config.OrdersConfig{CodePadding: 3, CodeAllocRetry: 3}, config.MediaConfig{MaxImages: 5})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func legacyItem(input CreateItemInput, code string) models.Item {
	return models.Item{
		ItemCode:  code,
		Name:      input.Name,
		Price:     input.Price,
		Owner:     input.Owner,
		Type:      input.Type,
		Category:  input.Category,
		Status:    enums.ItemStatusAvailable,
		Images:    input.Images,
		CreatedBy: uuid.New(),
	}
}

func createInput(name string, category enums.ItemCategory) CreateItemInput {
	return CreateItemInput{
		Name:     name,
		Price:    decimal.NewFromInt(100),
		Owner:    "Consignor A",
		Type:     enums.ItemTypePreloved,
		Category: category,
		Images:   []string{"https://img.example.com/1.jpg"},
	}
}

func TestCreateAllocatesSequentialCodes(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	actor := uuid.New()

	first, err := svc.Create(ctx, actor, createInput("Phone", enums.ItemCategoryElectronics))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if first.ItemCode != "EL001" {
		t.Fatalf("expected EL001, got %s", first.ItemCode)
	}

	second, err := svc.Create(ctx, actor, createInput("Laptop", enums.ItemCategoryElectronics))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.ItemCode != "EL002" {
		t.Fatalf("expected EL002, got %s", second.ItemCode)
	}

	chair, err := svc.Create(ctx, actor, createInput("Chair", enums.ItemCategoryFurniture))
	if err != nil {
		t.Fatalf("create chair: %v", err)
	}
	if chair.ItemCode != "FU001" {
		t.Fatalf("categories count independently, got %s", chair.ItemCode)
	}
}

func TestCodePrefixFallback(t *testing.T) {
	if got := enums.ItemCategory("gadgets").CodePrefix(); got != "GA" {
		t.Fatalf("expected GA fallback, got %s", got)
	}
	if got := enums.ItemCategoryHomeDecor.CodePrefix(); got != "HD" {
		t.Fatalf("expected HD, got %s", got)
	}
}

func TestCounterSeedsFromExistingCodes(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	// Pre-counter row introduced outside the allocator.
	legacyRow := legacyItem(createInput("Legacy TV", enums.ItemCategoryElectronics), "EL041")
	if _, err := repo.Create(ctx, &legacyRow); err != nil {
		t.Fatalf("seed legacy item: %v", err)
	}

	created, err := svc.Create(ctx, uuid.New(), createInput("New TV", enums.ItemCategoryElectronics))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ItemCode != "EL042" {
		t.Fatalf("expected EL042 after seeding, got %s", created.ItemCode)
	}
}

func TestUpdateKeepsCodeWithoutCategoryChange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), createInput("Blender", enums.ItemCategoryAppliances))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newName := "Blender Pro"
	newPrice := decimal.NewFromInt(150)
	updated, err := svc.Update(ctx, created.ID, UpdateItemInput{Name: &newName, Price: &newPrice})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ItemCode != created.ItemCode {
		t.Fatalf("code must not change on plain edit: %s -> %s", created.ItemCode, updated.ItemCode)
	}
	if updated.Name != "Blender Pro" {
		t.Fatalf("patch not applied, got %s", updated.Name)
	}
}

func TestUpdateReallocatesCodeOnCategoryChange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), createInput("Teddy", enums.ItemCategoryToys))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ItemCode != "TO001" {
		t.Fatalf("expected TO001, got %s", created.ItemCode)
	}

	newCat := enums.ItemCategoryOthers
	updated, err := svc.Update(ctx, created.ID, UpdateItemInput{Category: &newCat})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ItemCode != "OT001" {
		t.Fatalf("expected fresh OT code, got %s", updated.ItemCode)
	}
}

func TestUpdateToSoldRemovesRow(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), createInput("Sofa", enums.ItemCategoryFurniture))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sold := enums.ItemStatusSold
	updated, err := svc.Update(ctx, created.ID, UpdateItemInput{Status: &sold})
	if err != nil {
		t.Fatalf("update to sold: %v", err)
	}
	if updated.Status != sold.String() {
		t.Fatalf("expected sold snapshot, got %s", updated.Status)
	}

	if _, err := svc.Get(ctx, created.ID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("sold item should be gone, got %v", err)
	}
}

func TestGetAndDeleteNotFound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Get(ctx, uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := svc.Delete(ctx, uuid.New()); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	actor := uuid.New()

	bad := createInput("Phone", enums.ItemCategoryElectronics)
	bad.Price = decimal.Zero
	if _, err := svc.Create(ctx, actor, bad); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for zero price, got %v", err)
	}

	bad = createInput("Phone", enums.ItemCategory("bogus"))
	if _, err := svc.Create(ctx, actor, bad); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad category, got %v", err)
	}

	bad = createInput("Phone", enums.ItemCategoryElectronics)
	bad.Images = []string{"a", "b", "c", "d", "e", "f"}
	if _, err := svc.Create(ctx, actor, bad); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for too many images, got %v", err)
	}
}

func TestListFiltersAndPagination(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	actor := uuid.New()

	for _, name := range []string{"Camera", "Keyboard", "Monitor"} {
		if _, err := svc.Create(ctx, actor, createInput(name, enums.ItemCategoryElectronics)); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	if _, err := svc.Create(ctx, actor, createInput("Novel", enums.ItemCategoryBooks)); err != nil {
		t.Fatalf("create novel: %v", err)
	}

	cat := enums.ItemCategoryElectronics
	page, err := svc.List(ctx, ListFilters{Category: &cat}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	rest, err := svc.List(ctx, ListFilters{Category: &cat}, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	if err != nil {
		t.Fatalf("list rest: %v", err)
	}
	if len(rest.Items) != 1 || rest.NextCursor != "" {
		t.Fatalf("expected final page of 1, got %d cursor=%q", len(rest.Items), rest.NextCursor)
	}

	byName, err := svc.List(ctx, ListFilters{Query: "key"}, pagination.Params{})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if len(byName.Items) != 1 || byName.Items[0].Name != "Keyboard" {
		t.Fatalf("search should match Keyboard, got %+v", byName.Items)
	}
}

func TestUpdateToSoldWithCategoryChangeSpendsNoCode(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, uuid.New(), createInput("Teddy", enums.ItemCategoryToys))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	sold := enums.ItemStatusSold
	newCat := enums.ItemCategoryOthers
	newName := "Teddy XL"
	updated, err := svc.Update(ctx, created.ID, UpdateItemInput{Status: &sold, Category: &newCat, Name: &newName})
	if err != nil {
		t.Fatalf("update to sold: %v", err)
	}
	if updated.ItemCode != created.ItemCode {
		t.Fatalf("retired item must keep its code, got %s", updated.ItemCode)
	}
	if updated.Name != "Teddy XL" {
		t.Fatalf("snapshot missing patched name, got %s", updated.Name)
	}
	if _, err := svc.Get(ctx, created.ID); !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("sold item should be gone, got %v", err)
	}

	// The target category's sequence was never touched.
	next, err := svc.Create(ctx, uuid.New(), createInput("Misc", enums.ItemCategoryOthers))
	if err != nil {
		t.Fatalf("create in others: %v", err)
	}
	if next.ItemCode != "OT001" {
		t.Fatalf("expected OT001 for the first others listing, got %s", next.ItemCode)
	}
}
