package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/config"
	"github.com/relovedmarket/reloved-backend/pkg/db"
	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog item management operations.
type Service interface {
	Create(ctx context.Context, actorID uuid.UUID, input CreateItemInput) (*ItemDTO, error)
	Update(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error)
	Delete(ctx context.Context, itemID uuid.UUID) error
	Get(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*ItemListResult, error)
}

// CreateItemInput holds the validated payload to create an item.
type CreateItemInput struct {
	Name        string
	Price       decimal.Decimal
	Owner       string
	Type        enums.ItemType
	Category    enums.ItemCategory
	Description string
	Condition   *string
	Images      []string
}

// UpdateItemInput holds optional mutation values for an item. Nil means
// "leave unchanged".
type UpdateItemInput struct {
	Name        *string
	Price       *decimal.Decimal
	Owner       *string
	Type        *enums.ItemType
	Category    *enums.ItemCategory
	Status      *enums.ItemStatus
	Description *string
	Condition   *string
	Images      *[]string
}

type service struct {
	repo      *Repository
	tx        txRunner
	allocator *codeAllocator
	retries   int
	maxImages int
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, tx txRunner, ordersCfg config.OrdersConfig, mediaCfg config.MediaConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	retries := ordersCfg.CodeAllocRetry
	if retries <= 0 {
		retries = 1
	}
	maxImages := mediaCfg.MaxImages
	if maxImages <= 0 {
		maxImages = 5
	}
	return &service{
		repo:      repo,
		tx:        tx,
		allocator: newCodeAllocator(ordersCfg.CodePadding),
		retries:   retries,
		maxImages: maxImages,
	}, nil
}

// Create persists a new available item, allocating its category-scoped code
// in the same transaction.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateItemInput) (*ItemDTO, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.validateCreate(input); err != nil {
		return nil, err
	}

	var created *models.Item
	err := s.withCodeRetry(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			code, err := s.allocator.Next(ctx, tx, input.Category)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate item code")
			}

			item := &models.Item{
				ItemCode:    code,
				Name:        strings.TrimSpace(input.Name),
				Price:       input.Price,
				Owner:       strings.TrimSpace(input.Owner),
				Type:        input.Type,
				Category:    input.Category,
				Status:      enums.ItemStatusAvailable,
				Description: input.Description,
				Condition:   input.Condition,
				Images:      input.Images,
				CreatedBy:   actorID,
			}
			created, err = txRepo.Create(ctx, item)
			if err != nil {
				return err
			}
			return nil
		})
	})
	if err != nil {
		return nil, wrapCatalogErr(err, "create item")
	}
	return NewItemDTO(created), nil
}

// Update applies patch semantics; a category change reallocates the code and
// a write landing on sold removes the row after the status is recorded.
func (s *service) Update(ctx context.Context, itemID uuid.UUID, input UpdateItemInput) (*ItemDTO, error) {
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if err := s.validateUpdate(input); err != nil {
		return nil, err
	}

	var updated *models.Item
	err := s.withCodeRetry(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)

			item, err := txRepo.FindByID(ctx, itemID)
			if err != nil {
				return err
			}

			categoryChanged := applyPatch(item, input)

			if item.Status == enums.ItemStatusSold {
				// Direct sold edits retire the listing; there is no order
				// context, so no ledger entry is written here. The row is
				// about to go, so no counter sequence is spent on it even
				// when the patch also moved the category.
				snapshot := *item
				if _, err := txRepo.Delete(ctx, item.ID); err != nil {
					return err
				}
				updated = &snapshot
				return nil
			}

			if categoryChanged {
				code, err := s.allocator.Next(ctx, tx, item.Category)
				if err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reallocate item code")
				}
				item.ItemCode = code
			}

			updated, err = txRepo.Update(ctx, item)
			return err
		})
	})
	if err != nil {
		return nil, wrapCatalogErr(err, "update item")
	}
	return NewItemDTO(updated), nil
}

// Delete removes the listing.
func (s *service) Delete(ctx context.Context, itemID uuid.UUID) error {
	if itemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	removed, err := s.repo.Delete(ctx, itemID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete item")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

// Get loads a single item.
func (s *service) Get(ctx context.Context, itemID uuid.UUID) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	return NewItemDTO(item), nil
}

// List returns one page of items newest-first.
func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*ItemListResult, error) {
	rows, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list items")
	}

	page, next := pagination.Trim(rows, params.Limit, func(item models.Item) pagination.Cursor {
		return pagination.Cursor{CreatedAt: item.CreatedAt, ID: item.ID}
	})

	dtos := make([]ItemDTO, 0, len(page))
	for i := range page {
		dtos = append(dtos, *NewItemDTO(&page[i]))
	}
	return &ItemListResult{Items: dtos, NextCursor: next}, nil
}

func (s *service) validateCreate(input CreateItemInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	if !input.Price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item type")
	}
	if !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item category")
	}
	return s.validateImages(input.Images)
}

func (s *service) validateUpdate(input UpdateItemInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
	}
	if input.Owner != nil && strings.TrimSpace(*input.Owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner cannot be blank")
	}
	if input.Price != nil && !input.Price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.Type != nil && !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item type")
	}
	if input.Category != nil && !input.Category.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item category")
	}
	if input.Status != nil && !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid item status")
	}
	if input.Images != nil {
		return s.validateImages(*input.Images)
	}
	return nil
}

func (s *service) validateImages(images []string) error {
	if len(images) > s.maxImages {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("at most %d images allowed", s.maxImages))
	}
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image url cannot be blank")
		}
	}
	return nil
}

// withCodeRetry re-runs the whole transaction when the item-code unique
// index rejects a write (counter seeded concurrently for a fresh category).
func (s *service) withCodeRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		err = fn()
		if err == nil || !db.IsUniqueViolation(err) {
			return err
		}
	}
	return err
}

func applyPatch(item *models.Item, input UpdateItemInput) (categoryChanged bool) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Owner != nil {
		item.Owner = strings.TrimSpace(*input.Owner)
	}
	if input.Type != nil {
		item.Type = *input.Type
	}
	if input.Category != nil && *input.Category != item.Category {
		item.Category = *input.Category
		categoryChanged = true
	}
	if input.Status != nil {
		item.Status = *input.Status
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Condition != nil {
		item.Condition = input.Condition
	}
	if input.Images != nil {
		item.Images = *input.Images
	}
	return categoryChanged
}

func wrapCatalogErr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
