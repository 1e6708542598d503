package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/db"
	"github.com/relovedmarket/reloved-backend/pkg/db/models"
)

// Repository exposes cart persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetOrCreateByUser loads the user's cart with its lines, creating an empty
// cart on first access.
func (r *Repository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&record).Error
	if err == nil {
		return &record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	record = models.CartRecord{UserID: userID}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	record.Items = []models.CartItem{}
	return &record, nil
}

// FindByUser loads the user's cart with lines without creating one.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// AddItem stages an item in the cart. Adding an already-staged item is a
// no-op; either way the cart's updated_at is bumped.
func (r *Repository) AddItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	line := models.CartItem{CartID: cartID, ItemID: itemID}
	err := r.db.WithContext(ctx).Create(&line).Error
	if err != nil && !isCartLineDuplicate(err) {
		return err
	}
	return r.touch(ctx, cartID)
}

// RemoveItem drops the line if present and reports whether a row was removed.
// The cart's updated_at is bumped either way.
func (r *Repository) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND item_id = ?", cartID, itemID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	if err := r.touch(ctx, cartID); err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// ClearItems removes every line from the cart and bumps updated_at. Checkout
// runs this inside the order-creation transaction.
func (r *Repository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return r.touch(ctx, cartID)
}

func (r *Repository) touch(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", cartID).
		UpdateColumn("updated_at", time.Now().UTC()).Error
}

func isCartLineDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(err)
}
