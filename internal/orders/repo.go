package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	"github.com/relovedmarket/reloved-backend/pkg/pagination"
)

// Repository wires together order persistence helpers. Orders are never
// deleted; writes beyond creation go through Save within a lifecycle
// transaction.
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

// Create inserts the order together with its lines.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Save persists the full order row (lifecycle timestamps, admin overrides).
func (r *Repository) Save(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Lines").Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// ErrStatusChanged reports that the stored status no longer matches the one
// the caller loaded, so a lifecycle write was refused.
var ErrStatusChanged = errors.New("order status changed concurrently")

// SaveFromStatus persists the order only while the stored row still holds
// from. A zero-row update means another writer moved the order first.
func (r *Repository) SaveFromStatus(ctx context.Context, order *models.Order, from enums.OrderStatus) (*models.Order, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, from).
		Select("*").
		Omit("Lines", "id", "created_at").
		Updates(order)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStatusChanged
	}
	return order, nil
}

// FindByID loads the order with its lines.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Lines").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListFilters describe the supported filter knobs for privileged listings.
type ListFilters struct {
	UserID *uuid.UUID
	Status *enums.OrderStatus
}

// List returns orders newest-first with cursor pagination. It fetches one
// row beyond the limit so the caller can detect the next page.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Model(&models.Order{}).Preload("Lines")

	if filters.UserID != nil {
		q = q.Where("user_id = ?", *filters.UserID)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var orders []models.Order
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
