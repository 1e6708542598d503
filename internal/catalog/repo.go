package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	"github.com/relovedmarket/reloved-backend/pkg/pagination"
)

// Repository wires together item persistence helpers.
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

// Create inserts a new item row.
func (r *Repository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update saves the full item row.
func (r *Repository) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item by ID and reports whether a row was removed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Item{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindByID loads the item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads the given items in one query.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Item
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category *enums.ItemCategory
	Type     *enums.ItemType
	Status   *enums.ItemStatus
	Query    string
}

// List returns items newest-first with cursor pagination. It fetches one row
// beyond the limit so the caller can detect the next page.
func (r *Repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Item, error) {
	q := r.db.WithContext(ctx).Model(&models.Item{})

	if filters.Category != nil {
		q = q.Where("category = ?", *filters.Category)
	}
	if filters.Type != nil {
		q = q.Where("type = ?", *filters.Type)
	}
	if filters.Status != nil {
		q = q.Where("status = ?", *filters.Status)
	}
	if term := strings.TrimSpace(filters.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("lower(name) LIKE ? OR lower(item_code) LIKE ?", like, like)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var items []models.Item
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MarkSoldIfNotSold flips an item to sold only when it is not already sold.
// Returns true when the row was updated.
func (r *Repository) MarkSoldIfNotSold(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND status <> ?", id, enums.ItemStatusSold).
		Update("status", enums.ItemStatusSold)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
