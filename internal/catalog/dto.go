package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
)

// ItemDTO represents the catalog item payload returned to clients.
type ItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	ItemCode    string          `json:"item_code"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Owner       string          `json:"owner"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Status      string          `json:"status"`
	Description string          `json:"description,omitempty"`
	Condition   *string         `json:"condition,omitempty"`
	Images      []string        `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResult is one page of items plus the cursor for the next.
type ItemListResult struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// NewItemDTO builds the response shape from the persisted model.
func NewItemDTO(item *models.Item) *ItemDTO {
	if item == nil {
		return nil
	}
	return &ItemDTO{
		ID:          item.ID,
		ItemCode:    item.ItemCode,
		Name:        item.Name,
		Price:       item.Price,
		Owner:       item.Owner,
		Type:        item.Type.String(),
		Category:    item.Category.String(),
		Status:      item.Status.String(),
		Description: item.Description,
		Condition:   item.Condition,
		Images:      append([]string{}, item.Images...),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
