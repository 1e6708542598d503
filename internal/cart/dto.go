package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relovedmarket/reloved-backend/internal/catalog"
	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
)

// CartDTO is the cart payload returned to clients. Lines resolve to live
// catalog items; a line whose item has since vanished is surfaced as
// unavailable rather than hidden.
type CartDTO struct {
	ID        uuid.UUID       `json:"id"`
	Lines     []CartLineDTO   `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CartLineDTO is one staged item.
type CartLineDTO struct {
	ItemID    uuid.UUID        `json:"item_id"`
	Item      *catalog.ItemDTO `json:"item,omitempty"`
	Available bool             `json:"available"`
	AddedAt   time.Time        `json:"added_at"`
}

func newCartDTO(record *models.CartRecord, items map[uuid.UUID]*models.Item) *CartDTO {
	dto := &CartDTO{
		ID:        record.ID,
		Lines:     make([]CartLineDTO, 0, len(record.Items)),
		Subtotal:  decimal.Zero,
		UpdatedAt: record.UpdatedAt,
	}
	for _, line := range record.Items {
		entry := CartLineDTO{ItemID: line.ItemID, AddedAt: line.CreatedAt}
		if item, ok := items[line.ItemID]; ok {
			entry.Item = catalog.NewItemDTO(item)
			entry.Available = item.Status == enums.ItemStatusAvailable
			if entry.Available {
				dto.Subtotal = dto.Subtotal.Add(item.Price)
			}
		}
		dto.Lines = append(dto.Lines, entry)
	}
	return dto
}
