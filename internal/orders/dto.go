package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	"github.com/relovedmarket/reloved-backend/pkg/types"
)

// CheckoutInput captures everything the buyer submits at checkout. The cart
// contents themselves are read server-side.
type CheckoutInput struct {
	UserID          uuid.UUID
	DeliveryDetails types.DeliveryDetails
	PaymentMethod   enums.PaymentMethod
	PaymentProofURL *string
	PaymentDate     *time.Time
}

// AdminUpdateInput is the privileged field override. Status is deliberately
// absent; status only moves through transitions.
type AdminUpdateInput struct {
	DeliveryDetails *types.DeliveryDetails
	PaymentMethod   *enums.PaymentMethod
	PaymentProofURL *string
	PaymentDate     *time.Time
	// RemovePaymentProof clears the stored proof reference; it wins over
	// PaymentProofURL when both are set.
	RemovePaymentProof bool
}

// OrderLineDTO is one purchased item as returned to clients.
type OrderLineDTO struct {
	ID       uuid.UUID           `json:"id"`
	Kind     enums.OrderLineKind `json:"kind"`
	ItemID   *uuid.UUID          `json:"item_id,omitempty"`
	ItemCode string              `json:"item_code"`
	Name     string              `json:"name"`
	Owner    string              `json:"owner"`
	Category string              `json:"category"`
	Price    decimal.Decimal     `json:"price"`
}

// OrderDTO is the order payload returned to clients.
type OrderDTO struct {
	ID               uuid.UUID             `json:"id"`
	OrderNumber      string                `json:"order_number"`
	UserID           uuid.UUID             `json:"user_id"`
	Lines            []OrderLineDTO        `json:"lines"`
	DeliveryDetails  types.DeliveryDetails `json:"delivery_details"`
	PaymentMethod    enums.PaymentMethod   `json:"payment_method"`
	PaymentProofURL  *string               `json:"payment_proof_url,omitempty"`
	PaymentDate      *time.Time            `json:"payment_date,omitempty"`
	Subtotal         decimal.Decimal       `json:"subtotal"`
	Total            decimal.Decimal       `json:"total"`
	Status           enums.OrderStatus     `json:"status"`
	OutForDeliveryAt *time.Time            `json:"out_for_delivery_at,omitempty"`
	ReadyForPickupAt *time.Time            `json:"ready_for_pickup_at,omitempty"`
	CompletedAt      *time.Time            `json:"completed_at,omitempty"`
	CancelledAt      *time.Time            `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time             `json:"created_at"`
}

// OrderListResult pairs an order page with its continuation cursor.
type OrderListResult struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// NewOrderDTO maps an order row (with lines preloaded) to its API shape.
func NewOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:               order.ID,
		OrderNumber:      order.OrderNumber,
		UserID:           order.UserID,
		Lines:            make([]OrderLineDTO, 0, len(order.Lines)),
		DeliveryDetails:  order.DeliveryDetails,
		PaymentMethod:    order.PaymentMethod,
		PaymentProofURL:  order.PaymentProofURL,
		PaymentDate:      order.PaymentDate,
		Subtotal:         order.Subtotal,
		Total:            order.Total,
		Status:           order.Status,
		OutForDeliveryAt: order.OutForDeliveryAt,
		ReadyForPickupAt: order.ReadyForPickupAt,
		CompletedAt:      order.CompletedAt,
		CancelledAt:      order.CancelledAt,
		CreatedAt:        order.CreatedAt,
	}
	for _, line := range order.Lines {
		dto.Lines = append(dto.Lines, OrderLineDTO{
			ID:       line.ID,
			Kind:     line.Kind,
			ItemID:   line.ItemID,
			ItemCode: line.ItemCode,
			Name:     line.Name,
			Owner:    line.Owner,
			Category: line.Category,
			Price:    line.Price,
		})
	}
	return dto
}
