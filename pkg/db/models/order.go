package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/pkg/enums"
	"github.com/relovedmarket/reloved-backend/pkg/types"
)

// Order is an immutable-once-created purchase record. Only status-transition
// operations (and the admin delivery/payment override) mutate it; it is never
// deleted.
type Order struct {
	ID               uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber      string                `gorm:"column:order_number;uniqueIndex;not null"`
	UserID           uuid.UUID             `gorm:"column:user_id;type:uuid;index;not null"`
	Lines            []OrderLine           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	DeliveryDetails  types.DeliveryDetails `gorm:"column:delivery_details;type:jsonb;serializer:json"`
	PaymentMethod    enums.PaymentMethod   `gorm:"column:payment_method;type:text;not null"`
	PaymentProofURL  *string               `gorm:"column:payment_proof_url"`
	PaymentDate      *time.Time            `gorm:"column:payment_date"`
	Subtotal         decimal.Decimal       `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Total            decimal.Decimal       `gorm:"column:total;type:numeric(12,2);not null"`
	Status           enums.OrderStatus     `gorm:"column:status;type:text;not null;default:'pending'"`
	OutForDeliveryAt *time.Time            `gorm:"column:out_for_delivery_at"`
	ReadyForPickupAt *time.Time            `gorm:"column:ready_for_pickup_at"`
	CompletedAt      *time.Time            `gorm:"column:completed_at"`
	CancelledAt      *time.Time            `gorm:"column:cancelled_at"`
	CreatedAt        time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
