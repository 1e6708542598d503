package types

import (
	"time"

	"github.com/relovedmarket/reloved-backend/pkg/enums"
)

// DeliveryDetails captures how and where an order is handed over. The value
// is frozen onto the order at checkout.
type DeliveryDetails struct {
	FullName      string             `json:"full_name"`
	ContactNumber string             `json:"contact_number"`
	Street        string             `json:"street"`
	City          string             `json:"city"`
	Mode          enums.DeliveryMode `json:"mode"`
	Date          time.Time          `json:"date"`
}
