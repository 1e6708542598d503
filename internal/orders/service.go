package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/relovedmarket/reloved-backend/internal/cart"
	"github.com/relovedmarket/reloved-backend/internal/catalog"
	"github.com/relovedmarket/reloved-backend/internal/sales"
	"github.com/relovedmarket/reloved-backend/pkg/config"
	"github.com/relovedmarket/reloved-backend/pkg/db"
	"github.com/relovedmarket/reloved-backend/pkg/db/models"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/pagination"
	"github.com/relovedmarket/reloved-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service drives the order lifecycle: checkout, reads, status transitions
// and the admin field override.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput) (*OrderDTO, error)
	Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderListResult, error)
	Transition(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error)
	AdminUpdate(ctx context.Context, orderID uuid.UUID, input AdminUpdateInput) (*OrderDTO, error)
}

// ServiceParams lists the collaborators the order service needs.
type ServiceParams struct {
	Orders  *Repository
	Carts   *cart.Repository
	Items   *catalog.Repository
	Sales   *sales.Repository
	Tx      txRunner
	Config  config.OrdersConfig
	NowFunc func() time.Time
}

type service struct {
	orders  *Repository
	carts   *cart.Repository
	items   *catalog.Repository
	sales   *sales.Repository
	tx      txRunner
	numbers *numberGenerator
	retries int
	now     func() time.Time
}

// NewService constructs an order service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Orders == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.Items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	if params.Sales == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	retries := params.Config.AllocAttempts
	if retries <= 0 {
		retries = 3
	}
	now := params.NowFunc
	if now == nil {
		now = time.Now
	}
	return &service{
		orders:  params.Orders,
		carts:   params.Carts,
		items:   params.Items,
		sales:   params.Sales,
		tx:      params.Tx,
		numbers: newNumberGenerator(params.Config.NumberPrefix),
		retries: retries,
		now:     now,
	}, nil
}

// Checkout converts the user's cart into a pending order. Resolving items,
// creating the order and clearing the cart happen in one transaction, so a
// failure anywhere leaves both the cart and the catalog untouched.
func (s *service) Checkout(ctx context.Context, input CheckoutInput) (*OrderDTO, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}

	var created *models.Order
	err := s.withNumberRetry(func() error {
		return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			cartRecord, err := s.carts.WithTx(tx).FindByUser(ctx, input.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
				}
				return err
			}
			if len(cartRecord.Items) == 0 {
				return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
			}

			ids := make([]uuid.UUID, 0, len(cartRecord.Items))
			for _, line := range cartRecord.Items {
				ids = append(ids, line.ItemID)
			}
			items, err := s.items.WithTx(tx).FindByIDs(ctx, ids)
			if err != nil {
				return err
			}
			byID := make(map[uuid.UUID]*models.Item, len(items))
			for i := range items {
				byID[items[i].ID] = &items[i]
			}

			order := &models.Order{
				OrderNumber:     s.numbers.Next(),
				UserID:          input.UserID,
				DeliveryDetails: input.DeliveryDetails,
				PaymentMethod:   input.PaymentMethod,
				PaymentProofURL: input.PaymentProofURL,
				PaymentDate:     input.PaymentDate,
				Status:          enums.OrderStatusPending,
			}
			var unavailable []string
			for _, line := range cartRecord.Items {
				item, ok := byID[line.ItemID]
				if !ok {
					unavailable = append(unavailable, line.ItemID.String())
					continue
				}
				if item.Status != enums.ItemStatusAvailable {
					unavailable = append(unavailable, item.ItemCode)
					continue
				}
				itemID := item.ID
				order.Lines = append(order.Lines, models.OrderLine{
					Kind:     enums.OrderLineKindReference,
					ItemID:   &itemID,
					ItemCode: item.ItemCode,
					Name:     item.Name,
					Owner:    item.Owner,
					Category: item.Category.String(),
					Price:    item.Price,
				})
				order.Subtotal = order.Subtotal.Add(item.Price)
			}
			if len(unavailable) > 0 {
				return pkgerrors.New(pkgerrors.CodeItemUnavailable, "one or more items are no longer available").
					WithDetails(map[string]any{"items": unavailable})
			}
			order.Total = order.Subtotal

			if _, err := s.orders.WithTx(tx).Create(ctx, order); err != nil {
				return err
			}
			if err := s.carts.WithTx(tx).ClearItems(ctx, cartRecord.ID); err != nil {
				return err
			}
			created = order
			return nil
		})
	})
	if err != nil {
		return nil, wrapOrderErr(err)
	}
	return NewOrderDTO(created), nil
}

// Get loads any order. The caller is responsible for access control.
func (s *service) Get(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, wrapOrderErr(err)
	}
	return NewOrderDTO(order), nil
}

// GetForUser loads an order only when it belongs to the given user.
func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, wrapOrderErr(err)
	}
	if order.UserID != userID {
		// Hidden rather than forbidden: ownership is not disclosed.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return NewOrderDTO(order), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderListResult, error) {
	return s.List(ctx, ListFilters{UserID: &userID}, params)
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderListResult, error) {
	rows, err := s.orders.List(ctx, filters, params)
	if err != nil {
		return nil, wrapOrderErr(err)
	}

	page, next := pagination.Trim(rows, params.Limit, func(row models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: row.CreatedAt, ID: row.ID}
	})

	result := &OrderListResult{
		Orders:     make([]OrderDTO, 0, len(page)),
		NextCursor: next,
	}
	for i := range page {
		result.Orders = append(result.Orders, *NewOrderDTO(&page[i]))
	}
	return result, nil
}

// Transition moves the order along the state machine. Completion writes the
// sales ledger and retires the sold items inside the same transaction;
// cancellation only stamps the order.
func (s *service) Transition(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.WithTx(tx).FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		rule, ok := canTransition(order, target)
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
		}

		from := order.Status
		at := s.now().UTC()
		order.Status = target
		rule.stamp(order, at)

		if target == enums.OrderStatusCompleted {
			if err := s.fulfillLines(ctx, tx, order, at); err != nil {
				return err
			}
		}

		// Predicated on the loaded status so a concurrent transition rolls
		// this one back instead of clobbering it.
		_, err = s.orders.WithTx(tx).SaveFromStatus(ctx, order, from)
		if err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, wrapOrderErr(err)
	}
	return NewOrderDTO(updated), nil
}

// fulfillLines writes one ledger entry per order line and retires each
// still-resolvable referenced item: status flips to sold, then the row is
// removed. Items already gone (or already sold) are skipped without error.
func (s *service) fulfillLines(ctx context.Context, tx *gorm.DB, order *models.Order, at time.Time) error {
	salesRepo := s.sales.WithTx(tx)
	itemRepo := s.items.WithTx(tx)

	for _, line := range order.Lines {
		record := &models.SalesRecord{
			OrderID:     order.ID,
			ItemCode:    line.ItemCode,
			ItemName:    line.Name,
			Owner:       line.Owner,
			Price:       line.Price,
			Total:       line.Price,
			CompletedAt: at,
		}
		if _, err := salesRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("record sale for %s: %w", line.ItemCode, err)
		}

		if line.Kind != enums.OrderLineKindReference || line.ItemID == nil {
			continue
		}
		if _, err := itemRepo.MarkSoldIfNotSold(ctx, *line.ItemID); err != nil {
			return fmt.Errorf("mark %s sold: %w", line.ItemCode, err)
		}
		if _, err := itemRepo.Delete(ctx, *line.ItemID); err != nil {
			return fmt.Errorf("retire %s: %w", line.ItemCode, err)
		}
	}
	return nil
}

// AdminUpdate patches delivery or payment fields. Status never moves here.
func (s *service) AdminUpdate(ctx context.Context, orderID uuid.UUID, input AdminUpdateInput) (*OrderDTO, error) {
	if input.DeliveryDetails != nil {
		if err := validateDeliveryDetails(*input.DeliveryDetails); err != nil {
			return nil, err
		}
	}
	if input.PaymentMethod != nil && !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid payment method %q", *input.PaymentMethod))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.WithTx(tx).FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if input.DeliveryDetails != nil {
			order.DeliveryDetails = *input.DeliveryDetails
		}
		if input.PaymentMethod != nil {
			order.PaymentMethod = *input.PaymentMethod
		}
		if input.PaymentProofURL != nil {
			order.PaymentProofURL = input.PaymentProofURL
		}
		if input.PaymentDate != nil {
			order.PaymentDate = input.PaymentDate
		}
		if input.RemovePaymentProof {
			order.PaymentProofURL = nil
		}
		_, err = s.orders.WithTx(tx).Save(ctx, order)
		if err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, wrapOrderErr(err)
	}
	return NewOrderDTO(updated), nil
}

// withNumberRetry re-runs fn while the failure is an order-number collision.
func (s *service) withNumberRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < s.retries; attempt++ {
		err = fn()
		if err == nil || !db.IsUniqueViolation(err) {
			return err
		}
	}
	return err
}

func validateCheckout(input CheckoutInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid payment method %q", input.PaymentMethod))
	}
	return validateDeliveryDetails(input.DeliveryDetails)
}

func validateDeliveryDetails(details types.DeliveryDetails) error {
	if !details.Mode.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid delivery mode %q", details.Mode))
	}
	if strings.TrimSpace(details.FullName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient full name required")
	}
	if strings.TrimSpace(details.ContactNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "contact number required")
	}
	if details.Mode == enums.DeliveryModeDelivery {
		if strings.TrimSpace(details.Street) == "" || strings.TrimSpace(details.City) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "street and city required for delivery")
		}
	}
	return nil
}

func wrapOrderErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if errors.Is(err, ErrStatusChanged) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order was updated concurrently")
	}
	var typed *pkgerrors.Error
	if errors.As(err, &typed) {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: order operation")
}
