package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/relovedmarket/reloved-backend/api/responses"
	"github.com/relovedmarket/reloved-backend/api/validators"
	"github.com/relovedmarket/reloved-backend/internal/orders"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/logger"
	"github.com/relovedmarket/reloved-backend/pkg/types"
)

// OrdersController serves checkout, the customer order history, the staff
// order board, and the admin transition/override endpoints.
type OrdersController struct {
	service orders.Service
	logg    *logger.Logger
}

func NewOrdersController(service orders.Service, logg *logger.Logger) *OrdersController {
	return &OrdersController{service: service, logg: logg}
}

type deliveryDetailsRequest struct {
	FullName      string    `json:"full_name" validate:"required"`
	ContactNumber string    `json:"contact_number" validate:"required"`
	Street        string    `json:"street"`
	City          string    `json:"city"`
	Mode          string    `json:"mode" validate:"required"`
	Date          time.Time `json:"date"`
}

type checkoutRequest struct {
	DeliveryDetails deliveryDetailsRequest `json:"delivery_details" validate:"required"`
	PaymentMethod   string                 `json:"payment_method" validate:"required"`
	PaymentProofURL *string                `json:"payment_proof_url" validate:"omitempty,url"`
	PaymentDate     *time.Time             `json:"payment_date"`
}

func (req deliveryDetailsRequest) toDetails() types.DeliveryDetails {
	return types.DeliveryDetails{
		FullName:      strings.TrimSpace(req.FullName),
		ContactNumber: strings.TrimSpace(req.ContactNumber),
		Street:        strings.TrimSpace(req.Street),
		City:          strings.TrimSpace(req.City),
		Mode:          enums.DeliveryMode(strings.TrimSpace(req.Mode)),
		Date:          req.Date,
	}
}

func (c *OrdersController) Checkout(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req checkoutRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	order, err := c.service.Checkout(r.Context(), orders.CheckoutInput{
		UserID:          userID,
		DeliveryDetails: req.DeliveryDetails.toDetails(),
		PaymentMethod:   enums.PaymentMethod(strings.TrimSpace(req.PaymentMethod)),
		PaymentProofURL: req.PaymentProofURL,
		PaymentDate:     req.PaymentDate,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, order)
}

func (c *OrdersController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	params, err := paginationParams(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	result, err := c.service.ListForUser(r.Context(), userID, params)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func (c *OrdersController) GetMine(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	order, err := c.service.GetForUser(r.Context(), userID, orderID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}

// ListAll serves the staff/admin order board with an optional status filter.
func (c *OrdersController) ListAll(w http.ResponseWriter, r *http.Request) {
	params, err := paginationParams(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var filters orders.ListFilters
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseOrderStatus(raw)
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
			return
		}
		filters.Status = &status
	}

	result, err := c.service.List(r.Context(), filters, params)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func (c *OrdersController) GetAny(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	order, err := c.service.Get(r.Context(), orderID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}

type transitionRequest struct {
	Event string `json:"event" validate:"required"`
}

func (c *OrdersController) Transition(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req transitionRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	event, err := enums.ParseOrderEvent(strings.TrimSpace(req.Event))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transition event"))
		return
	}
	target, ok := orders.TargetForEvent(event)
	if !ok {
		responses.WriteError(r.Context(), c.logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid transition event"))
		return
	}

	order, err := c.service.Transition(r.Context(), orderID, target)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}

type adminUpdateRequest struct {
	DeliveryDetails *deliveryDetailsRequest `json:"delivery_details"`
	PaymentMethod   *string                 `json:"payment_method"`
	PaymentProofURL *string                 `json:"payment_proof_url" validate:"omitempty,url"`
	PaymentDate     *time.Time              `json:"payment_date"`
}

// AdminUpdate is the privileged escape hatch for delivery and payment
// fields. Status is not accepted here.
func (c *OrdersController) AdminUpdate(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "orderId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req adminUpdateRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	input := orders.AdminUpdateInput{
		PaymentProofURL: req.PaymentProofURL,
		PaymentDate:     req.PaymentDate,
	}
	if req.DeliveryDetails != nil {
		details := req.DeliveryDetails.toDetails()
		input.DeliveryDetails = &details
	}
	if req.PaymentMethod != nil {
		method := enums.PaymentMethod(strings.TrimSpace(*req.PaymentMethod))
		input.PaymentMethod = &method
	}

	order, err := c.service.AdminUpdate(r.Context(), orderID, input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, order)
}
