package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/relovedmarket/reloved-backend/api/responses"
	"github.com/relovedmarket/reloved-backend/api/validators"
	"github.com/relovedmarket/reloved-backend/internal/cart"
	"github.com/relovedmarket/reloved-backend/pkg/logger"
)

// CartController serves the per-user cart surface.
type CartController struct {
	service cart.Service
	logg    *logger.Logger
}

func NewCartController(service cart.Service, logg *logger.Logger) *CartController {
	return &CartController{service: service, logg: logg}
}

func (c *CartController) View(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.View(r.Context(), userID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

type addCartItemRequest struct {
	ItemID uuid.UUID `json:"item_id" validate:"required"`
}

func (c *CartController) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	var req addCartItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.AddItem(r.Context(), userID, req.ItemID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	dto, err := c.service.RemoveItem(r.Context(), userID, itemID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, dto)
}
