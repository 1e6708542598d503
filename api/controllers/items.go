package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/relovedmarket/reloved-backend/api/responses"
	"github.com/relovedmarket/reloved-backend/api/validators"
	"github.com/relovedmarket/reloved-backend/internal/catalog"
	"github.com/relovedmarket/reloved-backend/pkg/enums"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/logger"
)

// ItemsController serves the public browse surface and the staff CRUD
// surface of the catalog.
type ItemsController struct {
	service catalog.Service
	logg    *logger.Logger
}

func NewItemsController(service catalog.Service, logg *logger.Logger) *ItemsController {
	return &ItemsController{service: service, logg: logg}
}

type createItemRequest struct {
	Name        string   `json:"name" validate:"required"`
	Price       string   `json:"price" validate:"required"`
	Owner       string   `json:"owner" validate:"required"`
	Type        string   `json:"type" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Description string   `json:"description"`
	Condition   *string  `json:"condition"`
	Images      []string `json:"images" validate:"omitempty,max=5,dive,url"`
}

type updateItemRequest struct {
	Name        *string   `json:"name"`
	Price       *string   `json:"price"`
	Owner       *string   `json:"owner"`
	Type        *string   `json:"type"`
	Category    *string   `json:"category"`
	Status      *string   `json:"status"`
	Description *string   `json:"description"`
	Condition   *string   `json:"condition"`
	Images      *[]string `json:"images" validate:"omitempty,max=5,dive,url"`
}

func (c *ItemsController) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req createItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	input, err := createInputFromRequest(req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	item, err := c.service.Create(r.Context(), actor, input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, item)
}

func (c *ItemsController) Update(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req updateItemRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	input, err := updateInputFromRequest(req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	item, err := c.service.Update(r.Context(), itemID, input)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, item)
}

func (c *ItemsController) Delete(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Delete(r.Context(), itemID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "deleted"})
}

func (c *ItemsController) Get(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathUUID(r, "itemId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	item, err := c.service.Get(r.Context(), itemID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, item)
}

func (c *ItemsController) List(w http.ResponseWriter, r *http.Request) {
	params, err := paginationParams(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	filters, err := listFiltersFromQuery(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.service.List(r.Context(), filters, params)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func listFiltersFromQuery(r *http.Request) (catalog.ListFilters, error) {
	filters := catalog.ListFilters{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		category, err := enums.ParseItemCategory(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category filter")
		}
		filters.Category = &category
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		itemType, err := enums.ParseItemType(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid type filter")
		}
		filters.Type = &itemType
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := enums.ParseItemStatus(raw)
		if err != nil {
			return filters, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filters.Status = &status
	}
	return filters, nil
}

func createInputFromRequest(req createItemRequest) (catalog.CreateItemInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return catalog.CreateItemInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}
	return catalog.CreateItemInput{
		Name:        strings.TrimSpace(req.Name),
		Price:       price,
		Owner:       strings.TrimSpace(req.Owner),
		Type:        enums.ItemType(strings.TrimSpace(req.Type)),
		Category:    enums.ItemCategory(strings.TrimSpace(req.Category)),
		Description: strings.TrimSpace(req.Description),
		Condition:   req.Condition,
		Images:      req.Images,
	}, nil
}

func updateInputFromRequest(req updateItemRequest) (catalog.UpdateItemInput, error) {
	input := catalog.UpdateItemInput{
		Name:        req.Name,
		Owner:       req.Owner,
		Description: req.Description,
		Condition:   req.Condition,
		Images:      req.Images,
	}
	if req.Price != nil {
		price, err := decimal.NewFromString(strings.TrimSpace(*req.Price))
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}
	if req.Type != nil {
		itemType := enums.ItemType(strings.TrimSpace(*req.Type))
		input.Type = &itemType
	}
	if req.Category != nil {
		category := enums.ItemCategory(strings.TrimSpace(*req.Category))
		input.Category = &category
	}
	if req.Status != nil {
		status := enums.ItemStatus(strings.TrimSpace(*req.Status))
		input.Status = &status
	}
	return input, nil
}
