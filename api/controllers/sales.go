package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/relovedmarket/reloved-backend/api/responses"
	"github.com/relovedmarket/reloved-backend/internal/sales"
	pkgerrors "github.com/relovedmarket/reloved-backend/pkg/errors"
	"github.com/relovedmarket/reloved-backend/pkg/logger"
)

// SalesController serves the admin reporting view over the sales ledger.
type SalesController struct {
	service sales.Service
	logg    *logger.Logger
}

func NewSalesController(service sales.Service, logg *logger.Logger) *SalesController {
	return &SalesController{service: service, logg: logg}
}

func (c *SalesController) List(w http.ResponseWriter, r *http.Request) {
	params, err := paginationParams(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	filters, err := salesFiltersFromQuery(r)
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

func (c *SalesController) Summary(w http.ResponseWriter, r *http.Request) {
	filters, err := salesFiltersFromQuery(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	summary, err := c.service.Summary(r.Context(), filters)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, summary)
}

func salesFiltersFromQuery(r *http.Request) (sales.ListFilters, error) {
	query := r.URL.Query()
	filters := sales.ListFilters{
		ItemCode: strings.TrimSpace(query.Get("item_code")),
		ItemName: strings.TrimSpace(query.Get("item_name")),
		Owner:    strings.TrimSpace(query.Get("owner")),
	}
	if raw := strings.TrimSpace(query.Get("completed_from")); raw != "" {
		from, err := parseDateParam(raw, false)
		if err != nil {
			return filters, err
		}
		filters.CompletedFrom = &from
	}
	if raw := strings.TrimSpace(query.Get("completed_to")); raw != "" {
		to, err := parseDateParam(raw, true)
		if err != nil {
			return filters, err
		}
		filters.CompletedTo = &to
	}
	return filters, nil
}

// parseDateParam accepts RFC3339 timestamps or bare dates. A bare date used
// as a range end covers the whole day.
func parseDateParam(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date parameter")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
