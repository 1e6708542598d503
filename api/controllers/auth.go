package controllers

import (
	"net/http"

	"github.com/relovedmarket/reloved-backend/api/responses"
	"github.com/relovedmarket/reloved-backend/api/validators"
	"github.com/relovedmarket/reloved-backend/internal/auth"
	"github.com/relovedmarket/reloved-backend/pkg/logger"
)

// AuthController exposes register, login, refresh and logout.
type AuthController struct {
	service auth.Service
	logg    *logger.Logger
}

func NewAuthController(service auth.Service, logg *logger.Logger) *AuthController {
	return &AuthController{service: service, logg: logg}
}

func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	result, err := c.service.Register(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, result)
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	result, err := c.service.Login(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}

func (c *AuthController) Refresh(w http.ResponseWriter, r *http.Request) {
	var req auth.RefreshRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	pair, err := c.service.Refresh(r.Context(), req)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, pair)
}

func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	var req auth.LogoutRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	if err := c.service.Logout(r.Context(), req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
}
