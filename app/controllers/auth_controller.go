package controllers

import (
	"log/slog"
	"net/http"

	"taskmanager/app/middleware"
	"taskmanager/app/models"
	"taskmanager/app/render"
	"taskmanager/app/services"
)

// AuthController handles registration, login and the current-user lookup.
type AuthController struct {
	Service *services.AuthService
	Logger  *slog.Logger
}

// NewAuthController creates a new AuthController.
func NewAuthController(service *services.AuthService, logger *slog.Logger) *AuthController {
	return &AuthController{Service: service, Logger: logger}
}

// Register handles POST /api/auth/register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}

	token, user, err := c.Service.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}
	c.Logger.Info("user registered", "user", user.ID)
	render.JSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: user.Public()})
}

// Login handles POST /api/auth/login.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}

	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}
	render.JSON(w, http.StatusOK, models.AuthResponse{Token: token, User: user.Public()})
}

// Me handles GET /api/auth/me.
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user, err := c.Service.CurrentUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		render.Error(w, r, c.Logger, err)
		return
	}
	render.JSON(w, http.StatusOK, user.Public())
}
