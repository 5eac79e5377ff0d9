package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tracker/internal/shared/server/middleware"
	"resume-tracker/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches account routes. Sign-up, sign-in and refresh are
// public; sign-out and me require a bearer token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/sign-up", h.signUp)
	rg.POST("/auth/sign-in", h.signIn)
	rg.POST("/auth/refresh", h.refresh)
	rg.POST("/auth/sign-out", h.signOut)
	rg.GET("/me", h.me)
}

type signUpRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

func (h *Handler) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Svc.SignUp(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword, req.Name)
	if err != nil {
		h.renderError(c, err, "failed to sign up")
		return
	}

	respond.JSON(c, http.StatusCreated, user)
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	tokens, err := h.Svc.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.renderError(c, err, "failed to sign in")
		return
	}

	respond.OK(c, tokens)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *Handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "refreshToken is required", nil)
		return
	}

	tokens, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.renderError(c, err, "failed to refresh tokens")
		return
	}

	respond.OK(c, tokens)
}

func (h *Handler) signOut(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	if err := h.Svc.Logout(c.Request.Context(), userID); err != nil {
		h.renderError(c, err, "failed to sign out")
		return
	}

	respond.OK(c, gin.H{"message": "signed out"})
}

func (h *Handler) me(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	user, err := h.Svc.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.renderError(c, err, "failed to fetch account")
		return
	}

	respond.OK(c, user)
}

func (h *Handler) renderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrDuplicateEmail):
		respond.Error(c, http.StatusBadRequest, "validation_error", "email already registered", nil)
	case errors.Is(err, ErrInvalidCredentials):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
