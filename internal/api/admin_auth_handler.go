package api

import (
	"errors"
	"net/http"

	apperrors "smartparking/internal/errors"
	"smartparking/internal/service"
	"smartparking/internal/validator"
)

type AdminAuthHandler struct {
	service service.AdminAuthService
}

func NewAdminAuthHandler(svc service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{service: svc}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, r, apperrors.ErrUnauthorized("Invalid credentials"))
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// CreateAdmin registers another admin; it is mounted behind the admin middleware.
func (h *AdminAuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := validator.Decode(r.Body, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.service.CreateAdmin(r.Context(), req.Email, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Admin registered successfully"})
}
