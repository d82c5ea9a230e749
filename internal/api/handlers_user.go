package api

import (
	"net/http"

	"github.com/AFARIMINTAH/Safehaven/internal/api/respond"
	"github.com/AFARIMINTAH/Safehaven/internal/services"
)

type UserHandler struct {
	svc *services.AuthService
}

func NewUserHandler(svc *services.AuthService) *UserHandler { return &UserHandler{svc: svc} }

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register POST /user/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	token, err := h.svc.Register(r.Context(), in.Email, in.Password)
	if err != nil {
		respond.WriteServiceError(w, err, "Server error during registration")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// Login POST /user/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	token, err := h.svc.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		respond.WriteServiceError(w, err, "Server error during login")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}
