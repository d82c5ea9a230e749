package api

import (
	"net/http"

	"github.com/AFARIMINTAH/Safehaven/internal/api/respond"
	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/services"
)

type ReferralHandler struct {
	svc *services.ReferralService
}

func NewReferralHandler(svc *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{svc: svc}
}

// Counselors GET /api/counselors
func (h *ReferralHandler) Counselors(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.svc.Counselors())
}

// Refer POST /api/referrals
func (h *ReferralHandler) Refer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.Refer(r.Context(), model.ReferralRequest{
		UserID: auth.UserID(r.Context()),
		Name:   in.Name,
		Email:  in.Email,
		Reason: in.Reason,
	})
	if err != nil {
		respond.WriteServiceError(w, err, "Failed to find a counselor")
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}
