package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/AFARIMINTAH/Safehaven/internal/api/respond"
	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/services"
)

type MoodHandler struct {
	svc        *services.MoodService
	legacyOpen bool
}

// NewMoodHandler builds the mood routes. legacyOpen permits anonymous callers that
// name the user in the body or path.
func NewMoodHandler(svc *services.MoodService, legacyOpen bool) *MoodHandler {
	return &MoodHandler{svc: svc, legacyOpen: legacyOpen}
}

type moodRequest struct {
	UserID string  `json:"userId"`
	Mood   string  `json:"mood"`
	Note   *string `json:"note,omitempty"`
	Date   string  `json:"date,omitempty"`
}

// resolveUser picks the effective user id: the token's when present (and it must agree
// with any explicit id), otherwise the explicit id when anonymous access is enabled.
func (h *MoodHandler) resolveUser(r *http.Request, explicit string) (string, error) {
	caller := auth.UserID(r.Context())
	if caller != "" {
		if explicit != "" && explicit != caller {
			return "", model.NewForbiddenError("Cannot access another user's moods")
		}
		return caller, nil
	}
	if !h.legacyOpen {
		return "", model.NewUnauthorizedError("No token, authorization denied")
	}
	if explicit == "" {
		return "", model.NewValidationError("userId", "userId is required")
	}
	return explicit, nil
}

// Record POST /api/moods
func (h *MoodHandler) Record(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, "Mood recorded successfully")
}

// Add POST /api/moods/add
func (h *MoodHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.record(w, r, "Mood saved successfully")
}

func (h *MoodHandler) record(w http.ResponseWriter, r *http.Request, message string) {
	var in moodRequest
	if err := decodeJSON(w, r, &in); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	userID, err := h.resolveUser(r, in.UserID)
	if err != nil {
		respond.WriteServiceError(w, err, "Failed to record mood")
		return
	}
	entry, err := h.svc.RecordMood(r.Context(), model.RecordMoodRequest{
		UserID: userID,
		Mood:   in.Mood,
		Note:   in.Note,
		Date:   in.Date,
	})
	if err != nil {
		respond.WriteServiceError(w, err, "Failed to record mood")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]interface{}{"message": message, "mood": entry})
}

// List GET /api/moods/{userId}
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolveUser(r, mux.Vars(r)["userId"])
	if err != nil {
		respond.WriteServiceError(w, err, "Failed to fetch moods")
		return
	}
	moods, err := h.svc.ListMoods(r.Context(), userID)
	if err != nil {
		respond.WriteServiceError(w, err, "Failed to fetch moods")
		return
	}
	if moods == nil {
		moods = []*model.MoodEntry{}
	}
	respond.WriteJSON(w, http.StatusOK, moods)
}
