package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/AFARIMINTAH/Safehaven/internal/api/respond"
	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/services"
)

type JournalHandler struct {
	svc *services.JournalService
}

func NewJournalHandler(svc *services.JournalService) *JournalHandler {
	return &JournalHandler{svc: svc}
}

// Create POST /api/journal. An empty body summarizes the default session.
func (h *JournalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in struct {
		SessionID string  `json:"sessionId"`
		Summary   *string `json:"summary,omitempty"`
	}
	if err := decodeJSON(w, r, &in); err != nil && !errors.Is(err, io.EOF) {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	entry, err := h.svc.CreateEntry(r.Context(), auth.UserID(r.Context()), in.SessionID, in.Summary)
	if err != nil {
		respond.WriteServiceError(w, err, "Failed to save journal entry")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, entry)
}

// List GET /api/journal
func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.ListEntries(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.WriteServiceError(w, err, "Failed to fetch journal")
		return
	}
	if entries == nil {
		entries = []*model.JournalEntry{}
	}
	respond.WriteJSON(w, http.StatusOK, entries)
}
