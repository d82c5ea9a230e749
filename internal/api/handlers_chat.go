package api

import (
	"net/http"

	"github.com/AFARIMINTAH/Safehaven/internal/api/respond"
	"github.com/AFARIMINTAH/Safehaven/internal/auth"
	"github.com/AFARIMINTAH/Safehaven/internal/chat"
)

type ChatHandler struct {
	mgr *chat.Manager
}

func NewChatHandler(mgr *chat.Manager) *ChatHandler { return &ChatHandler{mgr: mgr} }

// Chat POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Message   *string `json:"message"`
		SessionID string  `json:"sessionId"`
	}
	if err := decodeJSON(w, r, &in); err != nil || in.Message == nil {
		respond.WriteBadRequest(w, chat.MsgInvalidMessage)
		return
	}
	reply, err := h.mgr.Send(r.Context(), auth.UserID(r.Context()), in.SessionID, *in.Message)
	if err != nil {
		respond.WriteServiceError(w, err, "Error processing your message")
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"response": reply})
}
