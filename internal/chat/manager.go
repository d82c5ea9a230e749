// Package chat keeps per-session conversation buffers and relays them to the completion API.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/AFARIMINTAH/Safehaven/internal/metrics"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/persona"
)

// DefaultSessionID is used when the caller does not name a session.
const DefaultSessionID = "default_session"

// MsgInvalidMessage is returned for a missing, non-string or blank message.
const MsgInvalidMessage = "Invalid message format."

// Completer is the outbound completion API.
type Completer interface {
	Complete(ctx context.Context, messages []model.ChatMessage) (string, error)
}

// Manager runs chat turns.
type Manager struct {
	sessions    *SessionStore
	completer   Completer
	persona     *persona.Persona
	maxMessages int
	log         zerolog.Logger
}

// Options configures a Manager.
type Options struct {
	MaxMessages int
	Capacity    int
	TTL         time.Duration
}

func NewManager(p *persona.Persona, completer Completer, opts Options, log zerolog.Logger) *Manager {
	if opts.MaxMessages < 2 {
		opts.MaxMessages = 30
	}
	return &Manager{
		sessions:    NewSessionStore(p.SystemPrompt(), opts.Capacity, opts.TTL),
		completer:   completer,
		persona:     p,
		maxMessages: opts.MaxMessages,
		log:         log,
	}
}

// SessionKey scopes a client session id to its owner.
func SessionKey(userID, sessionID string) string {
	if sessionID == "" {
		sessionID = DefaultSessionID
	}
	return userID + "/" + sessionID
}

// Send appends message to the caller's session, asks the completion API for a reply
// and appends the reply. The user turn stays buffered when the upstream call fails.
func (m *Manager) Send(ctx context.Context, userID, sessionID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", model.NewValidationError("message", MsgInvalidMessage)
	}
	key := SessionKey(userID, sessionID)
	sess := m.sessions.Acquire(key)
	defer sess.mu.Unlock()

	sess.messages = append(sess.messages, model.ChatMessage{Role: model.RoleUser, Content: message})
	sess.messages = truncate(sess.messages, m.maxMessages)

	outbound := append([]model.ChatMessage(nil), sess.messages...)
	start := time.Now()
	reply, err := m.completer.Complete(ctx, outbound)
	metrics.RecordCompletion(time.Since(start), err)
	m.sessions.Touch(key, sess)
	if err != nil {
		m.log.Error().Stack().Err(err).Str("session", key).Msg("completion failed")
		return "", err
	}

	sess.messages = append(sess.messages, model.ChatMessage{Role: model.RoleAssistant, Content: reply})
	sess.messages = truncate(sess.messages, m.maxMessages)

	m.logVideoLinks(key, reply)
	return reply, nil
}

// Complete runs a one-shot completion outside any session: the persona prompt plus one user message.
func (m *Manager) Complete(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", model.NewValidationError("message", MsgInvalidMessage)
	}
	msgs := []model.ChatMessage{
		{Role: model.RoleSystem, Content: m.persona.SystemPrompt()},
		{Role: model.RoleUser, Content: message},
	}
	start := time.Now()
	reply, err := m.completer.Complete(ctx, msgs)
	metrics.RecordCompletion(time.Since(start), err)
	return reply, err
}

// Summarize asks for a short summary of the caller's session through the normal turn path.
func (m *Manager) Summarize(ctx context.Context, userID, sessionID string) (string, error) {
	return m.Send(ctx, userID, sessionID, m.persona.SummaryInstruction)
}

// History returns a copy of a session's buffer, or false if it does not exist.
func (m *Manager) History(userID, sessionID string) ([]model.ChatMessage, bool) {
	sess, ok := m.sessions.Get(SessionKey(userID, sessionID))
	if !ok {
		return nil, false
	}
	return sess.Messages(), true
}

func (m *Manager) logVideoLinks(key, reply string) {
	links := ExtractVideoLinks(reply)
	if len(links) == 0 {
		return
	}
	for _, l := range links {
		ok := m.persona.IsWhitelistedLink(l)
		metrics.RecordVideoLink(ok)
		if !ok {
			m.log.Warn().Str("session", key).Str("link", l).Msg("assistant suggested a link outside the whitelist")
		}
	}
	m.log.Info().Str("session", key).Strs("links", links).Msg("suggested videos")
}
