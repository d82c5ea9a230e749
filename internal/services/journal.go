package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AFARIMINTAH/Safehaven/internal/chat"
	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/store"
	"github.com/AFARIMINTAH/Safehaven/internal/validate"
)

const maxSummaryLength = 500

// Summarizer produces a short summary of a chat session.
type Summarizer interface {
	Summarize(ctx context.Context, userID, sessionID string) (string, error)
}

// JournalService stores conversation summaries.
type JournalService struct {
	store      store.Store
	summarizer Summarizer
}

func NewJournalService(s store.Store, summarizer Summarizer) *JournalService {
	return &JournalService{store: s, summarizer: summarizer}
}

// CreateEntry stores summary as given, or asks the summarizer when summary is empty.
func (s *JournalService) CreateEntry(ctx context.Context, userID, sessionID string, summary *string) (*model.JournalEntry, error) {
	if err := validate.NonEmpty("userId", userID); err != nil {
		return nil, err
	}
	if sessionID == "" {
		sessionID = chat.DefaultSessionID
	}

	var text string
	if summary != nil {
		text = strings.TrimSpace(*summary)
	}
	if text == "" {
		out, err := s.summarizer.Summarize(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}
		text = strings.TrimSpace(out)
	}
	if err := validate.MaxLen("summary", &text, maxSummaryLength); err != nil {
		return nil, err
	}

	out, err := s.store.Journals().Create(ctx, &model.JournalEntry{
		EntryID:   uuid.New().String(),
		UserID:    userID,
		SessionID: sessionID,
		Summary:   text,
	})
	if err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	return out, nil
}

// ListEntries returns the user's journal, newest first.
func (s *JournalService) ListEntries(ctx context.Context, userID string) ([]*model.JournalEntry, error) {
	out, err := s.store.Journals().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	return out, nil
}
