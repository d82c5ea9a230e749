package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/persona"
	"github.com/AFARIMINTAH/Safehaven/internal/store"
	"github.com/AFARIMINTAH/Safehaven/internal/validate"
)

const maxNoteLength = 1000

// MoodService records and lists mood entries.
type MoodService struct {
	store   store.Store
	persona *persona.Persona
	now     func() time.Time
}

func NewMoodService(s store.Store, p *persona.Persona) *MoodService {
	return &MoodService{store: s, persona: p, now: time.Now}
}

// RecordMood validates and appends one entry. Mood is lowercased and must be in the
// persona vocabulary; an empty date means the current server time.
func (s *MoodService) RecordMood(ctx context.Context, req model.RecordMoodRequest) (*model.MoodEntry, error) {
	if err := validate.NonEmpty("userId", req.UserID); err != nil {
		return nil, err
	}
	mood := strings.ToLower(strings.TrimSpace(req.Mood))
	if mood == "" {
		return nil, model.NewValidationError("mood", "Please provide a mood.")
	}
	if !s.persona.AllowsMood(mood) {
		return nil, model.NewValidationError("mood", fmt.Sprintf("mood must be one of: %s", strings.Join(s.persona.Moods, ", ")))
	}
	if err := validate.MaxLen("note", req.Note, maxNoteLength); err != nil {
		return nil, err
	}

	date := s.now().UTC()
	if strings.TrimSpace(req.Date) != "" {
		d, err := validate.MoodDate(req.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	var note *string
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		n := strings.TrimSpace(*req.Note)
		note = &n
	}

	out, err := s.store.Moods().Create(ctx, &model.MoodEntry{
		EntryID: uuid.New().String(),
		UserID:  req.UserID,
		Mood:    mood,
		Note:    note,
		Date:    date,
	})
	if err != nil {
		return nil, fmt.Errorf("record mood: %w", err)
	}
	return out, nil
}

// ListMoods returns the user's entries, newest first.
func (s *MoodService) ListMoods(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	if err := validate.NonEmpty("userId", userID); err != nil {
		return nil, err
	}
	out, err := s.store.Moods().ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	return out, nil
}
