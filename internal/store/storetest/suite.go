// Package storetest holds a driver-agnostic compliance suite for store.Store.
package storetest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	userID := uuid.New().String()
	email := "u-" + userID + "@example.test"

	// Users
	u := &model.User{UserID: userID, Email: email, PasswordHash: "$2a$10$hash"}
	created, err := s.Users().Create(ctx, u)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if created.CreationTime.IsZero() {
		t.Fatalf("CreateUser: creation time not set")
	}
	if got, err := s.Users().GetByEmail(ctx, email); err != nil || got.UserID != userID || got.PasswordHash != u.PasswordHash {
		t.Fatalf("GetByEmail: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByID(ctx, userID); err != nil || got.Email != email {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if _, err := s.Users().GetByEmail(ctx, "missing-"+email); !model.IsNotFoundError(err) {
		t.Fatalf("GetByEmail missing: expected NotFoundError, got %v", err)
	}
	dup := &model.User{UserID: uuid.New().String(), Email: email, PasswordHash: "x"}
	if _, err := s.Users().Create(ctx, dup); !model.IsConflictError(err) {
		t.Fatalf("CreateUser duplicate email: expected ConflictError, got %v", err)
	}

	// Moods
	if lst, err := s.Moods().ListByUser(ctx, userID); err != nil || len(lst) != 0 {
		t.Fatalf("ListMoods empty: n=%d err=%v", len(lst), err)
	}
	note := "slept well"
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, mood := range []string{"sad", "happy", "neutral"} {
		m := &model.MoodEntry{
			EntryID: uuid.New().String(),
			UserID:  userID,
			Mood:    mood,
			Date:    base.Add(time.Duration(i) * 24 * time.Hour),
		}
		if mood == "happy" {
			m.Note = &note
		}
		if _, err := s.Moods().Create(ctx, m); err != nil {
			t.Fatalf("CreateMood %s: %v", mood, err)
		}
	}
	other := &model.MoodEntry{EntryID: uuid.New().String(), UserID: uuid.New().String(), Mood: "angry", Date: base}
	if _, err := s.Moods().Create(ctx, other); err != nil {
		t.Fatalf("CreateMood other user: %v", err)
	}
	moods, err := s.Moods().ListByUser(ctx, userID)
	if err != nil || len(moods) != 3 {
		t.Fatalf("ListMoods: n=%d err=%v", len(moods), err)
	}
	if moods[0].Mood != "neutral" || moods[1].Mood != "happy" || moods[2].Mood != "sad" {
		t.Fatalf("ListMoods: unexpected order %s,%s,%s", moods[0].Mood, moods[1].Mood, moods[2].Mood)
	}
	if moods[1].Note == nil || *moods[1].Note != note {
		t.Fatalf("ListMoods: note not round-tripped: %v", moods[1].Note)
	}
	if moods[2].Note != nil {
		t.Fatalf("ListMoods: expected nil note, got %q", *moods[2].Note)
	}
	if !moods[0].Date.Equal(base.Add(48 * time.Hour)) {
		t.Fatalf("ListMoods: date = %v", moods[0].Date)
	}

	// Journals
	for _, summary := range []string{"first talk", "second talk"} {
		j := &model.JournalEntry{EntryID: uuid.New().String(), UserID: userID, SessionID: "default_session", Summary: summary}
		if _, err := s.Journals().Create(ctx, j); err != nil {
			t.Fatalf("CreateJournal: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	journals, err := s.Journals().ListByUser(ctx, userID)
	if err != nil || len(journals) != 2 {
		t.Fatalf("ListJournals: n=%d err=%v", len(journals), err)
	}
	if !strings.HasPrefix(journals[0].Summary, "second") {
		t.Fatalf("ListJournals: expected newest first, got %q", journals[0].Summary)
	}
}
