package store

import (
	"context"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (sqlite, postgres).
type Store interface {
	Users() Users
	Moods() Moods
	Journals() Journals
	Close() error
}

// Users persists credential records. Email is unique; a duplicate insert
// returns model.ConflictError. Lookups of missing rows return model.NotFoundError.
type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, userID string) (*model.User, error)
}

// Moods is append-only. ListByUser orders by date, then creation time, newest first.
type Moods interface {
	Create(ctx context.Context, m *model.MoodEntry) (*model.MoodEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*model.MoodEntry, error)
}

// Journals is append-only. ListByUser orders by creation time, newest first.
type Journals interface {
	Create(ctx context.Context, j *model.JournalEntry) (*model.JournalEntry, error)
	ListByUser(ctx context.Context, userID string) ([]*model.JournalEntry, error)
}
