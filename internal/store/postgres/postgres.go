package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/store"
)

const uniqueViolation = "23505"

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Users() store.Users       { return &users{db: s.db} }
func (s *pgStore) Moods() store.Moods       { return &moods{db: s.db} }
func (s *pgStore) Journals() store.Journals { return &journals{db: s.db} }
func (s *pgStore) Close() error             { return s.db.Close() }

// HealthPing implements health.HealthPinger for Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
        user_id TEXT PRIMARY KEY,
        email TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        creation_time TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS mood_entries (
        entry_id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        mood TEXT NOT NULL,
        note TEXT,
        mood_date TIMESTAMPTZ NOT NULL,
        creation_time TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_mood_entries_user_date ON mood_entries(user_id, mood_date DESC, creation_time DESC)`,
	`CREATE TABLE IF NOT EXISTS journal_entries (
        entry_id TEXT PRIMARY KEY,
        user_id TEXT NOT NULL,
        session_id TEXT NOT NULL,
        summary TEXT NOT NULL,
        creation_time TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_journal_entries_user ON journal_entries(user_id, creation_time DESC)`,
}

// Bootstrap verifies connectivity and creates missing tables.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return err
	}
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("postgres schema: %w", err)
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	var created time.Time
	row := u.db.QueryRowContext(ctx, `
        INSERT INTO users (user_id, email, password_hash)
        VALUES ($1,$2,$3)
        RETURNING creation_time
    `, m.UserID, m.Email, m.PasswordHash)
	if err := row.Scan(&created); err != nil {
		if isUniqueViolation(err) {
			return nil, model.NewConflictError("email", "User already exists")
		}
		return nil, err
	}
	out := *m
	out.CreationTime = created
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, password_hash, creation_time FROM users WHERE email=$1
    `, email)
	return scanUser(row, "email")
}

func (u *users) GetByID(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, password_hash, creation_time FROM users WHERE user_id=$1
    `, userID)
	return scanUser(row, "userId")
}

func scanUser(row *sql.Row, field string) (*model.User, error) {
	var out model.User
	if err := row.Scan(&out.UserID, &out.Email, &out.PasswordHash, &out.CreationTime); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NewNotFoundError(field, "user not found")
		}
		return nil, err
	}
	return &out, nil
}

// --- Moods ---
type moods struct{ db *sql.DB }

func (s *moods) Create(ctx context.Context, m *model.MoodEntry) (*model.MoodEntry, error) {
	var created time.Time
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO mood_entries (entry_id, user_id, mood, note, mood_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING creation_time
    `, m.EntryID, m.UserID, m.Mood, m.Note, m.Date.UTC())
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *m
	out.Date = m.Date.UTC()
	out.CreationTime = created
	return &out, nil
}

func (s *moods) ListByUser(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT entry_id, user_id, mood, note, mood_date, creation_time
        FROM mood_entries WHERE user_id=$1
        ORDER BY mood_date DESC, creation_time DESC, entry_id DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	res := []*model.MoodEntry{}
	for rows.Next() {
		var e model.MoodEntry
		var note *string
		if err := rows.Scan(&e.EntryID, &e.UserID, &e.Mood, &note, &e.Date, &e.CreationTime); err != nil {
			return nil, err
		}
		e.Note = note
		e.Date = e.Date.UTC()
		res = append(res, &e)
	}
	return res, rows.Err()
}

// --- Journals ---
type journals struct{ db *sql.DB }

func (s *journals) Create(ctx context.Context, j *model.JournalEntry) (*model.JournalEntry, error) {
	var created time.Time
	row := s.db.QueryRowContext(ctx, `
        INSERT INTO journal_entries (entry_id, user_id, session_id, summary)
        VALUES ($1,$2,$3,$4)
        RETURNING creation_time
    `, j.EntryID, j.UserID, j.SessionID, j.Summary)
	if err := row.Scan(&created); err != nil {
		return nil, err
	}
	out := *j
	out.CreationTime = created
	return &out, nil
}

func (s *journals) ListByUser(ctx context.Context, userID string) ([]*model.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT entry_id, user_id, session_id, summary, creation_time
        FROM journal_entries WHERE user_id=$1
        ORDER BY creation_time DESC, entry_id DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	res := []*model.JournalEntry{}
	for rows.Next() {
		var j model.JournalEntry
		if err := rows.Scan(&j.EntryID, &j.UserID, &j.SessionID, &j.Summary, &j.CreationTime); err != nil {
			return nil, err
		}
		res = append(res, &j)
	}
	return res, rows.Err()
}
