package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/AFARIMINTAH/Safehaven/internal/model"
	"github.com/AFARIMINTAH/Safehaven/internal/store"
)

// Open opens (or creates) a SQLite database at the given path with WAL journaling.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is empty")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_time_format=sqlite", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// New opens the database at path, applies the schema and returns a store.
func New(ctx context.Context, path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB wraps an already-migrated database.
func NewWithDB(db *sql.DB) store.Store { return &sqliteStore{db: db} }

type sqliteStore struct{ db *sql.DB }

func (s *sqliteStore) Users() store.Users       { return &users{db: s.db} }
func (s *sqliteStore) Moods() store.Moods       { return &moods{db: s.db} }
func (s *sqliteStore) Journals() store.Journals { return &journals{db: s.db} }
func (s *sqliteStore) Close() error             { return s.db.Close() }

// HealthPing implements health.HealthPinger.
func (s *sqliteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var se *msqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(se.Error(), "UNIQUE")
	}
	return false
}

// --- Users ---
type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	now := time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, email, password_hash, creation_time)
        VALUES (?,?,?,?)
    `, m.UserID, m.Email, m.PasswordHash, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, model.NewConflictError("email", "User already exists")
		}
		return nil, err
	}
	out := *m
	out.CreationTime = now
	return &out, nil
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, password_hash, creation_time FROM users WHERE email=?
    `, email)
	return scanUser(row, "email")
}

func (u *users) GetByID(ctx context.Context, userID string) (*model.User, error) {
	row := u.db.QueryRowContext(ctx, `
        SELECT user_id, email, password_hash, creation_time FROM users WHERE user_id=?
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
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO mood_entries (entry_id, user_id, mood, note, mood_date, creation_time)
        VALUES (?,?,?,?,?,?)
    `, m.EntryID, m.UserID, m.Mood, m.Note, m.Date.UTC(), now)
	if err != nil {
		return nil, err
	}
	out := *m
	out.Date = m.Date.UTC()
	out.CreationTime = now
	return &out, nil
}

func (s *moods) ListByUser(ctx context.Context, userID string) ([]*model.MoodEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT entry_id, user_id, mood, note, mood_date, creation_time
        FROM mood_entries WHERE user_id=?
        ORDER BY mood_date DESC, creation_time DESC, entry_id DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	res := []*model.MoodEntry{}
	for rows.Next() {
		var e model.MoodEntry
		var note sql.NullString
		if err := rows.Scan(&e.EntryID, &e.UserID, &e.Mood, &note, &e.Date, &e.CreationTime); err != nil {
			return nil, err
		}
		if note.Valid {
			n := note.String
			e.Note = &n
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}

// --- Journals ---
type journals struct{ db *sql.DB }

func (s *journals) Create(ctx context.Context, j *model.JournalEntry) (*model.JournalEntry, error) {
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO journal_entries (entry_id, user_id, session_id, summary, creation_time)
        VALUES (?,?,?,?,?)
    `, j.EntryID, j.UserID, j.SessionID, j.Summary, now)
	if err != nil {
		return nil, err
	}
	out := *j
	out.CreationTime = now
	return &out, nil
}

func (s *journals) ListByUser(ctx context.Context, userID string) ([]*model.JournalEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT entry_id, user_id, session_id, summary, creation_time
        FROM journal_entries WHERE user_id=?
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
