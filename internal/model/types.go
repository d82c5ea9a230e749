package model

import "time"

// User is a registered account. PasswordHash never leaves the service layer.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreationTime time.Time `json:"creationTime"`
}

// MoodEntry is a single self-reported mood sample.
type MoodEntry struct {
	EntryID      string    `json:"entryId"`
	UserID       string    `json:"userId"`
	Mood         string    `json:"mood"`
	Note         *string   `json:"note,omitempty"`
	Date         time.Time `json:"date"`
	CreationTime time.Time `json:"creationTime"`
}

// JournalEntry stores a short summary of a chat session.
type JournalEntry struct {
	EntryID      string    `json:"entryId"`
	UserID       string    `json:"userId"`
	SessionID    string    `json:"sessionId"`
	Summary      string    `json:"summary"`
	CreationTime time.Time `json:"creationTime"`
}

// Chat roles understood by the completion API.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Counselor is an entry of the referral directory.
type Counselor struct {
	Name      string   `json:"name" yaml:"name"`
	Email     string   `json:"email" yaml:"email"`
	Phone     string   `json:"phone" yaml:"phone"`
	Expertise []string `json:"expertise" yaml:"expertise"`
}

// RecordMoodRequest is the unified input for recording a mood.
// Date accepts YYYY-MM-DD or RFC 3339; empty means "now".
type RecordMoodRequest struct {
	UserID string
	Mood   string
	Note   *string
	Date   string
}

// ReferralRequest asks for a counselor recommendation.
type ReferralRequest struct {
	UserID string
	Name   string
	Email  string
	Reason string
}

// Referral is the recommendation returned to the caller.
type Referral struct {
	Counselor Counselor `json:"counselor"`
	Matched   bool      `json:"matched"`
	Response  string    `json:"response"`
}
