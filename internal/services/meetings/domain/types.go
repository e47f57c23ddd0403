// Package domain defines the meeting record and its lifecycle
package domain

import "time"

// Status is the transcription lifecycle state of a meeting record
type Status string

// Lifecycle states. A record is created pending and advances strictly
// forward; completed and failed are terminal
const (
	StatusPending      Status = "pending_transcription"
	StatusTranscribing Status = "transcribing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

// Valid reports whether s names a known state
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusTranscribing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether from may advance to to
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusTranscribing
	case StatusTranscribing:
		return to == StatusCompleted || to == StatusFailed
	}
	return false
}

// Meeting is one stored recording and its lifecycle state
type Meeting struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"user_id"`
	MeetingID    string    `json:"meeting_id"`
	Topic        string    `json:"topic"`
	RecordingURL string    `json:"recording_url"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// StatusInput is the transcription collaborator's transition request
type StatusInput struct {
	Status Status `json:"status" validate:"required,oneof=transcribing completed failed"`
}
