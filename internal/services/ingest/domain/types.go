// Package domain defines the core types and ports for the ingest pipeline
package domain

import (
	"encoding/json"

	"meetscribe/internal/services/zoom"
)

// EventRecordingCompleted is the only event class the pipeline acts on
const EventRecordingCompleted = "recording.completed"

// Event is the outer provider delivery. Payload stays raw until the event
// class is known; only recording.completed payloads have a required shape
type Event struct {
	Event   string          `json:"event" validate:"required"`
	Payload json.RawMessage `json:"payload" validate:"-"`
}

// RecordingPayload is the validated payload of a recording.completed event
type RecordingPayload struct {
	Object Recording `json:"object" validate:"required"`
}

// Recording identifies one finished meeting recording
type Recording struct {
	ID             string               `json:"id" validate:"required"`
	HostID         string               `json:"host_id" validate:"required"`
	Topic          string               `json:"topic"`
	RecordingFiles []zoom.RecordingFile `json:"recording_files"`
}

// Meeting is the persisted record for a stored recording artifact
type Meeting struct {
	UserID       string
	MeetingID    string
	Topic        string
	RecordingURL string
	Status       string
}

// StatusPending is the status every meeting row is created with
const StatusPending = "pending_transcription"

// ArtifactKey is the storage key for a meeting recording. It is
// deterministic: one recording per meeting, re-ingestion overwrites
func ArtifactKey(userID, meetingID string) string {
	return "users/" + userID + "/meetings/" + meetingID + "/recording.mp4"
}
