package domain

import (
	"context"

	cdom "meetscribe/internal/services/connect/domain"
	"meetscribe/internal/services/zoom"
)

// Repo is the write surface the pipeline owns: meeting record creation
type Repo interface {
	// InsertMeeting creates the record; a duplicate (user_id, meeting_id)
	// is a no-op success so redelivered webhooks stay idempotent
	InsertMeeting(ctx context.Context, m Meeting) error
}

// Accounts resolves inbound deliveries to a user and their stored
// credentials. Satisfied by the connect repo
type Accounts interface {
	UserByAccount(ctx context.Context, accountID string) (userID string, ok bool, err error)
	ConnectionByUser(ctx context.Context, userID string) (cdom.Connection, bool, error)
}

// Provider is the slice of the provider client the fetcher needs
type Provider interface {
	ListRecordings(ctx context.Context, accessToken, meetingID string) ([]zoom.RecordingFile, error)
	Download(ctx context.Context, accessToken, url string) ([]byte, error)
}

// Outcome labels one delivery in the audit trail
type Outcome string

// Audit outcomes. Dropped means the event is permanently lost; ignored
// means it was never ours to act on
const (
	OutcomeStored           Outcome = "stored"
	OutcomeIgnoredEvent     Outcome = "ignored_event"
	OutcomeDroppedNoAccount Outcome = "dropped_unknown_account"
	OutcomeDroppedNoConn    Outcome = "dropped_missing_connection"
	OutcomeFailedDownload   Outcome = "failed_download"
	OutcomeFailedStorage    Outcome = "failed_storage"
	OutcomeFailedRecord     Outcome = "failed_record"
)

// AuditEvent is one row in the delivery audit trail
type AuditEvent struct {
	Event     string
	MeetingID string
	AccountID string
	UserID    string
	Outcome   Outcome
	Detail    string
}

// Audit records delivery outcomes so dropped events are distinguishable
// from ignored ones after the fact. Implementations must not fail the
// pipeline; sink errors are their own problem
type Audit interface {
	Record(ctx context.Context, e AuditEvent)
}
