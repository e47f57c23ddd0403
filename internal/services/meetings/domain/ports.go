package domain

import "context"

// Repo is the read and status-mutation surface over meeting records.
// Record creation belongs to the ingest pipeline, not here
type Repo interface {
	ListByUser(ctx context.Context, userID string) ([]Meeting, error)
	GetByUser(ctx context.Context, userID, meetingID string) (Meeting, bool, error)

	// UpdateStatus advances the row only if it still holds from; ok is
	// false when the row was absent or had already moved on
	UpdateStatus(ctx context.Context, userID, meetingID string, from, to Status) (ok bool, err error)
}
