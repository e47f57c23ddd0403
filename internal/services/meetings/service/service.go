// Package service implements meeting reads, lifecycle transitions, and
// video artifact access
package service

import (
	"context"
	"time"

	"meetscribe/internal/modkit/repokit"
	"meetscribe/internal/platform/blob"
	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/platform/logger"
	"meetscribe/internal/services/meetings/domain"
	mrepo "meetscribe/internal/services/meetings/repo"
)

// presignTTL bounds how long a handed-out video link stays valid
const presignTTL = time.Hour

// Svc implements the meetings service
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.Repo]
	repo   domain.Repo
	blobs  blob.Store
}

// New constructs the service
func New(db repokit.TxRunner, blobs blob.Store) *Svc {
	b := mrepo.NewPG()
	return &Svc{
		db:     db,
		binder: b,
		repo:   b.Bind(repokit.RequireQueryer(db)),
		blobs:  blobs,
	}
}

// List returns the user's meetings, newest first
func (s *Svc) List(ctx context.Context, userID string) ([]domain.Meeting, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns one meeting owned by the user
func (s *Svc) Get(ctx context.Context, userID, meetingID string) (domain.Meeting, error) {
	m, ok, err := s.repo.GetByUser(ctx, userID, meetingID)
	if err != nil {
		return domain.Meeting{}, err
	}
	if !ok {
		return domain.Meeting{}, perr.NotFoundf("meeting %s", meetingID)
	}
	return m, nil
}

// UpdateStatus advances the lifecycle. Transitions run strictly forward:
// pending_transcription, transcribing, then completed or failed, and a
// terminal state never moves again
func (s *Svc) UpdateStatus(ctx context.Context, userID, meetingID string, next domain.Status) (domain.Meeting, error) {
	if !next.Valid() {
		return domain.Meeting{}, perr.InvalidArgf("unknown status %q", next)
	}
	m, err := s.Get(ctx, userID, meetingID)
	if err != nil {
		return domain.Meeting{}, err
	}
	if !domain.CanTransition(m.Status, next) {
		return domain.Meeting{}, perr.Conflictf("cannot move %s from %s to %s", meetingID, m.Status, next)
	}

	ok, err := s.repo.UpdateStatus(ctx, userID, meetingID, m.Status, next)
	if err != nil {
		return domain.Meeting{}, err
	}
	if !ok {
		// someone else moved the row between our read and write
		return domain.Meeting{}, perr.Conflictf("meeting %s changed state concurrently", meetingID)
	}

	logger.C(ctx).Info().
		Str("meeting_id", meetingID).
		Str("from", string(m.Status)).
		Str("to", string(next)).
		Msg("meeting status advanced")
	m.Status = next
	return m, nil
}

// VideoURL returns a time-limited download link for the meeting's artifact
func (s *Svc) VideoURL(ctx context.Context, userID, meetingID string) (string, error) {
	m, err := s.Get(ctx, userID, meetingID)
	if err != nil {
		return "", err
	}
	return s.blobs.PresignGet(ctx, m.RecordingURL, presignTTL)
}

// DeleteVideo removes the stored artifact. The meeting row stays; its
// recording pointer simply goes dark
func (s *Svc) DeleteVideo(ctx context.Context, userID, meetingID string) error {
	m, err := s.Get(ctx, userID, meetingID)
	if err != nil {
		return err
	}
	return s.blobs.Delete(ctx, m.RecordingURL)
}
