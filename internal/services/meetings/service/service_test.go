package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/services/meetings/domain"
)

type fakeRepo struct {
	rows map[string]domain.Meeting // meeting id -> row, single user
}

func (f *fakeRepo) ListByUser(_ context.Context, userID string) ([]domain.Meeting, error) {
	out := []domain.Meeting{}
	for _, m := range f.rows {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetByUser(_ context.Context, userID, meetingID string) (domain.Meeting, bool, error) {
	m, ok := f.rows[meetingID]
	if !ok || m.UserID != userID {
		return domain.Meeting{}, false, nil
	}
	return m, true, nil
}

func (f *fakeRepo) UpdateStatus(_ context.Context, userID, meetingID string, from, to domain.Status) (bool, error) {
	m, ok := f.rows[meetingID]
	if !ok || m.UserID != userID || m.Status != from {
		return false, nil
	}
	m.Status = to
	f.rows[meetingID] = m
	return true, nil
}

type fakeBlobs struct {
	presigned []string
	deleted   []string
}

func (f *fakeBlobs) Put(context.Context, string, []byte, string) error { return nil }

func (f *fakeBlobs) PresignGet(_ context.Context, key string, _ time.Duration) (string, error) {
	f.presigned = append(f.presigned, key)
	return "https://signed.example/" + key, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func newTestSvc() (*Svc, *fakeRepo, *fakeBlobs) {
	repo := &fakeRepo{rows: map[string]domain.Meeting{
		"m1": {
			ID: 1, UserID: "user-42", MeetingID: "m1", Topic: "Sync",
			RecordingURL: "users/user-42/meetings/m1/recording.mp4",
			Status:       domain.StatusPending,
		},
	}}
	blobs := &fakeBlobs{}
	return &Svc{repo: repo, blobs: blobs}, repo, blobs
}

func TestGetScopesByOwner(t *testing.T) {
	s, _, _ := newTestSvc()

	m, err := s.Get(context.Background(), "user-42", "m1")
	require.NoError(t, err)
	require.Equal(t, "Sync", m.Topic)

	// another user's id never resolves someone else's meeting
	_, err = s.Get(context.Background(), "user-7", "m1")
	require.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestUpdateStatusWalksTheLifecycle(t *testing.T) {
	s, repo, _ := newTestSvc()
	ctx := context.Background()

	m, err := s.UpdateStatus(ctx, "user-42", "m1", domain.StatusTranscribing)
	require.NoError(t, err)
	require.Equal(t, domain.StatusTranscribing, m.Status)

	m, err = s.UpdateStatus(ctx, "user-42", "m1", domain.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCompleted, m.Status)
	require.Equal(t, domain.StatusCompleted, repo.rows["m1"].Status)
}

func TestUpdateStatusRejectsIllegalMoves(t *testing.T) {
	s, repo, _ := newTestSvc()
	ctx := context.Background()

	// skipping transcribing entirely
	_, err := s.UpdateStatus(ctx, "user-42", "m1", domain.StatusCompleted)
	require.True(t, perr.IsCode(err, perr.ErrorCodeConflict))
	require.Equal(t, domain.StatusPending, repo.rows["m1"].Status)

	// unknown status name
	_, err = s.UpdateStatus(ctx, "user-42", "m1", domain.Status("archived"))
	require.True(t, perr.IsCode(err, perr.ErrorCodeInvalidArgument))

	// out of a terminal state
	row := repo.rows["m1"]
	row.Status = domain.StatusFailed
	repo.rows["m1"] = row
	_, err = s.UpdateStatus(ctx, "user-42", "m1", domain.StatusTranscribing)
	require.True(t, perr.IsCode(err, perr.ErrorCodeConflict))
}

func TestVideoURLPresignsTheArtifactKey(t *testing.T) {
	s, _, blobs := newTestSvc()

	url, err := s.VideoURL(context.Background(), "user-42", "m1")
	require.NoError(t, err)
	require.Contains(t, url, "users/user-42/meetings/m1/recording.mp4")
	require.Equal(t, []string{"users/user-42/meetings/m1/recording.mp4"}, blobs.presigned)

	_, err = s.VideoURL(context.Background(), "user-42", "missing")
	require.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}

func TestDeleteVideoRemovesTheArtifact(t *testing.T) {
	s, _, blobs := newTestSvc()

	require.NoError(t, s.DeleteVideo(context.Background(), "user-42", "m1"))
	require.Equal(t, []string{"users/user-42/meetings/m1/recording.mp4"}, blobs.deleted)

	err := s.DeleteVideo(context.Background(), "user-7", "m1")
	require.True(t, perr.IsCode(err, perr.ErrorCodeNotFound))
}
