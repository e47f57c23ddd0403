// Package repo provides Postgres bindings for the ingest pipeline
package repo

import (
	"context"

	"meetscribe/internal/modkit/repokit"
	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/services/ingest/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

// InsertMeeting relies on the (user_id, meeting_id) uniqueness constraint.
// ON CONFLICT DO NOTHING makes a redelivered webhook a silent success
func (r *queries) InsertMeeting(ctx context.Context, m domain.Meeting) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO meetings (user_id, meeting_id, topic, recording_url, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, meeting_id) DO NOTHING
	`, m.UserID, m.MeetingID, m.Topic, m.RecordingURL, m.Status)
	return perr.FromPostgres(err, "insert meeting")
}
