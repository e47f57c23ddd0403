// Package repo provides Postgres bindings for meeting records
package repo

import (
	"context"

	"meetscribe/internal/modkit/repokit"
	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/services/meetings/domain"
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

func (r *queries) ListByUser(ctx context.Context, userID string) ([]domain.Meeting, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, meeting_id, topic, recording_url, status, created_at
		FROM meetings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, perr.FromPostgres(err, "list meetings")
	}
	defer rows.Close()

	out := make([]domain.Meeting, 0, 16)
	for rows.Next() {
		var m domain.Meeting
		if err := rows.Scan(&m.ID, &m.UserID, &m.MeetingID, &m.Topic, &m.RecordingURL, &m.Status, &m.CreatedAt); err != nil {
			return nil, perr.FromPostgres(err, "scan meeting")
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *queries) GetByUser(ctx context.Context, userID, meetingID string) (domain.Meeting, bool, error) {
	var m domain.Meeting
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, meeting_id, topic, recording_url, status, created_at
		FROM meetings
		WHERE user_id = $1 AND meeting_id = $2
	`, userID, meetingID).Scan(&m.ID, &m.UserID, &m.MeetingID, &m.Topic, &m.RecordingURL, &m.Status, &m.CreatedAt)
	if err != nil {
		if repokit.IsNoRows(err) {
			return domain.Meeting{}, false, nil
		}
		return domain.Meeting{}, false, perr.FromPostgres(err, "select meeting")
	}
	return m, true, nil
}

// UpdateStatus keeps the state machine race-free: the WHERE clause pins
// the expected current state so concurrent movers cannot both win
func (r *queries) UpdateStatus(ctx context.Context, userID, meetingID string, from, to domain.Status) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE meetings SET status = $1
		WHERE user_id = $2 AND meeting_id = $3 AND status = $4
	`, to, userID, meetingID, from)
	if err != nil {
		return false, perr.FromPostgres(err, "update meeting status")
	}
	return tag.RowsAffected() == 1, nil
}
