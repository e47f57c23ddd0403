// Package repo provides Postgres bindings for the connect domain.Repo
package repo

import (
	"context"

	"meetscribe/internal/modkit/repokit"
	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/services/connect/domain"
)

type (
	// PG is a Postgres binder for domain.Repo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// Compile-time assertion: queries implements domain.Repo
var _ domain.Repo = (*queries)(nil)

// NewPG returns a Postgres binder for Repo
func NewPG() repokit.Binder[domain.Repo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.Repo { return &queries{q: q} }

func (r *queries) InsertAuthState(ctx context.Context, state, userID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO auth_states (state, user_id) VALUES ($1, $2)
	`, state, userID)
	return perr.FromPostgres(err, "insert auth state")
}

// ConsumeAuthState deletes and returns in one statement so a state can only
// ever be read by a single caller
func (r *queries) ConsumeAuthState(ctx context.Context, state string) (string, bool, error) {
	rows, err := r.q.Query(ctx, `
		DELETE FROM auth_states WHERE state = $1 RETURNING user_id
	`, state)
	if err != nil {
		return "", false, perr.FromPostgres(err, "consume auth state")
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var userID string
	if err := rows.Scan(&userID); err != nil {
		return "", false, perr.FromPostgres(err, "scan auth state")
	}
	return userID, true, rows.Err()
}

func (r *queries) UpsertConnection(ctx context.Context, c domain.Connection) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO connections (user_id, access_token, refresh_token, expires_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (user_id) DO UPDATE SET
			access_token  = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at    = EXCLUDED.expires_at,
			updated_at    = now()
	`, c.UserID, c.AccessToken, c.RefreshToken, c.ExpiresAt)
	return perr.FromPostgres(err, "upsert connection")
}

func (r *queries) ConnectionByUser(ctx context.Context, userID string) (domain.Connection, bool, error) {
	var c domain.Connection
	err := r.q.QueryRow(ctx, `
		SELECT user_id, access_token, refresh_token, expires_at
		FROM connections WHERE user_id = $1
	`, userID).Scan(&c.UserID, &c.AccessToken, &c.RefreshToken, &c.ExpiresAt)
	if err != nil {
		if repokit.IsNoRows(err) {
			return domain.Connection{}, false, nil
		}
		return domain.Connection{}, false, perr.FromPostgres(err, "select connection")
	}
	return c, true, nil
}

func (r *queries) UpsertRegistration(ctx context.Context, reg domain.Registration) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO webhooks (account_id, user_id, webhook_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id) DO UPDATE SET
			user_id    = EXCLUDED.user_id,
			webhook_id = EXCLUDED.webhook_id
	`, reg.AccountID, reg.UserID, reg.WebhookID)
	return perr.FromPostgres(err, "upsert webhook registration")
}

func (r *queries) UserByAccount(ctx context.Context, accountID string) (string, bool, error) {
	var userID string
	err := r.q.QueryRow(ctx, `
		SELECT user_id FROM webhooks WHERE account_id = $1
	`, accountID).Scan(&userID)
	if err != nil {
		if repokit.IsNoRows(err) {
			return "", false, nil
		}
		return "", false, perr.FromPostgres(err, "select webhook registration")
	}
	return userID, true, nil
}
