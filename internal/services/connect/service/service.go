// Package service implements the account-link flow for the meeting provider
package service

import (
	"context"

	"github.com/google/uuid"

	"meetscribe/internal/modkit/repokit"
	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/platform/logger"
	"meetscribe/internal/services/connect/domain"
	crepo "meetscribe/internal/services/connect/repo"
)

// Config controls the connect flow
type Config struct {
	// WebhookURL is the public endpoint registered with the provider
	// for recording.completed deliveries
	WebhookURL string
}

// Svc implements the connect service
type Svc struct {
	db       repokit.TxRunner
	binder   repokit.Binder[domain.Repo]
	repo     domain.Repo
	provider domain.Provider
	cfg      Config
}

// New constructs the service
func New(db repokit.TxRunner, provider domain.Provider, cfg Config) *Svc {
	b := crepo.NewPG()
	return &Svc{
		db:       db,
		binder:   b,
		repo:     b.Bind(repokit.RequireQueryer(db)),
		provider: provider,
		cfg:      cfg,
	}
}

// Begin issues a single-use state token for userID and returns the
// provider authorization URL carrying it
func (s *Svc) Begin(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", perr.Unauthorizedf("missing user")
	}
	state := uuid.NewString()
	if err := s.repo.InsertAuthState(ctx, state, userID); err != nil {
		return "", err
	}
	return s.provider.AuthCodeURL(state), nil
}

// Complete finishes the callback leg: the state row is consumed before
// anything else so a replayed callback can never reach token exchange
func (s *Svc) Complete(ctx context.Context, code, state string) error {
	userID, ok, err := s.repo.ConsumeAuthState(ctx, state)
	if err != nil {
		return err
	}
	if !ok {
		return perr.InvalidStatef("unknown or already used state")
	}

	tok, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return err
	}
	if err := s.repo.UpsertConnection(ctx, domain.Connection{
		UserID:       userID,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.ExpiresAt,
	}); err != nil {
		return err
	}

	// Webhook registration failing does not roll back the stored
	// connection; the caller surfaces the error and the user can retry
	return s.registerWebhook(ctx, userID, tok.AccessToken)
}

func (s *Svc) registerWebhook(ctx context.Context, userID, accessToken string) error {
	accountID, err := s.provider.AccountID(ctx, accessToken)
	if err != nil {
		return err
	}
	webhookID, err := s.provider.CreateWebhook(ctx, accessToken, s.cfg.WebhookURL, accountID)
	if err != nil {
		return err
	}
	if err := s.repo.UpsertRegistration(ctx, domain.Registration{
		UserID:    userID,
		WebhookID: webhookID,
		AccountID: accountID,
	}); err != nil {
		return err
	}
	logger.C(ctx).Info().
		Str("user_id", userID).
		Str("account_id", accountID).
		Msg("provider webhook registered")
	return nil
}
