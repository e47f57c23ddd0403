package domain

import (
	"context"

	"meetscribe/internal/services/zoom"
)

// Repo is the credential store surface. It exclusively owns the
// connections, auth_states and webhooks tables
type Repo interface {
	// InsertAuthState persists a fresh single-use state token for userID
	InsertAuthState(ctx context.Context, state, userID string) error

	// ConsumeAuthState deletes the state row and returns its owner.
	// ok is false when no such state exists. Deletion happens whether or not
	// the caller's subsequent exchange succeeds; a state is readable once
	ConsumeAuthState(ctx context.Context, state string) (userID string, ok bool, err error)

	// UpsertConnection creates or replaces the user's connection
	UpsertConnection(ctx context.Context, c Connection) error

	// ConnectionByUser returns the user's connection if present
	ConnectionByUser(ctx context.Context, userID string) (Connection, bool, error)

	// UpsertRegistration creates or replaces the account's webhook registration
	UpsertRegistration(ctx context.Context, reg Registration) error

	// UserByAccount resolves a provider account id to the owning user
	UserByAccount(ctx context.Context, accountID string) (userID string, ok bool, err error)
}

// Provider is the slice of the provider client the authorizer needs
type Provider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (zoom.Token, error)
	AccountID(ctx context.Context, accessToken string) (string, error)
	CreateWebhook(ctx context.Context, accessToken, endpointURL, accountID string) (string, error)
}
