// Package domain defines the core types and ports for the connect service
package domain

import "time"

// Connection is the stored OAuth grant for one user.
// At most one active connection exists per user; reconnecting upserts
type Connection struct {
	UserID       string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Registration maps a provider account id to the owning user and its
// webhook subscription
type Registration struct {
	UserID    string
	WebhookID string
	AccountID string
}
