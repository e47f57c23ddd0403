// Package audit records webhook delivery outcomes
package audit

import (
	"context"
	"time"

	"meetscribe/internal/platform/logger"
	"meetscribe/internal/platform/store"
	"meetscribe/internal/services/ingest/domain"
)

// Table is the ClickHouse table audit rows land in
const Table = "ingest_events"

// CH writes audit rows to ClickHouse
type CH struct {
	ch store.Clickhouse
}

var _ domain.Audit = (*CH)(nil)

// NewCH constructs a ClickHouse-backed audit sink
func NewCH(ch store.Clickhouse) *CH { return &CH{ch: ch} }

// Record appends one delivery outcome. Sink failures are logged and
// swallowed; the audit trail never fails the pipeline
func (a *CH) Record(ctx context.Context, e domain.AuditEvent) {
	err := a.ch.Insert(ctx, Table, [][]any{{
		time.Now().UTC(),
		e.Event,
		e.MeetingID,
		e.AccountID,
		e.UserID,
		string(e.Outcome),
		e.Detail,
	}})
	if err != nil {
		logger.C(ctx).Error().Err(err).
			Str("outcome", string(e.Outcome)).
			Msg("audit insert failed")
	}
}

// Nop discards audit rows. Used when no ClickHouse is configured
type Nop struct{}

var _ domain.Audit = Nop{}

// Record implements domain.Audit
func (Nop) Record(context.Context, domain.AuditEvent) {}
