// Package service implements the recording ingestion pipeline: webhook
// dispatch, recording fetch, artifact write, record creation
package service

import (
	"context"

	"meetscribe/internal/modkit/repokit"
	"meetscribe/internal/platform/blob"
	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/platform/logger"
	"meetscribe/internal/services/ingest/domain"
	irepo "meetscribe/internal/services/ingest/repo"
)

const videoContentType = "video/mp4"

// mp4Type is the recording_type value of the primary video file
const mp4Type = "MP4"

// Svc implements the ingest pipeline
type Svc struct {
	db       repokit.TxRunner
	binder   repokit.Binder[domain.Repo]
	repo     domain.Repo
	accounts domain.Accounts
	provider domain.Provider
	blobs    blob.Store
	audit    domain.Audit
}

// New constructs the service. audit may be nil
func New(db repokit.TxRunner, accounts domain.Accounts, provider domain.Provider, blobs blob.Store, audit domain.Audit) *Svc {
	if audit == nil {
		audit = nopAudit{}
	}
	b := irepo.NewPG()
	return &Svc{
		db:       db,
		binder:   b,
		repo:     b.Bind(repokit.RequireQueryer(db)),
		accounts: accounts,
		provider: provider,
		blobs:    blobs,
		audit:    audit,
	}
}

type nopAudit struct{}

func (nopAudit) Record(context.Context, domain.AuditEvent) {}

// Ignore acknowledges an event class the pipeline does not act on.
// It performs no database or storage work
func (s *Svc) Ignore(ctx context.Context, event string) {
	logger.C(ctx).Debug().Str("event", event).Msg("ignoring delivery")
	s.audit.Record(ctx, domain.AuditEvent{Event: event, Outcome: domain.OutcomeIgnoredEvent})
}

// Process ingests one recording.completed delivery to completion.
// Unknown accounts and missing connections are dropped: logged, audited
// and reported as success so the provider stops redelivering. Download
// and storage faults are likewise swallowed after logging; only record
// and lookup faults propagate
func (s *Svc) Process(ctx context.Context, rec domain.Recording) error {
	log := logger.C(ctx).With().
		Str("meeting_id", rec.ID).
		Str("account_id", rec.HostID).
		Logger()

	userID, ok, err := s.accounts.UserByAccount(ctx, rec.HostID)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn().Msg("dropping delivery for unknown account")
		s.audit.Record(ctx, s.auditEvent(rec, "", domain.OutcomeDroppedNoAccount, ""))
		return nil
	}

	conn, ok, err := s.accounts.ConnectionByUser(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		log.Warn().Str("user_id", userID).Msg("dropping delivery for user without connection")
		s.audit.Record(ctx, s.auditEvent(rec, userID, domain.OutcomeDroppedNoConn, ""))
		return nil
	}

	files, err := s.provider.ListRecordings(ctx, conn.AccessToken, rec.ID)
	if err != nil {
		log.Error().Err(err).Msg("recording listing failed")
		s.audit.Record(ctx, s.auditEvent(rec, userID, domain.OutcomeFailedDownload, err.Error()))
		return nil
	}

	// downloads run in sequence; one failure aborts the remaining files
	for _, f := range files {
		if f.RecordingType != mp4Type {
			continue
		}
		body, err := s.provider.Download(ctx, conn.AccessToken, f.DownloadURL)
		if err != nil {
			log.Error().Err(err).Str("download_url", f.DownloadURL).Msg("recording download failed")
			s.audit.Record(ctx, s.auditEvent(rec, userID, domain.OutcomeFailedDownload, err.Error()))
			return nil
		}
		if err := s.store(ctx, userID, rec, body); err != nil {
			if perr.IsCode(err, perr.ErrorCodeStorageWrite) {
				log.Error().Err(err).Msg("artifact upload failed")
				s.audit.Record(ctx, s.auditEvent(rec, userID, domain.OutcomeFailedStorage, err.Error()))
				return nil
			}
			s.audit.Record(ctx, s.auditEvent(rec, userID, domain.OutcomeFailedRecord, err.Error()))
			return err
		}
	}

	log.Info().Str("user_id", userID).Msg("recording ingested")
	s.audit.Record(ctx, s.auditEvent(rec, userID, domain.OutcomeStored, ""))
	return nil
}

// store uploads one downloaded buffer and creates its meeting record.
// The upload strictly precedes the insert: a row must never point at an
// artifact that does not exist
func (s *Svc) store(ctx context.Context, userID string, rec domain.Recording, body []byte) error {
	key := domain.ArtifactKey(userID, rec.ID)
	if err := s.blobs.Put(ctx, key, body, videoContentType); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeStorageWrite, "upload %s", key)
	}
	return s.repo.InsertMeeting(ctx, domain.Meeting{
		UserID:       userID,
		MeetingID:    rec.ID,
		Topic:        rec.Topic,
		RecordingURL: key,
		Status:       domain.StatusPending,
	})
}

func (s *Svc) auditEvent(rec domain.Recording, userID string, out domain.Outcome, detail string) domain.AuditEvent {
	return domain.AuditEvent{
		Event:     domain.EventRecordingCompleted,
		MeetingID: rec.ID,
		AccountID: rec.HostID,
		UserID:    userID,
		Outcome:   out,
		Detail:    detail,
	}
}
