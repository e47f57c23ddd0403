package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "meetscribe/internal/platform/net/http"
	"meetscribe/internal/platform/store"
	cdom "meetscribe/internal/services/connect/domain"
	ingesthttp "meetscribe/internal/services/ingest/http"
	svc "meetscribe/internal/services/ingest/service"
	"meetscribe/internal/services/zoom"
)

type fakeTag int64

func (t fakeTag) String() string      { return "FAKE" }
func (t fakeTag) RowsAffected() int64 { return int64(t) }

// fakeDB satisfies the sql seam and counts writes so tests can prove a
// delivery touched (or did not touch) the database
type fakeDB struct{ execs int }

func (f *fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	f.execs++
	return fakeTag(1), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("unexpected query")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) store.Row { return errRow{} }

func (f *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(f) }

type errRow struct{}

func (errRow) Scan(...any) error { return errors.New("unexpected query row") }

type fakeAccounts struct{}

func (fakeAccounts) UserByAccount(_ context.Context, accountID string) (string, bool, error) {
	if accountID == "acct-1" {
		return "user-42", true, nil
	}
	return "", false, nil
}

func (fakeAccounts) ConnectionByUser(_ context.Context, userID string) (cdom.Connection, bool, error) {
	return cdom.Connection{UserID: userID, AccessToken: "tok"}, true, nil
}

type fakeProvider struct{}

func (fakeProvider) ListRecordings(context.Context, string, string) ([]zoom.RecordingFile, error) {
	return []zoom.RecordingFile{{RecordingType: "MP4", DownloadURL: "https://x/y.mp4"}}, nil
}

func (fakeProvider) Download(context.Context, string, string) ([]byte, error) {
	return []byte("video"), nil
}

type fakeBlobs struct{ puts []string }

func (f *fakeBlobs) Put(_ context.Context, key string, _ []byte, _ string) error {
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeBlobs) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", nil
}

func (f *fakeBlobs) Delete(context.Context, string) error { return nil }

func newWebhookServer(t *testing.T) (*httptest.Server, *fakeDB, *fakeBlobs) {
	t.Helper()
	db := &fakeDB{}
	blobs := &fakeBlobs{}
	s := svc.New(db, fakeAccounts{}, fakeProvider{}, blobs, nil)

	mux := chi.NewRouter()
	ingesthttp.Register(phttp.AdaptChi(mux), s)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, db, blobs
}

func post(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/zoom/webhook", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var sb strings.Builder
	buf := make([]byte, 512)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func TestWebhookIgnoresOtherEvents(t *testing.T) {
	ts, db, blobs := newWebhookServer(t)

	resp := post(t, ts, `{"event":"meeting.started","payload":{"object":{}}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, `"success":true`) {
		t.Fatalf("body: %s", body)
	}
	if db.execs != 0 || len(blobs.puts) != 0 {
		t.Fatalf("ignored events must not write anywhere")
	}
}

func TestWebhookRejectsMissingEventField(t *testing.T) {
	ts, _, _ := newWebhookServer(t)

	resp := post(t, ts, `{"payload":{"object":{}}}`)
	if resp.StatusCode < 400 {
		t.Fatalf("expected an error status, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "error") {
		t.Fatalf("body: %s", body)
	}
}

func TestWebhookRejectsMalformedRecordingPayload(t *testing.T) {
	ts, db, _ := newWebhookServer(t)

	// recording.completed without object.id fails shape validation
	resp := post(t, ts, `{"event":"recording.completed","payload":{"object":{"host_id":"acct-1"}}}`)
	if resp.StatusCode < 400 {
		t.Fatalf("expected an error status, got %d", resp.StatusCode)
	}
	if db.execs != 0 {
		t.Fatalf("invalid payloads must not reach the pipeline")
	}
}

func TestWebhookIngestsRecordingCompleted(t *testing.T) {
	ts, db, blobs := newWebhookServer(t)

	resp := post(t, ts, `{
		"event": "recording.completed",
		"payload": {"object": {
			"id": "m1",
			"host_id": "acct-1",
			"topic": "Sync",
			"recording_files": [{"recording_type": "MP4", "download_url": "https://x/y.mp4"}]
		}}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, `"success":true`) {
		t.Fatalf("body: %s", body)
	}
	if len(blobs.puts) != 1 || blobs.puts[0] != "users/user-42/meetings/m1/recording.mp4" {
		t.Fatalf("artifact puts: %v", blobs.puts)
	}
	if db.execs != 1 {
		t.Fatalf("expected one record insert, got %d", db.execs)
	}
}

func TestWebhookAcksDropsForUnknownAccount(t *testing.T) {
	ts, db, blobs := newWebhookServer(t)

	resp := post(t, ts, `{
		"event": "recording.completed",
		"payload": {"object": {"id": "m9", "host_id": "acct-gone", "topic": "Old"}}
	}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("drops must be acknowledged as success, got %d", resp.StatusCode)
	}
	if db.execs != 0 || len(blobs.puts) != 0 {
		t.Fatalf("dropped deliveries must not write anywhere")
	}
}
