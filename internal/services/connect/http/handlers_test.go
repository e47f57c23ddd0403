package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "meetscribe/internal/platform/errors"
	phttp "meetscribe/internal/platform/net/http"
	"meetscribe/internal/platform/store"
	connecthttp "meetscribe/internal/services/connect/http"
	svc "meetscribe/internal/services/connect/service"
	"meetscribe/internal/services/zoom"
)

type fakeTag int64

func (t fakeTag) String() string      { return "FAKE" }
func (t fakeTag) RowsAffected() int64 { return int64(t) }

// stubRows replays one optional row; enough to satisfy DELETE ... RETURNING
type stubRows struct {
	val  string
	has  bool
	done bool
}

func (r *stubRows) Next() bool {
	if r.has && !r.done {
		r.done = true
		return true
	}
	return false
}

func (r *stubRows) Scan(dest ...any) error {
	if p, ok := dest[0].(*string); ok {
		*p = r.val
		return nil
	}
	return errors.New("unexpected scan target")
}

func (r *stubRows) Err() error { return nil }
func (r *stubRows) Close()     {}

// fakeDB resolves every state consume to the configured owner (or nothing)
type fakeDB struct {
	stateOwner string
	hasState   bool
	execs      int
}

func (f *fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	f.execs++
	return fakeTag(1), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return &stubRows{val: f.stateOwner, has: f.hasState}, nil
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) store.Row {
	return &stubRows{}
}

func (f *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(f) }

type fakeProvider struct {
	exchangeErr error
	webhookErr  error
}

func (fakeProvider) AuthCodeURL(state string) string { return "https://p/authorize?state=" + state }

func (f fakeProvider) Exchange(context.Context, string) (zoom.Token, error) {
	if f.exchangeErr != nil {
		return zoom.Token{}, f.exchangeErr
	}
	return zoom.Token{AccessToken: "at"}, nil
}

func (fakeProvider) AccountID(context.Context, string) (string, error) { return "acct-1", nil }

func (f fakeProvider) CreateWebhook(context.Context, string, string, string) (string, error) {
	return "wh-1", f.webhookErr
}

const dashboard = "https://dash.example/settings"

func newCallbackServer(t *testing.T, db *fakeDB, p fakeProvider) *httptest.Server {
	t.Helper()
	s := svc.New(db, p, svc.Config{WebhookURL: "https://app.example/zoom/webhook"})
	mux := chi.NewRouter()
	connecthttp.RegisterCallback(phttp.AdaptChi(mux), s, dashboard)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

// get without following the redirect so the Location header is observable
func get(t *testing.T, url string) *http.Response {
	t.Helper()
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func assertRedirect(t *testing.T, resp *http.Response, want string) {
	t.Helper()
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != want {
		t.Fatalf("location: %s, want %s", loc, want)
	}
}

func TestCallbackMissingParams(t *testing.T) {
	ts := newCallbackServer(t, &fakeDB{}, fakeProvider{})

	resp := get(t, ts.URL+"/zoom/callback?code=abc")
	assertRedirect(t, resp, dashboard+"?error=missing_params")

	resp = get(t, ts.URL+"/zoom/callback?state=st-1")
	assertRedirect(t, resp, dashboard+"?error=missing_params")
}

func TestCallbackUnknownState(t *testing.T) {
	ts := newCallbackServer(t, &fakeDB{hasState: false}, fakeProvider{})
	resp := get(t, ts.URL+"/zoom/callback?code=abc&state=never-issued")
	assertRedirect(t, resp, dashboard+"?error=invalid_state")
}

func TestCallbackExchangeFailure(t *testing.T) {
	db := &fakeDB{stateOwner: "user-42", hasState: true}
	p := fakeProvider{exchangeErr: perr.Newf(perr.ErrorCodeTokenExchange, "rejected")}
	ts := newCallbackServer(t, db, p)

	resp := get(t, ts.URL+"/zoom/callback?code=abc&state=st-1")
	assertRedirect(t, resp, dashboard+"?error=callback_failed")
}

func TestCallbackSuccess(t *testing.T) {
	db := &fakeDB{stateOwner: "user-42", hasState: true}
	ts := newCallbackServer(t, db, fakeProvider{})

	resp := get(t, ts.URL+"/zoom/callback?code=abc&state=st-1")
	assertRedirect(t, resp, dashboard+"?success=zoom_connected")

	// connection upsert and webhook registration both hit the database
	if db.execs != 2 {
		t.Fatalf("expected two writes, got %d", db.execs)
	}
}
