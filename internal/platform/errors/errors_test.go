package errors

import (
	stderrs "errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeInvalidState, http.StatusBadRequest},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeTokenExchange, http.StatusBadGateway},
		{ErrorCodeWebhookRegistration, http.StatusBadGateway},
		{ErrorCodeDownload, http.StatusBadGateway},
		{ErrorCodeStorageWrite, http.StatusInternalServerError},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Errorf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	cause := stderrs.New("socket closed")
	err := Wrap(cause, ErrorCodeDownload, "download recording")

	if !IsCode(err, ErrorCodeDownload) {
		t.Fatalf("code lost: %v", CodeOf(err))
	}
	if Root(err) != cause {
		t.Fatalf("root cause lost")
	}
	if !stderrs.Is(err, cause) {
		t.Fatalf("errors.Is must see through the wrap")
	}
}

func TestWireFromPlainError(t *testing.T) {
	w := WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message == "" {
		t.Fatalf("bad wire: %+v", w)
	}
}

func TestWithFieldSurvivesWire(t *testing.T) {
	err := WithField(Validationf("name is required"), "name")
	if w := WireFrom(err); w.Field != "name" {
		t.Fatalf("field lost: %+v", w)
	}
}

func TestFromPostgresMapsSQLStates(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	err := FromPostgres(dup, "insert meeting")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("expected duplicate key, got %v", CodeOf(err))
	}
	if !IsDuplicateKey(err) {
		t.Fatalf("IsDuplicateKey must see the wrapped SQLSTATE")
	}

	nn := &pgconn.PgError{Code: "23502"}
	if err := FromPostgres(nn, "insert"); !IsCode(err, ErrorCodeValidation) {
		t.Fatalf("expected validation, got %v", CodeOf(err))
	}

	if err := FromPostgres(stderrs.New("conn refused"), "query"); !IsCode(err, ErrorCodeDB) {
		t.Fatalf("expected generic db code, got %v", CodeOf(err))
	}

	if FromPostgres(nil, "noop") != nil {
		t.Fatalf("nil must stay nil")
	}
}
