package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "meetscribe/internal/platform/errors"
	pnet "meetscribe/internal/platform/net"
	phttp "meetscribe/internal/platform/net/http"
)

// helper to build a request with a request id in context
func reqWithID(rid string) *http.Request {
	req := httptest.NewRequest("GET", "/x", nil)
	return req.WithContext(pnet.WithRequestID(req.Context(), rid))
}

func TestRespondOKWrapsEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, reqWithID("rid-1"), map[string]string{"a": "b"})
	if rec.Code != http.StatusOK {
		t.Fatalf("code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestRespondErrorMapsStatusAndCode(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondError(rec, reqWithID("rid-2"), perr.NotFoundf("meeting m1"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Code != perr.ErrorCodeNotFound || env.Error == "" {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestHandleResponseForms(t *testing.T) {
	// return-style OK
	rec := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.OK(map[string]int{"n": 1})
	})(rec, reqWithID("rid-3"))
	if rec.Code != http.StatusOK {
		t.Fatalf("ok code: %d", rec.Code)
	}

	// error bodies derive their status from the error
	recE := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Error(perr.InvalidStatef("unknown state"))
	})(recE, reqWithID("rid-4"))
	if recE.Code != http.StatusBadRequest {
		t.Fatalf("error code: %d", recE.Code)
	}

	// no content writes no body
	recN := httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.NoContent()
	})(recN, reqWithID("rid-5"))
	if recN.Code != http.StatusNoContent || recN.Body.Len() != 0 {
		t.Fatalf("no content: code=%d body=%q", recN.Code, recN.Body.String())
	}
}
