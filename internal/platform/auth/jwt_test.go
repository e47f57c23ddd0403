package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	perr "meetscribe/internal/platform/errors"
)

func TestSignParseRoundTrip(t *testing.T) {
	j := NewJWT("test-secret")
	tok, err := j.Sign("user-42", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	req := httptest.NewRequest("GET", "/meetings", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	uid, err := j.Parse(req)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != "user-42" {
		t.Fatalf("got %s", uid)
	}
}

func TestParseRejections(t *testing.T) {
	j := NewJWT("test-secret")
	expired, _ := j.Sign("user-42", -time.Minute)
	foreign, _ := NewJWT("other-secret").Sign("user-42", time.Hour)
	anonymous, _ := j.Sign("", time.Hour)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwdw=="},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + foreign},
		{"empty user id", "Bearer " + anonymous},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/meetings", nil)
			if c.header != "" {
				req.Header.Set("Authorization", c.header)
			}
			_, err := j.Parse(req)
			if !perr.IsCode(err, perr.ErrorCodeUnauthorized) {
				t.Fatalf("expected unauthorized, got %v", err)
			}
		})
	}
}
