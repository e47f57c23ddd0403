// Package http provides http transport for the connect flow
package http

import (
	stdhttp "net/http"
	"net/url"

	"meetscribe/internal/modkit/httpkit"
	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/platform/logger"
	pnet "meetscribe/internal/platform/net"
	svc "meetscribe/internal/services/connect/service"
)

type handlers struct {
	svc          *svc.Svc
	dashboardURL string
}

// Register mounts the authenticated connect endpoint
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}
	httpkit.Post(r, "/connect/zoom", h.begin)
}

// RegisterCallback mounts the provider redirect endpoint. It lives on the
// public router: the provider calls it without a bearer token
func RegisterCallback(r httpkit.Router, s *svc.Svc, dashboardURL string) {
	h := &handlers{svc: s, dashboardURL: dashboardURL}
	r.Get("/zoom/callback", h.callback)
}

func (h *handlers) begin(r *stdhttp.Request) (any, error) {
	authURL, err := h.svc.Begin(r.Context(), pnet.UserID(r.Context()))
	if err != nil {
		return nil, err
	}
	return map[string]string{"auth_url": authURL}, nil
}

// callback answers with a dashboard redirect in every outcome; the browser
// following it is the user's, not the provider's
func (h *handlers) callback(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		h.redirect(w, r, "error", "missing_params")
		return
	}

	if err := h.svc.Complete(r.Context(), code, state); err != nil {
		logger.C(r.Context()).Error().Err(err).Msg("connect callback failed")
		if perr.IsCode(err, perr.ErrorCodeInvalidState) {
			h.redirect(w, r, "error", "invalid_state")
			return
		}
		h.redirect(w, r, "error", "callback_failed")
		return
	}
	h.redirect(w, r, "success", "zoom_connected")
}

func (h *handlers) redirect(w stdhttp.ResponseWriter, r *stdhttp.Request, key, value string) {
	target := h.dashboardURL + "?" + url.Values{key: {value}}.Encode()
	stdhttp.Redirect(w, r, target, stdhttp.StatusFound)
}
