// Package http provides the inbound webhook transport.
//
// The webhook speaks the provider's wire contract, not the API envelope:
// 200 {"success":true} on acknowledgment, an {"error":...} body otherwise
package http

import (
	"encoding/json"
	stdhttp "net/http"

	"meetscribe/internal/modkit/httpkit"
	perr "meetscribe/internal/platform/errors"
	"meetscribe/internal/platform/logger"
	"meetscribe/internal/platform/net/http/bind"
	"meetscribe/internal/services/ingest/domain"
	svc "meetscribe/internal/services/ingest/service"
)

type handlers struct{ svc *svc.Svc }

// Register mounts the webhook endpoint on the public router
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}
	r.Post("/zoom/webhook", h.webhook)
}

func (h *handlers) webhook(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ev, err := bind.ParseJSON[domain.Event](r)
	if err != nil {
		writeError(w, err)
		return
	}

	if ev.Event != domain.EventRecordingCompleted {
		h.svc.Ignore(r.Context(), ev.Event)
		ack(w)
		return
	}

	var payload domain.RecordingPayload
	if err := json.Unmarshal(ev.Payload, &payload); err != nil {
		writeError(w, perr.JSONErrf("invalid payload: %v", err))
		return
	}
	if err := bind.Struct(payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.svc.Process(r.Context(), payload.Object); err != nil {
		logger.C(r.Context()).Error().Err(err).Msg("webhook processing failed")
		writeError(w, err)
		return
	}
	ack(w)
}

func ack(w stdhttp.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = w.Write([]byte(`{"success":true}`))
}

func writeError(w stdhttp.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(perr.HTTPStatus(err))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": perr.WireFrom(err).Message})
}
