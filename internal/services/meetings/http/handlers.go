// Package http provides http transport for meetings
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"meetscribe/internal/modkit/httpkit"
	pnet "meetscribe/internal/platform/net"
	"meetscribe/internal/services/meetings/domain"
	svc "meetscribe/internal/services/meetings/service"
)

type handlers struct{ svc *svc.Svc }

// Register mounts the meetings routes
func Register(r httpkit.Router, s *svc.Svc) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/meetings", h.list)
	httpkit.Get(r, "/meetings/{meetingID}", h.get)
	httpkit.Get(r, "/meetings/{meetingID}/video", h.video)
	httpkit.Delete(r, "/meetings/{meetingID}/video", h.deleteVideo)
	httpkit.PatchJSON[domain.StatusInput](r, "/meetings/{meetingID}/status", h.updateStatus)
}

func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context(), pnet.UserID(r.Context()))
}

func (h *handlers) get(r *stdhttp.Request) (any, error) {
	return h.svc.Get(r.Context(), pnet.UserID(r.Context()), chi.URLParam(r, "meetingID"))
}

func (h *handlers) video(r *stdhttp.Request) (any, error) {
	url, err := h.svc.VideoURL(r.Context(), pnet.UserID(r.Context()), chi.URLParam(r, "meetingID"))
	if err != nil {
		return nil, err
	}
	return map[string]string{"url": url}, nil
}

func (h *handlers) deleteVideo(r *stdhttp.Request) (any, error) {
	if err := h.svc.DeleteVideo(r.Context(), pnet.UserID(r.Context()), chi.URLParam(r, "meetingID")); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}

func (h *handlers) updateStatus(r *stdhttp.Request, in domain.StatusInput) (any, error) {
	return h.svc.UpdateStatus(r.Context(), pnet.UserID(r.Context()), chi.URLParam(r, "meetingID"), in.Status)
}
