// Package api wires the services onto one HTTP surface
package api

import (
	"strings"
	"time"

	"meetscribe/internal/platform/blob"
	"meetscribe/internal/platform/config"
	phttp "meetscribe/internal/platform/net/http"
	"meetscribe/internal/platform/net/middleware"
	"meetscribe/internal/platform/store"
	"meetscribe/internal/services/zoom"

	connecthttp "meetscribe/internal/services/connect/http"
	crepo "meetscribe/internal/services/connect/repo"
	connectsvc "meetscribe/internal/services/connect/service"
	"meetscribe/internal/services/ingest/audit"
	ingdom "meetscribe/internal/services/ingest/domain"
	ingesthttp "meetscribe/internal/services/ingest/http"
	ingestsvc "meetscribe/internal/services/ingest/service"
	meetingshttp "meetscribe/internal/services/meetings/http"
	meetingssvc "meetscribe/internal/services/meetings/service"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Store  *store.Store
	Blobs  blob.Store
	Zoom   *zoom.Client
	Auth   middleware.AuthPort

	// DashboardURL receives the OAuth callback redirects
	DashboardURL string
	// WebhookURL is the public address of the inbound webhook endpoint
	WebhookURL string
}

// Mount constructs the services and mounts every route onto r
func Mount(r phttp.Router, opt Options) {
	connectSvc := connectsvc.New(opt.Store.PG, opt.Zoom, connectsvc.Config{
		WebhookURL: opt.WebhookURL,
	})

	// the connect repo doubles as the ingest account directory
	var sink ingdom.Audit
	if opt.Store.CH != nil {
		sink = audit.NewCH(opt.Store.CH)
	} else {
		sink = audit.Nop{}
	}
	accounts := crepo.NewPG().Bind(opt.Store.PG)
	ingestSvc := ingestsvc.New(opt.Store.PG, accounts, opt.Zoom, opt.Blobs, sink)

	meetingsSvc := meetingssvc.New(opt.Store.PG, opt.Blobs)

	r.Use(
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLog,
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: splitCSV(opt.Config.MayString("CORS_ORIGINS", "*")),
		}),
		middleware.Heartbeat("/health"),
		middleware.StripSlashes(),
		middleware.Timeout(opt.Config.MayDuration("HTTP_TIMEOUT", time.Minute)),
	)

	// provider-facing endpoints carry no bearer token
	ingesthttp.Register(r, ingestSvc)
	connecthttp.RegisterCallback(r, connectSvc, opt.DashboardURL)

	r.Group(func(g phttp.Router) {
		g.Use(middleware.Auth(opt.Auth, phttp.JSON))
		connecthttp.Register(g, connectSvc)
		meetingshttp.Register(g, meetingsSvc)
	})
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
