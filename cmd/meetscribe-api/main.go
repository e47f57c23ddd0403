package main

import (
	"context"

	"meetscribe/internal/platform/auth"
	"meetscribe/internal/platform/blob"
	"meetscribe/internal/platform/config"
	"meetscribe/internal/platform/logger"
	phttp "meetscribe/internal/platform/net/http"
	"meetscribe/internal/platform/store"

	"meetscribe/internal/services/api"
	"meetscribe/internal/services/zoom"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	zoomCfg := root.Prefix("ZOOM_")
	blobCfg := root.Prefix("BLOB_S3_")
	authCfg := root.Prefix("AUTH_")

	// bring up logging early
	l := logger.Get()

	ctx := context.Background()

	if pgCfg.MayBool("MIGRATE", false) {
		if err := store.Migrate(ctx, pgCfg.MustString("DBURL")); err != nil {
			l.Panic().Err(err).Msg("migrations failed")
		}
	}

	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "meetscribe-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			},
			CH: store.CHConfig{
				// audit trail is optional; without it deliveries are only logged
				Enabled: chCfg.MayBool("ENABLED", false),
				URL:     chCfg.MayString("DBURL", ""),
			},
		},
		store.WithLogger(*l),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	blobs, err := blob.OpenS3(ctx, blob.S3Config{
		Region:       blobCfg.MayString("REGION", "us-east-1"),
		Bucket:       blobCfg.MustString("BUCKET"),
		AccessKey:    blobCfg.MustString("ACCESS_KEY"),
		SecretKey:    blobCfg.MustString("SECRET_KEY"),
		BaseEndpoint: blobCfg.MayString("ENDPOINT", ""),
	})
	if err != nil {
		l.Panic().Err(err).Msg("blob.OpenS3 failed")
	}

	zm := zoom.New(zoom.Config{
		ClientID:     zoomCfg.MustString("CLIENT_ID"),
		ClientSecret: zoomCfg.MustString("CLIENT_SECRET"),
		RedirectURL:  zoomCfg.MustString("REDIRECT_URL"),
	}, nil)

	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:       apiCfg,
			Store:        st,
			Blobs:        blobs,
			Zoom:         zm,
			Auth:         auth.NewJWT(authCfg.MustString("JWT_SECRET")),
			DashboardURL: apiCfg.MustString("DASHBOARD_URL"),
			WebhookURL:   apiCfg.MustString("WEBHOOK_URL"),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
