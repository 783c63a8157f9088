package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"hbnb_web/internal/adapters/fragment"
	"hbnb_web/internal/adapters/hbnb"
	"hbnb_web/internal/adapters/memcache"
	server "hbnb_web/internal/adapters/http_server"
	"hbnb_web/internal/adapters/observability"
	redisad "hbnb_web/internal/adapters/redis"
	"hbnb_web/internal/adapters/session"
	"hbnb_web/internal/app"
	"hbnb_web/internal/domain"
	"hbnb_web/internal/shared"
	"hbnb_web/public"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// deps
	backend, err := hbnb.New(cfg.APIBase, cfg.APIRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("hbnb client init failed")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
			_ = rc.Close()
		} else {
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
			cache = rc
			defer rc.Close()
		}
		cancel()
	}
	if cache == nil {
		log.Info().Msg("using in-process response cache")
		cache = memcache.New()
	}

	static, err := public.StaticFS()
	if err != nil {
		log.Fatal().Err(err).Msg("static fs")
	}
	pages, err := server.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("parse templates")
	}
	flash, err := session.NewFlash(cfg.FlashHashKey, cfg.SecureCookies)
	if err != nil {
		log.Fatal().Err(err).Msg("flash init")
	}

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Auth:           app.NewAuthService(backend),
		Listing:        app.NewListingService(backend, cache, cfg.CacheTTL),
		Detail:         app.NewDetailService(backend, cache, cfg.CacheTTL),
		Reviews:        app.NewReviewService(backend, cache),
		Sessions:       session.CookieStore{Secure: cfg.SecureCookies},
		TokenTTL:       cfg.TokenTTL,
		Flash:          flash,
		Chrome:         fragment.NewLoader(fragment.NewSource(static, &http.Client{Timeout: 5 * time.Second})),
		FragmentSource: cfg.FragmentSource,
		Pages:          pages,
		Static:         static,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("api", cfg.APIBase).Msg("web listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
