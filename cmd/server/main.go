package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tech-sports-pimba/pimba-mvp/core/auth"
	"github.com/tech-sports-pimba/pimba-mvp/core/config"
	"github.com/tech-sports-pimba/pimba-mvp/core/cookie"
	"github.com/tech-sports-pimba/pimba-mvp/core/logger"
	"github.com/tech-sports-pimba/pimba-mvp/core/server"
	"github.com/tech-sports-pimba/pimba-mvp/core/session"
	"github.com/tech-sports-pimba/pimba-mvp/core/sessionstore"
	pgstore "github.com/tech-sports-pimba/pimba-mvp/core/sessionstore/postgres"
	redisstore "github.com/tech-sports-pimba/pimba-mvp/core/sessionstore/redis"
	"github.com/tech-sports-pimba/pimba-mvp/core/sessiontransport"
	"github.com/tech-sports-pimba/pimba-mvp/integration/identity"
	"github.com/tech-sports-pimba/pimba-mvp/integration/pimbaapi"
	"github.com/tech-sports-pimba/pimba-mvp/middleware"
)

type appConfig struct {
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"file"` // file, memory, redis, postgres
	MigrateOnStart bool   `env:"DATABASE_MIGRATE" envDefault:"true"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		appCfg       appConfig
		srvCfg       server.Config
		logCfg       logger.Config
		cookieCfg    cookie.Config
		transportCfg sessiontransport.Config
		sessionCfg   session.Config
		authCfg      auth.Config
		apiCfg       pimbaapi.Config
		identityCfg  identity.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&srvCfg)
	config.MustLoad(&logCfg)
	config.MustLoad(&cookieCfg)
	config.MustLoad(&transportCfg)
	config.MustLoad(&sessionCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&apiCfg)
	config.MustLoad(&identityCfg)

	log := logger.New(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := buildStore(ctx, appCfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if cookieCfg.Secrets == "" {
		if !authCfg.DevMode {
			return errors.New("COOKIE_SECRETS is required outside dev mode")
		}
		// Dev convenience: sessions survive only until the next restart.
		cookieCfg.Secrets = randomSecret()
		log.Warn("COOKIE_SECRETS not set, generated ephemeral dev secret")
	}

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return fmt.Errorf("build cookie manager: %w", err)
	}

	api, err := pimbaapi.New(apiCfg, log)
	if err != nil {
		return err
	}

	provider, err := buildProvider(identityCfg, authCfg, log)
	if err != nil {
		return err
	}

	sessions := session.NewManager(store, sessionCfg, log)
	validator := session.NewValidator(sessions, api, sessionCfg, log)
	transport := sessiontransport.NewCookieFromConfig(transportCfg, cookies, log)
	flow := auth.NewFlow(sessions, provider, api, authCfg, log)

	h := &handlers{flow: flow, transport: transport, devMode: authCfg.DevMode, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /dev-login", h.devLogin)
	mux.HandleFunc("POST /logout", h.logout)
	mux.Handle("GET /me", middleware.RequireAuth(http.HandlerFunc(h.me)))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	chain := middleware.Logging(log)(
		middleware.Session(middleware.SessionConfig{
			Transport: transport,
			Manager:   sessions,
			Validator: validator,
			Logger:    log,
			Skip: func(r *http.Request) bool {
				return r.URL.Path == "/health"
			},
		})(mux),
	)

	srv, err := server.NewFromConfig(srvCfg, server.WithLogger(log))
	if err != nil {
		return err
	}

	log.Info("starting", slog.String("session_backend", appCfg.SessionBackend))
	return srv.Start(ctx, chain)
}

func buildStore(ctx context.Context, cfg appConfig, log *slog.Logger) (session.Store, func(), error) {
	noop := func() {}

	switch cfg.SessionBackend {
	case "file":
		var fileCfg sessionstore.FileConfig
		config.MustLoad(&fileCfg)
		store, err := sessionstore.NewFileFromConfig(fileCfg, log)
		return store, noop, err

	case "memory":
		return sessionstore.NewMemory(), noop, nil

	case "redis":
		var redisCfg redisstore.Config
		config.MustLoad(&redisCfg)
		store, err := redisstore.Connect(ctx, redisCfg, log)
		if err != nil {
			return nil, noop, err
		}
		return store, func() { _ = store.Close() }, nil

	case "postgres":
		var pgCfg pgstore.Config
		config.MustLoad(&pgCfg)
		if cfg.MigrateOnStart {
			if err := pgstore.Migrate(ctx, pgCfg.DatabaseURL); err != nil {
				return nil, noop, err
			}
		}
		store, err := pgstore.Connect(ctx, pgCfg, log)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
}

func buildProvider(identityCfg identity.Config, authCfg auth.Config, log *slog.Logger) (identity.Provider, error) {
	if identityCfg.BaseURL != "" {
		return identity.NewClient(identityCfg, log)
	}

	if !authCfg.DevMode {
		return nil, errors.New("IDENTITY_BASE_URL is required outside dev mode")
	}

	users, err := identity.DefaultDevUsers()
	if err != nil {
		return nil, err
	}
	log.Warn("no identity provider configured, using dev provider")
	return identity.NewDevProvider(users...), nil
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
