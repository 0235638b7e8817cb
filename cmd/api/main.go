package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/propertypilot/backend/internal/adapter/publicdata"
	"github.com/propertypilot/backend/internal/adapter/webresearch"
	"github.com/propertypilot/backend/internal/adapter/zillow"
	"github.com/propertypilot/backend/internal/config"
	"github.com/propertypilot/backend/internal/handler"
	authHandler "github.com/propertypilot/backend/internal/handler/auth"
	"github.com/propertypilot/backend/internal/handler/invoke"
	"github.com/propertypilot/backend/internal/service/agents"
	authsvc "github.com/propertypilot/backend/internal/service/auth"
	"github.com/propertypilot/backend/internal/service/pilot"
	sessionsvc "github.com/propertypilot/backend/internal/service/session"
	"github.com/propertypilot/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Property listing data via HasData's Zillow API
	listings := zillow.NewClient(cfg.Listing.APIKey, cfg.Listing.BaseURL, cfg.Listing.Timeout)

	// Property persistence, optional
	store := newPropertyStore(cfg.Storage)
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("warning: failed to close property store: %v", err)
		}
	}()

	tools := &agents.Toolset{
		Listings:     listings,
		Demographics: publicdata.StaticDemographics{},
		Schools:      publicdata.StaticSchools{},
		Crime:        publicdata.StaticCrime{},
		Trends:       publicdata.StaticTrends{},
		Store:        store,
	}

	// Multi-agent analysis, model-backed when Ark credentials are present
	system, err := agents.NewSystem(ctx, cfg.AI, tools)
	if err != nil {
		log.Printf("warning: failed to initialize chat model agents: %v", err)
		log.Println("continuing with deterministic analysis only")
		system, _ = agents.NewSystem(ctx, config.AIConfig{}, tools)
	} else if system.Enabled() {
		log.Println("agent system initialized with chat model")
	}

	// Headless-browser web research
	browser := webresearch.NewBrowser(cfg.Research.ChromeBin)
	researcher := webresearch.NewResearcher(browser, webresearch.Config{
		MaxConcurrency: cfg.Research.MaxConcurrency,
		PageTimeout:    cfg.Research.PageTimeout,
	})

	pilotSvc := pilot.NewService(system, researcher)
	sessions := sessionsvc.NewService(cfg.Session.MaxSessions)

	// Cognito authentication, optional
	var (
		verifier    *authsvc.Verifier
		loginClient *authsvc.Client
	)
	if cfg.Auth.Enabled() {
		verifier, err = authsvc.NewVerifier(ctx, cfg.Auth)
		if err != nil {
			log.Printf("warning: failed to initialize token verifier: %v", err)
			verifier = nil
		}
		loginClient, err = authsvc.NewClient(ctx, cfg.Auth)
		if err != nil {
			log.Printf("warning: failed to initialize Cognito client: %v", err)
			loginClient = nil
		}
		if verifier != nil && loginClient != nil {
			log.Println("Cognito authentication enabled")
		}
	} else {
		log.Println("Cognito not configured, running without authentication")
	}

	// Nil concrete pointers must not end up inside non-nil interfaces.
	var (
		invokeVerifier invoke.TokenVerifier
		invokePrefs    invoke.PreferenceLoader
		authVerifier   authHandler.TokenVerifier
		authClient     authHandler.LoginClient
	)
	if verifier != nil {
		invokeVerifier = verifier
		authVerifier = verifier
	}
	if loginClient != nil {
		invokePrefs = loginClient
		authClient = loginClient
	}

	router := handler.NewRouter(handler.Deps{
		Invoke: invoke.New(pilotSvc, sessions, invokeVerifier, invokePrefs),
		Auth:   authHandler.New(authClient, authVerifier, cfg.Auth),
		Agents: system,
	})

	startServer(ctx, cfg.Server, router)
}

func newPropertyStore(cfg config.StorageConfig) storage.PropertyStore {
	if cfg.PropertyDSN == "" {
		log.Println("no property database configured, analyses will not be persisted")
		return storage.NoopStore{}
	}
	store, err := storage.NewPostgresStore(cfg.PropertyDSN)
	if err != nil {
		log.Printf("warning: failed to connect to property database: %v", err)
		log.Println("continuing without property persistence")
		return storage.NoopStore{}
	}
	log.Println("property store connected")
	return store
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("PropertyPilot backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
