// Package app wires configuration, storage, services, and the HTTP server
// into a runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/auth"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/certificates"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/interview"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/judge"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/llm"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/notify"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/progress"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/scrape"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/server"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/speech"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

// App is the assembled application.
type App struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
	bus   notify.Publisher
	http  *http.Server
}

// New builds every component and returns the ready-to-run application.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	st, err := store.Open(cfg.Database, log)
	if err != nil {
		return nil, err
	}

	var bus notify.Publisher = notify.NopPublisher{}
	if cfg.Redis.Addr != "" {
		redisBus, err := notify.NewRedisBus(cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		bus = redisBus
	}

	llmCfg := llm.ConfigFromEnv()
	if err := llmCfg.Validate(); err != nil {
		return nil, err
	}
	provider, err := llm.NewProvider(ctx, llmCfg, st.LLMRequests(), log)
	if err != nil {
		return nil, err
	}

	certSvc := certificates.NewService(st.Certificates(), cfg.PublicOrigin, log)
	progressSvc := progress.NewService(
		st.Enrollments(), st.Tracks(), st.Users(), st.Activities(),
		certSvc, bus, log,
	)
	interviewSvc := interview.NewService(
		st.Interviews(), provider, progressSvc, interview.DefaultConfig(), log,
	)
	authSvc := auth.NewService(st.Users(), bus, cfg.Auth, log)

	srv := server.New(
		cfg, log,
		authSvc, progressSvc, interviewSvc, certSvc,
		st.Tracks(), st.Activities(),
		judge.NewClient(cfg.Judge, log),
		speech.NewMinter(cfg.Speech, log),
		scrape.NewFetcher(),
	)

	return &App{
		cfg:   cfg,
		log:   log,
		store: st,
		bus:   bus,
		http: &http.Server{
			Addr:              cfg.Addr,
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.log.Info("listening", "addr", a.cfg.Addr, "mode", a.cfg.Mode)
		if err := a.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if err := a.bus.Close(); err != nil {
		a.log.Warn("bus close failed", "error", err)
	}
	if err := a.store.Close(); err != nil {
		a.log.Warn("store close failed", "error", err)
	}
	a.log.Info("server stopped")
	return nil
}

// Store exposes storage for the operator commands.
func (a *App) Store() *store.Store {
	return a.store
}
