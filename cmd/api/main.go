package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/leadflow/meeting-router/internal/assignment"
	"github.com/leadflow/meeting-router/internal/audit"
	"github.com/leadflow/meeting-router/internal/auth"
	"github.com/leadflow/meeting-router/internal/bookingload"
	"github.com/leadflow/meeting-router/internal/directory"
	"github.com/leadflow/meeting-router/internal/identity"
	"github.com/leadflow/meeting-router/internal/leads"
	"github.com/leadflow/meeting-router/internal/router"
	"github.com/leadflow/meeting-router/internal/scheduling"
	"github.com/leadflow/meeting-router/internal/specialization"
	"github.com/leadflow/meeting-router/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.Init(utilities.ConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting meeting-router")

	// Required upstream credentials are a startup-level configuration
	// error; no remote call is attempted without them.
	dirCfg := directory.ConfigFromEnv()
	if err := dirCfg.Validate(); err != nil {
		sugar.Fatalf("directory config: %v", err)
	}
	schedCfg := scheduling.ConfigFromEnv()
	if err := schedCfg.Validate(); err != nil {
		sugar.Fatalf("scheduling config: %v", err)
	}
	authCfg := auth.ConfigFromEnv()
	if err := authCfg.Validate(); err != nil {
		sugar.Fatalf("auth config: %v", err)
	}
	leadsCfg := leads.ConfigFromEnv()
	if err := leadsCfg.Validate(); err != nil {
		sugar.Fatalf("leads config: %v", err)
	}

	// One shared HTTP client bounds latency on every upstream call; no
	// retries are performed at any layer.
	httpClient := &http.Client{Timeout: 15 * time.Second}
	clock := clockwork.NewRealClock()

	dirClient := directory.NewClient(dirCfg, httpClient, sugar)
	schedClient := scheduling.NewClient(schedCfg, httpClient, sugar)

	correlator := identity.NewCorrelator(schedClient, clock, sugar)
	aggregator := bookingload.NewAggregator(schedClient, clock, sugar)
	resolver := assignment.NewResolver(dirClient, correlator, aggregator, sugar)

	specSvc := specialization.NewService(dirClient, clock, sugar)
	authSvc := auth.NewService(authCfg, dirClient, clock, sugar)
	leadsSvc := leads.NewService(leadsCfg, httpClient, sugar)

	handler := router.RegisterRoutes(sugar, router.Handlers{
		Agents:          assignment.NewHandler(resolver, sugar),
		Specializations: specialization.NewHandler(specSvc, sugar),
		Auth:            auth.NewHandler(authSvc, sugar),
		Session:         authSvc,
		Leads:           leads.NewHandler(leadsSvc, sugar),
		Audit:           audit.NewHandler(dirClient, sugar),
	})

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8431"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		sugar.Infow("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()

	sugar.Info("shutting down")

	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
