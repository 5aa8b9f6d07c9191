package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/rsystem/internal/api"
	"github.com/wonny/rsystem/internal/api/handlers"
	"github.com/wonny/rsystem/internal/present"
	"github.com/wonny/rsystem/internal/scheduler"
	"github.com/wonny/rsystem/internal/scheduler/jobs"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard server",
	Long: `Starts the dashboard and JSON API.

Endpoints:
  GET  /health                   - Health check and job stats
  GET  /login, POST /login       - Password gate (when DASHBOARD_PASSWORDS is set)
  GET  /?metric=range&day=today  - Dashboard
  GET  /charts/{code}            - Candlestick chart page
  GET  /api/ranking?metric=      - Drawdown ranking
  GET  /api/snapshots/{source}   - One day list
  POST /api/cache/purge          - Drop cached upstream responses

Example:
  go run ./cmd/screener serve
  go run ./cmd/screener serve --port 9000`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg, log := a.cfg, a.log
	if servePort != "" {
		cfg.Port = servePort
	}

	// 1. Background cache janitor
	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewCacheJanitorJob(a.caches.Purgers(), cfg.Cache.JanitorSchedule, log)); err != nil {
		return fmt.Errorf("schedule cache janitor: %w", err)
	}

	// 2. Handlers and router
	renderer, err := present.NewRenderer()
	if err != nil {
		return err
	}
	authHandler := handlers.NewAuthHandler(cfg.Dashboard.Passwords, handlers.NewSessions(cfg.Dashboard.SessionTTL), renderer, log)
	router := api.NewRouter(
		handlers.NewHealthHandler(sched),
		handlers.NewScreenerHandler(a.pipeline, renderer, a.metric, cfg.Dashboard, log),
		handlers.NewCacheHandler(a.caches.Purgers(), log),
		authHandler,
		log,
	)

	// 3. Start
	server := api.New(cfg, log, router)
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()
	sched.Start()

	log.WithField("password_gate", authHandler.Enabled()).Info("Screener server started")
	fmt.Printf("\n✅ Dashboard running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	// 4. Wait for a signal or a server failure
	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
