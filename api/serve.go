package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rogerio-castellano/gerenciador-itens/internal/client"
	"github.com/rogerio-castellano/gerenciador-itens/internal/config"
	"github.com/rogerio-castellano/gerenciador-itens/internal/db"
	api "github.com/rogerio-castellano/gerenciador-itens/internal/http"
	"github.com/rogerio-castellano/gerenciador-itens/internal/http/handlers"
	rl "github.com/rogerio-castellano/gerenciador-itens/internal/http/rate_limiter"
	"github.com/rogerio-castellano/gerenciador-itens/internal/logging"
	"github.com/rogerio-castellano/gerenciador-itens/internal/redissvc"
	"github.com/rogerio-castellano/gerenciador-itens/internal/repo"
	"github.com/rogerio-castellano/gerenciador-itens/internal/telemetry"
	"github.com/rogerio-castellano/gerenciador-itens/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the items API and the web front-end",
		RunE:  runServe,
	}
	addServeFlags(cmd)
	return cmd
}

// addServeFlags is shared by serve and the root command, which defaults to
// serving.
func addServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("addr", ":8080", "Listen address")
	flags.String("db-driver", "pgx", "Database driver: pgx|sqlite")
	flags.String("db-dsn", "", "Database DSN (defaults to DATABASE_URL)")
	flags.String("redis-addr", "", "Redis address for the stats cache (empty disables it)")
	flags.Float64("rate-rps", 5, "Requests per second per client IP (0 disables the limiter)")
	flags.Int("rate-burst", 10, "Rate limiter burst")
}

func bindServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	_ = v.BindPFlag("server.addr", flags.Lookup("addr"))
	_ = v.BindPFlag("database.driver", flags.Lookup("db-driver"))
	_ = v.BindPFlag("database.dsn", flags.Lookup("db-dsn"))
	_ = v.BindPFlag("redis.addr", flags.Lookup("redis-addr"))
	_ = v.BindPFlag("rate_limit.rps", flags.Lookup("rate-rps"))
	_ = v.BindPFlag("rate_limit.burst", flags.Lookup("rate-burst"))
}

func runServe(cmd *cobra.Command, _ []string) error {
	bindServeFlags(cmd)
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown", "error", err)
		}
	}()

	operations, err := telemetry.NewOperations()
	if err != nil {
		return err
	}
	handlers.SetOperations(operations)

	database, dialect, err := db.Connect(ctx, db.Options{
		Driver:       cfg.Database.Driver,
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return err
	}
	defer database.Close()
	logger.Info("database ready", "driver", dialect)

	handlers.SetItemRepo(repo.NewSQLItemRepository(database, dialect, repo.WithQueryTimeout(cfg.Database.QueryTimeout)))

	if cfg.Redis.Addr != "" {
		rdb, err := redissvc.Dial(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		handlers.SetStatsCache(redissvc.NewRedisService(rdb, cfg.Redis.StatsTTL))
		logger.Info("stats cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.StatsTTL)
	}

	rl.Configure(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	if rl.Enabled() {
		go rl.StartVisitorCleanupLoop(ctx)
	}

	apiClient := client.New(cfg.UI.APIBaseURL, client.WithAPIPath(cfg.Server.APIPath))
	webHandler, err := web.NewRouter(ctx, apiClient, web.Options{
		Debounce:    cfg.UI.Debounce,
		SessionTTL:  cfg.UI.SessionTTL,
		MaxSessions: cfg.UI.MaxSessions,
	})
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterOptions{
		APIPath:        cfg.Server.APIPath,
		MetricsPath:    cfg.Telemetry.MetricsPath,
		MetricsHandler: providers.MetricsHandler,
		Web:            webHandler,
		Traced:         cfg.Telemetry.TracesEnabled,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "addr", cfg.Server.Addr, "api_path", cfg.Server.APIPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
