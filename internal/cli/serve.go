package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/veracitylabs/veracity/internal/cache"
	"github.com/veracitylabs/veracity/internal/config"
	"github.com/veracitylabs/veracity/internal/engine"
	"github.com/veracitylabs/veracity/internal/logger"
	"github.com/veracitylabs/veracity/internal/server"
	"github.com/veracitylabs/veracity/internal/store"
	"github.com/veracitylabs/veracity/internal/websocket"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP API",
	Long: `Serve starts the HTTP API with the configured cache, analysis
history store, and live WebSocket event stream. Configuration comes from
the config file, VERACITY_* environment variables, and defaults, in that
order of precedence.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File: &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	eng, err := engine.New(cfg.Engine, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize engine: %w", err)
	}

	var history server.AnalysisStore
	if cfg.Store.Enabled {
		st, err := store.NewStore(&store.Config{
			DatabaseURL:     cfg.Store.DatabaseURL,
			MaxOpenConns:    cfg.Store.MaxOpenConns,
			MaxIdleConns:    cfg.Store.MaxIdleConns,
			ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		}, log.Logger)
		if err != nil {
			return fmt.Errorf("failed to initialize store: %w", err)
		}
		defer st.Close()
		history = st
	}

	resultCache, err := cache.New(&cache.Config{
		Backend:    cfg.Cache.Backend,
		RedisURL:   cfg.Cache.RedisURL,
		KeyPrefix:  cfg.Cache.KeyPrefix,
		DefaultTTL: cfg.Cache.DefaultTTL,
	}, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	if resultCache != nil {
		defer resultCache.Close()
	}

	var hub *websocket.Hub
	if cfg.WebSocket.Enabled {
		hub = websocket.NewHub(log.Logger)
		go hub.Run()
	}

	srv := server.New(cfg, eng, history, resultCache, hub, log)

	// Reload engine-independent settings on config file changes.
	if err := config.Watch(func(newCfg *config.Config) {
		log.Info("Configuration file changed; restart to apply server settings")
	}); err != nil {
		log.Warn("Config watch unavailable", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Stop(ctx)
}
