package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ateliers3d/flacon"
	httpAdapter "github.com/ateliers3d/flacon/internal/adapters/http"
	"github.com/ateliers3d/flacon/internal/config"
	"github.com/ateliers3d/flacon/internal/logging"
	"github.com/ateliers3d/flacon/pkg/adapters/approx"
	fileStore "github.com/ateliers3d/flacon/pkg/adapters/file"
	"github.com/ateliers3d/flacon/pkg/adapters/memory"
	"github.com/ateliers3d/flacon/pkg/adapters/occtbridge"
	redisStore "github.com/ateliers3d/flacon/pkg/adapters/redis"
	"github.com/ateliers3d/flacon/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP generation server",
	Long:  `Starts flacon in server mode, exposing generation and model lookup over a JSON API.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		debug, _ := cmd.Flags().GetBool("debug")

		level := slog.LevelInfo
		if debug {
			level = slog.LevelDebug
		}
		logger := logging.New(level)

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		store, err := buildStore(cfg)
		if err != nil {
			fmt.Printf("Error initializing store: %v\n", err)
			os.Exit(1)
		}

		var provider ports.KernelProvider
		if cfg.Kernel.Command != "" {
			provider = occtbridge.NewProvider(cfg.Kernel.Command, cfg.Kernel.Args...)
		} else {
			provider = approx.NewProvider()
		}

		gen := flacon.New(provider,
			flacon.WithLogger(logger),
			flacon.WithStore(store),
			flacon.WithDeflection(cfg.Deflection),
		)

		handler, err := httpAdapter.NewHandler(gen, store, cfg.OutputDir)
		if err != nil {
			fmt.Printf("Error initializing server: %v\n", err)
			os.Exit(1)
		}

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("starting flacon server", "addr", srv.Addr, "output_dir", cfg.OutputDir)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					logger.Error("error killing server", "err", err)
				}
			}
			logger.Info("flacon server stopped")
		}
	},
}

func buildStore(cfg *config.Config) (ports.ModelStore, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return memory.NewStore(), nil
	case "file":
		return fileStore.NewStore(cfg.Store.Path), nil
	case "redis":
		return redisStore.New(cfg.Store.Address, cfg.Store.Password, cfg.Store.DB,
			redisStore.WithTTL(time.Duration(cfg.Store.TTL))), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "flacon.yaml", "Path to the service configuration file")
}
