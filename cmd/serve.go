package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"attendly/config"
	"attendly/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the JSON API for leave computation and attendance curation",
	Long: `Start an HTTP server exposing the local database as a JSON API.

Endpoints:
  POST /api/leave/compute
  POST /api/leave/requests
  GET  /api/leave/requests?employee=
  GET  /api/holidays?from=&to=
  GET  /api/remarks?from=&to=
  GET  /api/attendance/{employee}/{date}
  POST /api/attendance/{employee}/{date}/curate

The server has no authentication; bind it to a trusted network only.`,
	Example: `
  # Start on the configured port
  attendly serve

  # Start on a custom port with another database
  attendly serve --port 9090 --db ./attendly.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		addr := fmt.Sprintf(":%d", resolveServePort(servePort, cfg))
		server := &http.Server{
			Addr:              addr,
			Handler:           web.NewServer(store, *cfg, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		logger.WithField("addr", addr).Info("listening")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP port (default serve.port from config)")
}

func resolveServePort(flagPort int, cfg *config.Config) int {
	if flagPort > 0 {
		return flagPort
	}
	if cfg != nil && cfg.Serve.Port > 0 {
		return cfg.Serve.Port
	}
	return 8080
}
