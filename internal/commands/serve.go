package commands

import (
	"coinbit-sync/internal/infrastructure/logging"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API",
	Long: `Start the API server:
  REST endpoints under /api/v1 for the coin list, detail, charts, search and favorites
  a WebSocket stream at /api/v1/stream that pushes every sync event
  /health, /ready, /metrics and /swagger/

Examples:
  coinbit serve
  coinbit serve --port 9090 --store memory
  coinbit serve --mock --log-level debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "server port (overrides server.port)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	application, err := bootstrap(ctx, os.Stdout)
	if err != nil {
		return err
	}

	cfg := application.Config()
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	srv, err := application.BuildServer()
	if err != nil {
		return err
	}
	application.StartBackground()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Start()
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	select {
	case sig := <-interrupt:
		logging.Info(ctx, "Shutdown signal received", logging.Fields{"signal": sig.String()})
	case err := <-serveErr:
		if err != nil {
			_ = application.Stop(ctx)
			return fmt.Errorf("server stopped: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := application.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(ctx, "Shutdown completed with errors", err, nil)
		return err
	}

	logging.Info(ctx, "Server shutdown completed", nil)
	return nil
}
