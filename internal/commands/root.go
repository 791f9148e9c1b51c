package commands

import (
	"coinbit-sync/internal/app"
	"coinbit-sync/internal/infrastructure/config"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	logLevel   string
	storeFlag  string
	mockMode   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coinbit",
	Short: "Offline-first CoinGecko sync service",
	Long: `coinbit keeps a local cache of the CoinGecko coin list, coin details and
market charts, serving cached data first and refreshing from the network when it
goes stale. When the network fails the last known data is served instead.

Run "coinbit serve" for the HTTP and WebSocket API, or use the sync, favorite
and cache commands to drive the same flows from a terminal.`,
	Version:       app.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default: configs/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "local store backend (sqlite, memory, redis)")
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "serve generated data instead of calling CoinGecko")
}

// loadConfig aplica los flags globales sobre la configuracion cargada
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = loader.LoadFile(configFile)
	} else {
		cfg, err = loader.LoadForEnvironment(config.GetEnvironment())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if storeFlag != "" {
		cfg.Store.Backend = storeFlag
	}
	if mockMode {
		cfg.CoinGecko.MockMode = true
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// bootstrap carga config, logging y la aplicacion; logOut separa logs de la salida del comando
func bootstrap(ctx context.Context, logOut io.Writer) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if err := app.InitLogging(cfg.Logging, config.GetEnvironment(), logOut); err != nil {
		return nil, err
	}

	application := app.New(cfg)
	if err := application.Initialize(ctx); err != nil {
		return nil, err
	}
	return application, nil
}
