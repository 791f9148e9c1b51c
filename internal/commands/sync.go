package commands

import (
	"coinbit-sync/internal/application/dto"
	"coinbit-sync/internal/domain/entities"
	"coinbit-sync/internal/domain/interfaces"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	refreshFlag bool
	daysFlag    int
)

// errFlowFailed hace que el comando salga con codigo distinto de cero
var errFlowFailed = errors.New("sync flow ended with an error")

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a sync flow once and print every event as JSON",
}

var syncListCmd = &cobra.Command{
	Use:   "list",
	Short: "Sync the coin list",
	Example: `  coinbit sync list
  coinbit sync list --refresh`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, svc interfaces.SyncService) error {
			req := dto.StreamRequest{Action: dto.ActionList, Refresh: refreshFlag}
			return printFlow(cmd.OutOrStdout(), req, svc.SyncCoinList(ctx, refreshFlag))
		})
	},
}

var syncDetailCmd = &cobra.Command{
	Use:     "detail <coin-id>",
	Short:   "Sync the detail of one coin",
	Example: "  coinbit sync detail bitcoin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, svc interfaces.SyncService) error {
			req := dto.StreamRequest{Action: dto.ActionDetail, CoinID: args[0]}
			return printFlow(cmd.OutOrStdout(), req, svc.SyncCoinDetail(ctx, args[0]))
		})
	},
}

var syncChartCmd = &cobra.Command{
	Use:   "chart <coin-id>",
	Short: "Sync the market chart of one coin",
	Example: `  coinbit sync chart bitcoin
  coinbit sync chart ethereum --days 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chartReq, err := dto.NewChartRequest(args[0], strconv.Itoa(daysFlag))
		if err != nil {
			return err
		}
		return withApp(cmd, func(ctx context.Context, svc interfaces.SyncService) error {
			req := dto.StreamRequest{Action: dto.ActionChart, CoinID: chartReq.CoinID, Days: chartReq.Days}
			return printFlow(cmd.OutOrStdout(), req, svc.SyncChart(ctx, chartReq.CoinID, chartReq.Days))
		})
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncListCmd, syncDetailCmd, syncChartCmd)

	syncListCmd.Flags().BoolVar(&refreshFlag, "refresh", false, "force a network refresh")
	syncChartCmd.Flags().IntVarP(&daysFlag, "days", "d", dto.DefaultChartDays, "chart range in days")
}

// printFlow escribe un evento por linea; un Error terminal devuelve errFlowFailed
func printFlow[T any](out io.Writer, req dto.StreamRequest, events <-chan entities.Result[T]) error {
	enc := json.NewEncoder(out)
	failed := false
	for ev := range events {
		if err := enc.Encode(dto.ToStreamMessage(req, ev)); err != nil {
			return fmt.Errorf("write event: %w", err)
		}
		failed = ev.Kind == entities.ResultError
	}
	if failed {
		return errFlowFailed
	}
	return nil
}

// withApp arranca la aplicacion con logs a stderr y la cierra al terminar.
// Ctrl-C cancela el flujo en curso.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, svc interfaces.SyncService) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	application, err := bootstrap(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer func() {
		_ = application.Stop(context.Background())
	}()

	return fn(ctx, application.Sync())
}
