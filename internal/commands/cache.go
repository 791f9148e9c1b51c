package commands

import (
	"coinbit-sync/internal/domain/interfaces"
	"coinbit-sync/pkg/utils"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pruneMaxAge time.Duration

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Maintain the local cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached record, favorites included",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, svc interfaces.SyncService) error {
			if err := svc.ClearCache(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
			return nil
		})
	},
}

var cachePruneCmd = &cobra.Command{
	Use:     "prune",
	Short:   "Remove non-favorite records cached before --max-age",
	Example: "  coinbit cache prune --max-age 168h",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pruneMaxAge <= 0 {
			return fmt.Errorf("--max-age must be positive, got %s", pruneMaxAge)
		}
		return withApp(cmd, func(ctx context.Context, svc interfaces.SyncService) error {
			cutoff := utils.CutoffBefore(time.Now(), pruneMaxAge)
			if err := svc.PruneBefore(ctx, cutoff); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned records cached before %s\n", cutoff.Format(time.RFC3339))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd, cachePruneCmd)
	cachePruneCmd.Flags().DurationVar(&pruneMaxAge, "max-age", 7*24*time.Hour, "age threshold")
}
