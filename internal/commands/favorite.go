package commands

import (
	"coinbit-sync/internal/application/dto"
	"coinbit-sync/internal/domain/interfaces"
	"context"
	"encoding/json"

	"github.com/spf13/cobra"
)

var favoriteCmd = &cobra.Command{
	Use:   "favorite",
	Short: "Manage favorite coins",
}

var favoriteToggleCmd = &cobra.Command{
	Use:     "toggle <coin-id>",
	Short:   "Flip the favorite flag of a coin",
	Example: "  coinbit favorite toggle bitcoin",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, svc interfaces.SyncService) error {
			favorite, err := svc.ToggleFavorite(ctx, args[0])
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(dto.FavoriteToggleResponse{
				CoinID:     args[0],
				IsFavorite: favorite,
			})
		})
	},
}

var favoriteListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the cached favorite coins",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, svc interfaces.SyncService) error {
			coins, err := svc.FavoritesOnce(ctx)
			if err != nil {
				return err
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(dto.NewCoinsResponse("", coins))
		})
	},
}

func init() {
	rootCmd.AddCommand(favoriteCmd)
	favoriteCmd.AddCommand(favoriteToggleCmd, favoriteListCmd)
}
