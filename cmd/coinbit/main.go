package main

import (
	"coinbit-sync/internal/commands"
	"os"
)

// @title Coinbit Sync API
// @version 1.0
// @description Offline-first sync of the CoinGecko coin list, coin detail and market charts.
// @BasePath /
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
