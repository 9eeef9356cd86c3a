package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "stockcopilot",
	Short: "Stock Copilot - heuristic stock ratings, charts and AI insight",
	Long: `Stock Copilot rates stocks from their recent price history, draws
performance charts and answers questions about a company with a language model.
It serves a web UI and a JSON API, and every lookup is also available from the
command line.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	// A missing .env is fine; keys may come from the environment directly.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
