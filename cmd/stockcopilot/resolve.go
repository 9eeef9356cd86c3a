package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmocloud/stockcopilot/internal/period"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve PERIOD",
	Short: "Show the period and interval a requested period maps to",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		w := period.Resolve(args[0])
		fmt.Printf("period=%s interval=%s\n", w.Period, w.Interval)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
