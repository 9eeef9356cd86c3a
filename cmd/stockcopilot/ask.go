package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmocloud/stockcopilot/internal/period"
)

var askPeriod string

var askCmd = &cobra.Command{
	Use:   "ask SYMBOL QUESTION...",
	Short: "Ask the copilot a question about a stock",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runAsk,
}

var aiRateCmd = &cobra.Command{
	Use:   "ai-rate SYMBOL",
	Short: "Ask the language model to rate a stock from its fundamentals",
	Args:  cobra.ExactArgs(1),
	RunE:  runAIRate,
}

func init() {
	askCmd.Flags().StringVarP(&askPeriod, "period", "p", period.OneMonth, "price history period given to the model")
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(aiRateCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	if !rt.app.LLMEnabled() {
		rt.log.Warn("no LLM provider configured; set llm.provider in the config file")
	}

	symbol := rt.app.Normalize(args[0])
	answer, err := rt.app.Ask(cmd.Context(), symbol, askPeriod, strings.Join(args[1:], " "), nil)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

func runAIRate(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	if !rt.app.LLMEnabled() {
		return fmt.Errorf("ai-rate needs llm.provider to be configured")
	}

	symbol := rt.app.Normalize(args[0])
	fmt.Printf("%s AI rating: %.1f\n", symbol, rt.app.AIRating(cmd.Context(), symbol))
	return nil
}
