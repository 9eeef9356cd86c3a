package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cosmocloud/stockcopilot/internal/core"
)

var infoCmd = &cobra.Command{
	Use:   "info SYMBOL",
	Short: "Show company fundamentals",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	f := rt.app.Info(cmd.Context(), rt.app.Normalize(args[0]))

	num := func(field string, v float64) string {
		if f.IsMissing(field) {
			return "N/A"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	str := func(field, v string) string {
		if f.IsMissing(field) || v == "" {
			return "N/A"
		}
		return v
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Name:\t%s (%s)\n", f.DisplayName(), f.Symbol)
	fmt.Fprintf(w, "Market Cap:\t%s\n", num(core.FieldMarketCap, f.MarketCap))
	fmt.Fprintf(w, "P/E Ratio:\t%s\n", num(core.FieldTrailingPE, f.TrailingPE))
	fmt.Fprintf(w, "EPS:\t%s\n", num(core.FieldTrailingEPS, f.TrailingEPS))
	fmt.Fprintf(w, "52 Week High:\t%s\n", num(core.FieldFiftyTwoWeekHigh, f.FiftyTwoWeekHigh))
	fmt.Fprintf(w, "52 Week Low:\t%s\n", num(core.FieldFiftyTwoWeekLow, f.FiftyTwoWeekLow))
	fmt.Fprintf(w, "Dividend Yield:\t%s\n", num(core.FieldDividendYield, f.DividendYield))
	fmt.Fprintf(w, "Sector:\t%s\n", str(core.FieldSector, f.Sector))
	fmt.Fprintf(w, "Industry:\t%s\n", str(core.FieldIndustry, f.Industry))
	fmt.Fprintf(w, "Beta:\t%s\n", num(core.FieldBeta, f.Beta))
	fmt.Fprintf(w, "Logo:\t%s\n", str(core.FieldLogoURL, f.LogoURL))
	w.Flush()

	fmt.Printf("\n%s\n", str(core.FieldSummary, f.Summary))
	return nil
}
