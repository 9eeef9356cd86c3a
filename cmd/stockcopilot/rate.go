package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cosmocloud/stockcopilot/internal/period"
)

var (
	ratePeriod string
	rateChart  string
)

var rateCmd = &cobra.Command{
	Use:   "rate SYMBOL",
	Short: "Rate a stock over a period",
	Long: `Fetches the requested window and the trailing month, computes the heuristic
rating and prints it. With --chart the rendered PNG is written to a file.`,
	Args: cobra.ExactArgs(1),
	RunE: runRate,
}

func init() {
	rateCmd.Flags().StringVarP(&ratePeriod, "period", "p", period.OneDay, "period (1d, 1wk, 1mo or any data-source period)")
	rateCmd.Flags().StringVar(&rateChart, "chart", "", "write the chart PNG to this file")
	rootCmd.AddCommand(rateCmd)
}

func runRate(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd.Context())
	if err != nil {
		return err
	}
	defer rt.log.Sync()

	symbol := rt.app.Normalize(args[0])
	report, err := rt.app.LookupPeriod(cmd.Context(), symbol, ratePeriod)
	if err != nil {
		return err
	}

	rating := "N/A"
	if report.Rating.Available {
		rating = fmt.Sprintf("%.1f / 10", report.Rating.Value())
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Symbol:\t%s\n", report.Symbol)
	fmt.Fprintf(w, "Period:\t%s (%s / %s)\n", report.Window.Requested, report.Window.Period, report.Window.Interval)
	fmt.Fprintf(w, "Price:\t%.3f\n", report.Price)
	fmt.Fprintf(w, "Change:\t%+.3f (%+.2f%%)\n", report.Change, report.ChangePct)
	fmt.Fprintf(w, "Rating:\t%s\n", rating)
	fmt.Fprintf(w, "Top investor pick:\t%t\n", report.Rating.TopInvestor)
	if report.ChartPath != "" {
		fmt.Fprintf(w, "Archived chart:\t%s\n", report.ChartPath)
	}
	w.Flush()

	if rateChart == "" {
		return nil
	}
	if !report.HasChart() {
		fmt.Println("No chart: not enough data points for this period.")
		return nil
	}
	if err := os.WriteFile(rateChart, report.Chart, 0o644); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	fmt.Printf("Chart written to %s\n", rateChart)
	return nil
}
