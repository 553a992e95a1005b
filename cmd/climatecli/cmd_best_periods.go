package main

import (
	"github.com/couchcryptid/climate-stats-service/internal/analysis"
	"github.com/spf13/cobra"
)

var bestPeriodsFlags struct {
	location   locationFlags
	criteria   []string
	thresholds map[string]string
}

var bestPeriodsCmd = &cobra.Command{
	Use:   "best-periods",
	Short: "Rank the half-month periods of the year against favorable-day criteria",
	Example: `  climatecli best-periods --lat 40.01 --lon -105.27 --criteria sunny,no_rain,not_hot
  climatecli best-periods --series-file boulder.json --criteria not_cold --threshold cold=40`,
	Args: cobra.NoArgs,
	RunE: runBestPeriods,
}

func init() {
	rootCmd.AddCommand(bestPeriodsCmd)
	bestPeriodsFlags.location.register(bestPeriodsCmd)
	bestPeriodsCmd.Flags().StringSliceVar(&bestPeriodsFlags.criteria, "criteria", nil,
		"favorable-day criteria: sunny, not_hot, not_cold, not_windy, not_humid, no_rain, no_snow")
	bestPeriodsCmd.Flags().StringToStringVar(&bestPeriodsFlags.thresholds, "threshold", nil, "threshold override, e.g. hot=85 (repeatable)")
}

func runBestPeriods(cmd *cobra.Command, _ []string) error {
	thresholds, err := parseThresholdFlags(bestPeriodsFlags.thresholds)
	if err != nil {
		return err
	}

	svc, err := newService(&bestPeriodsFlags.location)
	if err != nil {
		return err
	}
	report, err := svc.BestPeriods(cmd.Context(), analysis.SweepQuery{
		LocationQuery: bestPeriodsFlags.location.query(cmd),
		Criteria:      bestPeriodsFlags.criteria,
		Thresholds:    thresholds,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}
