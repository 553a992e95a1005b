package main

import (
	"fmt"
	"strconv"

	"github.com/couchcryptid/climate-stats-service/internal/analysis"
	"github.com/spf13/cobra"
)

var statsFlags struct {
	location   locationFlags
	day        int
	startDay   int
	endDay     int
	startDate  string
	endDate    string
	month      int
	dayOfMonth int
	thresholds map[string]string
	combine    []string
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute statistics for a day or range of the year",
	Long: `Compute exceedance probabilities, averages, records, trend and the
temperature distribution for one day of the year or a day-of-year range,
pooled across every year of the series.`,
	Example: `  climatecli stats --lat 40.01 --lon -105.27 --day 196
  climatecli stats --series-file boulder.json --start-date 2024-12-20 --end-date 2025-01-10
  climatecli stats --location "Boulder, CO" --month 7 --dom 4 --threshold hot=85 --combine hot,humid`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	f := statsCmd.Flags()
	statsFlags.location.register(statsCmd)
	f.IntVar(&statsFlags.day, "day", 0, "single day of year (1-366)")
	f.IntVar(&statsFlags.startDay, "start-day", 0, "first day of year of a range")
	f.IntVar(&statsFlags.endDay, "end-day", 0, "last day of year of a range; may wrap past December 31")
	f.StringVar(&statsFlags.startDate, "start-date", "", "first calendar date of a range (YYYY-MM-DD)")
	f.StringVar(&statsFlags.endDate, "end-date", "", "last calendar date of a range (YYYY-MM-DD)")
	f.IntVar(&statsFlags.month, "month", 0, "month of a single day (1-12)")
	f.IntVar(&statsFlags.dayOfMonth, "dom", 0, "day of month of a single day")
	f.StringToStringVar(&statsFlags.thresholds, "threshold", nil, "threshold override, e.g. hot=85 (repeatable)")
	f.StringSliceVar(&statsFlags.combine, "combine", nil, "conditions to combine into a joint probability")
}

func runStats(cmd *cobra.Command, _ []string) error {
	thresholds, err := parseThresholdFlags(statsFlags.thresholds)
	if err != nil {
		return err
	}

	q := analysis.StatsQuery{
		LocationQuery: statsFlags.location.query(cmd),
		RangeQuery: analysis.RangeQuery{
			StartDate: statsFlags.startDate,
			EndDate:   statsFlags.endDate,
		},
		Thresholds:      thresholds,
		CombinedFactors: statsFlags.combine,
	}
	flags := cmd.Flags()
	setIfChanged(flags.Changed("day"), &q.DayOfYear, statsFlags.day)
	setIfChanged(flags.Changed("start-day"), &q.StartDayOfYear, statsFlags.startDay)
	setIfChanged(flags.Changed("end-day"), &q.EndDayOfYear, statsFlags.endDay)
	setIfChanged(flags.Changed("month"), &q.Month, statsFlags.month)
	setIfChanged(flags.Changed("dom"), &q.Day, statsFlags.dayOfMonth)

	svc, err := newService(&statsFlags.location)
	if err != nil {
		return err
	}
	report, err := svc.Stats(cmd.Context(), q)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), report)
}

func setIfChanged(changed bool, dst **int, v int) {
	if changed {
		*dst = &v
	}
}

func parseThresholdFlags(in map[string]string) (map[string]float64, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(in))
	for name, raw := range in {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("threshold %s: %q is not a number", name, raw)
		}
		out[name] = v
	}
	return out, nil
}
