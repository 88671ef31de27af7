package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/roadcheck/internal/report"
)

var (
	rulesRoad    string
	rulesWeather string
	rulesSpeed   float64
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the speed-limit table or evaluate one road/weather/speed triple offline",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := cfg.RuleTable()
		if err != nil {
			return err
		}

		if !cmd.Flags().Changed("road") && !cmd.Flags().Changed("weather") && !cmd.Flags().Changed("speed") {
			return report.WriteYAML(cmd.OutOrStdout(), table)
		}

		return report.WriteYAML(cmd.OutOrStdout(), table.Evaluate(rulesRoad, rulesWeather, rulesSpeed))
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesRoad, "road", "city", "road type: highway, rural or city")
	rulesCmd.Flags().StringVar(&rulesWeather, "weather", "", "weather description")
	rulesCmd.Flags().Float64Var(&rulesSpeed, "speed", 0, "speed in km/h")
	rootCmd.AddCommand(rulesCmd)
}
