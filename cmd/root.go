package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roadcheck/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "roadcheck",
	Short: "Road, weather and speed-limit analysis for a GPS fix",
	Long:  "Classifies the road at a coordinate, looks up the local weather, and checks the observed speed against a weather-adjusted limit table and an AI opinion.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
