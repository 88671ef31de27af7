package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/roadcheck/internal/model"
	"github.com/sells-group/roadcheck/internal/pipeline"
	"github.com/sells-group/roadcheck/internal/report"
)

// Defaults point at a stretch of road outside Tunis.
const (
	defaultLat   = 36.7374
	defaultLon   = 10.3823
	defaultSpeed = 80
	defaultWidth = 15
)

var (
	analyzeLat           float64
	analyzeLon           float64
	analyzeSpeed         float64
	analyzeWidth         float64
	analyzeAPIKey        string
	analyzeJSON          bool
	analyzeFormat        string
	analyzeStreamWeather bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze road type, weather and speed at one coordinate",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := resolveFormat(analyzeFormat, analyzeJSON)
		if err != nil {
			return err
		}

		if analyzeAPIKey != "" {
			cfg.SetAPIKey(analyzeAPIKey)
		}

		env, err := initEnv(cfg, "analyze")
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []pipeline.Option
		if analyzeStreamWeather {
			errOut := cmd.ErrOrStderr()
			opts = append(opts, pipeline.WithWeatherStream(func(chunk string) {
				fmt.Fprint(errOut, chunk) //nolint:errcheck
			}))
		}

		in := pipeline.Input{
			Coordinate: model.Coordinate{Latitude: analyzeLat, Longitude: analyzeLon},
			Speed:      analyzeSpeed,
			Width:      widthPtr(analyzeWidth),
		}
		zap.L().Info("analyze: starting",
			zap.Float64("lat", in.Coordinate.Latitude),
			zap.Float64("lon", in.Coordinate.Longitude),
			zap.Float64("speed", in.Speed),
		)

		rep, err := env.Pipeline(opts...).Run(ctx, in)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}
		if analyzeStreamWeather {
			fmt.Fprintln(cmd.ErrOrStderr()) //nolint:errcheck
		}

		return report.Write(cmd.OutOrStdout(), rep, format)
	},
}

// resolveFormat applies the --json shorthand over --format.
func resolveFormat(format string, asJSON bool) (report.Format, error) {
	if asJSON {
		return report.FormatJSON, nil
	}
	return report.ParseFormat(format)
}

// widthPtr treats a non-positive width as not measured.
func widthPtr(w float64) *float64 {
	if w <= 0 {
		return nil
	}
	return &w
}

func init() {
	f := analyzeCmd.Flags()
	f.Float64Var(&analyzeLat, "lat", defaultLat, "latitude")
	f.Float64Var(&analyzeLon, "lon", defaultLon, "longitude")
	f.Float64Var(&analyzeSpeed, "speed", defaultSpeed, "current speed in km/h")
	f.Float64Var(&analyzeWidth, "width", defaultWidth, "road width in meters (0 to omit)")
	f.StringVar(&analyzeAPIKey, "api-key", "", "oracle API key (defaults to ANTHROPIC_API_KEY, or PERPLEXITY_API_KEY for perplexity)")
	f.BoolVar(&analyzeJSON, "json", false, "output results as JSON (same as --format json)")
	f.StringVar(&analyzeFormat, "format", string(report.FormatText), "output format: text, json, yaml or geojson")
	f.BoolVar(&analyzeStreamWeather, "stream-weather", false, "stream the weather answer to stderr as it arrives")
	rootCmd.AddCommand(analyzeCmd)
}
