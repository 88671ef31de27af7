// Package pipeline runs one driving-conditions analysis: road classification,
// weather lookup and the speed decision, in that order.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roadcheck/internal/model"
	"github.com/sells-group/roadcheck/internal/oracle"
	"github.com/sells-group/roadcheck/internal/rules"
	"github.com/sells-group/roadcheck/pkg/geocode"
)

// Input is one observation to analyze.
type Input struct {
	Coordinate model.Coordinate
	Speed      float64
	Width      *float64 // meters, optional
}

// Pipeline coordinates the classifier, weather lookup and decision engine.
// It holds no per-run state and may serve concurrent runs.
type Pipeline struct {
	road     *RoadClassifier
	weather  *WeatherLookup
	decision *DecisionEngine

	onWeatherChunk func(string)
	now            func() time.Time
	newID          func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWeatherStream switches the weather query to the streaming oracle call
// and passes each chunk to onChunk.
func WithWeatherStream(onChunk func(string)) Option {
	return func(p *Pipeline) {
		p.onWeatherChunk = onChunk
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline sharing one oracle across all three steps.
func New(o oracle.Oracle, g geocode.Client, table *rules.Table, opts ...Option) *Pipeline {
	p := &Pipeline{
		road:     NewRoadClassifier(o, table),
		weather:  NewWeatherLookup(g, o),
		decision: NewDecisionEngine(o, table),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run analyzes in. Road classification and AI assessment failures abort the
// run; geocoding and weather failures are recorded on the report and the
// analysis continues with unknown weather.
func (p *Pipeline) Run(ctx context.Context, in Input) (*model.AnalysisReport, error) {
	report := &model.AnalysisReport{
		ID:        p.newID(),
		Timestamp: p.now(),
		Location:  in.Coordinate,
		Speed:     in.Speed,
	}

	log := zap.L().With(
		zap.String("run_id", report.ID),
		zap.Float64("lat", in.Coordinate.Latitude),
		zap.Float64("lon", in.Coordinate.Longitude),
		zap.Float64("speed", in.Speed),
	)
	log.Info("pipeline: starting analysis")

	// Phase 1: road type.
	start := time.Now()
	roadType, err := p.road.Classify(ctx, in.Coordinate, in.Width)
	if err != nil {
		log.Error("pipeline: phase failed", zap.String("phase", "road"), zap.Error(err))
		return nil, err
	}
	report.RoadType = roadType
	if in.Width != nil {
		w := *in.Width
		report.RoadWidth = &w
		report.RoadTypeEstimate = p.road.EstimateFromWidth(in.Width)
	}
	log.Info("pipeline: phase complete",
		zap.String("phase", "road"),
		zap.String("road_type", string(roadType)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	// Phase 2: place and weather.
	start = time.Now()
	report.LocationName, report.Weather, err = p.lookupWeather(ctx, in.Coordinate)
	if err != nil {
		log.Warn("pipeline: weather unavailable", zap.Error(err))
		report.Weather = model.WeatherUnknown
		report.WeatherError = err.Error()
	}
	log.Info("pipeline: phase complete",
		zap.String("phase", "weather"),
		zap.String("location", report.LocationName),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	// Phase 3: rule decision, then the oracle's own opinion.
	start = time.Now()
	report.SpeedAnalysis = p.decision.Evaluate(report.RoadType, report.Weather, in.Speed)
	verdict, err := p.decision.Assess(ctx, report.RoadType, report.Weather, in.Speed)
	if err != nil {
		log.Error("pipeline: phase failed", zap.String("phase", "decision"), zap.Error(err))
		return nil, err
	}
	report.AIAssessment = verdict
	log.Info("pipeline: phase complete",
		zap.String("phase", "decision"),
		zap.Bool("violation", report.SpeedAnalysis.Violation),
		zap.String("ai_assessment", string(verdict)),
		zap.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return report, nil
}

// lookupWeather returns the place name (possibly set even on error) and the
// weather text.
func (p *Pipeline) lookupWeather(ctx context.Context, coord model.Coordinate) (string, string, error) {
	place, err := p.weather.Reverse(ctx, coord)
	if err != nil {
		return "", "", err
	}

	var weather string
	if p.onWeatherChunk != nil {
		weather, err = p.weather.WeatherStream(ctx, place, p.onWeatherChunk)
	} else {
		weather, err = p.weather.Weather(ctx, place)
	}
	if err != nil {
		return place, "", eris.Wrapf(err, "pipeline: weather for %s", place)
	}
	return place, weather, nil
}
