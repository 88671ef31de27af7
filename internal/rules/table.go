// Package rules implements the static speed-limit rule table: base limits per
// road type, weather penalties, and the violation and penalty-point math.
package rules

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roadcheck/internal/model"
)

// FallbackWeather is the penalty row applied when the weather text mentions a
// bad-weather keyword without exactly matching a penalty row.
const FallbackWeather = "rainy"

// MaxPenaltyPoints caps the penalty score of a single violation.
const MaxPenaltyPoints = 100

// penaltyBucket is the km/h step used to bucket over-limit speed into points.
const penaltyBucket = 5

// WidthThresholds are the minimum widths in meters for each road class.
// Anything narrower than Rural is a city road.
type WidthThresholds struct {
	Highway float64 `json:"highway" yaml:"highway"`
	Rural   float64 `json:"rural" yaml:"rural"`
}

// Table holds the speed-limit configuration shared by the rule evaluation,
// the oracle prompts and the CLI.
type Table struct {
	SpeedLimits      map[model.RoadType]float64            `json:"speed_limits" yaml:"speed_limits"`
	WeatherPenalties map[string]map[model.RoadType]float64 `json:"weather_penalties" yaml:"weather_penalties"`
	BadWeather       []string                              `json:"bad_weather" yaml:"bad_weather"`
	WidthThresholds  WidthThresholds                       `json:"width_thresholds" yaml:"width_thresholds"`
}

// DefaultTable returns the built-in rule table.
func DefaultTable() *Table {
	return &Table{
		SpeedLimits: map[model.RoadType]float64{
			model.RoadTypeCity:    50,
			model.RoadTypeRural:   80,
			model.RoadTypeHighway: 110,
		},
		WeatherPenalties: map[string]map[model.RoadType]float64{
			"rainy": {model.RoadTypeCity: 10, model.RoadTypeRural: 10, model.RoadTypeHighway: 20},
			"foggy": {model.RoadTypeCity: 10, model.RoadTypeRural: 10, model.RoadTypeHighway: 20},
			"snowy": {model.RoadTypeCity: 15, model.RoadTypeRural: 20, model.RoadTypeHighway: 30},
		},
		BadWeather: []string{"rainy", "foggy", "snowy", "stormy", "icy", "hail", "thunderstorm", "sleet"},
		WidthThresholds: WidthThresholds{
			Highway: 20,
			Rural:   8,
		},
	}
}

// Validate checks that every known road type has a limit and that the width
// thresholds are ordered.
func (t *Table) Validate() error {
	var missing []string
	for _, rt := range model.KnownRoadTypes() {
		if _, ok := t.SpeedLimits[rt]; !ok {
			missing = append(missing, string(rt))
		}
	}
	if len(missing) > 0 {
		return eris.Errorf("rules: missing speed limit for %s", strings.Join(missing, ", "))
	}
	if t.WidthThresholds.Rural < 0 || t.WidthThresholds.Highway <= t.WidthThresholds.Rural {
		return eris.Errorf("rules: width thresholds must satisfy 0 <= rural (%g) < highway (%g)",
			t.WidthThresholds.Rural, t.WidthThresholds.Highway)
	}
	return nil
}

// effectiveRoadType maps unknown road types onto the city row.
func effectiveRoadType(roadType string) model.RoadType {
	rt := model.ParseRoadType(roadType)
	if rt == model.RoadTypeUnknown {
		return model.RoadTypeCity
	}
	return rt
}

// BaseLimit returns the limit for roadType, defaulting to the city limit.
func (t *Table) BaseLimit(roadType string) float64 {
	return t.SpeedLimits[effectiveRoadType(roadType)]
}

// WeatherPenalty returns the limit reduction for the weather text on the
// given road type. An exact (case-insensitive) penalty row wins; otherwise any
// bad-weather keyword found in the text applies the FallbackWeather row.
func (t *Table) WeatherPenalty(roadType, weather string) float64 {
	rt := effectiveRoadType(roadType)
	w := strings.ToLower(weather)

	if row, ok := t.WeatherPenalties[w]; ok {
		return row[rt]
	}
	for _, bad := range t.BadWeather {
		if strings.Contains(w, strings.ToLower(bad)) {
			return t.WeatherPenalties[FallbackWeather][rt]
		}
	}
	return 0
}

// Evaluate checks speed against the weather-adjusted limit for roadType.
func (t *Table) Evaluate(roadType, weather string, speed float64) model.SpeedLimitResult {
	base := t.BaseLimit(roadType)
	penalty := t.WeatherPenalty(roadType, weather)
	adjusted := base - penalty

	res := model.SpeedLimitResult{
		BaseLimit:      base,
		WeatherPenalty: penalty,
		AdjustedLimit:  adjusted,
		CurrentSpeed:   speed,
		Violation:      speed > adjusted,
	}
	if res.Violation {
		res.OverBy = speed - adjusted
		res.PenaltyPoints = PenaltyPoints(res.OverBy)
	}
	return res
}

// PenaltyPoints buckets overBy to the nearest multiple of 5 km/h (ties to
// even) and caps the result at MaxPenaltyPoints.
func PenaltyPoints(overBy float64) int {
	if overBy <= 0 {
		return 0
	}
	points := math.RoundToEven(overBy/penaltyBucket) * penaltyBucket
	return int(math.Min(MaxPenaltyPoints, points))
}

// EstimateRoadType classifies a road by width alone. A nil width is unknown.
func (t *Table) EstimateRoadType(width *float64) model.RoadType {
	if width == nil {
		return model.RoadTypeUnknown
	}
	switch w := *width; {
	case w >= t.WidthThresholds.Highway:
		return model.RoadTypeHighway
	case w >= t.WidthThresholds.Rural:
		return model.RoadTypeRural
	default:
		return model.RoadTypeCity
	}
}

// Describe renders the limits and penalties as plain sentences for prompts.
func (t *Table) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "For city roads the speed limit is %s km/h, for rural roads %s km/h, and for highways %s km/h.",
		num(t.SpeedLimits[model.RoadTypeCity]),
		num(t.SpeedLimits[model.RoadTypeRural]),
		num(t.SpeedLimits[model.RoadTypeHighway]),
	)

	keys := make([]string, 0, len(t.WeatherPenalties))
	for k := range t.WeatherPenalties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		row := t.WeatherPenalties[k]
		fmt.Fprintf(&b, " In %s conditions the limit is reduced by %s km/h on city roads, %s km/h on rural roads and %s km/h on highways.",
			k,
			num(row[model.RoadTypeCity]),
			num(row[model.RoadTypeRural]),
			num(row[model.RoadTypeHighway]),
		)
	}
	return b.String()
}

func num(f float64) string {
	return fmt.Sprintf("%g", f)
}
