package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/roadcheck/internal/model"
)

// Feature converts r to a GeoJSON point feature whose properties carry the
// analysis results.
func Feature(r *model.AnalysisReport) *geojson.Feature {
	sa := r.SpeedAnalysis
	props := map[string]interface{}{
		"speed":           r.Speed,
		"timestamp":       r.Timestamp.UTC().Format(time.RFC3339),
		"road_type":       string(r.RoadType),
		"weather":         r.Weather,
		"base_limit":      sa.BaseLimit,
		"weather_penalty": sa.WeatherPenalty,
		"adjusted_limit":  sa.AdjustedLimit,
		"violation":       sa.Violation,
		"over_by":         sa.OverBy,
		"penalty_points":  sa.PenaltyPoints,
		"ai_assessment":   string(r.AIAssessment),
	}
	if r.LocationName != "" {
		props["location_name"] = r.LocationName
	}
	if r.RoadWidth != nil {
		props["road_width"] = *r.RoadWidth
		props["road_type_estimate"] = string(r.RoadTypeEstimate)
	}
	if r.WeatherError != "" {
		props["weather_error"] = r.WeatherError
	}

	return &geojson.Feature{
		ID:         r.ID,
		Geometry:   r.Location.Point(),
		Properties: props,
	}
}

// WriteGeoJSON writes r as a single GeoJSON Feature.
func WriteGeoJSON(w io.Writer, r *model.AnalysisReport) error {
	data, err := json.Marshal(Feature(r))
	if err != nil {
		return eris.Wrap(err, "report: encode geojson")
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return eris.Wrap(err, "report: write geojson")
	}
	return nil
}
