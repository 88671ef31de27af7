package model

import "time"

// SpeedLimitResult is the rule-table verdict for one (road, weather, speed)
// triple. AdjustedLimit is BaseLimit minus WeatherPenalty and may be negative.
type SpeedLimitResult struct {
	Violation      bool    `json:"violation" yaml:"violation"`
	BaseLimit      float64 `json:"base_limit" yaml:"base_limit"`
	AdjustedLimit  float64 `json:"adjusted_limit" yaml:"adjusted_limit"`
	WeatherPenalty float64 `json:"weather_penalty" yaml:"weather_penalty"`
	CurrentSpeed   float64 `json:"current_speed" yaml:"current_speed"`
	OverBy         float64 `json:"over_by" yaml:"over_by"`
	PenaltyPoints  int     `json:"penalty_points" yaml:"penalty_points"`
}

// AnalysisReport aggregates one analysis run.
type AnalysisReport struct {
	ID               string           `json:"id" yaml:"id"`
	Location         Coordinate       `json:"location" yaml:"location"`
	LocationName     string           `json:"location_name,omitempty" yaml:"location_name,omitempty"`
	Speed            float64          `json:"speed" yaml:"speed"`
	Timestamp        time.Time        `json:"timestamp" yaml:"timestamp"`
	RoadType         RoadType         `json:"road_type" yaml:"road_type"`
	RoadWidth        *float64         `json:"road_width,omitempty" yaml:"road_width,omitempty"`
	RoadTypeEstimate RoadType         `json:"road_type_estimate,omitempty" yaml:"road_type_estimate,omitempty"`
	Weather          string           `json:"weather" yaml:"weather"`
	WeatherError     string           `json:"weather_error,omitempty" yaml:"weather_error,omitempty"`
	SpeedAnalysis    SpeedLimitResult `json:"speed_analysis" yaml:"speed_analysis"`
	AIAssessment     Verdict          `json:"ai_assessment" yaml:"ai_assessment"`
}
