package model

import (
	"strings"

	"github.com/twpayne/go-geom"
)

// Coordinate is a WGS84 position. Values are not range-checked.
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// Point returns the coordinate as an XY point in lon/lat order.
func (c Coordinate) Point() *geom.Point {
	return geom.NewPointFlat(geom.XY, []float64{c.Longitude, c.Latitude})
}

// RoadType classifies the road at a coordinate.
type RoadType string

const (
	RoadTypeHighway RoadType = "highway"
	RoadTypeRural   RoadType = "rural"
	RoadTypeCity    RoadType = "city"
	RoadTypeUnknown RoadType = "unknown"
)

// KnownRoadTypes lists the classifiable road types in match priority order.
func KnownRoadTypes() []RoadType {
	return []RoadType{RoadTypeHighway, RoadTypeRural, RoadTypeCity}
}

// ParseRoadType maps s case-insensitively to a RoadType. Anything outside
// the known set is RoadTypeUnknown.
func ParseRoadType(s string) RoadType {
	rt := RoadType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range KnownRoadTypes() {
		if rt == known {
			return rt
		}
	}
	return RoadTypeUnknown
}

// IsKnown reports whether rt is highway, rural or city.
func (rt RoadType) IsKnown() bool {
	return ParseRoadType(string(rt)) != RoadTypeUnknown
}

// Verdict is the oracle's independent opinion on the observed speed.
type Verdict string

const (
	VerdictSafe     Verdict = "safe"
	VerdictSpeeding Verdict = "speeding"
)

// WeatherUnknown replaces the weather text when the lookup fails.
const WeatherUnknown = "unknown"
