package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/roadcheck/internal/model"
)

const (
	ruleWidth = 50
	timeFmt   = "2006-01-02 15:04:05"
)

var upper = cases.Upper(language.Und)

// WriteText renders r as a human-readable block.
func WriteText(w io.Writer, r *model.AnalysisReport) error {
	var b strings.Builder
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	location := r.LocationName
	if location == "" {
		location = "Unknown"
	}

	b.WriteString(heavy + "\n")
	fmt.Fprintf(&b, "LOCATION: %s (%g, %g)\n", location, r.Location.Latitude, r.Location.Longitude)
	fmt.Fprintf(&b, "TIME: %s\n", r.Timestamp.Format(timeFmt))
	b.WriteString(light + "\n")

	fmt.Fprintf(&b, "ROAD TYPE: %s\n", upper.String(string(r.RoadType)))
	if r.RoadWidth != nil {
		fmt.Fprintf(&b, "ROAD WIDTH: %g meters\n", *r.RoadWidth)
		fmt.Fprintf(&b, "WIDTH ESTIMATE: %s\n", upper.String(string(r.RoadTypeEstimate)))
	}
	fmt.Fprintf(&b, "WEATHER: %s\n", r.Weather)
	if r.WeatherError != "" {
		fmt.Fprintf(&b, "WEATHER ERROR: %s\n", r.WeatherError)
	}
	fmt.Fprintf(&b, "CURRENT SPEED: %g km/h\n", r.Speed)
	b.WriteString(light + "\n")

	sa := r.SpeedAnalysis
	fmt.Fprintf(&b, "BASE SPEED LIMIT: %g km/h\n", sa.BaseLimit)
	if sa.WeatherPenalty > 0 {
		fmt.Fprintf(&b, "WEATHER PENALTY: -%g km/h\n", sa.WeatherPenalty)
	}
	fmt.Fprintf(&b, "ADJUSTED SPEED LIMIT: %g km/h\n", sa.AdjustedLimit)
	if sa.Violation {
		fmt.Fprintf(&b, "VIOLATION: %g km/h over limit\n", sa.OverBy)
		fmt.Fprintf(&b, "PENALTY: -%d points\n", sa.PenaltyPoints)
	} else {
		b.WriteString("COMPLIANT: Within speed limit\n")
	}

	fmt.Fprintf(&b, "AI ASSESSMENT: %s\n", upper.String(string(r.AIAssessment)))
	b.WriteString(heavy + "\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return eris.Wrap(err, "report: write text")
	}
	return nil
}
