package rules

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/roadcheck/internal/model"
)

// tableFile mirrors Table with every section optional.
type tableFile struct {
	SpeedLimits      map[string]float64            `yaml:"speed_limits"`
	WeatherPenalties map[string]map[string]float64 `yaml:"weather_penalties"`
	BadWeather       []string                      `yaml:"bad_weather"`
	WidthThresholds  WidthThresholds               `yaml:"width_thresholds"`
}

// LoadTable reads a rule table override from a YAML file. The document has a
// top-level "rules" key; sections and fields left out keep their
// DefaultTable values.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read table %s", path)
	}
	return ParseTable(data)
}

// ParseTable merges a YAML rule document over DefaultTable.
func ParseTable(data []byte) (*Table, error) {
	t := DefaultTable()

	var wrapper struct {
		Rules tableFile `yaml:"rules"`
	}
	wrapper.Rules.WidthThresholds = t.WidthThresholds
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "rules: parse table")
	}

	f := wrapper.Rules

	// Lookups lowercase their input, so keys are stored lowercased.
	for k, v := range f.SpeedLimits {
		t.SpeedLimits[roadKey(k)] = v
	}
	for weather, row := range f.WeatherPenalties {
		weather = strings.ToLower(strings.TrimSpace(weather))
		merged := t.WeatherPenalties[weather]
		if merged == nil {
			merged = make(map[model.RoadType]float64, len(row))
		}
		for k, v := range row {
			merged[roadKey(k)] = v
		}
		t.WeatherPenalties[weather] = merged
	}
	if f.BadWeather != nil {
		t.BadWeather = f.BadWeather
	}
	t.WidthThresholds = f.WidthThresholds

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func roadKey(k string) model.RoadType {
	return model.RoadType(strings.ToLower(strings.TrimSpace(k)))
}
