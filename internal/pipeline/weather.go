package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roadcheck/internal/model"
	"github.com/sells-group/roadcheck/internal/oracle"
	"github.com/sells-group/roadcheck/pkg/geocode"
)

// WeatherLookup resolves a coordinate to a place name and asks the oracle
// for the current weather there.
type WeatherLookup struct {
	geocoder geocode.Client
	oracle   oracle.Oracle
}

// NewWeatherLookup creates a WeatherLookup.
func NewWeatherLookup(g geocode.Client, o oracle.Oracle) *WeatherLookup {
	return &WeatherLookup{geocoder: g, oracle: o}
}

// Reverse returns the place name for coord.
func (w *WeatherLookup) Reverse(ctx context.Context, coord model.Coordinate) (string, error) {
	place, err := w.geocoder.Reverse(ctx, coord.Latitude, coord.Longitude)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: reverse geocode")
	}
	return place.Name, nil
}

// Weather returns the oracle's description of the current weather at place,
// trimmed but otherwise verbatim.
func (w *WeatherLookup) Weather(ctx context.Context, place string) (string, error) {
	text, err := w.oracle.Complete(ctx, weatherRequest(place))
	if err != nil {
		return "", eris.Wrap(err, "pipeline: weather")
	}
	return strings.TrimSpace(text), nil
}

// WeatherStream is Weather over the streaming oracle call. Each chunk is
// passed to onChunk as it arrives.
func (w *WeatherLookup) WeatherStream(ctx context.Context, place string, onChunk func(string)) (string, error) {
	text, err := w.oracle.Stream(ctx, weatherRequest(place), onChunk)
	if err != nil {
		return "", eris.Wrap(err, "pipeline: weather stream")
	}
	return strings.TrimSpace(text), nil
}

func weatherRequest(place string) oracle.Request {
	return oracle.Request{
		Prompt: fmt.Sprintf("What is the current weather condition in %s? "+
			"Provide only the temperature and weather condition. Be concise.", place),
		Search:  true,
		Recency: "day",
		Phase:   "weather",
	}
}
