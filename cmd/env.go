package main

import (
	"github.com/sells-group/roadcheck/internal/config"
	"github.com/sells-group/roadcheck/internal/oracle"
	"github.com/sells-group/roadcheck/internal/pipeline"
	"github.com/sells-group/roadcheck/internal/rules"
	"github.com/sells-group/roadcheck/pkg/geocode"
)

// analysisEnv holds the clients and rule table shared by analyze and serve.
type analysisEnv struct {
	Table    *rules.Table
	Oracle   oracle.Oracle
	Geocoder geocode.Client
}

// initEnv validates c for mode and builds the oracle, geocoder and rule
// table it describes.
func initEnv(c *config.Config, mode string) (*analysisEnv, error) {
	if err := c.Validate(mode); err != nil {
		return nil, err
	}

	table, err := c.RuleTable()
	if err != nil {
		return nil, err
	}

	o, err := oracle.New(c)
	if err != nil {
		return nil, err
	}

	g := geocode.NewClient(
		geocode.WithBaseURL(c.Geocode.BaseURL),
		geocode.WithUserAgent(c.Geocode.UserAgent),
		geocode.WithRateLimit(c.Geocode.RPS),
	)

	return &analysisEnv{Table: table, Oracle: o, Geocoder: g}, nil
}

// Pipeline builds a Pipeline over the environment's shared clients.
func (e *analysisEnv) Pipeline(opts ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(e.Oracle, e.Geocoder, e.Table, opts...)
}
