package main

import (
	"context"
	"errors"
	"strings"

	"github.com/sells-group/roadcheck/internal/oracle"
	"github.com/sells-group/roadcheck/pkg/geocode"
)

// stubOracle answers by request phase.
type stubOracle struct {
	answers map[string]string
	errs    map[string]error
}

func (s *stubOracle) Complete(_ context.Context, req oracle.Request) (string, error) {
	if err := s.errs[req.Phase]; err != nil {
		return "", err
	}
	return s.answers[req.Phase], nil
}

func (s *stubOracle) Stream(ctx context.Context, req oracle.Request, onChunk func(string)) (string, error) {
	text, err := s.Complete(ctx, req)
	if err != nil {
		return "", err
	}
	for _, word := range strings.SplitAfter(text, " ") {
		if onChunk != nil {
			onChunk(word)
		}
	}
	return text, nil
}

type stubGeocoder struct {
	name string
}

func (s *stubGeocoder) Reverse(context.Context, float64, float64) (*geocode.Place, error) {
	if s.name == "" {
		return nil, errors.New("geocode: no place name in response")
	}
	return &geocode.Place{Name: s.name, City: s.name}, nil
}

func newStubOracle() *stubOracle {
	return &stubOracle{
		answers: map[string]string{
			"road":    "Highway.",
			"weather": "Sunny, 24°C",
			"verdict": "speeding",
		},
		errs: map[string]error{},
	}
}
