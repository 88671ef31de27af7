package pipeline

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/roadcheck/internal/oracle"
	"github.com/sells-group/roadcheck/pkg/geocode"
)

// --- Oracle Mock ---

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) Complete(ctx context.Context, req oracle.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *mockOracle) Stream(ctx context.Context, req oracle.Request, onChunk func(string)) (string, error) {
	args := m.Called(ctx, req, onChunk)
	return args.String(0), args.Error(1)
}

// phase matches an oracle.Request by its Phase label.
func phase(name string) interface{} {
	return mock.MatchedBy(func(req oracle.Request) bool {
		return req.Phase == name
	})
}

// --- Geocoder Mock ---

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Reverse(ctx context.Context, lat, lon float64) (*geocode.Place, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*geocode.Place), args.Error(1)
}
