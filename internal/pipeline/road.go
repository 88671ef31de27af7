package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roadcheck/internal/model"
	"github.com/sells-group/roadcheck/internal/oracle"
	"github.com/sells-group/roadcheck/internal/rules"
)

// RoadClassifier asks the oracle what kind of road lies at a coordinate.
type RoadClassifier struct {
	oracle oracle.Oracle
	table  *rules.Table
}

// NewRoadClassifier creates a RoadClassifier. The table supplies the width
// hints quoted in the prompt.
func NewRoadClassifier(o oracle.Oracle, table *rules.Table) *RoadClassifier {
	return &RoadClassifier{oracle: o, table: table}
}

// Classify returns the road type at coord. An answer that names no known
// road type yields model.RoadTypeUnknown, not an error.
func (c *RoadClassifier) Classify(ctx context.Context, coord model.Coordinate, width *float64) (model.RoadType, error) {
	answer, err := c.oracle.Complete(ctx, oracle.Request{
		Prompt: c.prompt(coord, width),
		Search: true,
		Phase:  "road",
	})
	if err != nil {
		return "", eris.Wrap(err, "pipeline: classify road")
	}

	rt := NormalizeRoadType(answer)
	zap.L().Debug("pipeline: road classified",
		zap.String("answer", answer),
		zap.String("road_type", string(rt)),
	)
	return rt, nil
}

// EstimateFromWidth classifies by width alone using the table thresholds.
func (c *RoadClassifier) EstimateFromWidth(width *float64) model.RoadType {
	return c.table.EstimateRoadType(width)
}

func (c *RoadClassifier) prompt(coord model.Coordinate, width *float64) string {
	var widthInfo string
	if width != nil {
		widthInfo = fmt.Sprintf(" The estimated road width is %g meters.", *width)
	}
	wt := c.table.WidthThresholds
	return fmt.Sprintf(
		"Using map data, determine the road type at coordinates (%g, %g).%s "+
			"Classify it as one of: 'highway' (typically %g+ meters wide), 'rural' (usually %g-%g meters wide), "+
			"or 'city' (generally under %g meters). "+
			"IMPORTANT: Respond ONLY with a single word: 'highway', 'rural', or 'city'. No explanation.",
		coord.Latitude, coord.Longitude, widthInfo,
		wt.Highway, wt.Rural, wt.Highway, wt.Rural,
	)
}
