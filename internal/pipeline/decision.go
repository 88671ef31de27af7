package pipeline

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/roadcheck/internal/model"
	"github.com/sells-group/roadcheck/internal/oracle"
	"github.com/sells-group/roadcheck/internal/rules"
)

// DecisionEngine produces the rule-based speed verdict and, separately, the
// oracle's opinion. The two are never reconciled.
type DecisionEngine struct {
	oracle oracle.Oracle
	table  *rules.Table
}

// NewDecisionEngine creates a DecisionEngine over table.
func NewDecisionEngine(o oracle.Oracle, table *rules.Table) *DecisionEngine {
	return &DecisionEngine{oracle: o, table: table}
}

// Evaluate applies the rule table.
func (d *DecisionEngine) Evaluate(roadType model.RoadType, weather string, speed float64) model.SpeedLimitResult {
	return d.table.Evaluate(string(roadType), weather, speed)
}

// Assess asks the oracle whether speed is safe for the road and weather.
func (d *DecisionEngine) Assess(ctx context.Context, roadType model.RoadType, weather string, speed float64) (model.Verdict, error) {
	prompt := fmt.Sprintf("Analyze this driving scenario:\n"+
		"- Road type: %s\n"+
		"- Weather condition: %s\n"+
		"- Current speed: %g km/h\n\n"+
		"Based on these conditions, is the driver speeding? %s "+
		"Respond with ONLY ONE WORD: either 'safe' or 'speeding'.",
		roadType, weather, speed, d.table.Describe())

	answer, err := d.oracle.Complete(ctx, oracle.Request{Prompt: prompt, Phase: "verdict"})
	if err != nil {
		return "", eris.Wrap(err, "pipeline: assess speed")
	}
	return NormalizeVerdict(answer), nil
}
