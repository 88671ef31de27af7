package pipeline

import (
	"strings"

	"github.com/sells-group/roadcheck/internal/model"
)

// NormalizeRoadType extracts a road type from free oracle text. The first of
// highway, rural and city found anywhere in the lowercased text wins, in that
// order; otherwise the road is unknown.
func NormalizeRoadType(text string) model.RoadType {
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, rt := range model.KnownRoadTypes() {
		if strings.Contains(lower, string(rt)) {
			return rt
		}
	}
	return model.RoadTypeUnknown
}

// NormalizeVerdict maps free oracle text to a Verdict. Any mention of "speed"
// means speeding, including "not speeding"; everything else is safe.
func NormalizeVerdict(text string) model.Verdict {
	if strings.Contains(strings.ToLower(text), "speed") {
		return model.VerdictSpeeding
	}
	return model.VerdictSafe
}
