package viral

import (
	"sort"

	"github.com/pulsefeed/trending/pkg/models"
)

// Rule thresholds and boosts. Detection is pure rule evaluation over an
// already-ranked list: same input always yields the same output.
const (
	velocityThreshold   = 100.0 // views/hour
	engagementThreshold = 70.0
	socialThreshold     = 50.0 // shares+comments
	growthRatio         = 0.10 // velocity vs total views

	velocityBoost   = 30.0
	engagementBoost = 25.0
	socialBoost     = 20.0
	growthBoost     = 25.0

	reportThreshold = 70.0
)

// Detector flags outlier items from a ranked trending list
type Detector struct{}

// NewDetector creates new viral detector
func NewDetector() *Detector {
	return &Detector{}
}

// Detect evaluates the viral rules over a ranked list and reports items
// whose accumulated viral score exceeds the report threshold, sorted
// descending by viral score.
func (d *Detector) Detect(scores []models.TrendingScore) []models.ViralContent {
	viral := make([]models.ViralContent, 0)

	for _, s := range scores {
		var score float64
		var factors []string

		if s.Factors.Velocity > velocityThreshold {
			score += velocityBoost
			factors = append(factors, "high_velocity")
		}
		if s.Factors.Engagement > engagementThreshold {
			score += engagementBoost
			factors = append(factors, "high_engagement")
		}
		if s.Factors.Social > socialThreshold {
			score += socialBoost
			factors = append(factors, "high_social")
		}
		if s.Factors.Views > 0 && s.Factors.Velocity > growthRatio*s.Factors.Views {
			score += growthBoost
			factors = append(factors, "exponential_growth")
		}

		if score > reportThreshold {
			viral = append(viral, models.ViralContent{
				ContentID:   s.ContentID,
				ContentType: s.ContentType,
				ViralScore:  score,
				Factors:     factors,
			})
		}
	}

	sort.SliceStable(viral, func(i, j int) bool {
		return viral[i].ViralScore > viral[j].ViralScore
	})

	return viral
}
