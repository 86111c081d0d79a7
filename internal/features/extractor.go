package features

import (
	"context"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pulsefeed/trending/pkg/logger"
	"github.com/pulsefeed/trending/pkg/models"
)

const (
	// categoryViewScale maps a trailing-7-day category view total to a
	// 0-100 popularity: 1000 views = 100%.
	categoryViewScale = 1000.0

	// neutralScore is the documented default for credibility and keyword
	// trending when no history exists.
	neutralScore = 50.0

	categoryLookback  = 7 * 24 * time.Hour
	sourceHistorySize = 10
	keywordLookback   = 30 * 24 * time.Hour
)

// SignalSource is the slice of the signal store the extractor needs
type SignalSource interface {
	GetCategoryViewTotal(ctx context.Context, category string, since time.Time) (int64, error)
	GetSourceHistory(ctx context.Context, source string, limit int) ([]models.SourceStat, error)
	GetKeywordHistory(ctx context.Context, keyword string, since time.Time) ([]models.KeywordTrendPoint, error)
}

// Extractor turns one content item plus its raw signals into the fixed
// feature tuple. Extraction always succeeds: missing signals or failed
// store lookups fall back to documented defaults, never errors.
type Extractor struct {
	store SignalSource

	highKeywords   []string
	mediumKeywords []string
	lowKeywords    []string
}

// NewExtractor creates new feature extractor
func NewExtractor(store SignalSource) *Extractor {
	return &Extractor{
		store:          store,
		highKeywords:   buildHighValueKeywords(),
		mediumKeywords: buildMediumValueKeywords(),
		lowKeywords:    buildLowValueKeywords(),
	}
}

// Extract computes the feature tuple for one content item as of now
func (e *Extractor) Extract(ctx context.Context, item models.ContentItem, sig models.RawSignals, now time.Time) models.MLFeatures {
	ageHours := now.Sub(item.PublishedAt).Hours()
	if ageHours < 0 {
		// Scheduled/future publish timestamps count as brand new
		ageHours = 0
	}

	velocityAge := ageHours
	if velocityAge < 1 {
		velocityAge = 1
	}

	var engagement float64
	if sig.Views > 0 {
		engagement = float64(sig.UniqueViews) / float64(sig.Views) * 100
	}

	return models.MLFeatures{
		ViewCount:          float64(sig.Views),
		ViewVelocity:       float64(sig.Views) / velocityAge,
		EngagementRate:     engagement,
		TimeOnPage:         sig.AvgDwell.InexactFloat64(),
		ShareCount:         float64(sig.Shares),
		CommentCount:       float64(sig.Comments),
		RecencyScore:       100 * math.Exp(-ageHours/24),
		RelevanceScore:     e.relevanceScore(item.Title, item.Body),
		SeasonalityScore:   seasonalityScore(now),
		CategoryPopularity: e.categoryPopularity(ctx, item.Category, now),
		AuthorCredibility:  e.authorCredibility(ctx, item.Source),
		KeywordTrending:    e.keywordTrending(ctx, item.Tags, now),
	}
}

// relevanceScore scans title+body for tiered keywords, starting from the
// neutral baseline and clamping at 100.
func (e *Extractor) relevanceScore(title, body string) float64 {
	text := strings.ToLower(title + " " + body)

	score := relevanceBaseline
	for _, kw := range e.highKeywords {
		if strings.Contains(text, kw) {
			score += highTierBoost
		}
	}
	for _, kw := range e.mediumKeywords {
		if strings.Contains(text, kw) {
			score += mediumTierBoost
		}
	}
	for _, kw := range e.lowKeywords {
		if strings.Contains(text, kw) {
			score += lowTierBoost
		}
	}

	return clamp100(score)
}

// highSeasonMonths covers the September-February news-heavy stretch
var highSeasonMonths = map[time.Month]bool{
	time.September: true,
	time.October:   true,
	time.November:  true,
	time.December:  true,
	time.January:   true,
	time.February:  true,
}

// seasonalityScore is a time-of-day/week/year heuristic around a neutral 50
func seasonalityScore(now time.Time) float64 {
	score := 50.0

	if highSeasonMonths[now.Month()] {
		score += 20
	}

	wd := now.Weekday()
	if wd >= time.Monday && wd <= time.Friday {
		score += 15
	}

	// Commute windows drive mobile reading peaks
	hour := now.Hour()
	if (hour >= 7 && hour < 9) || (hour >= 17 && hour < 19) {
		score += 10
	}

	return clamp100(score)
}

// categoryPopularity normalizes the category's trailing-7-day view total.
// A store failure counts as zero views.
func (e *Extractor) categoryPopularity(ctx context.Context, category string, now time.Time) float64 {
	total, err := e.store.GetCategoryViewTotal(ctx, category, now.Add(-categoryLookback))
	if err != nil {
		logger.Debug("category view lookup failed, using zero",
			zap.String("category", category),
			zap.Error(err),
		)
		return 0
	}

	return clamp100(float64(total) / categoryViewScale * 100)
}

// authorCredibility averages the source's last-10-item relevance and view
// performance; unknown sources get the neutral default.
func (e *Extractor) authorCredibility(ctx context.Context, source string) float64 {
	history, err := e.store.GetSourceHistory(ctx, source, sourceHistorySize)
	if err != nil {
		logger.Debug("source history lookup failed, using neutral default",
			zap.String("source", source),
			zap.Error(err),
		)
		return neutralScore
	}
	if len(history) == 0 {
		return neutralScore
	}

	var sum float64
	for _, stat := range history {
		viewScore := float64(stat.Views) / 100
		if viewScore > 100 {
			viewScore = 100
		}
		sum += (stat.Relevance + viewScore) / 2
	}

	return clamp100(sum / float64(len(history)))
}

// keywordTrending averages the most recent trend score per tag. Tags with
// no history are excluded; no trending tags at all yields the neutral
// default.
func (e *Extractor) keywordTrending(ctx context.Context, tags []string, now time.Time) float64 {
	var sum float64
	matched := 0

	for _, tag := range tags {
		points, err := e.store.GetKeywordHistory(ctx, tag, now.Add(-keywordLookback))
		if err != nil {
			logger.Debug("keyword history lookup failed",
				zap.String("keyword", tag),
				zap.Error(err),
			)
			continue
		}
		if len(points) == 0 {
			continue
		}
		sum += points[len(points)-1].Score
		matched++
	}

	if matched == 0 {
		return neutralScore
	}

	return clamp100(sum / float64(matched))
}

func clamp100(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
