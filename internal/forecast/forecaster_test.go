package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/pulsefeed/trending/internal/adapters/config"
	"github.com/pulsefeed/trending/pkg/models"
)

type fakeKeywordStore struct {
	points []models.KeywordTrendPoint
	err    error
}

func (f *fakeKeywordStore) GetKeywordHistories(_ context.Context, _ time.Time) ([]models.KeywordTrendPoint, error) {
	return f.points, f.err
}

func testConfig() config.ForecastConfig {
	return config.ForecastConfig{
		Lookback:        30 * 24 * time.Hour,
		MinObservations: 5,
		HorizonDays:     7,
	}
}

func series(keyword string, start time.Time, scores ...float64) []models.KeywordTrendPoint {
	points := make([]models.KeywordTrendPoint, len(scores))
	for i, s := range scores {
		points[i] = models.KeywordTrendPoint{
			Keyword:   keyword,
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Score:     s,
		}
	}
	return points
}

func TestForecaster_MinimumObservations(t *testing.T) {
	start := time.Now().Add(-20 * 24 * time.Hour)

	store := &fakeKeywordStore{}
	store.points = append(store.points, series("sparse", start, 10, 20, 30, 40)...)          // 4 points: excluded
	store.points = append(store.points, series("dense", start, 10, 20, 30, 40, 50)...)      // 5 points: included
	f := New(store, testConfig())

	out, err := f.PredictKeywordTrends(context.Background(), 3)
	if err != nil {
		t.Fatalf("PredictKeywordTrends failed: %v", err)
	}

	if len(out) != 1 {
		t.Fatalf("expected 1 forecast, got %d", len(out))
	}
	if out[0].Keyword != "dense" {
		t.Errorf("keyword with 4 observations should be excluded, got %q", out[0].Keyword)
	}
}

func TestForecaster_Classification(t *testing.T) {
	start := time.Now().Add(-20 * 24 * time.Hour)

	tests := []struct {
		name      string
		scores    []float64
		days      int
		wantTrend models.TrendDirection
	}{
		{
			name:      "rising",
			scores:    []float64{10, 20, 30, 40, 50},
			days:      3,
			wantTrend: models.TrendRising,
		},
		{
			name:      "falling",
			scores:    []float64{90, 80, 70, 60, 50},
			days:      3,
			wantTrend: models.TrendFalling,
		},
		{
			name:      "stable",
			scores:    []float64{50, 50, 50, 50, 50},
			days:      3,
			wantTrend: models.TrendStable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeKeywordStore{points: series("kw", start, tt.scores...)}
			f := New(store, testConfig())

			out, err := f.PredictKeywordTrends(context.Background(), tt.days)
			if err != nil {
				t.Fatalf("PredictKeywordTrends failed: %v", err)
			}
			if len(out) != 1 {
				t.Fatalf("expected 1 forecast, got %d", len(out))
			}

			if out[0].Trend != tt.wantTrend {
				t.Errorf("Trend = %s, want %s (predicted %.2f from current %.2f)",
					out[0].Trend, tt.wantTrend, out[0].PredictedScore, out[0].CurrentScore)
			}
			if out[0].CurrentScore != tt.scores[len(tt.scores)-1] {
				t.Errorf("CurrentScore = %.2f, want %.2f", out[0].CurrentScore, tt.scores[len(tt.scores)-1])
			}
		})
	}
}

func TestForecaster_PerfectFitConfidence(t *testing.T) {
	start := time.Now().Add(-20 * 24 * time.Hour)
	store := &fakeKeywordStore{points: series("linear", start, 10, 20, 30, 40, 50)}
	f := New(store, testConfig())

	out, err := f.PredictKeywordTrends(context.Background(), 2)
	if err != nil {
		t.Fatalf("PredictKeywordTrends failed: %v", err)
	}

	if out[0].Confidence < 99.9 {
		t.Errorf("perfectly linear series should give ~100 confidence, got %.2f", out[0].Confidence)
	}

	// Slope 10/step: index 4 scores 50, index 4+2 predicts 70
	if out[0].PredictedScore < 69.9 || out[0].PredictedScore > 70.1 {
		t.Errorf("PredictedScore = %.2f, want 70", out[0].PredictedScore)
	}
}

func TestForecaster_NoisyFitConfidence(t *testing.T) {
	start := time.Now().Add(-20 * 24 * time.Hour)
	store := &fakeKeywordStore{points: series("noisy", start, 10, 60, 20, 70, 30)}
	f := New(store, testConfig())

	out, err := f.PredictKeywordTrends(context.Background(), 2)
	if err != nil {
		t.Fatalf("PredictKeywordTrends failed: %v", err)
	}

	if out[0].Confidence < 0 || out[0].Confidence > 100 {
		t.Fatalf("Confidence out of range: %.2f", out[0].Confidence)
	}
	if out[0].Confidence > 90 {
		t.Errorf("noisy series should not give high confidence, got %.2f", out[0].Confidence)
	}
}

func TestForecaster_PredictionClamped(t *testing.T) {
	start := time.Now().Add(-20 * 24 * time.Hour)
	store := &fakeKeywordStore{points: series("steep", start, 20, 40, 60, 80, 100)}
	f := New(store, testConfig())

	out, err := f.PredictKeywordTrends(context.Background(), 30)
	if err != nil {
		t.Fatalf("PredictKeywordTrends failed: %v", err)
	}

	if out[0].PredictedScore > 100 {
		t.Errorf("PredictedScore should clamp to 100, got %.2f", out[0].PredictedScore)
	}
}

func TestForecaster_OutputSortedByKeyword(t *testing.T) {
	start := time.Now().Add(-20 * 24 * time.Hour)

	store := &fakeKeywordStore{}
	store.points = append(store.points, series("zebra", start, 1, 2, 3, 4, 5)...)
	store.points = append(store.points, series("alpha", start, 5, 4, 3, 2, 1)...)
	store.points = append(store.points, series("mango", start, 3, 3, 3, 3, 3)...)
	f := New(store, testConfig())

	out, err := f.PredictKeywordTrends(context.Background(), 1)
	if err != nil {
		t.Fatalf("PredictKeywordTrends failed: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("expected 3 forecasts, got %d", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].Keyword < out[i-1].Keyword {
			t.Errorf("output not sorted by keyword: %q before %q", out[i-1].Keyword, out[i].Keyword)
		}
	}
}
