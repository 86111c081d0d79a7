package trending

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/pulsefeed/trending/internal/adapters/config"
	"github.com/pulsefeed/trending/internal/features"
	"github.com/pulsefeed/trending/internal/predictor"
	"github.com/pulsefeed/trending/pkg/models"
)

// fakeStore serves content and counters from memory
type fakeStore struct {
	items   []models.ContentItem
	signals map[string]models.RawSignals
	social  map[string]models.SocialMetrics
	err     error
}

func (f *fakeStore) GetRecentContent(_ context.Context, _ time.Time) ([]models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeStore) GetRawSignals(_ context.Context, id string, _ models.ContentType) (models.RawSignals, error) {
	if f.err != nil {
		return models.RawSignals{}, f.err
	}
	return f.signals[id], nil
}

func (f *fakeStore) GetSocialMetrics(_ context.Context, id string) (models.SocialMetrics, error) {
	if f.err != nil {
		return models.SocialMetrics{}, f.err
	}
	return f.social[id], nil
}

// The extractor side of the fake: no category/source/keyword history
func (f *fakeStore) GetCategoryViewTotal(_ context.Context, _ string, _ time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeStore) GetSourceHistory(_ context.Context, _ string, _ int) ([]models.SourceStat, error) {
	return nil, nil
}

func (f *fakeStore) GetKeywordHistory(_ context.Context, _ string, _ time.Time) ([]models.KeywordTrendPoint, error) {
	return nil, nil
}

// memCache is an in-memory stand-in for the Redis cache. TTL is ignored;
// entries live until the test ends.
type memCache struct {
	data map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func testEngine(store *fakeStore, cache Cache) *Engine {
	cfg := config.TrendingConfig{
		Lookback: 7 * 24 * time.Hour,
		CacheTTL: 5 * time.Minute,
	}
	e := NewEngine(store, cache, features.NewExtractor(store), predictor.New(models.DefaultModel()), cfg)
	// Fixed clock keeps results byte-stable across calls
	fixed := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }
	return e
}

func testStore() *fakeStore {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	return &fakeStore{
		items: []models.ContentItem{
			{ID: "slow", Type: models.ContentNews, Category: "politics", PublishedAt: now.Add(-48 * time.Hour)},
			{ID: "hot", Type: models.ContentVideo, Category: "sports", PublishedAt: now.Add(-2 * time.Hour)},
			{ID: "mid", Type: models.ContentNews, Category: "tech", PublishedAt: now.Add(-12 * time.Hour)},
		},
		signals: map[string]models.RawSignals{
			"slow": {Views: 200, UniqueViews: 100},
			"hot":  {Views: 9000, UniqueViews: 8000, Shares: 300, Comments: 100},
			"mid":  {Views: 2000, UniqueViews: 1200, Shares: 20},
		},
		social: map[string]models.SocialMetrics{
			"slow": {Shares: 1, Comments: 2},
			"hot":  {Shares: 300, Comments: 100},
			"mid":  {Shares: 20, Comments: 5},
		},
	}
}

func TestEngine_SortedAndRanked(t *testing.T) {
	e := testEngine(testStore(), newMemCache())

	scores, err := e.GetTrendingScores(context.Background())
	if err != nil {
		t.Fatalf("GetTrendingScores failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}

	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[i-1].Score {
			t.Errorf("not sorted descending at %d: %.4f > %.4f", i, scores[i].Score, scores[i-1].Score)
		}
	}
	for i, s := range scores {
		if s.Rank != i+1 {
			t.Errorf("rank at position %d = %d, want %d", i, s.Rank, i+1)
		}
		if s.Score < 0 || s.Score > 100 {
			t.Errorf("score out of range: %.4f", s.Score)
		}
	}

	if scores[0].ContentID != "hot" {
		t.Errorf("expected the fast recent item on top, got %q", scores[0].ContentID)
	}
}

func TestEngine_CacheHitIgnoresStoreChanges(t *testing.T) {
	store := testStore()
	e := testEngine(store, newMemCache())

	first, err := e.GetTrendingScores(context.Background())
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	// Underlying data changes, but the unexpired cache entry wins
	store.signals["slow"] = models.RawSignals{Views: 1e6, UniqueViews: 1e6}

	second, err := e.GetTrendingScores(context.Background())
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("cached call should return the previous list unchanged")
	}
}

func TestEngine_StoreErrorPropagates(t *testing.T) {
	store := testStore()
	store.err = errors.New("store unavailable")
	e := testEngine(store, newMemCache())

	if _, err := e.GetTrendingScores(context.Background()); err == nil {
		t.Fatal("scoring failure should propagate, not be masked")
	}
}

func TestEngine_CachedListServedDespiteStoreError(t *testing.T) {
	store := testStore()
	e := testEngine(store, newMemCache())

	first, err := e.GetTrendingScores(context.Background())
	if err != nil {
		t.Fatalf("warm-up call failed: %v", err)
	}

	store.err = errors.New("store unavailable")

	second, err := e.GetTrendingScores(context.Background())
	if err != nil {
		t.Fatalf("cache should shield an unexpired list from store failures: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("expected the cached list")
	}
}

func TestEngine_GetTopContent(t *testing.T) {
	e := testEngine(testStore(), newMemCache())

	top, err := e.GetTopContent(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetTopContent failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 items, got %d", len(top))
	}
	if top[0].Rank != 1 || top[1].Rank != 2 {
		t.Errorf("expected ranks 1 and 2, got %d and %d", top[0].Rank, top[1].Rank)
	}

	all, err := e.GetTopContent(context.Background(), 50)
	if err != nil {
		t.Fatalf("GetTopContent failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("limit beyond list length should return everything, got %d", len(all))
	}
}

func TestEngine_GetViralContent(t *testing.T) {
	e := testEngine(testStore(), newMemCache())

	viral, err := e.GetViralContent(context.Background())
	if err != nil {
		t.Fatalf("GetViralContent failed: %v", err)
	}

	// "hot": velocity 4500, engagement ~88.9, social 400 -> 30+25+20+25
	found := false
	for _, v := range viral {
		if v.ContentID == "hot" {
			found = true
			if v.ViralScore != 100 {
				t.Errorf("hot item viral score = %.2f, want 100", v.ViralScore)
			}
		}
		if v.ContentID == "slow" {
			t.Error("slow item should not be flagged viral")
		}
	}
	if !found {
		t.Error("hot item should be flagged viral")
	}
}

func TestEngine_EmptyContent(t *testing.T) {
	store := &fakeStore{
		signals: map[string]models.RawSignals{},
		social:  map[string]models.SocialMetrics{},
	}
	e := testEngine(store, newMemCache())

	scores, err := e.GetTrendingScores(context.Background())
	if err != nil {
		t.Fatalf("GetTrendingScores failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("expected empty list, got %d", len(scores))
	}
}
