package storage

import (
	"path/filepath"
	"testing"
	"time"

	"trendscope/internal/models"
)

func TestChartCachePutGet(t *testing.T) {
	file := filepath.Join(t.TempDir(), "snapshot.json")

	cache, err := NewChartCache(file, time.Hour)
	if err != nil {
		t.Fatalf("NewChartCache() error: %v", err)
	}

	if _, ok := cache.Get("US"); ok {
		t.Error("empty cache reported a hit")
	}

	videos := []*models.Video{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}
	if err := cache.Put("US", videos); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	got, ok := cache.Get("US")
	if !ok {
		t.Fatal("Get() missed after Put()")
	}
	if len(got) != 2 || got[0].ID != "a" {
		t.Errorf("Get() = %v", got)
	}

	if _, ok := cache.Get("GB"); ok {
		t.Error("Get() hit for a region never stored")
	}
}

func TestChartCacheIsolatesCallers(t *testing.T) {
	file := filepath.Join(t.TempDir(), "snapshot.json")

	cache, err := NewChartCache(file, time.Hour)
	if err != nil {
		t.Fatalf("NewChartCache() error: %v", err)
	}

	stored := []*models.Video{{ID: "a", Title: "A", ViewCount: 100}}
	if err := cache.Put("US", stored); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	// Mutating the slice handed to Put must not reach the cache.
	stored[0].Title = "mutated after put"
	stored[0].Engagement = &models.Engagement{Score: 1}

	first, ok := cache.Get("US")
	if !ok {
		t.Fatal("Get() missed after Put()")
	}
	if first[0].Title != "A" || first[0].Engagement != nil {
		t.Errorf("cache aliased Put() input: %+v", first[0])
	}

	// Annotating one request's copy must be invisible to the next Get.
	first[0].Engagement = &models.Engagement{Score: 40}
	first[0].Title = "mutated after get"

	second, ok := cache.Get("US")
	if !ok {
		t.Fatal("second Get() missed")
	}
	if second[0] == first[0] {
		t.Fatal("Get() returned the same pointer twice")
	}
	if second[0].Engagement != nil {
		t.Errorf("annotation from one caller leaked into the cache: %+v", second[0].Engagement)
	}
	if second[0].Title != "A" {
		t.Errorf("second Get() Title = %q, want %q", second[0].Title, "A")
	}
}

func TestChartCacheSurvivesReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "snapshot.json")

	cache, err := NewChartCache(file, time.Hour)
	if err != nil {
		t.Fatalf("NewChartCache() error: %v", err)
	}
	if err := cache.Put("US", []*models.Video{{ID: "a"}}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	reloaded, err := NewChartCache(file, time.Hour)
	if err != nil {
		t.Fatalf("reload error: %v", err)
	}
	got, ok := reloaded.Get("US")
	if !ok || len(got) != 1 || got[0].ID != "a" {
		t.Errorf("reloaded Get() = %v, %v", got, ok)
	}
}

func TestChartCacheExpiry(t *testing.T) {
	file := filepath.Join(t.TempDir(), "snapshot.json")

	cache, err := NewChartCache(file, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewChartCache() error: %v", err)
	}
	if err := cache.Put("US", []*models.Video{{ID: "a"}}); err != nil {
		t.Fatalf("Put() error: %v", err)
	}

	time.Sleep(80 * time.Millisecond)

	if _, ok := cache.Get("US"); ok {
		t.Error("Get() hit on an expired snapshot")
	}
}
