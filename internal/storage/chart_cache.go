package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"trendscope/internal/models"
)

// ChartCache is a file-backed snapshot of the regional trending chart. The
// scheduler refreshes it periodically and the search client falls back to it
// when the live chart call fails. Entries older than maxAge are ignored.
type ChartCache struct {
	filePath string
	mu       sync.RWMutex
	entries  map[string]chartEntry
	maxAge   time.Duration
}

type chartEntry struct {
	Region    string          `json:"region"`
	Videos    []*models.Video `json:"videos"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// NewChartCache loads any existing snapshot file from disk.
func NewChartCache(filePath string, maxAge time.Duration) (*ChartCache, error) {
	if dir := filepath.Dir(filePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	cache := &ChartCache{
		filePath: filePath,
		entries:  make(map[string]chartEntry),
		maxAge:   maxAge,
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load trending snapshot: %w", err)
	}

	return cache, nil
}

// Get returns the cached chart for a region if it is fresh enough.
func (c *ChartCache) Get(region string) ([]*models.Video, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[region]
	if !ok || len(entry.Videos) == 0 {
		return nil, false
	}
	if time.Since(entry.FetchedAt) > c.maxAge {
		return nil, false
	}
	return cloneVideos(entry.Videos), true
}

// Put replaces the cached chart for a region and persists the snapshot.
func (c *ChartCache) Put(region string, videos []*models.Video) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[region] = chartEntry{
		Region:    region,
		Videos:    cloneVideos(videos),
		FetchedAt: time.Now(),
	}
	return c.save()
}

// cloneVideos copies the slice and its structs so cached entries never
// alias videos held by a request. Engagement annotations applied by one
// request must not appear in another's chart reads.
func cloneVideos(videos []*models.Video) []*models.Video {
	cloned := make([]*models.Video, len(videos))
	for i, v := range videos {
		video := *v
		if v.Engagement != nil {
			engagement := *v.Engagement
			video.Engagement = &engagement
		}
		cloned[i] = &video
	}
	return cloned
}

func (c *ChartCache) load() error {
	file, err := os.Open(c.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var entries []chartEntry
	if err := json.NewDecoder(file).Decode(&entries); err != nil {
		return fmt.Errorf("failed to decode snapshot data: %w", err)
	}

	for _, entry := range entries {
		c.entries[entry.Region] = entry
	}
	return nil
}

func (c *ChartCache) save() error {
	entries := make([]chartEntry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}

	file, err := os.Create(c.filePath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(entries); err != nil {
		return fmt.Errorf("failed to encode snapshot data: %w", err)
	}
	return nil
}
