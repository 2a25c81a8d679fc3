// Package youtube queries the YouTube Data API for candidate trending
// content. Search runs a three-tier fallback cascade; transport errors are
// absorbed per tier so an empty result always means "nothing found", never
// a fault.
package youtube

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"trendscope/internal/config"
	"trendscope/internal/models"

	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"
)

// platformAPI abstracts the three Data API operations the cascade needs so
// tests can exercise tier ordering without the network.
type platformAPI interface {
	searchIDs(ctx context.Context, term string, maxResults int64) ([]string, error)
	listByIDs(ctx context.Context, ids []string) ([]*models.Video, error)
	mostPopular(ctx context.Context, region string, maxResults int64) ([]*models.Video, error)
}

// ChartSnapshot caches the regional trending chart so tier 3 can survive a
// platform outage with slightly stale data.
type ChartSnapshot interface {
	Get(region string) ([]*models.Video, bool)
	Put(region string, videos []*models.Video) error
}

type Client struct {
	api      platformAPI
	snapshot ChartSnapshot
	region   string
	timeout  time.Duration
	logger   *log.Logger
}

func NewClient(ctx context.Context, cfg *config.YouTubeConfig, snapshot ChartSnapshot, logger *log.Logger) (*Client, error) {
	service, err := ytapi.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return &Client{
		api:      &googleAPI{service: service},
		snapshot: snapshot,
		region:   cfg.Region,
		timeout:  time.Duration(cfg.TimeoutSec) * time.Second,
		logger:   logger,
	}, nil
}

// Search returns up to maxResults candidate videos for the category. Tiers
// are tried in order and the first one producing at least one candidate
// wins:
//
//  1. search for the exact category, ordered by view count
//  2. if the category has more than one word, search for its first word
//  3. the regional mostPopular chart
//
// Tier 1 and 2 produce IDs which are resolved with one batched detail call;
// the chart already carries full metadata.
func (c *Client) Search(ctx context.Context, category string, maxResults int64) []*models.Video {
	ids, err := c.searchTier(ctx, category, maxResults)
	if err != nil {
		c.logger.Printf("YouTube search (exact category) failed for '%s': %v", category, err)
	}

	if len(ids) == 0 {
		if words := strings.Fields(category); len(words) > 1 {
			if err == nil {
				c.logger.Printf("No results for '%s', trying broader term: '%s'", category, words[0])
			} else {
				c.logger.Printf("Retrying '%s' with broader term: '%s'", category, words[0])
			}
			broader, berr := c.searchTier(ctx, words[0], maxResults)
			if berr != nil {
				c.logger.Printf("YouTube search (broader term) failed for '%s': %v", category, berr)
			}
			ids = broader
		}
	}

	if len(ids) == 0 {
		c.logger.Printf("No results for '%s', fetching general trending videos", category)
		return c.trendingChart(ctx, maxResults)
	}

	c.logger.Printf("Found %d videos for '%s', fetching details", len(ids), category)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	videos, err := c.api.listByIDs(callCtx, ids)
	if err != nil {
		c.logger.Printf("YouTube detail fetch failed for '%s': %v", category, err)
		return nil
	}
	return videos
}

// searchTier runs one bounded search call.
func (c *Client) searchTier(ctx context.Context, term string, maxResults int64) ([]string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.api.searchIDs(callCtx, term, maxResults)
}

// trendingChart fetches the regional mostPopular chart, refreshing the
// snapshot on success and falling back to it on failure.
func (c *Client) trendingChart(ctx context.Context, maxResults int64) []*models.Video {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	videos, err := c.api.mostPopular(callCtx, c.region, maxResults)
	if err != nil {
		c.logger.Printf("YouTube trending chart fetch failed for region %s: %v", c.region, err)
		if c.snapshot != nil {
			if cached, ok := c.snapshot.Get(c.region); ok {
				c.logger.Printf("Serving cached trending snapshot for region %s (%d videos)", c.region, len(cached))
				if int64(len(cached)) > maxResults {
					cached = cached[:maxResults]
				}
				return cached
			}
		}
		return nil
	}

	if c.snapshot != nil {
		if err := c.snapshot.Put(c.region, videos); err != nil {
			c.logger.Printf("Failed to update trending snapshot for region %s: %v", c.region, err)
		}
	}
	return videos
}

// RefreshChart fetches the live regional chart and stores it in the
// snapshot. Called by the background scheduler.
func (c *Client) RefreshChart(ctx context.Context, maxResults int64) error {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	videos, err := c.api.mostPopular(callCtx, c.region, maxResults)
	if err != nil {
		return fmt.Errorf("failed to fetch trending chart for region %s: %w", c.region, err)
	}
	if c.snapshot == nil {
		return nil
	}
	if err := c.snapshot.Put(c.region, videos); err != nil {
		return fmt.Errorf("failed to store trending snapshot for region %s: %w", c.region, err)
	}
	return nil
}

// Region returns the configured chart region.
func (c *Client) Region() string {
	return c.region
}

// googleAPI is the real Data API binding.
type googleAPI struct {
	service *ytapi.Service
}

func (g *googleAPI) searchIDs(ctx context.Context, term string, maxResults int64) ([]string, error) {
	resp, err := g.service.Search.List([]string{"id", "snippet"}).
		Q(term).
		MaxResults(maxResults).
		Type("video").
		Order("viewCount").
		RelevanceLanguage("en").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return ids, nil
}

func (g *googleAPI) listByIDs(ctx context.Context, ids []string) ([]*models.Video, error) {
	resp, err := g.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(strings.Join(ids, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return convertVideos(resp.Items), nil
}

func (g *googleAPI) mostPopular(ctx context.Context, region string, maxResults int64) ([]*models.Video, error) {
	resp, err := g.service.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Chart("mostPopular").
		RegionCode(region).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return convertVideos(resp.Items), nil
}

func convertVideos(items []*ytapi.Video) []*models.Video {
	var videos []*models.Video
	for _, item := range items {
		video := &models.Video{ID: item.Id}

		if item.Snippet != nil {
			video.Title = item.Snippet.Title
			video.ChannelTitle = item.Snippet.ChannelTitle
			video.PublishedAt = item.Snippet.PublishedAt
			video.Thumbnail = bestThumbnail(item.Snippet.Thumbnails)
		}
		if item.Statistics != nil {
			video.ViewCount = int64(item.Statistics.ViewCount)
			video.LikeCount = int64(item.Statistics.LikeCount)
			video.CommentCount = int64(item.Statistics.CommentCount)
		}

		videos = append(videos, video)
	}
	return videos
}

// bestThumbnail picks the highest resolution URL the platform returned,
// empty string when there is none.
func bestThumbnail(t *ytapi.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, thumb := range []*ytapi.Thumbnail{t.Maxres, t.Standard, t.High, t.Medium, t.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
