package scheduler

import (
	"context"
	"fmt"
)

// ChartRefresher is implemented by the YouTube client.
type ChartRefresher interface {
	RefreshChart(ctx context.Context, maxResults int64) error
	Region() string
}

// ChartJob keeps the regional trending snapshot warm so the search cascade
// has a fallback when the live chart call fails.
type ChartJob struct {
	client     ChartRefresher
	maxResults int64
}

func NewChartJob(client ChartRefresher, maxResults int64) *ChartJob {
	return &ChartJob{client: client, maxResults: maxResults}
}

func (j *ChartJob) Name() string {
	return fmt.Sprintf("trending chart refresh (%s)", j.client.Region())
}

func (j *ChartJob) Run(ctx context.Context) error {
	return j.client.RefreshChart(ctx, j.maxResults)
}
