package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"aptscope/config"
	"aptscope/internal/models"
	"aptscope/internal/queue"
)

// Fetcher collects raw subscription listings.
type Fetcher interface {
	FetchAll(ctx context.Context, regions []string) []models.Development
}

// Analyzer turns raw listings into analyzed records.
type Analyzer interface {
	AnalyzeAll(ctx context.Context, developments []models.Development) []*models.Analysis
}

// Cache is any per-run cache the pipeline clears before a cycle so analysis
// never prices against a previous run's data.
type Cache interface {
	Reset()
}

// Pipeline runs one full collection-analysis-persistence cycle. Runs are
// serialized; a second Run blocks until the first finishes.
type Pipeline struct {
	fetcher  Fetcher
	analyzer Analyzer
	queue    *queue.AnalysisQueue
	caches   []Cache
	logger   *logrus.Logger
	runMutex sync.Mutex
}

// New creates a pipeline over the given collaborators. The caches are reset
// at the start of every run.
func New(fetcher Fetcher, analyzer Analyzer, queue *queue.AnalysisQueue, logger *logrus.Logger, caches ...Cache) *Pipeline {
	return &Pipeline{
		fetcher:  fetcher,
		analyzer: analyzer,
		queue:    queue,
		caches:   caches,
		logger:   logger,
	}
}

// Run executes one cycle: fetch listings, analyze them, queue the results
// for persistence. An empty collection is not an error; it just means
// nothing to analyze this cycle.
func (p *Pipeline) Run(ctx context.Context) error {
	p.runMutex.Lock()
	defer p.runMutex.Unlock()

	p.logger.Info("Pipeline run started")

	for _, cache := range p.caches {
		cache.Reset()
	}

	developments := p.fetcher.FetchAll(ctx, config.GetRegionNames())
	if len(developments) == 0 {
		p.logger.Warn("No listings collected, nothing to analyze")
		return nil
	}

	analyses := p.analyzer.AnalyzeAll(ctx, developments)
	if len(analyses) == 0 {
		p.logger.Info("No listings kept after analysis")
		return nil
	}

	if err := p.queue.Push(analyses); err != nil {
		return fmt.Errorf("failed to queue analyses: %w", err)
	}

	p.logger.Infof("Pipeline run complete: %d listings collected, %d queued", len(developments), len(analyses))
	return nil
}
