package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"aptscope/internal/pipeline"
)

// Scheduler manages periodic execution of the analysis pipeline
type Scheduler struct {
	pipeline     *pipeline.Pipeline
	logger       *logrus.Logger
	interval     time.Duration
	runOnStartup bool
	stopChan     chan struct{}
	wg           sync.WaitGroup
}

// NewScheduler creates a new scheduler
func NewScheduler(p *pipeline.Pipeline, interval time.Duration, runOnStartup bool, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		pipeline:     p,
		logger:       logger,
		interval:     interval,
		runOnStartup: runOnStartup,
		stopChan:     make(chan struct{}),
	}
}

// Start begins the scheduling loop
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.loop()
	s.logger.Infof("Scheduler started with %s interval", s.interval)
}

// Stop gracefully shuts down the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	if s.runOnStartup {
		s.runOnce()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) runOnce() {
	if err := s.pipeline.Run(context.Background()); err != nil {
		s.logger.WithError(err).Error("Scheduled pipeline run failed")
	}
}
