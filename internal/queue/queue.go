package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"aptscope/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// AnalysisQueue is an in-memory queue for batches of analyzed developments
// on their way to persistence.
type AnalysisQueue struct {
	items    chan []*models.Analysis
	done     chan struct{}
	maxSize  int
	closed   bool
	mu       sync.RWMutex
	logger   *logrus.Logger
	handlers []func([]*models.Analysis) error
}

// NewAnalysisQueue creates a new analysis queue with the specified buffer size
func NewAnalysisQueue(bufferSize int, logger *logrus.Logger) *AnalysisQueue {
	return &AnalysisQueue{
		items:    make(chan []*models.Analysis, bufferSize),
		done:     make(chan struct{}),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.Analysis) error, 0),
	}
}

// Push adds a batch of analyses to the queue
func (q *AnalysisQueue) Push(batch []*models.Analysis) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return ErrQueueClosed
	}
	q.mu.RUnlock()

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- batch:
		q.logger.WithField("batch_size", len(batch)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *AnalysisQueue) Subscribe(handler func([]*models.Analysis) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *AnalysisQueue) Start() {
	go q.process()
}

// process handles the queue processing loop
func (q *AnalysisQueue) process() {
	for {
		select {
		case <-q.done:
			return
		case batch := <-q.items:
			q.processBatch(batch)
		}
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *AnalysisQueue) processBatch(batch []*models.Analysis) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close stops the queue and prevents new items from being added
func (q *AnalysisQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	q.closed = true
	close(q.done)
	close(q.items)
	return nil
}

// Len returns the current number of batches in the queue
func (q *AnalysisQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *AnalysisQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
