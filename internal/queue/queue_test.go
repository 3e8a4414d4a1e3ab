package queue

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aptscope/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testBatch(manageNo string) []*models.Analysis {
	return []*models.Analysis{{ManageNo: manageNo, Name: "테스트 단지"}}
}

func TestPushAndProcess(t *testing.T) {
	q := NewAnalysisQueue(10, testLogger())
	defer q.Close()

	var mu sync.Mutex
	var received [][]*models.Analysis
	done := make(chan struct{})

	q.Subscribe(func(batch []*models.Analysis) error {
		mu.Lock()
		received = append(received, batch)
		mu.Unlock()
		done <- struct{}{}
		return nil
	})
	q.Start()

	require.NoError(t, q.Push(testBatch("2026000001")))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("batch was never delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, "2026000001", received[0][0].ManageNo)
}

func TestPushToFullQueue(t *testing.T) {
	q := NewAnalysisQueue(1, testLogger())
	defer q.Close()
	// Not started: nothing drains the channel.

	require.NoError(t, q.Push(testBatch("2026000001")))
	err := q.Push(testBatch("2026000002"))

	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 1, q.Len())
}

func TestPushToClosedQueue(t *testing.T) {
	q := NewAnalysisQueue(10, testLogger())
	require.NoError(t, q.Close())

	err := q.Push(testBatch("2026000001"))

	assert.ErrorIs(t, err, ErrQueueClosed)
	assert.True(t, q.IsClosed())
}

func TestCloseIsIdempotent(t *testing.T) {
	q := NewAnalysisQueue(10, testLogger())

	require.NoError(t, q.Close())
	assert.NoError(t, q.Close())
}

func TestMultipleSubscribers(t *testing.T) {
	q := NewAnalysisQueue(10, testLogger())
	defer q.Close()

	var wg sync.WaitGroup
	wg.Add(2)

	q.Subscribe(func(batch []*models.Analysis) error {
		wg.Done()
		return nil
	})
	q.Subscribe(func(batch []*models.Analysis) error {
		wg.Done()
		// One handler failing must not starve the others.
		return errors.New("persist failed")
	})
	q.Start()

	require.NoError(t, q.Push(testBatch("2026000001")))

	waited := make(chan struct{})
	go func() {
		wg.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(2 * time.Second):
		t.Fatal("not every subscriber saw the batch")
	}
}
