package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/enviroimpact/internal/api"
)

// blockingCalculator holds every call until release is closed.
type blockingCalculator struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	result  *api.CalculationResult
	err     error
}

func newBlockingCalculator() *blockingCalculator {
	return &blockingCalculator{
		started: make(chan struct{}, 10),
		release: make(chan struct{}),
		result:  osloOfficeResult(),
	}
}

func (b *blockingCalculator) Calculate(ctx context.Context, _ api.CalculationRequest) (*api.CalculationResult, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.result, b.err
}

func TestSubmitter_SecondSubmitRejectedWhilePending(t *testing.T) {
	calc := newBlockingCalculator()
	s := NewSubmitter(calc)

	var (
		mu     sync.Mutex
		states []bool
	)
	s.Control().Subscribe(func(enabled bool) {
		mu.Lock()
		states = append(states, enabled)
		mu.Unlock()
	})

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background(), api.CalculationRequest{Region: "Oslo"})
		done <- err
	}()

	select {
	case <-calc.started:
	case <-time.After(5 * time.Second):
		t.Fatal("first submission never reached the calculator")
	}
	assert.False(t, s.Enabled())

	_, err := s.Submit(context.Background(), api.CalculationRequest{Region: "Bergen"})
	require.ErrorIs(t, err, ErrSubmitInFlight)
	assert.Equal(t, int32(1), calc.calls.Load())

	close(calc.release)
	require.NoError(t, <-done)
	assert.True(t, s.Enabled())

	mu.Lock()
	assert.Equal(t, []bool{false, true}, states)
	mu.Unlock()
}

func TestSubmitter_ReenabledAfterError(t *testing.T) {
	calc := newBlockingCalculator()
	calc.err = &api.DetailError{Status: 404, Detail: "facility not found"}
	calc.result = nil
	close(calc.release)

	s := NewSubmitter(calc)
	_, err := s.Submit(context.Background(), api.CalculationRequest{})
	require.Error(t, err)
	assert.Equal(t, api.KindDetail, api.KindOf(err))
	assert.True(t, s.Enabled())

	res, err := s.Submit(context.Background(), api.CalculationRequest{})
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, int32(2), calc.calls.Load())
}

func TestSubmitter_ReenabledAfterCancel(t *testing.T) {
	calc := newBlockingCalculator()
	s := NewSubmitter(calc)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(ctx, api.CalculationRequest{})
		done <- err
	}()
	<-calc.started
	cancel()

	require.ErrorIs(t, <-done, context.Canceled)
	assert.True(t, s.Enabled())
}
