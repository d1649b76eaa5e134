package engine

import (
	"context"
	"sync/atomic"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/logging"
)

// Calculator performs one calculation request. *api.Client implements it.
type Calculator interface {
	Calculate(ctx context.Context, req api.CalculationRequest) (*api.CalculationResult, error)
}

// Submitter allows at most one calculation in flight. The submit control is
// disabled for the whole request and re-enabled on every exit path.
type Submitter struct {
	calc     Calculator
	inFlight atomic.Bool
	control  *Bus[bool]
}

// NewSubmitter wraps calc.
func NewSubmitter(calc Calculator) *Submitter {
	return &Submitter{calc: calc, control: NewBus[bool]()}
}

// Control publishes the submit control's enabled state: false when a request
// starts, true when it ends.
func (s *Submitter) Control() *Bus[bool] { return s.control }

// Enabled reports whether a submission would be accepted now.
func (s *Submitter) Enabled() bool { return !s.inFlight.Load() }

// Submit sends req. While a previous Submit is still running it returns
// ErrSubmitInFlight without contacting the service.
func (s *Submitter) Submit(ctx context.Context, req api.CalculationRequest) (*api.CalculationResult, error) {
	log := logging.FromContext(ctx)

	if !s.inFlight.CompareAndSwap(false, true) {
		log.Debug().Ctx(ctx).Str("operation", "submit").Msg("submission rejected, request already in flight")
		return nil, ErrSubmitInFlight
	}
	s.control.Publish(false)
	defer func() {
		s.inFlight.Store(false)
		s.control.Publish(true)
	}()

	result, err := s.calc.Calculate(ctx, req)
	if err != nil {
		log.Debug().Ctx(ctx).Err(err).
			Str("operation", "submit").
			Str("kind", api.KindOf(err).String()).
			Msg("submission failed")
		return nil, err
	}
	return result, nil
}
