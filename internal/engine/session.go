// Package engine orchestrates a calculation session: reference data loading,
// guarded submission, result presentation across time frames, and chart
// lifecycle. The CLI and TUI drive the same Session.
package engine

import (
	"context"
	"fmt"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/engine/chart"
	"github.com/rshade/enviroimpact/internal/greenops"
	"github.com/rshade/enviroimpact/internal/logging"
)

// Service is the calculation backend as the session sees it.
type Service interface {
	ReferenceSource
	Calculator
}

// Session wires the four components together.
type Session struct {
	Loader    *Loader
	Submitter *Submitter
	Presenter *Presenter
	Charts    *chart.Registry
}

// NewSession builds a session on svc. charts may be nil when no
// visualizations are wanted.
func NewSession(svc Service, f *greenops.Formatter, frame TimeFrame, charts *chart.Registry) *Session {
	return &Session{
		Loader:    NewLoader(svc),
		Submitter: NewSubmitter(svc),
		Presenter: NewPresenter(f, frame),
		Charts:    charts,
	}
}

// LoadReferenceData populates the select inputs.
func (s *Session) LoadReferenceData(ctx context.Context) ReferenceData {
	return s.Loader.Load(ctx)
}

// Submit sends req. On success the presenter cache is replaced and every
// chart slot is re-rendered; on failure the previous result stays displayed.
// A chart failure is returned after the presenter has been updated.
func (s *Session) Submit(ctx context.Context, req api.CalculationRequest) (Snapshot, error) {
	res, err := s.Submitter.Submit(ctx, req)
	if err != nil {
		return s.Presenter.Snapshot(), err
	}

	snap := s.Presenter.OnNewResult(res)
	if s.Charts != nil {
		if err = s.Charts.RenderResult(ctx, res); err != nil {
			logging.FromContext(ctx).Warn().Ctx(ctx).Err(err).Msg("chart rendering failed")
			return snap, fmt.Errorf("rendering charts: %w", err)
		}
	}
	return snap, nil
}

// SetTimeFrame re-scales the cached result. It never contacts the service
// and leaves the charts untouched.
func (s *Session) SetTimeFrame(frame TimeFrame) Snapshot {
	return s.Presenter.SetTimeFrame(frame)
}

// Close releases all visualizations.
func (s *Session) Close() error {
	if s.Charts == nil {
		return nil
	}
	return s.Charts.Close()
}
