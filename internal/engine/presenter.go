package engine

import (
	"sync"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/greenops"
)

// ScaledValues are the three result figures expressed in one time frame.
type ScaledValues struct {
	Kwh     float64 `json:"kwh"`
	Co2Kg   float64 `json:"co2_kg"`
	CostNok float64 `json:"cost_nok"`
}

// DisplayValues are ScaledValues formatted for output.
type DisplayValues struct {
	Kwh     string `json:"kwh"`
	Co2Kg   string `json:"co2_kg"`
	CostNok string `json:"cost_nok"`
}

// Snapshot is everything a front end shows for the current result and time
// frame. The zero Snapshot (HasResult false) means nothing has been
// calculated yet.
type Snapshot struct {
	Seq         uint64                 `json:"-"`
	HasResult   bool                   `json:"has_result"`
	TimeFrame   TimeFrame              `json:"-"`
	Frame       string                 `json:"time_frame"`
	Values      ScaledValues           `json:"values"`
	Display     DisplayValues          `json:"display"`
	Tooltips    Tooltips               `json:"tooltips"`
	Equivalency string                 `json:"equivalency,omitempty"`
	Result      *api.CalculationResult `json:"result,omitempty"`
}

// Presenter owns the last successful result and the selected time frame.
// Every read is derived from that pair, so switching frames never needs
// the network and never compounds scaling.
//
// Each change bumps the snapshot sequence. Changes are published in
// sequence order, so the last snapshot a subscriber sees is the newest.
type Presenter struct {
	pubMu     sync.Mutex
	mu        sync.RWMutex
	seq       uint64
	result    *api.CalculationResult
	frame     TimeFrame
	formatter *greenops.Formatter
	updates   *Bus[Snapshot]
}

// NewPresenter returns a presenter with no result. A nil formatter means
// English formatting.
func NewPresenter(f *greenops.Formatter, frame TimeFrame) *Presenter {
	if f == nil {
		f = greenops.DefaultFormatter()
	}
	return &Presenter{
		frame:     frame,
		formatter: f,
		updates:   NewBus[Snapshot](),
	}
}

// Updates publishes a Snapshot after every change. Handlers may read the
// presenter but must not change it.
func (p *Presenter) Updates() *Bus[Snapshot] { return p.updates }

// OnNewResult replaces the cached result. The latest call always wins.
func (p *Presenter) OnNewResult(res *api.CalculationResult) Snapshot {
	return p.mutate(func() { p.result = res })
}

// SetTimeFrame changes the display frame and recomputes.
func (p *Presenter) SetTimeFrame(frame TimeFrame) Snapshot {
	return p.mutate(func() { p.frame = frame })
}

func (p *Presenter) mutate(change func()) Snapshot {
	p.pubMu.Lock()
	defer p.pubMu.Unlock()

	p.mu.Lock()
	change()
	p.seq++
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.updates.Publish(snap)
	return snap
}

// TimeFrame returns the selected frame.
func (p *Presenter) TimeFrame() TimeFrame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame
}

// Result returns the cached result.
func (p *Presenter) Result() (*api.CalculationResult, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.result, p.result != nil
}

// ScaledValues applies the frame factor to the raw result figures. ok is
// false when there is no result.
func (p *Presenter) ScaledValues() (ScaledValues, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.result == nil {
		return ScaledValues{}, false
	}
	return scale(p.result, p.frame), true
}

// Snapshot returns the current display state.
func (p *Presenter) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Presenter) snapshotLocked() Snapshot {
	snap := Snapshot{Seq: p.seq, TimeFrame: p.frame, Frame: p.frame.String()}
	if p.result == nil {
		return snap
	}

	values := scale(p.result, p.frame)
	snap.HasResult = true
	snap.Result = p.result
	snap.Values = values
	snap.Display = DisplayValues{
		Kwh:     p.formatter.Display(values.Kwh),
		Co2Kg:   p.formatter.Display(values.Co2Kg),
		CostNok: p.formatter.Display(values.CostNok),
	}
	snap.Tooltips = BuildTooltips(p.formatter, p.result, p.frame)

	if eq, err := p.formatter.Equivalency(greenops.CarbonInput{Value: values.Co2Kg, Unit: "kg"}); err == nil && !eq.IsEmpty {
		snap.Equivalency = eq.DisplayText
	}
	return snap
}

// scale always starts from the raw annual figures.
func scale(res *api.CalculationResult, frame TimeFrame) ScaledValues {
	return ScaledValues{
		Kwh:     frame.Scale(res.EstimatedKwh),
		Co2Kg:   frame.Scale(res.EstimatedCo2Kg),
		CostNok: frame.Scale(res.EstimatedCostNok),
	}
}
