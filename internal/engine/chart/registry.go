package chart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/greenops"
	"github.com/rshade/enviroimpact/internal/logging"
)

// ErrUnknownSlot is returned for a slot outside Slots().
var ErrUnknownSlot = errors.New("unknown chart slot")

// Registry tracks the live handle of each slot.
type Registry struct {
	mu        sync.Mutex
	renderer  Renderer
	formatter *greenops.Formatter
	live      map[Slot]Handle
}

// NewRegistry returns an empty registry drawing with r. A nil formatter means
// English number formatting.
func NewRegistry(r Renderer, f *greenops.Formatter) *Registry {
	if f == nil {
		f = greenops.DefaultFormatter()
	}
	return &Registry{
		renderer:  r,
		formatter: f,
		live:      make(map[Slot]Handle),
	}
}

// Render replaces slot's visualization. The previous handle is always
// disposed first. A nil benchmark leaves the slot empty.
func (r *Registry) Render(ctx context.Context, slot Slot, benchmark *float64, actual float64) error {
	if !slot.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	log := logging.FromContext(ctx)

	disposeErr := r.disposeLocked(slot)
	if benchmark == nil {
		log.Debug().Ctx(ctx).Str("slot", string(slot)).Msg("no benchmark, chart slot left empty")
		return disposeErr
	}

	handle, err := r.renderer.Create(ctx, NewSpec(slot, *benchmark, actual, r.formatter))
	if err != nil {
		return errors.Join(disposeErr, fmt.Errorf("creating %s chart: %w", slot, err))
	}
	r.live[slot] = handle
	log.Debug().Ctx(ctx).Str("slot", string(slot)).Msg("chart rendered")
	return disposeErr
}

// RenderResult renders all three slots from a result's annual values and
// best-practice targets. Every slot is attempted even if one fails.
func (r *Registry) RenderResult(ctx context.Context, res *api.CalculationResult) error {
	if res == nil {
		return nil
	}
	target := res.Metadata.BestPracticeTarget
	return errors.Join(
		r.Render(ctx, SlotBenchmark, target.TargetKwh, res.EstimatedKwh),
		r.Render(ctx, SlotCO2, target.TargetCo2, res.EstimatedCo2Kg),
		r.Render(ctx, SlotCost, target.TargetCost, res.EstimatedCostNok),
	)
}

// Live reports whether slot currently holds a visualization.
func (r *Registry) Live(slot Slot) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[slot]
	return ok
}

// Handle returns slot's live handle, if any.
func (r *Registry) Handle(slot Slot) (Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.live[slot]
	return h, ok
}

// LiveSlots returns the occupied slots in display order.
func (r *Registry) LiveSlots() []Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Slot
	for _, s := range Slots() {
		if _, ok := r.live[s]; ok {
			out = append(out, s)
		}
	}
	return out
}

// Close disposes every live visualization.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, s := range Slots() {
		errs = append(errs, r.disposeLocked(s))
	}
	return errors.Join(errs...)
}

// disposeLocked empties slot. The slot ends empty even if Dispose fails.
func (r *Registry) disposeLocked(slot Slot) error {
	h, ok := r.live[slot]
	if !ok {
		return nil
	}
	delete(r.live, slot)
	if err := h.Dispose(); err != nil {
		return fmt.Errorf("disposing %s chart: %w", slot, err)
	}
	return nil
}
