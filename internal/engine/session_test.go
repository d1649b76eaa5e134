package engine_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/engine"
	"github.com/rshade/enviroimpact/internal/engine/chart"
	"github.com/rshade/enviroimpact/internal/stubbackend"
)

type countingRenderer struct {
	live    int
	created int
}

type countingHandle struct {
	r  *countingRenderer
	id int
}

func (h *countingHandle) Dispose() error {
	h.r.live--
	return nil
}

func (r *countingRenderer) Create(context.Context, chart.Spec) (chart.Handle, error) {
	r.live++
	r.created++
	return &countingHandle{r: r, id: r.created}, nil
}

func newSession(t *testing.T, frame engine.TimeFrame) (*engine.Session, *countingRenderer) {
	t.Helper()
	srv := httptest.NewServer(stubbackend.New().Handler())
	t.Cleanup(srv.Close)

	renderer := &countingRenderer{}
	s := engine.NewSession(api.NewClient(srv.URL), nil, frame, chart.NewRegistry(renderer, nil))
	return s, renderer
}

func osloOffice() api.CalculationRequest {
	return api.NewCalculationRequest(api.FormValues{
		Region:       "Oslo",
		FacilityType: "office",
		Size:         "medium",
		UsagePattern: "office_hours",
	})
}

func TestSession_OsloOfficeMonthly(t *testing.T) {
	s, renderer := newSession(t, engine.Year)
	ctx := context.Background()

	data := s.LoadReferenceData(ctx)
	require.True(t, data.Regions.Has("Oslo"))
	require.True(t, data.FacilityTypes.Has("office"))

	_, err := s.Submit(ctx, osloOffice())
	require.NoError(t, err)

	snap := s.SetTimeFrame(engine.Month)
	assert.Equal(t, "833.33", snap.Display.Kwh)
	assert.Equal(t, "41.67", snap.Display.Co2Kg)
	assert.Equal(t, "666.67", snap.Display.CostNok)
	assert.Equal(t, chart.Slots(), s.Charts.LiveSlots())
	assert.Equal(t, 3, renderer.live)

	require.NoError(t, s.Close())
	assert.Equal(t, 0, renderer.live)
}

func TestSession_FailedSubmitKeepsPreviousResult(t *testing.T) {
	s, renderer := newSession(t, engine.Year)
	ctx := context.Background()

	_, err := s.Submit(ctx, osloOffice())
	require.NoError(t, err)

	bad := osloOffice()
	bad.FacilityType = "castle"
	snap, err := s.Submit(ctx, bad)
	require.Error(t, err)
	assert.Equal(t, "Error: facility not found", api.UserMessage(err))

	assert.True(t, snap.HasResult)
	assert.Equal(t, "10,000", snap.Display.Kwh)
	assert.Equal(t, 3, renderer.live)
	assert.True(t, s.Submitter.Enabled())
}

func TestSession_NoBenchmarkEmptiesCharts(t *testing.T) {
	s, renderer := newSession(t, engine.Year)
	ctx := context.Background()

	_, err := s.Submit(ctx, osloOffice())
	require.NoError(t, err)
	require.True(t, s.Charts.Live(chart.SlotCO2))

	req := osloOffice()
	req.FacilityType = "data_center"
	_, err = s.Submit(ctx, req)
	require.NoError(t, err)

	assert.False(t, s.Charts.Live(chart.SlotCO2))
	assert.Empty(t, s.Charts.LiveSlots())
	assert.Equal(t, 0, renderer.live)
}

func TestSession_TimeFrameChangeDoesNotTouchCharts(t *testing.T) {
	s, renderer := newSession(t, engine.Year)
	ctx := context.Background()
	_, err := s.Submit(ctx, osloOffice())
	require.NoError(t, err)

	before, _ := s.Charts.Handle(chart.SlotCost)
	s.SetTimeFrame(engine.Month)
	s.SetTimeFrame(engine.Year)
	after, _ := s.Charts.Handle(chart.SlotCost)

	assert.Same(t, before, after)
	assert.Equal(t, 3, renderer.live)
	assert.Equal(t, 3, renderer.created)
}

func TestSession_WithoutCharts(t *testing.T) {
	srv := httptest.NewServer(stubbackend.New().Handler())
	defer srv.Close()

	s := engine.NewSession(api.NewClient(srv.URL), nil, engine.Month, nil)
	snap, err := s.Submit(context.Background(), osloOffice())
	require.NoError(t, err)
	assert.Equal(t, "833.33", snap.Display.Kwh)
	assert.NoError(t, s.Close())
}
