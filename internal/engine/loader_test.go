package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/enviroimpact/internal/api"
)

type fakeSource struct {
	regions    []string
	regionsErr error
	types      []string
	typesErr   error
}

func (f fakeSource) Regions(context.Context) ([]string, error) { return f.regions, f.regionsErr }

func (f fakeSource) FacilityTypes(context.Context) ([]string, error) { return f.types, f.typesErr }

func TestLoader_BothSucceed(t *testing.T) {
	l := NewLoader(fakeSource{
		regions: []string{"Oslo", "Bergen"},
		types:   []string{"office", "office_building"},
	})

	data := l.Load(context.Background())

	require.True(t, data.Regions.Loaded())
	assert.Equal(t, []Option{
		{Value: "", Label: "-- Select Region --"},
		{Value: "Oslo", Label: "Oslo"},
		{Value: "Bergen", Label: "Bergen"},
	}, data.Regions.Options)
	assert.Equal(t, []string{"Oslo", "Bergen"}, data.Regions.Values())

	require.True(t, data.FacilityTypes.Loaded())
	assert.Equal(t, "-- Select Facility type --", data.FacilityTypes.Options[0].Label)
	assert.Equal(t, "Office Building", data.FacilityTypes.Label("office_building"))
	assert.True(t, data.FacilityTypes.Has("office"))
	assert.False(t, data.FacilityTypes.Has(""))
}

func TestLoader_FailuresAreIndependent(t *testing.T) {
	refErr := &api.ReferenceDataLoadError{Endpoint: api.PathRegions, Err: errors.New("refused")}

	t.Run("regions fail", func(t *testing.T) {
		data := NewLoader(fakeSource{regionsErr: refErr, types: []string{"office"}}).Load(context.Background())

		assert.False(t, data.Regions.Loaded())
		assert.Equal(t, []Option{{Label: "-- Failed to load regions --", Disabled: true}}, data.Regions.Options)
		assert.Empty(t, data.Regions.Values())
		assert.Equal(t, "Failed to load regions", api.UserMessage(data.Regions.Err))

		assert.True(t, data.FacilityTypes.Loaded())
		assert.Equal(t, []string{"office"}, data.FacilityTypes.Values())
	})

	t.Run("types fail", func(t *testing.T) {
		data := NewLoader(fakeSource{regions: []string{"Oslo"}, typesErr: refErr}).Load(context.Background())

		assert.True(t, data.Regions.Loaded())
		assert.Equal(t, []Option{{Label: "-- Failed to load types --", Disabled: true}}, data.FacilityTypes.Options)
	})
}

func TestLoader_PublishesEachInput(t *testing.T) {
	l := NewLoader(fakeSource{regions: []string{"Oslo"}, types: []string{"office"}})

	var (
		mu    sync.Mutex
		names []string
	)
	l.Updates().Subscribe(func(in SelectInput) {
		mu.Lock()
		names = append(names, in.Name)
		mu.Unlock()
	})

	l.Load(context.Background())
	assert.ElementsMatch(t, []string{InputRegion, InputFacilityType}, names)
}

func TestHumanizeFacilityType(t *testing.T) {
	assert.Equal(t, "Office", HumanizeFacilityType("office"))
	assert.Equal(t, "Data Center", HumanizeFacilityType("data_center"))
}
