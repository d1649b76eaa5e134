package engine

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rshade/enviroimpact/internal/logging"
)

// Select input names.
const (
	InputRegion       = "region"
	InputFacilityType = "facility_type"
)

// Option is one entry of a select input. Placeholders have an empty Value.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// SelectInput is a populated dropdown. Err is set when its load failed; the
// input then holds a single disabled placeholder.
type SelectInput struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
	Err     error    `json:"-"`
}

// Loaded reports whether the input's values were fetched.
func (s SelectInput) Loaded() bool { return s.Err == nil }

// Values returns the selectable values, without the placeholder.
func (s SelectInput) Values() []string {
	var out []string
	for _, o := range s.Options {
		if o.Value != "" && !o.Disabled {
			out = append(out, o.Value)
		}
	}
	return out
}

// Has reports whether v is a selectable value.
func (s SelectInput) Has(v string) bool {
	for _, o := range s.Options {
		if o.Value == v && v != "" && !o.Disabled {
			return true
		}
	}
	return false
}

// Label returns the display label for v, or v itself.
func (s SelectInput) Label(v string) string {
	for _, o := range s.Options {
		if o.Value == v {
			return o.Label
		}
	}
	return v
}

// ReferenceSource lists valid regions and facility types. *api.Client
// implements it.
type ReferenceSource interface {
	Regions(ctx context.Context) ([]string, error)
	FacilityTypes(ctx context.Context) ([]string, error)
}

// ReferenceData is the result of a load.
type ReferenceData struct {
	Regions       SelectInput
	FacilityTypes SelectInput
}

// Loader populates the region and facility type inputs.
type Loader struct {
	src     ReferenceSource
	updates *Bus[SelectInput]
}

// NewLoader returns a loader reading from src.
func NewLoader(src ReferenceSource) *Loader {
	return &Loader{src: src, updates: NewBus[SelectInput]()}
}

// Updates publishes each input as soon as its own load completes. The two
// inputs may arrive in either order, from different goroutines.
func (l *Loader) Updates() *Bus[SelectInput] { return l.updates }

// Load fetches both lists concurrently. Each input is populated from its own
// outcome; one failing never affects the other. There is no retry.
func (l *Loader) Load(ctx context.Context) ReferenceData {
	var (
		data ReferenceData
		g    errgroup.Group
	)

	g.Go(func() error {
		values, err := l.src.Regions(ctx)
		data.Regions = l.finish(ctx, InputRegion, "Region", "regions", values, err, identityLabel)
		return nil
	})
	g.Go(func() error {
		values, err := l.src.FacilityTypes(ctx)
		data.FacilityTypes = l.finish(ctx, InputFacilityType, "Facility type", "types", values, err, HumanizeFacilityType)
		return nil
	})
	_ = g.Wait() // workers never fail; errors live on the inputs

	return data
}

func (l *Loader) finish(
	ctx context.Context,
	name, prompt, failNoun string,
	values []string,
	err error,
	label func(string) string,
) SelectInput {
	log := logging.FromContext(ctx)

	in := SelectInput{Name: name}
	if err != nil {
		log.Warn().Ctx(ctx).Err(err).Str("input", name).Msg("reference data load failed")
		in.Err = err
		in.Options = []Option{{Label: "-- Failed to load " + failNoun + " --", Disabled: true}}
	} else {
		in.Options = make([]Option, 0, len(values)+1)
		in.Options = append(in.Options, Option{Label: "-- Select " + prompt + " --"})
		for _, v := range values {
			in.Options = append(in.Options, Option{Value: v, Label: label(v)})
		}
		log.Debug().Ctx(ctx).Str("input", name).Int("count", len(values)).Msg("reference data loaded")
	}

	l.updates.Publish(in)
	return in
}

func identityLabel(v string) string { return v }

// HumanizeFacilityType turns "office_building" into "Office Building".
func HumanizeFacilityType(v string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(v, "_", " "))
}
