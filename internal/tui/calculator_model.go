package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/enviroimpact/internal/api"
	"github.com/rshade/enviroimpact/internal/engine"
)

// CalculatorState is the lifecycle state of the calculator.
type CalculatorState int

const (
	// CalculatorStateEditing accepts form input. Selects whose reference
	// data is still loading show a placeholder until their own load ends.
	CalculatorStateEditing CalculatorState = iota
	// CalculatorStateSubmitting has a request in flight; the form stays usable.
	CalculatorStateSubmitting
	// CalculatorStateQuitting is exiting.
	CalculatorStateQuitting
)

type fieldKind int

const (
	fieldSelect fieldKind = iota
	fieldNumber
)

// formField is one row of the form.
type formField struct {
	name     string
	label    string
	kind     fieldKind
	advanced bool

	options  []engine.Option
	selected int
	loading  bool
	loadErr  error

	input textinput.Model
}

// value is what gets submitted for this field.
func (f *formField) value() string {
	if f.kind == fieldNumber {
		return f.input.Value()
	}
	if f.selected < 0 || f.selected >= len(f.options) {
		return ""
	}
	return f.options[f.selected].Value
}

// cycle moves the selection by delta, skipping disabled options.
func (f *formField) cycle(delta int) {
	n := len(f.options)
	if n == 0 {
		return
	}
	i := f.selected
	for range n {
		i = (i + delta + n) % n
		if !f.options[i].Disabled {
			f.selected = i
			return
		}
	}
}

// submitDoneMsg is sent when a submission completes. The new result itself
// arrives as a snapshotMsg.
type submitDoneMsg struct {
	err error
}

const (
	calculatorDefaultWidth  = 100
	calculatorDefaultHeight = 40
	numberInputWidth        = 14
	numberInputCharLimit    = 16
)

// CalculatorModel is the interactive facility calculator.
type CalculatorModel struct {
	ctx     context.Context
	session *engine.Session
	panels  *TextRenderer

	fields       []*formField
	focused      int
	editing      bool
	showAdvanced bool

	snapshot      engine.Snapshot
	submitEnabled bool
	state         CalculatorState
	loading       *LoadingState
	err           error

	inputs      map[string]*mailbox[engine.SelectInput]
	control     *mailbox[bool]
	snapshots   *mailbox[engine.Snapshot]
	unsubscribe []func()

	width  int
	height int
}

// NewCalculatorModel returns a calculator driving session and subscribes it
// to the session's updates; call Close when done. panels must be the
// renderer behind session.Charts so the view can show live charts.
func NewCalculatorModel(ctx context.Context, session *engine.Session, panels *TextRenderer) *CalculatorModel {
	m := &CalculatorModel{
		ctx:           ctx,
		session:       session,
		panels:        panels,
		state:         CalculatorStateEditing,
		loading:       NewLoadingState("Calculating..."),
		snapshot:      session.Presenter.Snapshot(),
		submitEnabled: session.Submitter.Enabled(),
		inputs: map[string]*mailbox[engine.SelectInput]{
			engine.InputRegion:       newMailbox[engine.SelectInput](),
			engine.InputFacilityType: newMailbox[engine.SelectInput](),
		},
		control:   newMailbox[bool](),
		snapshots: newMailbox[engine.Snapshot](),
		width:     calculatorDefaultWidth,
		height:    calculatorDefaultHeight,
	}
	m.fields = []*formField{
		newLoadingField(engine.InputRegion, "Region"),
		newLoadingField(engine.InputFacilityType, "Facility type"),
		{name: "size", label: "Size", kind: fieldSelect, options: staticOptions(api.Sizes)},
		{name: "usage_pattern", label: "Usage pattern", kind: fieldSelect, options: staticOptions(api.UsagePatterns)},
		newNumberField("custom_kwh", "Custom kWh/year"),
		newNumberField("custom_emission_factor", "Emission factor (kg/kWh)"),
		newNumberField("custom_price_per_kwh", "Price (NOK/kWh)"),
	}
	m.subscribe()
	return m
}

func staticOptions(values []string) []engine.Option {
	opts := make([]engine.Option, len(values))
	for i, v := range values {
		opts[i] = engine.Option{Value: v, Label: engine.HumanizeFacilityType(v)}
	}
	return opts
}

func newLoadingField(name, label string) *formField {
	return &formField{
		name:    name,
		label:   label,
		kind:    fieldSelect,
		loading: true,
		options: []engine.Option{{Label: "Loading...", Disabled: true}},
	}
}

func newNumberField(name, label string) *formField {
	ti := textinput.New()
	ti.Placeholder = "optional"
	ti.CharLimit = numberInputCharLimit
	ti.Width = numberInputWidth
	return &formField{name: name, label: label, kind: fieldNumber, advanced: true, input: ti}
}

// Init starts the reference data load and listens for session updates.
// Each select is filled by its own load.
func (m *CalculatorModel) Init() tea.Cmd {
	ctx, session := m.ctx, m.session
	load := func() tea.Msg {
		session.LoadReferenceData(ctx)
		return nil
	}
	return tea.Batch(
		load,
		m.waitForInput(engine.InputRegion),
		m.waitForInput(engine.InputFacilityType),
		m.waitForControl(),
		m.waitForSnapshot(),
	)
}

// Update handles messages.
func (m *CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case referenceInputMsg:
		m.applyInput(msg.input)
		return m, nil

	case submitControlMsg:
		m.submitEnabled = msg.enabled
		return m, m.waitForControl()

	case snapshotMsg:
		m.applySnapshot(msg.snapshot)
		return m, m.waitForSnapshot()

	case submitDoneMsg:
		return m.handleSubmitDone(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.state == CalculatorStateSubmitting {
		return m, m.loading.Update(msg)
	}
	return m, nil
}

// applyInput fills one select; the other fields are left as they are.
func (m *CalculatorModel) applyInput(in engine.SelectInput) {
	f := m.field(in.Name)
	if f == nil {
		return
	}
	f.options = in.Options
	f.selected = 0
	f.loading = false
	f.loadErr = in.Err
}

// applySnapshot shows snap unless a newer one is already displayed.
func (m *CalculatorModel) applySnapshot(snap engine.Snapshot) {
	if snap.Seq < m.snapshot.Seq {
		return
	}
	m.snapshot = snap
}

// handleKeyMsg processes keyboard input.
//
//nolint:exhaustive // Only the keys the calculator binds.
func (m *CalculatorModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, m.quit()

	case tea.KeyUp, tea.KeyShiftTab:
		m.moveFocus(-1)
	case tea.KeyDown, tea.KeyTab:
		m.moveFocus(1)
	case tea.KeyLeft:
		m.cycleFocused(-1)
	case tea.KeyRight:
		m.cycleFocused(1)

	case tea.KeyEnter:
		f := m.focusedField()
		if f != nil && f.kind == fieldNumber {
			m.editing = true
			return m, f.input.Focus()
		}

	case tea.KeyRunes:
		return m.handleRune(string(msg.Runes))
	}
	return m, nil
}

func (m *CalculatorModel) handleRune(r string) (tea.Model, tea.Cmd) {
	switch r {
	case "q":
		return m, m.quit()
	case "s":
		return m, m.submit()
	case "t":
		m.applySnapshot(m.session.SetTimeFrame(m.session.Presenter.TimeFrame().Toggle()))
	case "a":
		m.showAdvanced = !m.showAdvanced
		m.clampFocus()
	case "k":
		m.moveFocus(-1)
	case "j":
		m.moveFocus(1)
	}
	return m, nil
}

//nolint:exhaustive // Unlisted keys go to the text input.
func (m *CalculatorModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.focusedField()
	if f == nil {
		m.editing = false
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeyTab:
		m.editing = false
		f.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m, m.quit()
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return m, cmd
}

func (m *CalculatorModel) quit() tea.Cmd {
	m.state = CalculatorStateQuitting
	m.Close()
	return tea.Quit
}

// submit starts a calculation unless the submit control is disabled; the
// disabled control swallows the keypress.
func (m *CalculatorModel) submit() tea.Cmd {
	if m.state != CalculatorStateEditing || !m.submitEnabled {
		return nil
	}

	req := api.NewCalculationRequest(m.FormValues())
	m.state = CalculatorStateSubmitting
	m.err = nil

	ctx, session := m.ctx, m.session
	run := func() tea.Msg {
		_, err := session.Submit(ctx, req)
		return submitDoneMsg{err: err}
	}
	return tea.Batch(m.loading.Init(), run)
}

func (m *CalculatorModel) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.state = CalculatorStateEditing
	if !errors.Is(msg.err, engine.ErrSubmitInFlight) {
		m.err = msg.err
	}
	return m, nil
}

// FormValues returns the raw form content, including advanced fields that
// are currently hidden.
func (m *CalculatorModel) FormValues() api.FormValues {
	get := func(name string) string {
		if f := m.field(name); f != nil {
			return f.value()
		}
		return ""
	}
	return api.FormValues{
		Region:               get("region"),
		FacilityType:         get("facility_type"),
		Size:                 get("size"),
		CustomKwh:            get("custom_kwh"),
		UsagePattern:         get("usage_pattern"),
		CustomEmissionFactor: get("custom_emission_factor"),
		CustomPricePerKwh:    get("custom_price_per_kwh"),
	}
}

// State returns the current state.
func (m *CalculatorModel) State() CalculatorState { return m.state }

// Snapshot returns the displayed result state.
func (m *CalculatorModel) Snapshot() engine.Snapshot { return m.snapshot }

// Err returns the error shown in the banner, if any.
func (m *CalculatorModel) Err() error { return m.err }

// SubmitEnabled reports the submit control's state as last published by
// the session.
func (m *CalculatorModel) SubmitEnabled() bool { return m.submitEnabled }

func (m *CalculatorModel) field(name string) *formField {
	for _, f := range m.fields {
		if f.name == name {
			return f
		}
	}
	return nil
}

func (m *CalculatorModel) visibleFields() []*formField {
	out := make([]*formField, 0, len(m.fields))
	for _, f := range m.fields {
		if !f.advanced || m.showAdvanced {
			out = append(out, f)
		}
	}
	return out
}

func (m *CalculatorModel) focusedField() *formField {
	visible := m.visibleFields()
	if m.focused < 0 || m.focused >= len(visible) {
		return nil
	}
	return visible[m.focused]
}

func (m *CalculatorModel) moveFocus(delta int) {
	n := len(m.visibleFields())
	if n == 0 {
		return
	}
	m.focused = (m.focused + delta + n) % n
}

func (m *CalculatorModel) clampFocus() {
	if n := len(m.visibleFields()); m.focused >= n {
		m.focused = n - 1
	}
}

func (m *CalculatorModel) cycleFocused(delta int) {
	if f := m.focusedField(); f != nil && f.kind == fieldSelect {
		f.cycle(delta)
	}
}
