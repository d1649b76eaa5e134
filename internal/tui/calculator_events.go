package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rshade/enviroimpact/internal/engine"
)

// referenceInputMsg carries one select input as soon as its own load ends.
type referenceInputMsg struct {
	input engine.SelectInput
}

// submitControlMsg carries the submit control's enabled state.
type submitControlMsg struct {
	enabled bool
}

// snapshotMsg carries a presenter update.
type snapshotMsg struct {
	snapshot engine.Snapshot
}

// mailbox holds the most recent value published on an engine bus until the
// update loop takes it. put never blocks.
type mailbox[T any] struct {
	ch chan T
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{ch: make(chan T, 1)}
}

func (b *mailbox[T]) put(v T) {
	for {
		select {
		case b.ch <- v:
			return
		default:
		}
		select {
		case <-b.ch:
		default:
		}
	}
}

// receive waits for the next value in b. It yields no message once ctx is
// done.
func receive[T any](ctx context.Context, b *mailbox[T], wrap func(T) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case v := <-b.ch:
			return wrap(v)
		case <-ctx.Done():
			return nil
		}
	}
}

// subscribe connects the model to the session's buses. Handlers run on the
// publishing goroutine and only fill mailboxes.
func (m *CalculatorModel) subscribe() {
	s := m.session
	m.unsubscribe = []func(){
		s.Loader.Updates().Subscribe(func(in engine.SelectInput) {
			if box, ok := m.inputs[in.Name]; ok {
				box.put(in)
			}
		}),
		s.Submitter.Control().Subscribe(m.control.put),
		s.Presenter.Updates().Subscribe(m.snapshots.put),
	}
}

// Close detaches the model from the session. It is safe to call more than
// once.
func (m *CalculatorModel) Close() {
	for _, unsub := range m.unsubscribe {
		unsub()
	}
}

func (m *CalculatorModel) waitForInput(name string) tea.Cmd {
	return receive(m.ctx, m.inputs[name], func(in engine.SelectInput) tea.Msg {
		return referenceInputMsg{input: in}
	})
}

func (m *CalculatorModel) waitForControl() tea.Cmd {
	return receive(m.ctx, m.control, func(enabled bool) tea.Msg {
		return submitControlMsg{enabled: enabled}
	})
}

func (m *CalculatorModel) waitForSnapshot() tea.Cmd {
	return receive(m.ctx, m.snapshots, func(snap engine.Snapshot) tea.Msg {
		return snapshotMsg{snapshot: snap}
	})
}
