package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mcprice/internal/montecarlo"
)

func TestModelProgress(t *testing.T) {
	m := newModel("bond", 100, nil)

	next, _ := m.Update(progressMsg{done: 40, total: 100})
	m = next.(model)
	if m.done != 40 {
		t.Errorf("expected 40 done, got %d", m.done)
	}

	next, _ = m.Update(progressMsg{done: 30, total: 100})
	m = next.(model)
	if m.done != 40 {
		t.Errorf("out-of-order report moved progress back to %d", m.done)
	}

	if view := m.View(); !strings.Contains(view, "40/100") {
		t.Errorf("view missing counter:\n%s", view)
	}
}

func TestModelCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	m := newModel("call", 10, cancel)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(model)
	if !m.aborted {
		t.Error("expected model to be aborted")
	}
	if ctx.Err() == nil {
		t.Error("expected context to be cancelled")
	}
	if !strings.Contains(m.View(), "cancelling") {
		t.Error("expected cancelling notice")
	}
}

func TestModelDone(t *testing.T) {
	m := newModel("bond", 10, nil)
	est := &montecarlo.Estimate{N: 10, Mean: 0.94}

	next, cmd := m.Update(doneMsg{est: est})
	m = next.(model)
	if !m.finished || m.est != est || m.done != 10 {
		t.Errorf("unexpected final model: %+v", m)
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}

	failed := errors.New("boom")
	next, _ = newModel("bond", 10, nil).Update(doneMsg{err: failed})
	if v := next.(model).View(); !strings.Contains(v, "boom") {
		t.Errorf("expected error in view:\n%s", v)
	}
}

func TestModelTick(t *testing.T) {
	m := newModel("bond", 10, nil)
	next, cmd := m.Update(tickMsg(m.start.Add(time.Second)))
	m = next.(model)
	if m.frame != 1 || cmd == nil {
		t.Errorf("expected frame advance and another tick, got frame %d", m.frame)
	}
	if !strings.Contains(m.View(), "elapsed 1s") {
		t.Errorf("expected elapsed time in view:\n%s", m.View())
	}
}
