package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestProgressModelUpdates(t *testing.T) {
	m := NewProgressModel()

	next, _ := m.Update(generateStartMsg{layerCount: 10})
	m = next.(ProgressModel)
	if m.Total != 10 {
		t.Errorf("Total = %d, want 10", m.Total)
	}

	next, _ = m.Update(layerDoneMsg{index: 9, treeCount: 3, lineCount: 12})
	m = next.(ProgressModel)
	if m.Completed != 1 || m.Trees != 3 || m.Lines != 12 {
		t.Errorf("after layer: completed=%d trees=%d lines=%d", m.Completed, m.Trees, m.Lines)
	}
}

func TestProgressModelQuitsOnDone(t *testing.T) {
	m := NewProgressModel()

	next, cmd := m.Update(generateDoneMsg{})
	if cmd == nil {
		t.Fatal("done message should produce a quit command")
	}
	if _, ok := next.(ProgressModel); !ok {
		t.Fatalf("unexpected model type %T", next)
	}
}

func TestProgressModelQuitsOnKey(t *testing.T) {
	m := NewProgressModel()

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should produce a quit command")
	}
	got := next.(ProgressModel)
	if got.Err == nil {
		t.Error("quitting early should record a cancellation error")
	}
}

func TestProgressModelView(t *testing.T) {
	m := NewProgressModel()
	if !strings.Contains(m.View(), "loading stack") {
		t.Error("initial view should show loading state")
	}

	next, _ := m.Update(generateStartMsg{layerCount: 4})
	m = next.(ProgressModel)
	next, _ = m.Update(layerDoneMsg{index: 3, treeCount: 2, lineCount: 5})
	m = next.(ProgressModel)

	view := m.View()
	if !strings.Contains(view, "layer 1/4") {
		t.Errorf("view should show layer progress, got:\n%s", view)
	}
	if !strings.Contains(view, "2 trees") {
		t.Errorf("view should show tree count, got:\n%s", view)
	}
}
