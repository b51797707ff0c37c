package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-blockstage/internal/storage"
)

func TestHistoryModelTabs(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	for _, name := range []string{"swap", "orbit", "swap"} {
		if _, err := store.SaveRun(storage.RunRecord{Project: name, Outcome: "completed", Steps: 3}); err != nil {
			t.Fatal(err)
		}
	}

	m := NewHistoryModel(store, 100, 30)
	if got := strings.Join(m.projects, ","); got != ",orbit,swap" {
		t.Fatalf("projects = %q", got)
	}
	if len(m.runs) != 3 {
		t.Errorf("all tab shows %d runs, expected 3", len(m.runs))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(HistoryModel)
	if m.projects[m.cursor] != "swap" || len(m.runs) != 2 {
		t.Errorf("swap tab: cursor=%d runs=%d", m.cursor, len(m.runs))
	}
	if !strings.Contains(m.View(), "2 runs, 2 completed") {
		t.Error("view is missing project stats")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(HistoryModel)
	if m.projects[m.cursor] != "orbit" {
		t.Errorf("shift+tab should go back to orbit, got %q", m.projects[m.cursor])
	}
}

func TestHistoryModelEmpty(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := NewHistoryModel(store, 80, 24)
	if !strings.Contains(m.View(), "No runs recorded yet") {
		t.Error("empty history should say so")
	}
}
