package cli

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/craftplan/pkg/planner"
	"github.com/matzehuels/craftplan/pkg/recipe"
)

func gearTree(t *testing.T) *planner.Tree {
	t.Helper()
	db, err := recipe.Parse([]byte(factoryDB))
	if err != nil {
		t.Fatal(err)
	}
	pc := planner.NewContext(recipe.NewIndex(db, nil), nil)
	return planner.Build(pc, "gear", planner.BuildOptions{})
}

func press(m BasePickerModel, msgs ...tea.Msg) (BasePickerModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(BasePickerModel)
	}
	return m, cmd
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBasePickerItems(t *testing.T) {
	m := NewBasePickerModel(gearTree(t), []string{"iron"})

	if m.Target != "Gear" {
		t.Errorf("Target = %s", m.Target)
	}
	// iron has no recipe and is not offered.
	if len(m.Items) != 1 || m.Items[0].ID != "plate" || m.Items[0].Devices != "Press" {
		t.Fatalf("Items = %+v, want only plate", m.Items)
	}
	if got := m.Selected(); !slices.Equal(got, []string{"iron"}) {
		t.Errorf("Selected = %v, want preset kept", got)
	}
}

func TestBasePickerToggleAndConfirm(t *testing.T) {
	m := NewBasePickerModel(gearTree(t), []string{"iron"})

	m, _ = press(m, key("x"), key("down"))
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d, want 0 at end of list", m.Cursor)
	}
	if got := m.Selected(); !slices.Equal(got, []string{"plate", "iron"}) {
		t.Errorf("Selected = %v", got)
	}
	if !strings.Contains(m.View(), "[x]") {
		t.Errorf("View does not show the checked box:\n%s", m.View())
	}

	m, cmd := press(m, key("enter"))
	if !m.Confirmed || cmd == nil {
		t.Error("enter should confirm and quit")
	}
}

func TestBasePickerCancel(t *testing.T) {
	m := NewBasePickerModel(gearTree(t), nil)
	m, cmd := press(m, key("x"), key("x"), key("esc"))
	if m.Confirmed || cmd == nil {
		t.Error("esc should quit without confirming")
	}
	if len(m.Selected()) != 0 {
		t.Errorf("Selected = %v after toggling twice", m.Selected())
	}
}

func TestBasePickerResize(t *testing.T) {
	m := NewBasePickerModel(gearTree(t), nil)
	m, _ = press(m, tea.WindowSizeMsg{Width: 80, Height: 3})
	if m.Height != 5 {
		t.Errorf("Height = %d, want minimum 5", m.Height)
	}
}

func TestWriteTreeText(t *testing.T) {
	var buf bytes.Buffer
	writeTreeText(&buf, gearTree(t))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	wants := []string{"Gear", "└── Plate", "└── Iron"}
	for i, want := range wants {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}
