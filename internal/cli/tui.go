package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/craftplan/pkg/planner"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCheckedStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// BasePickerModel - Interactive base material selection
// =============================================================================

// pickItem is one intermediate item that could be supplied instead of made.
type pickItem struct {
	ID      string
	Name    string
	Devices string
	Depth   int
}

// BasePickerModel is the bubbletea model for choosing base materials.
type BasePickerModel struct {
	Target    string
	Items     []pickItem
	Checked   map[string]bool
	Cursor    int
	Height    int
	Offset    int
	Confirmed bool
}

// NewBasePickerModel lists every craftable item below the root of t.
// Items in preset start checked.
func NewBasePickerModel(t *planner.Tree, preset []string) BasePickerModel {
	m := BasePickerModel{
		Target:  t.Node(t.Root()).ItemName,
		Checked: make(map[string]bool),
		Height:  15,
	}
	for _, id := range preset {
		m.Checked[id] = true
	}

	for _, n := range t.Flatten() {
		if n.ID == t.Root() || len(n.Recipes) == 0 || n.Reason == planner.InCycle || n.Reason == planner.NoValidRecipe {
			continue
		}
		m.Items = append(m.Items, pickItem{
			ID:      n.ItemID,
			Name:    n.ItemName,
			Devices: n.Recipes[0].DeviceName,
			Depth:   n.Depth,
		})
	}
	return m
}

// Selected returns the checked item ids in list order, followed by sorted
// preset ids that do not appear in the list.
func (m BasePickerModel) Selected() []string {
	var out []string
	listed := make(map[string]bool, len(m.Items))
	for _, it := range m.Items {
		listed[it.ID] = true
		if m.Checked[it.ID] {
			out = append(out, it.ID)
		}
	}
	var extra []string
	for id, on := range m.Checked {
		if on && !listed[id] {
			extra = append(extra, id)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

func (m BasePickerModel) Init() tea.Cmd {
	return nil
}

func (m BasePickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ", "space", "x":
			if len(m.Items) > 0 {
				id := m.Items[m.Cursor].ID
				m.Checked[id] = !m.Checked[id]
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m BasePickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Raw materials for " + m.Target))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  ⏎ plan  q quit"))
	b.WriteString("\n\n")

	if len(m.Items) == 0 {
		b.WriteString(listDimStyle.Render("  nothing to choose: every input is already raw"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		box := "[ ]"
		if m.Checked[it.ID] {
			box = listCheckedStyle.Render("[x]")
		}

		indent := strings.Repeat("  ", max(it.Depth-1, 0))
		name := fmt.Sprintf("%s%s", indent, it.Name)
		line := fmt.Sprintf("%s%s %-30s", cursor, box, name)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("  " + listDimStyle.Render(it.Devices))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Items), len(m.Selected()))))
	return b.String()
}
