package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/csmtree/pkg/csm"
	"github.com/matzehuels/csmtree/pkg/csm/budget"
	"github.com/matzehuels/csmtree/pkg/render"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
	paneStyle    = lipgloss.NewStyle().PaddingLeft(2)
)

// =============================================================================
// ClassBrowserModel - Interactive browsing of optimal labelings
// =============================================================================

// ClassBrowserModel is the bubbletea model for browsing the optimal
// labelings of a search. The left pane lists the classes; the right pane
// shows the budget curve of the class under the cursor.
type ClassBrowserModel struct {
	Trees    []*csm.Tree
	Area     int
	Cursor   int
	Selected int // -1 until the user picks a class
	Height   int
	Offset   int

	curves []budget.Curve
}

// NewClassBrowserModel creates a browser over trees, which must all share
// one shape, and their budget curves in the same order.
func NewClassBrowserModel(trees []*csm.Tree, curves []budget.Curve, area int) ClassBrowserModel {
	return ClassBrowserModel{
		Trees:    trees,
		Area:     area,
		Selected: -1,
		Height:   15,
		curves:   curves,
	}
}

func (m ClassBrowserModel) Init() tea.Cmd {
	return nil
}

func (m ClassBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Trees)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Trees) == 0 {
				return m, nil
			}
			m.Selected = m.Cursor
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 3 {
			m.Height = 3
		}
	}
	return m, nil
}

func (m ClassBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Optimal Labelings"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("area %d", m.Area)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ save  q quit"))
	b.WriteString("\n\n")

	if len(m.Trees) == 0 {
		b.WriteString(listDimStyle.Render("no labelings"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Trees))
	left := classTable(m.Trees[m.Offset:end], m.Offset, m.Cursor-m.Offset)
	if m.Cursor < len(m.curves) {
		right := paneStyle.Render(render.CurveTable(m.curves[m.Cursor]))
		left = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}
	b.WriteString(left)
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Trees))))

	return b.String()
}
