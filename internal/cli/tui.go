package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pkgscan/pkg/packages"
	"github.com/matzehuels/pkgscan/pkg/scan"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browserModel is the bubbletea model behind "scan --interactive": a
// scrolling package list, and a detail view for the selected package.
type browserModel struct {
	report  *scan.Report
	cursor  int
	offset  int
	height  int
	details bool // Showing the selected package instead of the list
}

func newBrowserModel(r *scan.Report) browserModel {
	return browserModel{report: r, height: 15}
}

func (m browserModel) Init() tea.Cmd { return nil }

func (m browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "backspace":
			if !m.details {
				return m, tea.Quit
			}
			m.details = false
		case "enter", "right", "l":
			m.details = true
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.report.Packages)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m browserModel) View() string {
	if m.details {
		return m.detailView()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Packages in " + m.report.Root))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.report.Packages))
	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		p := m.report.Packages[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, p.Name, orDash(p.Version), orDash(licenses(p)), fmt.Sprint(dependencyCount(p))})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Version", "License", "Deps").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			if col == 3 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.report.Packages))))
	return b.String()
}

func (m browserModel) detailView() string {
	p := m.selected()
	if p == nil {
		return listDimStyle.Render("no packages")
	}
	var b strings.Builder
	b.WriteString(packageView(p))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	return b.String()
}

// selected returns the package under the cursor.
func (m browserModel) selected() *packages.Package {
	if len(m.report.Packages) == 0 {
		return nil
	}
	return m.report.Packages[m.cursor]
}

func dependencyCount(p *packages.Package) int {
	n := 0
	for _, deps := range p.Dependencies {
		n += len(deps)
	}
	return n
}
