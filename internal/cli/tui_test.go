package cli

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/pkgscan/pkg/packages"
	"github.com/matzehuels/pkgscan/pkg/scan"
)

func testReport(n int) *scan.Report {
	r := &scan.Report{Root: "/src"}
	for i := range n {
		p := &packages.Package{
			Type:             "phpcomposer",
			Name:             fmt.Sprintf("acme/pkg%02d", i),
			Version:          "1.0.0",
			AssertedLicenses: []packages.AssertedLicense{{License: "MIT"}},
		}
		p.AddDependencies(packages.DependencyRuntime, []packages.Dependency{{Name: "php", VersionConstraint: ">=8.1"}})
		r.Packages = append(r.Packages, p)
	}
	return r
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m browserModel, keys ...string) (browserModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(browserModel)
	}
	return m, cmd
}

func TestBrowserNavigation(t *testing.T) {
	m := newBrowserModel(testReport(3))

	m, _ = press(m, "up")
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at top, want 0", m.cursor)
	}
	m, _ = press(m, "down", "j", "down")
	if m.cursor != 2 {
		t.Errorf("cursor = %d after moving past the end, want 2", m.cursor)
	}
	m, _ = press(m, "k")
	if got := m.selected().Name; got != "acme/pkg01" {
		t.Errorf("selected = %q, want acme/pkg01", got)
	}
}

func TestBrowserScrolls(t *testing.T) {
	m := newBrowserModel(testReport(20))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 13})
	m = next.(browserModel)
	if m.height != 5 {
		t.Fatalf("height = %d, want 5", m.height)
	}

	for range 7 {
		m, _ = press(m, "down")
	}
	if m.offset != 3 {
		t.Errorf("offset = %d with cursor %d, want 3", m.offset, m.cursor)
	}
	view := m.View()
	if strings.Contains(view, "acme/pkg00") || !strings.Contains(view, "acme/pkg07") {
		t.Errorf("view should show the scrolled window:\n%s", view)
	}
	if !strings.Contains(view, "[8/20]") {
		t.Errorf("view should show the position:\n%s", view)
	}
}

func TestBrowserDetails(t *testing.T) {
	m := newBrowserModel(testReport(2))
	m, _ = press(m, "down", "enter")
	if !m.details {
		t.Fatal("enter should open the detail view")
	}
	view := m.View()
	if !strings.Contains(view, "acme/pkg01") || !strings.Contains(view, "pkg:composer/acme/pkg01@1.0.0") {
		t.Errorf("detail view should describe the selected package:\n%s", view)
	}

	m, cmd := press(m, "esc")
	if m.details || cmd != nil {
		t.Error("esc in the detail view should go back to the list")
	}
	if _, cmd = press(m, "esc"); cmd == nil {
		t.Error("esc in the list should quit")
	}
}

func TestBrowserQuit(t *testing.T) {
	_, cmd := press(newBrowserModel(testReport(1)), "q")
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestBrowserEmptyReport(t *testing.T) {
	m := newBrowserModel(&scan.Report{Root: "/src"})
	m, _ = press(m, "down", "enter")
	if m.selected() != nil {
		t.Error("selected should be nil without packages")
	}
	if !strings.Contains(m.View(), "no packages") {
		t.Error("detail view should handle an empty report")
	}
}
