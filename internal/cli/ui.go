package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Exported styles are shared by the table, browser and graph output.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// statusOut receives status lines. Machine-readable output (--json, DOT)
// goes to the command's own writer instead.
var statusOut io.Writer = os.Stdout

type statusKind struct {
	icon  string
	style lipgloss.Style
	body  lipgloss.Style // Message style
}

var (
	statusSuccess = statusKind{"✓", lipgloss.NewStyle().Foreground(colorGreen), lipgloss.NewStyle()}
	statusError   = statusKind{"✗", lipgloss.NewStyle().Foreground(colorRed), lipgloss.NewStyle()}
	statusWarning = statusKind{"!", lipgloss.NewStyle().Foreground(colorYellow), StyleWarning}
	statusInfo    = statusKind{"›", lipgloss.NewStyle().Foreground(colorGray), lipgloss.NewStyle()}
)

func printStatus(k statusKind, format string, args ...any) {
	fmt.Fprintln(statusOut, k.style.Render(k.icon)+" "+k.body.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { printStatus(statusSuccess, format, args...) }
func printError(format string, args ...any)   { printStatus(statusError, format, args...) }
func printWarning(format string, args ...any) { printStatus(statusWarning, format, args...) }
func printInfo(format string, args ...any)    { printStatus(statusInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// keyValue renders a labeled value, or "" when value is empty.
func keyValue(key, value string) string {
	if value == "" {
		return ""
	}
	return styleKey.Render(key) + " " + StyleValue.Render(value)
}
