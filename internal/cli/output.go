package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pkgscan/pkg/packages"
	"github.com/matzehuels/pkgscan/pkg/scan"
)

// packageView renders one package as a titled block of key/value lines
// followed by its dependency tables.
func packageView(p *packages.Package) string {
	var b strings.Builder

	title := StyleTitle.Render(p.Name)
	if p.Version != "" {
		title += " " + StyleHighlight.Render(p.Version)
	}
	b.WriteString(title + "\n")
	if p.Summary != "" {
		b.WriteString(StyleDim.Render(p.Summary) + "\n")
	}
	b.WriteString("\n")

	lines := []string{
		keyValue("Type", p.Type),
		keyValue("PURL", p.PackageURL()),
		keyValue("Licenses", licenses(p)),
		keyValue("Keywords", strings.Join(p.Keywords, ", ")),
		link("Homepage", p.HomepageURL),
		link("Repository", repository(p)),
		link("Issues", p.BugTrackingURL),
		link("Source", p.CodeViewURL),
		keyValue("Support", supportContacts(p)),
		keyValue("Manifest", strings.Join(p.MetafileLocations, ", ")),
	}
	for _, l := range lines {
		if l != "" {
			b.WriteString(l + "\n")
		}
	}

	if len(p.Authors) > 0 {
		b.WriteString("\n" + styleHeader.Render("Authors") + "\n")
		for _, a := range p.Authors {
			b.WriteString("  " + partyLine(a) + "\n")
		}
	}

	for _, kind := range []packages.DependencyKind{packages.DependencyRuntime, packages.DependencyDev} {
		deps := p.Dependencies[kind]
		if len(deps) == 0 {
			continue
		}
		b.WriteString("\n" + styleHeader.Render(dependencyHeading(kind, len(deps))) + "\n")
		b.WriteString(dependencyTable(deps) + "\n")
	}
	return b.String()
}

func dependencyHeading(kind packages.DependencyKind, n int) string {
	name := "Dependencies"
	if kind == packages.DependencyDev {
		name = "Dev dependencies"
	}
	return fmt.Sprintf("%s (%d)", name, n)
}

func dependencyTable(deps []packages.Dependency) string {
	rows := make([][]string, len(deps))
	for i, d := range deps {
		rows[i] = []string{d.Name, d.VersionConstraint}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Package", "Constraint").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 1 {
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

// reportTable renders one row per package with paths relative to the
// scan root.
func reportTable(r *scan.Report) string {
	rows := make([][]string, len(r.Packages))
	for i, p := range r.Packages {
		runtime, dev := len(p.Dependencies[packages.DependencyRuntime]), len(p.Dependencies[packages.DependencyDev])
		rows[i] = []string{
			p.Name,
			orDash(p.Version),
			orDash(licenses(p)),
			fmt.Sprintf("%d / %d", runtime, dev),
			relPath(r.Root, firstManifest(p)),
		}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Package", "Version", "License", "Deps / Dev", "Manifest").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case col == 0:
				return StyleHighlight
			case col == 3:
				return StyleNumber
			case col == 4:
				return StyleDim
			default:
				return StyleValue
			}
		}).
		Render()
}

// printReport prints a scan summary, the package table and any per-file
// errors.
func printReport(r *scan.Report) {
	if len(r.Packages) == 0 {
		printWarning("No packages found in %s", r.Root)
	} else {
		printSuccess("Found %d packages with %d declared dependencies", len(r.Packages), r.DependencyCount())
		fmt.Fprintln(statusOut, reportTable(r))
	}
	printDetail("%d manifests · %d skipped · %d cached · %s",
		r.Stats.Candidates, r.Stats.Skipped, r.Stats.CacheHits, r.Duration.Round(time.Millisecond))
	for _, e := range r.Errors {
		printError("%s: %s", relPath(r.Root, e.Path), e.Message)
	}
}

func licenses(p *packages.Package) string {
	names := make([]string, len(p.AssertedLicenses))
	for i, l := range p.AssertedLicenses {
		names[i] = l.License
	}
	return strings.Join(names, ", ")
}

func repository(p *packages.Package) string {
	if p.VCSRepository == "" {
		return ""
	}
	return p.VCSRepository + " (" + p.VCSTool + ")"
}

func supportContacts(p *packages.Package) string {
	var out []string
	for _, c := range p.SupportContacts {
		if c != nil {
			out = append(out, *c)
		}
	}
	return strings.Join(out, ", ")
}

func partyLine(a packages.Party) string {
	var parts []string
	if a.Name != nil {
		parts = append(parts, StyleValue.Render(*a.Name))
	}
	if a.Email != nil {
		parts = append(parts, StyleDim.Render("<"+*a.Email+">"))
	}
	if a.URL != nil {
		parts = append(parts, StyleLink.Render(*a.URL))
	}
	if len(parts) == 0 {
		return StyleDim.Render("(anonymous)")
	}
	return strings.Join(parts, " ")
}

func link(key, url string) string {
	if url == "" {
		return ""
	}
	return styleKey.Render(key) + " " + StyleLink.Render(url)
}

func firstManifest(p *packages.Package) string {
	if len(p.MetafileLocations) == 0 {
		return p.Location
	}
	return p.MetafileLocations[0]
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
