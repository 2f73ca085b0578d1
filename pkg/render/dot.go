package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pkgscan/pkg/packages"
)

// Options configures dependency graph rendering.
type Options struct {
	// IncludeDev adds development dependencies as dashed edges.
	IncludeDev bool
	// Detailed adds versions to package labels and constraints to edges.
	Detailed bool
}

// ToDOT converts packages and their dependencies to Graphviz DOT.
//
// Each package and each distinct dependency name becomes one node, so a
// dependency on another package in the set links the two. Platform
// requirements such as "php" or "ext-json" (names without a vendor) are
// drawn greyed out.
func ToDOT(pkgs []*packages.Package, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	seen := make(map[string]bool)
	for _, p := range pkgs {
		seen[p.Name] = true
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#dbeafe\", penwidth=2];\n", p.Name, packageLabel(p, opts.Detailed))
	}

	var edges []string
	for _, p := range pkgs {
		for _, kind := range kinds(opts.IncludeDev) {
			for _, d := range p.Dependencies[kind] {
				if !seen[d.Name] {
					seen[d.Name] = true
					fmt.Fprintf(&buf, "  %q [%s];\n", d.Name, strings.Join(depAttrs(d.Name), ", "))
				}
				edges = append(edges, fmt.Sprintf("  %q -> %q [%s];", p.Name, d.Name, strings.Join(edgeAttrs(kind, d, opts.Detailed), ", ")))
			}
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.String()
}

func kinds(includeDev bool) []packages.DependencyKind {
	if includeDev {
		return []packages.DependencyKind{packages.DependencyRuntime, packages.DependencyDev}
	}
	return []packages.DependencyKind{packages.DependencyRuntime}
}

func packageLabel(p *packages.Package, detailed bool) string {
	if !detailed || p.Version == "" {
		return p.Name
	}
	return p.Name + "\n" + p.Version
}

// isPlatform reports whether name is a platform requirement rather than a
// vendor/package name.
func isPlatform(name string) bool {
	return !strings.Contains(name, "/")
}

func depAttrs(name string) []string {
	attrs := []string{fmt.Sprintf("label=%q", name)}
	if isPlatform(name) {
		attrs = append(attrs, "fillcolor=lightgrey", "fontcolor=\"#555555\"")
	}
	return attrs
}

func edgeAttrs(kind packages.DependencyKind, d packages.Dependency, detailed bool) []string {
	var attrs []string
	if detailed && d.VersionConstraint != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", d.VersionConstraint), "fontsize=10")
	}
	if kind == packages.DependencyDev {
		attrs = append(attrs, "style=dashed", "color=\"#888888\"")
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "color=black")
	}
	return attrs
}

// RenderSVG lays out a DOT graph and returns it as SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// that scales to its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
