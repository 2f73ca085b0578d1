// Package render writes recognized packages in machine- and human-facing
// formats.
//
// [WriteJSON] emits packages or scan reports as indented JSON. [ToDOT]
// turns packages and their declared dependencies into a Graphviz digraph,
// which [RenderSVG] lays out with the embedded Graphviz engine:
//
//	dot := render.ToDOT(pkgs, render.Options{IncludeDev: true})
//	svg, err := render.RenderSVG(ctx, dot)
package render
