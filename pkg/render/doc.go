// Package render draws graph documents locally with Graphviz.
//
// # Overview
//
// A filtered containment subtree can be inspected without a running
// Cytoscape desktop. [ToDOT] converts a [cyjs.Document] to Graphviz DOT,
// taking colours, line types, node shape and arrow heads from a
// [style.Document] so the preview resembles what the server will show:
//
//	dot := render.ToDOT(result.Doc, render.Options{})
//	svg, err := render.RenderSVG(dot)
//	png, err := render.RenderPNG(dot, 2.0)  // 2x scale
//
// # Layout
//
// Containment edges point from child to parent, so the default rank
// direction is bottom-to-top (rankdir=BT) and the root ends up on top.
//
// # Dependencies
//
// Rendering runs in-process via [github.com/goccy/go-graphviz]; no
// external Graphviz installation is required.
package render
