package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/cytopush/pkg/cyjs"
	"github.com/matzehuels/cytopush/pkg/style"
)

// Visual properties read from the style.
const (
	propEdgePaint   = "EDGE_STROKE_UNSELECTED_PAINT"
	propEdgeLine    = "EDGE_LINE_TYPE"
	propNodeFill    = "NODE_FILL_COLOR"
	propNodeShape   = "NODE_SHAPE"
	propTargetArrow = "EDGE_TARGET_ARROW_SHAPE"
)

// Options configures DOT generation.
type Options struct {
	// Style supplies colours and shapes. Nil uses [style.Builtin].
	Style *style.Document

	// RankDir overrides the Graphviz rank direction (default "BT").
	RankDir string

	// Detailed adds the node id and edge type to labels.
	Detailed bool
}

// ToDOT converts doc to Graphviz DOT source.
// The result can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(doc *cyjs.Document, opts Options) string {
	st := opts.Style
	if st == nil {
		d := style.Builtin()
		st = &d
	}
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "BT"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [%s];\n", strings.Join(nodeDefaults(st), ", "))
	fmt.Fprintf(&buf, "  edge [arrowhead=%s];\n", arrowHead(st))
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for i := range doc.Elements.Nodes {
		n := &doc.Elements.Nodes[i]
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.Data.ID, nodeLabel(n, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, e := range doc.Elements.Edges {
		attrs := edgeAttrs(st, e, opts.Detailed)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Data.Source, e.Data.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Data.Source, e.Data.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *cyjs.Node, detailed bool) string {
	label := n.Label()
	if detailed && n.HasName() {
		label += "\n" + n.Data.ID
	}
	return label
}

func nodeDefaults(st *style.Document) []string {
	attrs := []string{"fontsize=14", "margin=\"0.2,0.1\""}

	shape, rounded := "box", false
	if v, ok := st.DefaultValue(propNodeShape); ok {
		shape, rounded = nodeShape(fmt.Sprint(v))
	}
	attrs = append(attrs, "shape="+shape)

	styles := []string{"filled"}
	if rounded {
		styles = append(styles, "rounded")
	}
	attrs = append(attrs, fmt.Sprintf("style=%q", strings.Join(styles, ",")))

	fill := "white"
	if v, ok := st.DefaultValue(propNodeFill); ok {
		fill = color(fmt.Sprint(v))
	}
	return append(attrs, fmt.Sprintf("fillcolor=%q", fill))
}

func edgeAttrs(st *style.Document, e cyjs.Edge, detailed bool) []string {
	var attrs []string
	key := string(e.Data.Type)
	if v, ok := st.Lookup(propEdgePaint, key); ok {
		attrs = append(attrs, fmt.Sprintf("color=%q", color(v)))
	}
	if v, ok := st.Lookup(propEdgeLine, key); ok {
		attrs = append(attrs, "style="+lineStyle(v))
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=%q", key), "fontsize=10")
	}
	return attrs
}

func arrowHead(st *style.Document) string {
	v, ok := st.DefaultValue(propTargetArrow)
	if !ok {
		return "normal"
	}
	switch strings.ToUpper(fmt.Sprint(v)) {
	case "NONE":
		return "none"
	case "T":
		return "tee"
	case "ARROW":
		return "vee"
	case "CIRCLE":
		return "dot"
	case "DIAMOND":
		return "diamond"
	default:
		return "normal"
	}
}

// nodeShape maps a Cytoscape node shape to a Graphviz shape.
func nodeShape(v string) (shape string, rounded bool) {
	switch strings.ToUpper(v) {
	case "ELLIPSE":
		return "ellipse", false
	case "ROUND_RECTANGLE":
		return "box", true
	case "DIAMOND":
		return "diamond", false
	case "TRIANGLE":
		return "triangle", false
	case "HEXAGON":
		return "hexagon", false
	case "OCTAGON":
		return "octagon", false
	default:
		return "box", false
	}
}

func lineStyle(v string) string {
	switch strings.ToUpper(v) {
	case "DOT":
		return "dotted"
	case "LONG_DASH", "EQUAL_DASH", "DASH_DOT":
		return "dashed"
	default:
		return "solid"
	}
}

// color keeps hex colours and lowercases named ones.
func color(v string) string {
	if strings.HasPrefix(v, "#") {
		return v
	}
	return strings.ToLower(v)
}
