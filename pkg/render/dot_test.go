package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/cytopush/pkg/cyjs"
	"github.com/matzehuels/cytopush/pkg/style"
)

const subtree = `{"elements": {
  "nodes": [
    {"data": {"id": "topo", "name": "SpecifiedNetworkTopology"}},
    {"data": {"id": "n1", "name": "GatewayNode"}},
    {"data": {"id": "anon"}}
  ],
  "edges": [
    {"data": {"source": "n1", "target": "topo", "type": "is-contained-in"}},
    {"data": {"source": "anon", "target": "topo", "type": "is-based-on"}},
    {"data": {"source": "anon", "target": "n1", "type": "points-to"}}
  ]
}}`

func parse(t *testing.T, s string) *cyjs.Document {
	t.Helper()
	doc, err := cyjs.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(parse(t, subtree), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=BT;",
		`fillcolor="#00ddee"`,
		"shape=box",
		"arrowhead=normal",
		`"topo" [label="SpecifiedNetworkTopology"];`,
		`"anon" [label="anon"];`,
		`"n1" -> "topo" [color="blue", style=solid];`,
		`"anon" -> "topo" [color="red", style=dotted];`,
		`"anon" -> "n1";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTNodeOrder(t *testing.T) {
	dot := ToDOT(parse(t, subtree), Options{})
	iTopo := strings.Index(dot, `"topo" [`)
	iN1 := strings.Index(dot, `"n1" [`)
	iAnon := strings.Index(dot, `"anon" [`)
	if !(iTopo < iN1 && iN1 < iAnon) {
		t.Errorf("nodes out of document order:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(parse(t, subtree), Options{Detailed: true, RankDir: "TB"})
	for _, want := range []string{
		"rankdir=TB;",
		`"n1" [label="GatewayNode\nn1"];`,
		`"anon" [label="anon"];`,
		`label="is-contained-in"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTCustomStyle(t *testing.T) {
	st := style.Document{
		Title: "Custom",
		Defaults: []style.Default{
			{VisualProperty: "NODE_FILL_COLOR", Value: "#ffffff"},
			{VisualProperty: "NODE_SHAPE", Value: "ROUND_RECTANGLE"},
			{VisualProperty: "EDGE_TARGET_ARROW_SHAPE", Value: "NONE"},
		},
		Mappings: []style.Mapping{
			style.Discrete{
				Column: "type", ColumnType: "String", VisualProperty: "EDGE_LINE_TYPE",
				Map: []style.Entry{{Key: "is-contained-in", Value: "LONG_DASH"}},
			},
		},
	}
	dot := ToDOT(parse(t, subtree), Options{Style: &st})
	for _, want := range []string{
		`fillcolor="#ffffff"`,
		`style="filled,rounded"`,
		"arrowhead=none",
		`"n1" -> "topo" [style=dashed];`,
		`"anon" -> "topo";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestMappings(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{lineStyle, "DOT", "dotted"},
		{lineStyle, "EQUAL_DASH", "dashed"},
		{lineStyle, "SOLID", "solid"},
		{lineStyle, "ZIGZAG", "solid"},
		{color, "BLUE", "blue"},
		{color, "#00DDEE", "#00DDEE"},
	}
	for _, tt := range tests {
		if got := tt.fn(tt.in); got != tt.want {
			t.Errorf("map(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if shape, rounded := nodeShape("ellipse"); shape != "ellipse" || rounded {
		t.Errorf("nodeShape(ellipse) = %q, %v", shape, rounded)
	}
}

func TestWithDPI(t *testing.T) {
	got := withDPI("digraph G {\n}\n", 144)
	if !strings.HasPrefix(got, "digraph G {\n  dpi=144;") {
		t.Errorf("withDPI = %q", got)
	}
	if got := withDPI("garbage", 72); got != "garbage" {
		t.Errorf("withDPI without brace = %q", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg><g/></svg>")); string(got) != "<svg><g/></svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(ToDOT(parse(t, subtree), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("GatewayNode")) {
		t.Errorf("unexpected SVG output: %.200s", svg)
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(ToDOT(parse(t, subtree), Options{}), 1)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG: % x", png[:min(8, len(png))])
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	if _, err := RenderSVG("digraph {"); err == nil {
		t.Error("expected parse error")
	}
}
