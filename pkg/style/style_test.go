package style

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/cytopush/pkg/errors"
)

const defaultWire = `{
  "title": "My Visual Style",
  "defaults": [
    {"visualProperty": "EDGE_WIDTH", "value": 1.0},
    {"visualProperty": "EDGE_CURVED", "value": "True"},
    {"visualProperty": "NODE_WIDTH", "value": 100},
    {"visualProperty": "NODE_FILL_COLOR", "value": "#00ddee"},
    {"visualProperty": "NODE_BORDER_WIDTH", "value": 1},
    {"visualProperty": "EDGE_TRANSPARENCY", "value": 400},
    {"visualProperty": "EDGE_TARGET_ARROW_SHAPE", "value": "DELTA"},
    {"visualProperty": "NODE_SHAPE", "value": "RECTANGLE"}
  ],
  "mappings": [
    {
      "mappingType": "discrete",
      "mappingColumn": "type",
      "mappingColumnType": "String",
      "visualProperty": "EDGE_STROKE_UNSELECTED_PAINT",
      "map": [{"key": "is-based-on", "value": "RED"}, {"key": "is-contained-in", "value": "BLUE"}]
    },
    {
      "mappingType": "discrete",
      "mappingColumn": "type",
      "mappingColumnType": "String",
      "visualProperty": "EDGE_LINE_TYPE",
      "map": [{"key": "is-contained-in", "value": "SOLID"}, {"key": "is-based-on", "value": "DOT"}]
    },
    {
      "mappingType": "passthrough",
      "mappingColumn": "name",
      "mappingColumnType": "String",
      "visualProperty": "NODE_LABEL"
    }
  ]
}`

func generic(t *testing.T, data []byte) any {
	t.Helper()
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return v
}

func TestBuiltinWireFormat(t *testing.T) {
	data, err := json.Marshal(Builtin())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if got, want := generic(t, data), generic(t, []byte(defaultWire)); !reflect.DeepEqual(got, want) {
		t.Errorf("Builtin() wire form =\n%s\nwant\n%s", data, defaultWire)
	}
}

func TestBuiltinIsFreshCopy(t *testing.T) {
	a := Builtin()
	a.Title = "changed"
	a.Defaults[0].Value = 9.0
	a.Mappings = nil

	b := Builtin()
	if b.Title != DefaultTitle || b.Defaults[0].Value != 1.0 || len(b.Mappings) != 3 {
		t.Error("Builtin() shares state between calls")
	}
}

func TestBuiltinValidates(t *testing.T) {
	d := Builtin()
	if err := d.Validate(); err != nil {
		t.Errorf("Builtin().Validate() error: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := json.Marshal(Builtin())
	if err != nil {
		t.Fatal(err)
	}
	var back Document
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if len(back.Mappings) != 3 {
		t.Fatalf("mappings = %d, want 3", len(back.Mappings))
	}
	if _, ok := back.Mappings[0].(Discrete); !ok {
		t.Errorf("mapping 0 = %T, want Discrete", back.Mappings[0])
	}
	if p, ok := back.Mappings[2].(Passthrough); !ok || p.Column != "name" {
		t.Errorf("mapping 2 = %#v, want name passthrough", back.Mappings[2])
	}
	if !reflect.DeepEqual(back.Mappings, Builtin().Mappings) {
		t.Error("mappings changed in round trip")
	}
}

func TestUnmarshalUnknownMapping(t *testing.T) {
	var d Document
	err := json.Unmarshal([]byte(`{"title": "x", "mappings": [{"mappingType": "continuous"}]}`), &d)
	if err == nil || !strings.Contains(err.Error(), "continuous") {
		t.Errorf("Unmarshal() error = %v, want unknown mappingType", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantErr string
	}{
		{"no title", Document{}, "title"},
		{"default without property", Document{Title: "t", Defaults: []Default{{Value: 1}}}, "default 0"},
		{"default without value", Document{Title: "t", Defaults: []Default{{VisualProperty: "NODE_SHAPE"}}}, "missing value"},
		{"nil mapping", Document{Title: "t", Mappings: []Mapping{nil}}, "mapping 0"},
		{"empty discrete", Document{Title: "t", Mappings: []Mapping{Discrete{Column: "type", VisualProperty: "EDGE_LINE_TYPE"}}}, "no entries"},
		{"discrete without key", Document{Title: "t", Mappings: []Mapping{Discrete{Column: "type", VisualProperty: "P", Map: []Entry{{Value: "x"}}}}}, "no key"},
		{"passthrough without column", Document{Title: "t", Mappings: []Mapping{Passthrough{VisualProperty: "NODE_LABEL"}}}, "mappingColumn"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if err == nil {
				t.Fatal("Validate() expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("code = %v, want INVALID_STYLE", errors.GetCode(err))
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	d := Builtin()
	if v, ok := d.Lookup("EDGE_STROKE_UNSELECTED_PAINT", "is-contained-in"); !ok || v != "BLUE" {
		t.Errorf("Lookup(paint, contained) = %q, %v", v, ok)
	}
	if v, ok := d.Lookup("EDGE_LINE_TYPE", "is-based-on"); !ok || v != "DOT" {
		t.Errorf("Lookup(line, based) = %q, %v", v, ok)
	}
	if _, ok := d.Lookup("EDGE_LINE_TYPE", "points-to"); ok {
		t.Error("Lookup(line, points-to) should miss")
	}
	if _, ok := d.Lookup("NODE_LABEL", "name"); ok {
		t.Error("Lookup on passthrough property should miss")
	}
}

func TestDefaultValue(t *testing.T) {
	d := Builtin()
	if v, ok := d.DefaultValue("NODE_FILL_COLOR"); !ok || v != "#00ddee" {
		t.Errorf("DefaultValue(fill) = %v, %v", v, ok)
	}
	if _, ok := d.DefaultValue("NODE_HEIGHT"); ok {
		t.Error("DefaultValue(NODE_HEIGHT) should miss")
	}
}

func TestClone(t *testing.T) {
	orig := Builtin()
	c := orig.Clone()
	if !reflect.DeepEqual(c, orig) {
		t.Fatal("Clone() differs from the original")
	}

	orig.Defaults[3].Value = "#ff0000"
	d := orig.Mappings[0].(Discrete)
	d.Map[0].Value = "GREEN"
	orig.Mappings[1] = Passthrough{Column: "x", VisualProperty: "EDGE_LINE_TYPE"}

	if v, _ := c.DefaultValue("NODE_FILL_COLOR"); v != "#00ddee" {
		t.Errorf("clone fill = %v, want #00ddee", v)
	}
	if v, _ := c.Lookup("EDGE_STROKE_UNSELECTED_PAINT", "is-based-on"); v != "RED" {
		t.Errorf("clone paint = %q, want RED", v)
	}
	if _, ok := c.Mappings[1].(Discrete); !ok {
		t.Errorf("clone mapping 1 = %T, want Discrete", c.Mappings[1])
	}
}
