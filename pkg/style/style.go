package style

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/cytopush/pkg/errors"
)

// DefaultTitle is the title of the built-in style.
const DefaultTitle = "My Visual Style"

// Mapping types as they appear in the "mappingType" member.
const (
	TypeDiscrete    = "discrete"
	TypePassthrough = "passthrough"
)

// Document is a CyREST visual style.
type Document struct {
	Title    string
	Defaults []Default
	Mappings []Mapping
}

// Default sets a visual property to a fixed value.
type Default struct {
	VisualProperty string `json:"visualProperty" yaml:"visualProperty" toml:"visualProperty"`
	Value          any    `json:"value" yaml:"value" toml:"value"`
}

// Mapping is a column-driven rule. It is implemented by [Discrete] and
// [Passthrough] only.
type Mapping interface {
	Type() string
	Property() string
	validate() error
}

// Entry is one row of a discrete mapping table.
type Entry struct {
	Key   string `json:"key" yaml:"key" toml:"key"`
	Value string `json:"value" yaml:"value" toml:"value"`
}

// Discrete maps explicit column values to property values.
type Discrete struct {
	Column         string
	ColumnType     string
	VisualProperty string
	Map            []Entry
}

// Passthrough copies the column value into the property.
type Passthrough struct {
	Column         string
	ColumnType     string
	VisualProperty string
}

func (Discrete) Type() string          { return TypeDiscrete }
func (d Discrete) Property() string    { return d.VisualProperty }
func (Passthrough) Type() string       { return TypePassthrough }
func (p Passthrough) Property() string { return p.VisualProperty }

func (d Discrete) validate() error {
	if d.Column == "" || d.VisualProperty == "" {
		return fmt.Errorf("discrete mapping needs mappingColumn and visualProperty")
	}
	if len(d.Map) == 0 {
		return fmt.Errorf("discrete mapping for %s has no entries", d.VisualProperty)
	}
	for i, e := range d.Map {
		if e.Key == "" {
			return fmt.Errorf("discrete mapping for %s: entry %d has no key", d.VisualProperty, i)
		}
	}
	return nil
}

func (p Passthrough) validate() error {
	if p.Column == "" || p.VisualProperty == "" {
		return fmt.Errorf("passthrough mapping needs mappingColumn and visualProperty")
	}
	return nil
}

// Validate reports the first structural problem in the style.
func (d *Document) Validate() error {
	if d.Title == "" {
		return errors.New(errors.ErrCodeInvalidStyle, "style title cannot be empty")
	}
	for i, def := range d.Defaults {
		if def.VisualProperty == "" {
			return errors.New(errors.ErrCodeInvalidStyle, "default %d: missing visualProperty", i)
		}
		if def.Value == nil {
			return errors.New(errors.ErrCodeInvalidStyle, "default %s: missing value", def.VisualProperty)
		}
	}
	for i, m := range d.Mappings {
		if m == nil {
			return errors.New(errors.ErrCodeInvalidStyle, "mapping %d: nil", i)
		}
		if err := m.validate(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidStyle, err, "mapping %d", i)
		}
	}
	return nil
}

// Builtin returns the built-in containment style. Each call builds a new
// value, so callers may modify the result freely.
func Builtin() Document {
	return Document{
		Title: DefaultTitle,
		Defaults: []Default{
			{VisualProperty: "EDGE_WIDTH", Value: 1.0},
			{VisualProperty: "EDGE_CURVED", Value: "True"},
			{VisualProperty: "NODE_WIDTH", Value: 100},
			{VisualProperty: "NODE_FILL_COLOR", Value: "#00ddee"},
			{VisualProperty: "NODE_BORDER_WIDTH", Value: 1},
			{VisualProperty: "EDGE_TRANSPARENCY", Value: 400},
			{VisualProperty: "EDGE_TARGET_ARROW_SHAPE", Value: "DELTA"},
			{VisualProperty: "NODE_SHAPE", Value: "RECTANGLE"},
		},
		Mappings: []Mapping{
			Discrete{
				Column:         "type",
				ColumnType:     "String",
				VisualProperty: "EDGE_STROKE_UNSELECTED_PAINT",
				Map: []Entry{
					{Key: "is-based-on", Value: "RED"},
					{Key: "is-contained-in", Value: "BLUE"},
				},
			},
			Discrete{
				Column:         "type",
				ColumnType:     "String",
				VisualProperty: "EDGE_LINE_TYPE",
				Map: []Entry{
					{Key: "is-contained-in", Value: "SOLID"},
					{Key: "is-based-on", Value: "DOT"},
				},
			},
			Passthrough{
				Column:         "name",
				ColumnType:     "String",
				VisualProperty: "NODE_LABEL",
			},
		},
	}
}

// Clone returns a copy of d that shares no slices with it. Default values
// are copied as-is.
func (d Document) Clone() Document {
	c := Document{Title: d.Title}
	if d.Defaults != nil {
		c.Defaults = append([]Default(nil), d.Defaults...)
	}
	if d.Mappings != nil {
		c.Mappings = make([]Mapping, len(d.Mappings))
		for i, m := range d.Mappings {
			if dm, ok := m.(Discrete); ok {
				dm.Map = append([]Entry(nil), dm.Map...)
				m = dm
			}
			c.Mappings[i] = m
		}
	}
	return c
}

// DefaultValue returns the default set for property, if any.
func (d *Document) DefaultValue(property string) (any, bool) {
	for _, def := range d.Defaults {
		if def.VisualProperty == property {
			return def.Value, true
		}
	}
	return nil, false
}

// Lookup returns the discrete value mapped to key for property, if any.
func (d *Document) Lookup(property, key string) (string, bool) {
	for _, m := range d.Mappings {
		dm, ok := m.(Discrete)
		if !ok || dm.VisualProperty != property {
			continue
		}
		for _, e := range dm.Map {
			if e.Key == key {
				return e.Value, true
			}
		}
	}
	return "", false
}

// =============================================================================
// JSON encoding
// =============================================================================

type documentJSON struct {
	Title    string            `json:"title"`
	Defaults []Default         `json:"defaults"`
	Mappings []json.RawMessage `json:"mappings"`
}

// mappingJSON is the wire form shared by both mapping variants.
type mappingJSON struct {
	MappingType       string  `json:"mappingType" yaml:"mappingType" toml:"mappingType"`
	MappingColumn     string  `json:"mappingColumn" yaml:"mappingColumn" toml:"mappingColumn"`
	MappingColumnType string  `json:"mappingColumnType" yaml:"mappingColumnType" toml:"mappingColumnType"`
	VisualProperty    string  `json:"visualProperty" yaml:"visualProperty" toml:"visualProperty"`
	Map               []Entry `json:"map,omitempty" yaml:"map,omitempty" toml:"map,omitempty"`
}

// MarshalJSON encodes the style in the CyREST wire format.
func (d Document) MarshalJSON() ([]byte, error) {
	out := documentJSON{
		Title:    d.Title,
		Defaults: d.Defaults,
		Mappings: make([]json.RawMessage, 0, len(d.Mappings)),
	}
	if out.Defaults == nil {
		out.Defaults = []Default{}
	}
	for i, m := range d.Mappings {
		raw, err := marshalMapping(m)
		if err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}
		out.Mappings = append(out.Mappings, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a style from the CyREST wire format.
func (d *Document) UnmarshalJSON(b []byte) error {
	var in documentJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	out := Document{Title: in.Title, Defaults: in.Defaults}
	for i, raw := range in.Mappings {
		var mj mappingJSON
		if err := json.Unmarshal(raw, &mj); err != nil {
			return fmt.Errorf("mapping %d: %w", i, err)
		}
		m, err := mj.mapping()
		if err != nil {
			return fmt.Errorf("mapping %d: %w", i, err)
		}
		out.Mappings = append(out.Mappings, m)
	}
	*d = out
	return nil
}

func marshalMapping(m Mapping) (json.RawMessage, error) {
	var mj mappingJSON
	switch v := m.(type) {
	case Discrete:
		mj = mappingJSON{TypeDiscrete, v.Column, v.ColumnType, v.VisualProperty, v.Map}
	case Passthrough:
		mj = mappingJSON{TypePassthrough, v.Column, v.ColumnType, v.VisualProperty, nil}
	default:
		return nil, fmt.Errorf("unsupported mapping %T", m)
	}
	return json.Marshal(mj)
}

func (mj mappingJSON) mapping() (Mapping, error) {
	switch mj.MappingType {
	case TypeDiscrete:
		return Discrete{
			Column:         mj.MappingColumn,
			ColumnType:     mj.MappingColumnType,
			VisualProperty: mj.VisualProperty,
			Map:            mj.Map,
		}, nil
	case TypePassthrough:
		return Passthrough{
			Column:         mj.MappingColumn,
			ColumnType:     mj.MappingColumnType,
			VisualProperty: mj.VisualProperty,
		}, nil
	default:
		return nil, fmt.Errorf("unknown mappingType %q", mj.MappingType)
	}
}
