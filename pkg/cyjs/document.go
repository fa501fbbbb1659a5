package cyjs

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Relation labels an edge. The model exporter emits the three values below.
type Relation string

const (
	// RelContainedIn marks the source node as nested inside the target node.
	RelContainedIn Relation = "is-contained-in"
	// RelBasedOn marks the source node as derived from the target node.
	RelBasedOn Relation = "is-based-on"
	// RelPointsTo is a named pointer from source to target.
	RelPointsTo Relation = "points-to"
)

// Extra holds JSON members that cytopush does not interpret.
type Extra map[string]json.RawMessage

// Document is a decoded .cyjs graph document.
type Document struct {
	FormatVersion string
	GeneratedBy   string
	TargetVersion string
	Data          map[string]any
	Elements      Elements
	Extra         Extra
}

// Elements holds the ordered node and edge sequences.
type Elements struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one entry of elements.nodes.
type Node struct {
	Data  NodeData
	Extra Extra // position, selected, classes, ...
}

// NodeData is the "data" mapping of a node.
type NodeData struct {
	ID    string
	Name  *string // nil when the node carries no string name
	Extra Extra
}

// Edge is one entry of elements.edges.
type Edge struct {
	Data  EdgeData
	Extra Extra
}

// EdgeData is the "data" mapping of an edge.
type EdgeData struct {
	ID     string // optional
	Source string
	Target string
	Type   Relation
	Extra  Extra // pname, interaction, ...
}

// HasName reports whether the node carries a string name.
func (n *Node) HasName() bool { return n.Data.Name != nil }

// NameIs reports whether the node's name equals name exactly.
// Nodes without a name never match.
func (n *Node) NameIs(name string) bool {
	return n.Data.Name != nil && *n.Data.Name == name
}

// Label returns the node's name, or its id if it has none.
func (n *Node) Label() string {
	if n.Data.Name != nil {
		return *n.Data.Name
	}
	return n.Data.ID
}

// Clone returns a copy of d with fresh node and edge slices.
// Element values are copied; their Extra maps are shared.
func (d *Document) Clone() *Document {
	out := *d
	out.Elements = Elements{
		Nodes: append([]Node(nil), d.Elements.Nodes...),
		Edges: append([]Edge(nil), d.Elements.Edges...),
	}
	return &out
}

// WithElements returns a copy of d whose elements are replaced by nodes and edges.
// Top-level metadata is kept.
func (d *Document) WithElements(nodes []Node, edges []Edge) *Document {
	out := *d
	out.Elements = Elements{Nodes: nodes, Edges: edges}
	return &out
}

// Node returns the first node with the given id.
func (d *Document) Node(id string) (*Node, bool) {
	for i := range d.Elements.Nodes {
		if d.Elements.Nodes[i].Data.ID == id {
			return &d.Elements.Nodes[i], true
		}
	}
	return nil, false
}

// =============================================================================
// JSON encoding
// =============================================================================

const (
	keyFormatVersion = "format_version"
	keyGeneratedBy   = "generated_by"
	keyTargetVersion = "target_cytoscapejs_version"
	keyData          = "data"
	keyElements      = "elements"
)

// UnmarshalJSON decodes a document, keeping unknown top-level members.
func (d *Document) UnmarshalJSON(b []byte) error {
	m, err := splitObject(b)
	if err != nil {
		return err
	}
	var out Document
	for key, dst := range map[string]*string{
		keyFormatVersion: &out.FormatVersion,
		keyGeneratedBy:   &out.GeneratedBy,
		keyTargetVersion: &out.TargetVersion,
	} {
		if _, err := takeString(m, key, dst); err != nil {
			return err
		}
	}
	if raw, ok := m[keyData]; ok {
		delete(m, keyData)
		if err := json.Unmarshal(raw, &out.Data); err != nil {
			return fmt.Errorf("data: %w", err)
		}
	}
	raw, ok := m[keyElements]
	if !ok {
		return fmt.Errorf("missing %q", keyElements)
	}
	delete(m, keyElements)
	if isNull(raw) {
		return fmt.Errorf("%q is null", keyElements)
	}
	if err := json.Unmarshal(raw, &out.Elements); err != nil {
		return fmt.Errorf("elements: %w", err)
	}
	out.Extra = nonEmpty(m)
	*d = out
	return nil
}

// MarshalJSON encodes a document, re-emitting preserved members.
func (d Document) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+5)
	for k, v := range d.Extra {
		m[k] = v
	}
	putString(m, keyFormatVersion, d.FormatVersion)
	putString(m, keyGeneratedBy, d.GeneratedBy)
	putString(m, keyTargetVersion, d.TargetVersion)
	if d.Data != nil {
		m[keyData] = d.Data
	}
	m[keyElements] = d.Elements
	return json.Marshal(m)
}

// MarshalJSON always emits both arrays, never null.
func (e Elements) MarshalJSON() ([]byte, error) {
	type elements Elements
	out := elements(e)
	if out.Nodes == nil {
		out.Nodes = []Node{}
	}
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a node element.
func (n *Node) UnmarshalJSON(b []byte) error {
	m, err := splitObject(b)
	if err != nil {
		return err
	}
	raw, ok := m[keyData]
	if !ok {
		return fmt.Errorf("node without %q", keyData)
	}
	delete(m, keyData)
	var out Node
	if err := json.Unmarshal(raw, &out.Data); err != nil {
		return err
	}
	out.Extra = nonEmpty(m)
	*n = out
	return nil
}

// MarshalJSON encodes a node element.
func (n Node) MarshalJSON() ([]byte, error) {
	return marshalElement(n.Extra, n.Data)
}

// UnmarshalJSON decodes node data.
func (d *NodeData) UnmarshalJSON(b []byte) error {
	m, err := splitObject(b)
	if err != nil {
		return err
	}
	var out NodeData
	if _, err := takeString(m, "id", &out.ID); err != nil {
		return err
	}
	if raw, ok := m["name"]; ok {
		var name string
		// Non-string names stay in Extra and never match a lookup.
		if json.Unmarshal(raw, &name) == nil && !isNull(raw) {
			out.Name = &name
			delete(m, "name")
		}
	}
	out.Extra = nonEmpty(m)
	*d = out
	return nil
}

// MarshalJSON encodes node data.
func (d NodeData) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+2)
	for k, v := range d.Extra {
		m[k] = v
	}
	m["id"] = d.ID
	if d.Name != nil {
		m["name"] = *d.Name
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes an edge element.
func (e *Edge) UnmarshalJSON(b []byte) error {
	m, err := splitObject(b)
	if err != nil {
		return err
	}
	raw, ok := m[keyData]
	if !ok {
		return fmt.Errorf("edge without %q", keyData)
	}
	delete(m, keyData)
	var out Edge
	if err := json.Unmarshal(raw, &out.Data); err != nil {
		return err
	}
	out.Extra = nonEmpty(m)
	*e = out
	return nil
}

// MarshalJSON encodes an edge element.
func (e Edge) MarshalJSON() ([]byte, error) {
	return marshalElement(e.Extra, e.Data)
}

// UnmarshalJSON decodes edge data.
func (d *EdgeData) UnmarshalJSON(b []byte) error {
	m, err := splitObject(b)
	if err != nil {
		return err
	}
	var out EdgeData
	var typ string
	for key, dst := range map[string]*string{
		"id":     &out.ID,
		"source": &out.Source,
		"target": &out.Target,
		"type":   &typ,
	} {
		if _, err := takeString(m, key, dst); err != nil {
			return err
		}
	}
	out.Type = Relation(typ)
	out.Extra = nonEmpty(m)
	*d = out
	return nil
}

// MarshalJSON encodes edge data. An empty id is omitted.
func (d EdgeData) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Extra)+4)
	for k, v := range d.Extra {
		m[k] = v
	}
	putString(m, "id", d.ID)
	m["source"] = d.Source
	m["target"] = d.Target
	m["type"] = string(d.Type)
	return json.Marshal(m)
}

func marshalElement(extra Extra, data any) ([]byte, error) {
	m := make(map[string]any, len(extra)+1)
	for k, v := range extra {
		m[k] = v
	}
	m[keyData] = data
	return json.Marshal(m)
}

func splitObject(b []byte) (map[string]json.RawMessage, error) {
	if isNull(b) {
		return nil, fmt.Errorf("expected object, got null")
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// takeString removes key from m and decodes it into dst.
// A missing or null member leaves dst untouched.
func takeString(m map[string]json.RawMessage, key string, dst *string) (bool, error) {
	raw, ok := m[key]
	if !ok {
		return false, nil
	}
	delete(m, key)
	if isNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("%s: must be a string", key)
	}
	return true, nil
}

func putString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

func nonEmpty(m map[string]json.RawMessage) Extra {
	if len(m) == 0 {
		return nil
	}
	return Extra(m)
}
