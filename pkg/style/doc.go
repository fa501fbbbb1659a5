// Package style models CyREST visual style documents.
//
// A visual style is a named set of rendering rules applied to a network on
// the server: a list of [Default] property values plus column-driven
// [Mapping] rules. Mappings come in two variants:
//
//   - [Discrete]: a table from column values to property values
//   - [Passthrough]: the column value is used as the property value
//
// [Builtin] returns the built-in containment style: blue solid edges for
// is-contained-in, red dotted edges for is-based-on, cyan rectangles
// labelled with the node name.
//
// Custom styles can be loaded from JSON, YAML or TOML files with [Load].
package style
