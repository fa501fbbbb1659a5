// Package containment reduces a graph document to the direct containment
// children of one named node.
//
// # Overview
//
// Model exports describe nesting with "is-contained-in" edges that point
// from a child (source) to its parent (target). [Filter] looks up the
// parent by name and keeps:
//
//   - the parent node itself, first
//   - every node that is the source of an is-contained-in edge targeting it,
//     in original node order
//   - those qualifying edges, in original edge order
//
// Edges of other relations (is-based-on, points-to) and containment edges
// leaving the parent are never included.
//
// # Empty results
//
// A name that matches no node always yields an empty [Result]. A parent
// without qualifying children is governed by [Policy]:
// [PolicyEmptyIfChildless] (the default) treats it as empty too, while
// [PolicyKeepChildless] returns the parent alone with no edges.
//
// # Purity
//
// Filter never mutates its input. Element values are reused, and the
// returned document carries new node and edge slices.
package containment
