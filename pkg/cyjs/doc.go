// Package cyjs reads, validates and writes Cytoscape.js graph-exchange
// documents (.cyjs files).
//
// # Overview
//
// A .cyjs document is a mapping with an "elements" key holding two ordered
// sequences, "nodes" and "edges". Every element keeps its attributes under a
// "data" sub-mapping:
//
//	{
//	  "format_version": "1.0",
//	  "generated_by": "immortals-0.1.0",
//	  "target_cytoscapejs_version": "~2.1",
//	  "data": {"name": "immortals.sif"},
//	  "elements": {
//	    "nodes": [
//	      {"data": {"id": "A", "name": "Root"}},
//	      {"data": {"id": "B", "name": "Child"}}
//	    ],
//	    "edges": [
//	      {"data": {"id": "e1", "source": "B", "target": "A", "type": "is-contained-in"}}
//	    ]
//	  }
//	}
//
// # Typed fields
//
// Only the fields cytopush acts on are typed: node id and name, and edge id,
// source, target and type. Everything else (node attributes, positions,
// "pname" on points-to edges, top-level annotations) is carried through
// untouched in Extra maps, so a document decoded and re-encoded keeps every
// key the producer wrote.
//
// # Validation
//
// [ReadJSON] and [ImportJSON] validate after decoding and fail fast with an
// [errors.ErrCodeInvalidGraph] error naming the offending element:
//
//   - "elements" must be present
//   - every node needs a non-empty string id, unique within the document
//   - every edge needs source, target and type
//   - edge endpoints must reference existing node ids
//
// Edge ids are optional because the model exporter omits them.
//
// [errors.ErrCodeInvalidGraph]: github.com/matzehuels/cytopush/pkg/errors
package cyjs
