package containment

import (
	"fmt"

	"github.com/matzehuels/cytopush/pkg/cyjs"
)

// Policy decides what a matched node without children produces.
type Policy int

const (
	// PolicyEmptyIfChildless returns an empty result when the matched node
	// has no qualifying children.
	PolicyEmptyIfChildless Policy = iota
	// PolicyKeepChildless returns the matched node alone.
	PolicyKeepChildless
)

// String returns the name accepted by [ParsePolicy].
func (p Policy) String() string {
	switch p {
	case PolicyEmptyIfChildless:
		return "empty"
	case PolicyKeepChildless:
		return "keep"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts "empty" or "keep" into a Policy.
// The empty string selects the default.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "empty":
		return PolicyEmptyIfChildless, nil
	case "keep":
		return PolicyKeepChildless, nil
	default:
		return 0, fmt.Errorf("unknown childless policy %q (want empty or keep)", s)
	}
}

// Reason explains the outcome of a filter run.
type Reason int

const (
	ReasonOK         Reason = iota // matched node has children
	ReasonNotFound                 // no node carries the name
	ReasonNoChildren               // matched node has no qualifying children
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonNotFound:
		return "not found"
	case ReasonNoChildren:
		return "no children"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Options configures [Filter].
type Options struct {
	// Relation is the edge type treated as containment.
	// Defaults to [cyjs.RelContainedIn].
	Relation cyjs.Relation

	// Policy handles a matched node with no children.
	Policy Policy
}

// Result is the outcome of [Filter].
type Result struct {
	// Doc is the reduced document, nil when the result is empty.
	Doc *cyjs.Document

	// Root is the matched node, nil when the name was not found.
	Root *cyjs.Node

	// Children is the number of qualifying edges.
	Children int

	Reason Reason
}

// Empty reports whether there is nothing to render.
func (r Result) Empty() bool { return r.Doc == nil }

// Size returns the node and edge counts of the reduced document.
func (r Result) Size() (nodes, edges int) {
	if r.Doc == nil {
		return 0, 0
	}
	return len(r.Doc.Elements.Nodes), len(r.Doc.Elements.Edges)
}

// Filter returns the subgraph made of the node named name and its direct
// containment children. See the package documentation for ordering and
// empty-result rules.
func Filter(doc *cyjs.Document, name string, opts Options) Result {
	rel := opts.Relation
	if rel == "" {
		rel = cyjs.RelContainedIn
	}

	root, ok := findByName(doc.Elements.Nodes, name)
	if !ok {
		return Result{Reason: ReasonNotFound}
	}
	rootID := root.Data.ID

	var edges []cyjs.Edge
	children := make(map[string]struct{})
	for _, e := range doc.Elements.Edges {
		if e.Data.Type == rel && e.Data.Target == rootID {
			edges = append(edges, e)
			children[e.Data.Source] = struct{}{}
		}
	}

	res := Result{Root: &root, Children: len(edges)}
	if len(edges) == 0 {
		res.Reason = ReasonNoChildren
		if opts.Policy != PolicyKeepChildless {
			return res
		}
	}

	nodes := make([]cyjs.Node, 0, len(children)+1)
	nodes = append(nodes, root)
	for _, n := range doc.Elements.Nodes {
		// A self-containment edge must not list the root twice.
		if n.Data.ID == rootID {
			continue
		}
		if _, ok := children[n.Data.ID]; ok {
			nodes = append(nodes, n)
		}
	}
	if edges == nil {
		edges = []cyjs.Edge{}
	}

	res.Doc = doc.WithElements(nodes, edges)
	return res
}

// findByName returns the first node whose name equals name.
func findByName(nodes []cyjs.Node, name string) (cyjs.Node, bool) {
	for _, n := range nodes {
		if n.NameIs(name) {
			return n, true
		}
	}
	return cyjs.Node{}, false
}
