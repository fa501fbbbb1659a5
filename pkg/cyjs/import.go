package cyjs

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/cytopush/pkg/errors"
)

// Parse decodes and validates a .cyjs document held in memory.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "decode graph document")
	}
	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ReadJSON reads r to the end, then decodes and validates the document.
// ReadJSON does not close r.
func ReadJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read graph document")
	}
	return Parse(data)
}

// ImportJSON reads the file at path and returns the validated document.
//
// The file is read in full and closed before decoding starts. A missing
// file yields an [errors.ErrCodeFileNotFound] error; everything else that
// goes wrong while reading is [errors.ErrCodeInvalidInput].
func ImportJSON(path string) (*Document, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "graph file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "load %s", path)
	}
	return doc, nil
}

// Validate checks the structural invariants of a document: unique non-empty
// node ids and edges that name a type and reference existing nodes.
func Validate(doc *Document) error {
	ids := make(map[string]int, len(doc.Elements.Nodes))
	for i, n := range doc.Elements.Nodes {
		if n.Data.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "node %d: missing data.id", i)
		}
		if prev, dup := ids[n.Data.ID]; dup {
			return errors.New(errors.ErrCodeInvalidGraph, "node %d: duplicate id %q (first seen at node %d)", i, n.Data.ID, prev)
		}
		ids[n.Data.ID] = i
	}

	for i, e := range doc.Elements.Edges {
		label := edgeLabel(i, e)
		switch {
		case e.Data.Source == "":
			return errors.New(errors.ErrCodeInvalidGraph, "%s: missing data.source", label)
		case e.Data.Target == "":
			return errors.New(errors.ErrCodeInvalidGraph, "%s: missing data.target", label)
		case e.Data.Type == "":
			return errors.New(errors.ErrCodeInvalidGraph, "%s: missing data.type", label)
		}
		if _, ok := ids[e.Data.Source]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "%s: unknown source %q", label, e.Data.Source)
		}
		if _, ok := ids[e.Data.Target]; !ok {
			return errors.New(errors.ErrCodeInvalidGraph, "%s: unknown target %q", label, e.Data.Target)
		}
	}
	return nil
}

func edgeLabel(i int, e Edge) string {
	if e.Data.ID != "" {
		return "edge " + e.Data.ID
	}
	return fmt.Sprintf("edge #%d", i)
}
