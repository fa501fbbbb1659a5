package cyjs

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Marshal encodes doc as compact JSON, the form posted to CyREST.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// WriteJSON encodes doc as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(doc *Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes doc to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(doc *Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(doc, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Summary counts the elements of a document.
type Summary struct {
	Nodes     int
	Edges     int
	Relations map[Relation]int
}

// Stats summarizes doc.
func Stats(doc *Document) Summary {
	s := Summary{
		Nodes:     len(doc.Elements.Nodes),
		Edges:     len(doc.Elements.Edges),
		Relations: make(map[Relation]int),
	}
	for _, e := range doc.Elements.Edges {
		s.Relations[e.Data.Type]++
	}
	return s
}
