package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/csmtree/pkg/csm"
	cerrors "github.com/matzehuels/csmtree/pkg/errors"
)

// =============================================================================
// Tree Serialization API
// =============================================================================

// MarshalTree converts a tree to indented JSON bytes.
func MarshalTree(t *csm.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTree(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTreeFile writes a tree to a JSON file.
// The file is created with 0644 permissions.
func WriteTreeFile(t *csm.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTree(t, f)
}

// WriteTree writes a tree as JSON to an io.Writer.
func WriteTree(t *csm.Tree, w io.Writer) error {
	return writeJSON(w, FromTree(t))
}

// ReadTreeFile reads a JSON file and returns the decoded tree.
func ReadTreeFile(path string) (*csm.Tree, error) {
	g, err := ReadGraphFile(path)
	if err != nil {
		return nil, err
	}
	return ToTree(g)
}

// ReadTree decodes a JSON tree document from an io.Reader.
func ReadTree(r io.Reader) (*csm.Tree, error) {
	g, err := ReadGraph(r)
	if err != nil {
		return nil, err
	}
	return ToTree(g)
}

// UnmarshalTree decodes a JSON tree document held in memory.
func UnmarshalTree(data []byte) (*csm.Tree, error) {
	return ReadTree(bytes.NewReader(data))
}

// ReadGraphFile reads a JSON document without converting it, which keeps
// display labels available.
func ReadGraphFile(path string) (Graph, error) {
	if err := cerrors.ValidatePath(path); err != nil {
		return Graph{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes a JSON document from an io.Reader.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&g); err != nil {
		return Graph{}, cerrors.Wrap(cerrors.ErrCodeInvalidFormat, err, "decode tree document")
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
