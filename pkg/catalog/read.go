package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/codematrix/pkg/errors"
)

// rawDocument distinguishes a missing array from an empty one.
type rawDocument struct {
	Version string  `json:"version"`
	Nodes   *[]Node `json:"nodes"`
	Edges   *[]Edge `json:"edges"`
}

// Read decodes a catalog document from r.
//
// Read rejects documents whose "nodes" or "edges" arrays are missing, nodes
// without an id, and repeated ids. Edge endpoints are not checked; dangling
// edges are legal and simply never resolve. Read does not close r.
func Read(r io.Reader) (*Document, error) {
	var raw rawDocument
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode catalog")
	}
	if raw.Nodes == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "catalog has no \"nodes\" array")
	}
	if raw.Edges == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "catalog has no \"edges\" array")
	}

	seen := make(map[string]struct{}, len(*raw.Nodes))
	for i, n := range *raw.Nodes {
		if n.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "node %d has no id", i)
		}
		if _, dup := seen[n.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = struct{}{}
	}

	return &Document{Version: raw.Version, Nodes: *raw.Nodes, Edges: *raw.Edges}, nil
}

// Parse decodes a catalog document from data.
func Parse(data []byte) (*Document, error) {
	return Read(bytes.NewReader(data))
}

// ReadFile reads and decodes the catalog document at path.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()

	doc, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// Marshal encodes d as compact JSON. The encoding is stable for equal
// documents, which makes it usable as a cache-key input.
func Marshal(d *Document) ([]byte, error) {
	return json.Marshal(d)
}

// Write encodes d as indented JSON to w.
func Write(w io.Writer, d *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
