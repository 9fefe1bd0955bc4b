package peers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/opensearch-operator/pkg/topology"
)

// Document is the on-disk roster shape:
//
//	planned_units: 3
//	nodes:
//	  - name: opensearch-0
//	    roles: [data, ingest, ml, coordinating_only, cluster_manager]
//	    ip: 10.0.0.1
//
// JSON files with the same keys are accepted too.
type Document struct {
	PlannedUnits *int             `yaml:"planned_units"`
	Nodes        []map[string]any `yaml:"nodes"`
}

// FileSource reads the roster from a YAML or JSON file on every call, so the
// snapshot is always as fresh as the file.
type FileSource struct {
	path string
}

// NewFileSource returns a source reading path. The extension must be .yaml, .yml or .json.
func NewFileSource(path string) (*FileSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return &FileSource{path: path}, nil
}

func (f *FileSource) Roster(ctx context.Context) ([]topology.Node, error) {
	nodes, _, err := f.load(ctx)
	return nodes, err
}

// PlannedUnits returns planned_units from the file, or the number of nodes when it is absent.
func (f *FileSource) PlannedUnits(ctx context.Context) (int, error) {
	_, planned, err := f.load(ctx)
	return planned, err
}

func (f *FileSource) load(ctx context.Context) ([]topology.Node, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, 0, errors.Join(ErrReadRoster, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, 0, errors.Join(ErrDecodeRoster, err)
	}

	nodes, err := doc.Roster()
	if err != nil {
		return nil, 0, err
	}

	planned := len(nodes)
	if doc.PlannedUnits != nil {
		planned = *doc.PlannedUnits
	}
	return nodes, planned, nil
}

// Roster validates every entry of the document.
func (d Document) Roster() ([]topology.Node, error) {
	nodes := make([]topology.Node, 0, len(d.Nodes))
	seen := make(map[string]struct{}, len(d.Nodes))
	for i, entry := range d.Nodes {
		node, err := topology.NodeFromMap(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: nodes[%d]: %w", ErrDecodeRoster, i, err)
		}
		if _, dup := seen[node.Name]; dup {
			return nil, fmt.Errorf("%w: nodes[%d]: %q", ErrDuplicateNode, i, node.Name)
		}
		seen[node.Name] = struct{}{}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
