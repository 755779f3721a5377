package preset

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"modgraph/internal/graph"
)

type fileCatalog struct {
	Readings map[string]string `yaml:"readings"`
	Presets  []filePreset      `yaml:"presets"`
}

type filePreset struct {
	Name         string   `yaml:"name"`
	NodeTypes    []string `yaml:"node_types"`
	EdgeTypes    []string `yaml:"edge_types"`
	Layout       string   `yaml:"layout"`
	ShowIsolated bool     `yaml:"show_isolated"`
	Description  string   `yaml:"description"`
}

// LoadFile reads a YAML preset catalog from path.
func LoadFile(path string, v graph.Vocabulary) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open preset catalog: %w", err)
	}
	defer f.Close()
	return Load(f, v)
}

// Load reads a YAML preset catalog. Type labels are checked against v, and
// readings missing from the file fall back to DefaultReadings.
//
//	readings:
//	  ImportEdge: u imports v
//	presets:
//	  - name: file directory
//	    node_types: [Folder, File]
//	    edge_types: [Directory]
//	    layout: tree
//	    show_isolated: true
//	    description: The file organization of the repo.
//	  - name: custom
func Load(r io.Reader, v graph.Vocabulary) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	presets := make([]Preset, 0, len(fc.Presets))
	for _, fp := range fc.Presets {
		nodes, err := v.ParseNodeTypes(fp.NodeTypes)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", fp.Name, err)
		}
		edges, err := v.ParseEdgeTypes(fp.EdgeTypes)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", fp.Name, err)
		}
		layout := Layout(fp.Layout)
		switch layout {
		case "", LayoutTree, LayoutForce:
		default:
			return nil, fmt.Errorf("%w: preset %q has unknown layout %q", ErrInvalidCatalog, fp.Name, fp.Layout)
		}
		presets = append(presets, Preset{
			Name:         fp.Name,
			NodeTypes:    nodes,
			EdgeTypes:    edges,
			Layout:       layout,
			ShowIsolated: fp.ShowIsolated,
			Description:  fp.Description,
		})
	}

	readings := DefaultReadings()
	for label, reading := range fc.Readings {
		t, err := v.ParseEdgeType(label)
		if err != nil {
			return nil, fmt.Errorf("readings: %w", err)
		}
		readings[t] = reading
	}
	return NewCatalog(presets, readings)
}
