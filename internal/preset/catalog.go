package preset

import (
	"fmt"
	"strings"

	"modgraph/internal/graph"
)

// Catalog is an immutable set of presets plus the reading of each edge type.
// Build one with Default, NewCatalog or LoadFile and pass it to whoever needs
// it; nothing in this package keeps a shared instance.
type Catalog struct {
	order    []string
	presets  map[string]Preset
	readings map[graph.EdgeType]string
}

// defaultPresets mirrors the dashboard's preset dropdown.
func defaultPresets() []Preset {
	return []Preset{
		{
			Name:         "file directory",
			NodeTypes:    []graph.NodeType{graph.NodeFolder, graph.NodeFile},
			EdgeTypes:    []graph.EdgeType{graph.EdgeDirectory},
			Layout:       LayoutTree,
			ShowIsolated: true,
			Description: "The file organization of the repo. Nodes are either folders or Python files. " +
				"A directed edge from u to v represents 'u is the parent folder of v'.",
		},
		{
			Name:      "class inheritance",
			NodeTypes: []graph.NodeType{graph.NodeClass},
			EdgeTypes: []graph.EdgeType{graph.EdgeInheritance},
			Layout:    LayoutForce,
			Description: "The classes that inherit from another class defined within the repo. Nodes are Python classes. " +
				"A directed edge from u to v represents 'u is a parent class for v'.",
		},
		{
			Name:      "function dependency",
			NodeTypes: []graph.NodeType{graph.NodeFile, graph.NodeClass, graph.NodeFunc},
			EdgeTypes: []graph.EdgeType{graph.EdgeFunctionCall},
			Layout:    LayoutForce,
			Description: "The function calls within the repo. Nodes represent a Python file, function, or class. " +
				"A directed edge from u to v represents 'u is called by v'.",
		},
		{
			Name:      "import dependency",
			NodeTypes: []graph.NodeType{graph.NodeFile, graph.NodeFolder},
			EdgeTypes: []graph.EdgeType{graph.EdgeImport},
			Layout:    LayoutForce,
			Description: "The imports of each Python file. Nodes are Python files or folders (as Python packages). " +
				"A directed edge from u to v represents 'u is imported by v'.",
		},
		{
			Name:      "broad definitions",
			NodeTypes: []graph.NodeType{graph.NodeFile, graph.NodeClass, graph.NodeFunc},
			EdgeTypes: []graph.EdgeType{graph.EdgeDefinition},
			Layout:    LayoutTree,
			Description: "The organization of Python class and function definitions. Nodes are files, functions, or classes. " +
				"A directed edge from u to v represents 'u defines v'.",
		},
		{
			Name: "granular definitions",
			NodeTypes: []graph.NodeType{
				graph.NodeFile, graph.NodeClass, graph.NodeFunc, graph.NodeVar, graph.NodeLambda,
				graph.NodeIf, graph.NodeFor, graph.NodeWhile, graph.NodeTry,
			},
			EdgeTypes: []graph.EdgeType{graph.EdgeDefinition, graph.EdgeVariable, graph.EdgeControlFlow},
			Layout:    LayoutTree,
			Description: "Definitions down to variables, lambdas and control-flow blocks. " +
				"A directed edge from u to v represents 'u defines or contains v'.",
		},
		{
			Name: "all",
			NodeTypes: []graph.NodeType{
				graph.NodeFile, graph.NodeFolder, graph.NodeClass, graph.NodeFunc,
			},
			EdgeTypes: []graph.EdgeType{
				graph.EdgeInheritance, graph.EdgeDirectory, graph.EdgeFunctionCall,
				graph.EdgeImport, graph.EdgeDefinition,
			},
			Layout:      LayoutForce,
			Description: "Every type of node and edge displayed at once.",
		},
		{
			Name:         Custom,
			NodeTypes:    []graph.NodeType{},
			EdgeTypes:    []graph.EdgeType{},
			Layout:       LayoutForce,
			ShowIsolated: true,
			Description:  "Choose the node and edge types to include.",
		},
	}
}

// DefaultReadings describes what a directed edge u -> v means per edge type.
func DefaultReadings() map[graph.EdgeType]string {
	return map[graph.EdgeType]string{
		graph.EdgeDirectory:    "u is the parent folder of v",
		graph.EdgeImport:       "u is imported by v",
		graph.EdgeFunctionCall: "u is called by v",
		graph.EdgeInheritance:  "u is a parent class for v",
		graph.EdgeDefinition:   "u defines v",
		graph.EdgeVariable:     "u uses variable v",
		graph.EdgeControlFlow:  "u contains block v",
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := NewCatalog(defaultPresets(), DefaultReadings())
	if err != nil {
		panic(fmt.Sprintf("preset: built-in catalog is invalid: %v", err))
	}
	return c
}

// NewCatalog builds a catalog from presets, keeping their order. Names must
// be unique and non-empty, and the custom preset must be present.
func NewCatalog(presets []Preset, readings map[graph.EdgeType]string) (*Catalog, error) {
	c := &Catalog{
		presets:  make(map[string]Preset, len(presets)),
		readings: make(map[graph.EdgeType]string, len(readings)),
	}
	for i, p := range presets {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: preset %d has no name", ErrInvalidCatalog, i)
		}
		if _, dup := c.presets[name]; dup {
			return nil, fmt.Errorf("%w: duplicate preset %q", ErrInvalidCatalog, name)
		}
		if p.Layout == "" {
			p.Layout = LayoutForce
		}
		p.Name = name
		c.presets[name] = p.Clone()
		c.order = append(c.order, name)
	}
	if _, ok := c.presets[Custom]; !ok {
		return nil, fmt.Errorf("%w: missing %q preset", ErrInvalidCatalog, Custom)
	}
	for t, r := range readings {
		c.readings[t] = r
	}
	return c, nil
}

// Lookup returns the preset called name. The result is a copy.
func (c *Catalog) Lookup(name string) (Preset, error) {
	p, ok := c.presets[name]
	if !ok {
		return Preset{}, &UnknownPresetError{Name: name, Known: c.Names()}
	}
	return p.Clone(), nil
}

// Names lists preset names in catalog order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// All returns copies of every preset in catalog order.
func (c *Catalog) All() []Preset {
	out := make([]Preset, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.presets[name].Clone())
	}
	return out
}

// Reading returns the sentence describing an edge of type t, or "" if none
// is configured.
func (c *Catalog) Reading(t graph.EdgeType) string {
	return c.readings[t]
}

// Resolve looks up name and, for the custom preset, substitutes the caller's
// node and edge types.
func (c *Catalog) Resolve(name string, nodes []graph.NodeType, edges []graph.EdgeType) (Preset, error) {
	p, err := c.Lookup(name)
	if err != nil {
		return Preset{}, err
	}
	if name == Custom {
		p = p.WithTypes(nodes, edges)
	}
	return p, nil
}
