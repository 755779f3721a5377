package graph

// BuildTree walks outgoing edges from root and returns the rooted tree.
//
// Children follow the order of g.Edges. Self-loops are skipped. Edge targets
// resolve to the first node with a matching ID; a missing target fails with
// *DanglingEdgeError. Reaching a node that is already on the current path
// fails with *CyclicGraphError. Nodes reachable along several paths appear
// once per path. No partial tree is returned on error.
//
// BuildTree is meant to run on the output of Filter, whose edges always
// resolve.
func BuildTree(root Node, g *Graph) (*Tree, error) {
	if g == nil {
		g = &Graph{}
	}
	b := &treeBuilder{
		nodes:    g.firstIndex(),
		outgoing: make(map[string][]Edge),
		onPath:   make(map[string]bool),
	}
	for _, e := range g.Edges {
		if e.Source == e.Target {
			continue
		}
		b.outgoing[e.Source] = append(b.outgoing[e.Source], e)
	}
	return b.build(root)
}

type treeBuilder struct {
	nodes    map[string]Node
	outgoing map[string][]Edge
	onPath   map[string]bool
	path     []string
}

func (b *treeBuilder) build(n Node) (*Tree, error) {
	if b.onPath[n.ID] {
		cycle := append(append([]string{}, b.path...), n.ID)
		return nil, &CyclicGraphError{Path: cycle}
	}
	b.onPath[n.ID] = true
	b.path = append(b.path, n.ID)
	defer func() {
		b.path = b.path[:len(b.path)-1]
		delete(b.onPath, n.ID)
	}()

	t := &Tree{Name: n.ID, Children: []*Tree{}}
	for _, e := range b.outgoing[n.ID] {
		child, ok := b.nodes[e.Target]
		if !ok {
			return nil, &DanglingEdgeError{Source: e.Source, Target: e.Target, Type: e.Type}
		}
		sub, err := b.build(child)
		if err != nil {
			return nil, err
		}
		t.Children = append(t.Children, sub)
	}
	return t, nil
}

// Size returns the number of nodes in t.
func (t *Tree) Size() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, c := range t.Children {
		n += c.Size()
	}
	return n
}

// Names returns every label in t in depth-first pre-order.
func (t *Tree) Names() []string {
	var out []string
	var walk func(*Tree)
	walk = func(n *Tree) {
		out = append(out, n.Name)
		for _, c := range n.Children {
			walk(c)
		}
	}
	if t != nil {
		walk(t)
	}
	return out
}
