package hierarchy

// Node is a named node of a stat or affinity tree. A node with no children
// is a leaf. Trees are built once at startup and never mutated afterwards.
type Node struct {
	ID          string
	DisplayName string
	Children    []*Node
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.Children) == 0
}

// Flatten returns the node and all of its descendants in depth-first order.
func (n *Node) Flatten() []*Node {
	nodes := []*Node{n}
	for _, c := range n.Children {
		nodes = append(nodes, c.Flatten()...)
	}
	return nodes
}

// FindChild returns the direct child with the given normalized id.
func (n *Node) FindChild(id string) *Node {
	for _, c := range n.Children {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Forest is the ordered set of top-level nodes of a compiled hierarchy.
type Forest []*Node

// Flatten returns every node of the forest in depth-first order.
func (f Forest) Flatten() []*Node {
	var nodes []*Node
	for _, n := range f {
		nodes = append(nodes, n.Flatten()...)
	}
	return nodes
}

// Leaves returns every leaf node of the forest in depth-first order.
func (f Forest) Leaves() []*Node {
	var leaves []*Node
	for _, n := range f.Flatten() {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
	}
	return leaves
}

// Find returns the first node of the forest whose normalized id matches,
// searching depth-first.
func (f Forest) Find(id string) *Node {
	for _, n := range f.Flatten() {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// FindByName returns the first node whose display name matches exactly.
func (f Forest) FindByName(name string) *Node {
	for _, n := range f.Flatten() {
		if n.DisplayName == name {
			return n
		}
	}
	return nil
}
