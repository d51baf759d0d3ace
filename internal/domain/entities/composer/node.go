// Package composer defines the domain entities of the editor
// content-synchronization engine: the live component tree, typed style
// rules, asset references, and the persisted content artifact.
package composer

// ComponentNode is one element of the live editing tree. A node either has
// no NodeID yet (not style-bearing) or exactly one, immutable for the
// lifetime of the editing session.
type ComponentNode struct {
	NodeID     string            `json:"nodeId,omitempty"`
	NodeType   string            `json:"nodeType"`
	ClassNames []string          `json:"classNames,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []*ComponentNode  `json:"children,omitempty"`
}

// HasClass reports whether the node carries the given live class name.
func (n *ComponentNode) HasClass(class string) bool {
	for _, c := range n.ClassNames {
		if c == class {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the node and its subtree.
func (n *ComponentNode) Clone() *ComponentNode {
	if n == nil {
		return nil
	}
	out := &ComponentNode{
		NodeID:   n.NodeID,
		NodeType: n.NodeType,
	}
	if len(n.ClassNames) > 0 {
		out.ClassNames = append([]string(nil), n.ClassNames...)
	}
	if n.Attributes != nil {
		out.Attributes = make(map[string]string, len(n.Attributes))
		for k, v := range n.Attributes {
			out.Attributes[k] = v
		}
	}
	for _, child := range n.Children {
		out.Children = append(out.Children, child.Clone())
	}
	return out
}

// Tree is the ordered forest of root components on the editing surface.
// Parents own their children; nodes are never shared between parents.
type Tree struct {
	Roots []*ComponentNode
}

// Walk visits every node in document order (pre-order, roots first).
// Returning false from visit stops the walk.
func (t *Tree) Walk(visit func(*ComponentNode) bool) {
	if t == nil {
		return
	}
	var walk func(*ComponentNode) bool
	walk = func(n *ComponentNode) bool {
		if !visit(n) {
			return false
		}
		for _, child := range n.Children {
			if !walk(child) {
				return false
			}
		}
		return true
	}
	for _, root := range t.Roots {
		if !walk(root) {
			return
		}
	}
}

// FindByClass returns every node carrying the class, in document order.
func (t *Tree) FindByClass(class string) []*ComponentNode {
	var matches []*ComponentNode
	t.Walk(func(n *ComponentNode) bool {
		if n.HasClass(class) {
			matches = append(matches, n)
		}
		return true
	})
	return matches
}

// FindByID returns the node with the given identity, or nil.
func (t *Tree) FindByID(nodeID string) *ComponentNode {
	if nodeID == "" {
		return nil
	}
	var found *ComponentNode
	t.Walk(func(n *ComponentNode) bool {
		if n.NodeID == nodeID {
			found = n
			return false
		}
		return true
	})
	return found
}

// HasID reports whether any node in the tree already carries the identity.
func (t *Tree) HasID(nodeID string) bool {
	return t.FindByID(nodeID) != nil
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{}
	for _, root := range t.Roots {
		out.Roots = append(out.Roots, root.Clone())
	}
	return out
}

// Count returns the number of nodes in the tree.
func (t *Tree) Count() int {
	count := 0
	t.Walk(func(*ComponentNode) bool {
		count++
		return true
	})
	return count
}
