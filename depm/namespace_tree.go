package depm

import "sort"

// NamespaceID identifies a namespace node within one compilation.
type NamespaceID int

// RootNamespace is the ID of the root of every namespace tree.  The root has
// an empty path and holds top-level names and dependency alias roots.
const RootNamespace NamespaceID = 0

// NamespaceOrigin records where a namespace node came from.
type NamespaceOrigin int

// Enumeration of namespace origins.  A node with no origin bit set was only
// created as an ancestor of another node.
const (
	OriginDeclared NamespaceOrigin = 1 << iota
	OriginExternal
)

// namespaceNode is a single node in the namespace tree.
type namespaceNode struct {
	name   string
	parent NamespaceID

	// children maps the name of each child to its ID.  order keeps the
	// insertion order so enumeration is deterministic.
	children map[string]NamespaceID
	order    []string

	origin NamespaceOrigin
}

// NamespaceTree maps dotted namespace paths to canonical namespace nodes.  A
// path always maps to exactly one node, and every ancestor of an existing node
// exists.
type NamespaceTree struct {
	nodes []*namespaceNode
}

// NamespaceChild is an immediate child of a namespace.
type NamespaceChild struct {
	Name string
	ID   NamespaceID
}

// NewNamespaceTree creates a tree containing only the root.
func NewNamespaceTree() *NamespaceTree {
	return &NamespaceTree{
		nodes: []*namespaceNode{
			{parent: RootNamespace, children: make(map[string]NamespaceID)},
		},
	}
}

// Ensure returns the node for an absolute path, creating it and any missing
// ancestors.
func (nt *NamespaceTree) Ensure(path []string) NamespaceID {
	return nt.EnsureFrom(RootNamespace, path)
}

// EnsureFrom returns the node for a path relative to `root`, creating it and
// any missing ancestors.
func (nt *NamespaceTree) EnsureFrom(root NamespaceID, path []string) NamespaceID {
	curr := root
	for _, seg := range path {
		node := nt.nodes[curr]
		if child, ok := node.children[seg]; ok {
			curr = child
			continue
		}

		child := NamespaceID(len(nt.nodes))
		nt.nodes = append(nt.nodes, &namespaceNode{
			name:     seg,
			parent:   curr,
			children: make(map[string]NamespaceID),
		})

		node.children[seg] = child
		node.order = append(node.order, seg)
		curr = child
	}

	return curr
}

// Lookup finds the node for an absolute path without creating anything.
func (nt *NamespaceTree) Lookup(path []string) (NamespaceID, bool) {
	return nt.LookupFrom(RootNamespace, path)
}

// LookupFrom finds the node for a path relative to `root` without creating
// anything.
func (nt *NamespaceTree) LookupFrom(root NamespaceID, path []string) (NamespaceID, bool) {
	curr := root
	for _, seg := range path {
		child, ok := nt.nodes[curr].children[seg]
		if !ok {
			return 0, false
		}

		curr = child
	}

	return curr, true
}

// Children enumerates the immediate children of a namespace.
func (nt *NamespaceTree) Children(id NamespaceID) []NamespaceChild {
	node := nt.nodes[id]

	children := make([]NamespaceChild, len(node.order))
	for i, name := range node.order {
		children[i] = NamespaceChild{Name: name, ID: node.children[name]}
	}

	return children
}

// Parent returns the parent of a namespace.  The root has no parent.
func (nt *NamespaceTree) Parent(id NamespaceID) (NamespaceID, bool) {
	if id == RootNamespace {
		return 0, false
	}

	return nt.nodes[id].parent, true
}

// Path returns the absolute path of a namespace.
func (nt *NamespaceTree) Path(id NamespaceID) []string {
	var path []string
	for curr := id; curr != RootNamespace; curr = nt.nodes[curr].parent {
		path = append(path, nt.nodes[curr].name)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// IsAncestor returns whether `ancestor` is a strict ancestor of `id`.
func (nt *NamespaceTree) IsAncestor(ancestor, id NamespaceID) bool {
	for curr := id; curr != RootNamespace; {
		curr = nt.nodes[curr].parent
		if curr == ancestor {
			return true
		}
	}

	return false
}

// Mark adds an origin to a namespace.
func (nt *NamespaceTree) Mark(id NamespaceID, origin NamespaceOrigin) {
	nt.nodes[id].origin |= origin
}

// Origin returns the origins recorded for a namespace.
func (nt *NamespaceTree) Origin(id NamespaceID) NamespaceOrigin {
	return nt.nodes[id].origin
}

// Len returns the number of nodes in the tree, including the root.
func (nt *NamespaceTree) Len() int {
	return len(nt.nodes)
}

// Walk calls f for every namespace in the tree in depth-first order with
// children visited by name.
func (nt *NamespaceTree) Walk(f func(id NamespaceID, path []string)) {
	var walk func(id NamespaceID, path []string)
	walk = func(id NamespaceID, path []string) {
		f(id, path)

		node := nt.nodes[id]
		names := make([]string, len(node.order))
		copy(names, node.order)
		sort.Strings(names)

		for _, name := range names {
			childPath := make([]string, len(path)+1)
			copy(childPath, path)
			childPath[len(path)] = name
			walk(node.children[name], childPath)
		}
	}

	walk(RootNamespace, nil)
}

// Clone returns an independent copy of the tree.
func (nt *NamespaceTree) Clone() *NamespaceTree {
	nodes := make([]*namespaceNode, len(nt.nodes))
	for i, node := range nt.nodes {
		children := make(map[string]NamespaceID, len(node.children))
		for name, id := range node.children {
			children[name] = id
		}

		order := make([]string, len(node.order))
		copy(order, node.order)

		nodes[i] = &namespaceNode{
			name:     node.name,
			parent:   node.parent,
			children: children,
			order:    order,
			origin:   node.origin,
		}
	}

	return &NamespaceTree{nodes: nodes}
}
