package resolve

import (
	"nsbind/ast"
	"nsbind/depm"
	"nsbind/report"
)

// ScopeID indexes a scope in a Scopes arena.
type ScopeID int

// NoScope is the parent of outermost scopes.
const NoScope ScopeID = -1

// ScopeKind is the kind of a lexical scope.
type ScopeKind int

// Enumeration of scope kinds.
const (
	// ScopeNamespace is the scope of a single namespace declaration block.
	ScopeNamespace ScopeKind = iota

	// ScopeCallable holds the parameters of a callable.  Local variables of
	// enclosing scopes are not visible through it.
	ScopeCallable

	// ScopeBlock is a block, lambda, loop or interactive top-level scope.
	ScopeBlock
)

// Open is a namespace made visible in a scope by an `open`, a glob import or
// a direct import of a namespace.
type Open struct {
	Namespace depm.NamespaceID
	Span      report.TextSpan
}

// Scope is a single lexical scope.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID

	// The namespace the scope belongs to.  For namespace scopes this is the
	// declared namespace; for other scopes it is the enclosing one.
	Namespace depm.NamespaceID

	Span report.TextSpan

	// opens maps an alias to the namespaces opened under it.  The empty alias
	// holds unaliased opens and glob imports.
	opens map[string][]Open

	// terms and types hold items declared in the scope along with direct
	// imports.  Namespace-level items live in the global symbol table instead.
	terms map[string]*depm.Binding
	types map[string]*depm.Binding

	// vars and tyVars hold local variables and generic parameters by name.
	vars   map[string]ast.NodeID
	tyVars map[string]ast.NodeID
}

func newScope(kind ScopeKind, parent ScopeID, ns depm.NamespaceID, span report.TextSpan) *Scope {
	return &Scope{
		Kind:      kind,
		Parent:    parent,
		Namespace: ns,
		Span:      span,
		opens:     make(map[string][]Open),
		terms:     make(map[string]*depm.Binding),
		types:     make(map[string]*depm.Binding),
		vars:      make(map[string]ast.NodeID),
		tyVars:    make(map[string]ast.NodeID),
	}
}

// Binding returns the name bound directly in the scope.
func (s *Scope) Binding(kind depm.NameKind, name string) (*depm.Binding, bool) {
	b, ok := s.partition(kind)[name]
	return b, ok
}

// Opens returns the namespaces opened under an alias.
func (s *Scope) Opens(alias string) []Open {
	return s.opens[alias]
}

// Var returns the local variable bound under name.
func (s *Scope) Var(name string) (ast.NodeID, bool) {
	node, ok := s.vars[name]
	return node, ok
}

func (s *Scope) partition(kind depm.NameKind) map[string]*depm.Binding {
	if kind == depm.TypeName {
		return s.types
	}

	return s.terms
}

func (s *Scope) bind(kind depm.NameKind, name string, b *depm.Binding) {
	s.partition(kind)[name] = b
}

// addOpen adds an open unless the same namespace is already opened under the
// alias.  It returns whether the open was added.
func (s *Scope) addOpen(alias string, open Open) bool {
	for _, existing := range s.opens[alias] {
		if existing.Namespace == open.Namespace {
			return false
		}
	}

	s.opens[alias] = append(s.opens[alias], open)
	return true
}

// -----------------------------------------------------------------------------

// Scopes is the arena holding every scope of a compilation.  Scopes refer to
// their parents by index, never by pointer.
type Scopes struct {
	scopes []*Scope
}

// Push creates a new scope and returns its ID.
func (ss *Scopes) Push(kind ScopeKind, parent ScopeID, ns depm.NamespaceID, span report.TextSpan) ScopeID {
	ss.scopes = append(ss.scopes, newScope(kind, parent, ns, span))
	return ScopeID(len(ss.scopes) - 1)
}

// Get returns the scope with the given ID.
func (ss *Scopes) Get(id ScopeID) *Scope {
	return ss.scopes[id]
}

// Len returns the number of scopes.
func (ss *Scopes) Len() int {
	return len(ss.scopes)
}
