package resolve

import (
	"nsbind/common"
	"nsbind/depm"
	"nsbind/report"
)

// VisibilityContext is the situation a path is resolved in.  It decides
// whether internal items are visible and whether the entry namespace is
// collapsed into the package root.
type VisibilityContext int

// Enumeration of visibility contexts.
const (
	SamePackageOrEntry VisibilityContext = iota
	InteractiveOrNotebookCell
	DependentPackage
	DependentPackageStdlibSpecialCase
)

func (c VisibilityContext) String() string {
	switch c {
	case SamePackageOrEntry:
		return "SamePackageOrEntry"
	case InteractiveOrNotebookCell:
		return "InteractiveOrNotebookCell"
	case DependentPackage:
		return "DependentPackage"
	default:
		return "DependentPackageStdlibSpecialCase"
	}
}

// dependent returns whether the context views the package from outside.
func (c VisibilityContext) dependent() bool {
	return c == DependentPackage || c == DependentPackageStdlibSpecialCase
}

// -----------------------------------------------------------------------------

// candidate is one possible meaning of a name found through an open.
type candidate struct {
	res  depm.Res
	span report.TextSpan
}

// lookupFailure is the reason a lookup produced no result.
type lookupFailure int

const (
	failNotFound lookupFailure = iota
	failAmbiguous
)

// lookupError describes a failed lookup.  It is turned into a diagnostic by
// whoever performed the lookup since only they know whether it is final.
type lookupError struct {
	failure    lookupFailure
	kind       depm.NameKind
	path       []string
	candidates []candidate
}

// lookup performs name resolution against a symbol table and scope arena.  It
// never mutates either, so the same query always produces the same answer.
type lookup struct {
	table  *depm.SymbolTable
	scopes *Scopes
	ctx    VisibilityContext
	entry  string
}

// resolve resolves a path in the given partition starting from a scope.
func (lk *lookup) resolve(kind depm.NameKind, path []string, scopeID ScopeID) (depm.Res, *lookupError) {
	if len(path) == 0 {
		return depm.ErrorRes{}, &lookupError{failure: failNotFound, kind: kind}
	}

	name := path[len(path)-1]
	qual := path[:len(path)-1]

	if kind == depm.TypeName && len(qual) == 0 {
		if _, ok := common.PrimitiveTypes[name]; ok {
			return depm.PrimRes{Name: name}, nil
		}
	}

	varsVisible := true
	for id := scopeID; id != NoScope; {
		scope := lk.scopes.Get(id)

		if len(qual) == 0 {
			if res, ok := lk.fromScope(scope, kind, name, varsVisible); ok {
				return res, nil
			}
		}

		if res, err, ok := lk.pick(kind, path, lk.fromOpens(scope, kind, qual, name)); ok {
			return res, err
		}

		// local callables are not closures
		if scope.Kind == ScopeCallable {
			varsVisible = false
		}

		id = scope.Parent
	}

	if len(qual) == 0 {
		if res, err, ok := lk.pick(kind, path, lk.fromPrelude(kind, name)); ok {
			return res, err
		}
	}

	if res, ok := lk.fromRoot(kind, qual, name); ok {
		return res, nil
	}

	return depm.ErrorRes{}, &lookupError{failure: failNotFound, kind: kind, path: path}
}

// pick chooses between the candidates found at one level of the search.  It
// returns false if there are none so the search can continue outward.
func (lk *lookup) pick(kind depm.NameKind, path []string, cands []candidate) (depm.Res, *lookupError, bool) {
	switch len(cands) {
	case 0:
		return nil, nil, false
	case 1:
		return cands[0].res, nil, true
	default:
		return depm.ErrorRes{}, &lookupError{
			failure:    failAmbiguous,
			kind:       kind,
			path:       path,
			candidates: cands,
		}, true
	}
}

// fromScope checks the names bound directly in a scope.
func (lk *lookup) fromScope(scope *Scope, kind depm.NameKind, name string, varsVisible bool) (depm.Res, bool) {
	if kind == depm.TermName && varsVisible {
		if node, ok := scope.vars[name]; ok {
			return depm.LocalRes{Node: node}, true
		}
	}

	if b, ok := scope.Binding(kind, name); ok && lk.visible(b) {
		return b.Res, true
	}

	if scope.Kind == ScopeNamespace {
		if b, ok := lk.get(scope.Namespace, kind, name); ok {
			return b.Res, true
		}
	}

	return nil, false
}

// fromOpens collects the candidates provided by the opens of a scope.
func (lk *lookup) fromOpens(scope *Scope, kind depm.NameKind, qual []string, name string) []candidate {
	var cands []candidate
	add := func(ns depm.NamespaceID, span report.TextSpan) {
		if b, ok := lk.get(ns, kind, name); ok {
			cands = appendCandidate(cands, candidate{res: b.Res, span: span})
		}
	}

	if len(qual) == 0 {
		for _, open := range scope.opens[""] {
			add(open.Namespace, open.Span)
		}

		return cands
	}

	for _, open := range scope.opens[qual[0]] {
		if ns, ok := lk.table.Tree.LookupFrom(open.Namespace, qual[1:]); ok {
			add(ns, open.Span)
		}
	}

	for _, open := range scope.opens[""] {
		if ns, ok := lk.namespaceFrom(open.Namespace, qual); ok {
			add(ns, open.Span)
		}
	}

	return cands
}

// fromPrelude collects the candidates provided by the prelude namespaces.
func (lk *lookup) fromPrelude(kind depm.NameKind, name string) []candidate {
	var cands []candidate
	for _, path := range common.PreludeNamespaces {
		ns, ok := lk.table.Tree.Lookup(path)
		if !ok {
			continue
		}

		if b, ok := lk.get(ns, kind, name); ok {
			cands = appendCandidate(cands, candidate{res: b.Res, span: b.Span})
		}
	}

	return cands
}

// fromRoot looks a path up from the root of the namespace tree.
func (lk *lookup) fromRoot(kind depm.NameKind, qual []string, name string) (depm.Res, bool) {
	if ns, ok := lk.namespaceFrom(depm.RootNamespace, qual); ok {
		if b, ok := lk.get(ns, kind, name); ok {
			return b.Res, true
		}
	}

	if entry, ok := lk.hoistedEntry(); ok {
		if ns, ok := lk.table.Tree.LookupFrom(entry, qual); ok {
			if b, ok := lk.get(ns, kind, name); ok {
				return b.Res, true
			}
		}
	}

	return nil, false
}

// resolveNamespace resolves a path to a namespace.  Aliases are tried first,
// then paths relative to unaliased opens and finally absolute paths.  The
// second return value reports whether the namespace was reached through an
// alias.
func (lk *lookup) resolveNamespace(path []string, scopeID ScopeID) (depm.NamespaceID, bool, bool) {
	if len(path) == 0 {
		return 0, false, false
	}

	for id := scopeID; id != NoScope; id = lk.scopes.Get(id).Parent {
		scope := lk.scopes.Get(id)

		for _, open := range scope.opens[path[0]] {
			if ns, ok := lk.table.Tree.LookupFrom(open.Namespace, path[1:]); ok {
				return ns, true, true
			}
		}

		for _, open := range scope.opens[""] {
			if ns, ok := lk.namespaceFrom(open.Namespace, path); ok {
				return ns, false, true
			}
		}
	}

	if ns, ok := lk.namespaceFrom(depm.RootNamespace, path); ok {
		return ns, false, true
	}

	if entry, ok := lk.hoistedEntry(); ok {
		if ns, ok := lk.table.Tree.LookupFrom(entry, path); ok {
			return ns, false, true
		}
	}

	return 0, false, false
}

// namespaceFrom looks up a namespace relative to another.  A dependent
// package cannot name the entry namespace of the package.
func (lk *lookup) namespaceFrom(root depm.NamespaceID, path []string) (depm.NamespaceID, bool) {
	if root == depm.RootNamespace && len(path) > 0 && lk.ctx.dependent() {
		if entry, ok := lk.hoistedEntry(); ok {
			if child, ok := lk.table.Tree.LookupFrom(root, path[:1]); ok && child == entry {
				return 0, false
			}
		}
	}

	return lk.table.Tree.LookupFrom(root, path)
}

// hoistedEntry returns the entry namespace of the package when the context
// collapses it into the package root.  Both dependent contexts collapse it.
func (lk *lookup) hoistedEntry() (depm.NamespaceID, bool) {
	if !lk.ctx.dependent() || lk.entry == "" {
		return 0, false
	}

	entry, ok := lk.table.Tree.Lookup([]string{lk.entry})
	if !ok || lk.table.Tree.Origin(entry)&depm.OriginExternal != 0 {
		return 0, false
	}

	return entry, true
}

// get looks up a name bound in a namespace of the global table, applying
// visibility filtering.
func (lk *lookup) get(ns depm.NamespaceID, kind depm.NameKind, name string) (*depm.Binding, bool) {
	b, ok := lk.table.Get(ns, kind, name)
	if !ok || !lk.visible(b) {
		return nil, false
	}

	return b, true
}

// visible returns whether a binding can be seen in the current context.
// Dependent packages only see public items, exports and names that already
// came from another package.
func (lk *lookup) visible(b *depm.Binding) bool {
	if !lk.ctx.dependent() {
		return true
	}

	switch b.Source {
	case depm.SourceExport, depm.SourceExternal:
		return true
	}

	switch res := b.Res.(type) {
	case depm.ItemRes:
		if !res.ID.IsLocal() {
			return true
		}

		item, ok := lk.table.Item(res.ID)
		return ok && item.Public
	case depm.NamespaceRes, depm.LocalRes, depm.PrimRes, depm.ErrorRes:
		return true
	default:
		report.ReportICE("unknown resolution %T", res)
		return false
	}
}

// appendCandidate adds a candidate unless one with the same result exists:
// reaching the same item through two opens is not ambiguous.
func appendCandidate(cands []candidate, cand candidate) []candidate {
	for _, existing := range cands {
		if existing.res == cand.res {
			return cands
		}
	}

	return append(cands, cand)
}
