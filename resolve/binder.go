// Package resolve binds the names declared by a package and resolves every
// reference to the declaration it denotes.
package resolve

import (
	"nsbind/ast"
	"nsbind/common"
	"nsbind/depm"
	"nsbind/report"
)

// Options configures a single compilation.
type Options struct {
	// Entry is the entry namespace of the package.  It defaults to
	// common.DefaultEntryNamespace.
	Entry string

	// File is the repr path attached to diagnostics.
	File string
}

// Result is the outcome of binding and resolving a package.  It owns every
// structure built for the compilation; nothing is shared with other
// compilations except the read-only interfaces of dependencies.
type Result struct {
	// Table is the completed global symbol table.
	Table *depm.SymbolTable

	// Scopes is the arena of every scope created for the package.
	Scopes *Scopes

	// Names maps every resolved path, declared name and binding identifier to
	// its result.
	Names map[ast.NodeID]depm.Res

	// Diagnostics lists every problem found, in source order.
	Diagnostics []*report.Diagnostic

	// Entry is the entry namespace of the package.
	Entry string

	// namespaceScopes maps each namespace to the scope of its first
	// declaration block.
	namespaceScopes map[depm.NamespaceID]ScopeID

	// rootScope holds the top-level statements of the package.
	rootScope ScopeID
}

// binder holds the state of a single bind.  It is the owned binding context
// passed through every pass.
type binder struct {
	table  *depm.SymbolTable
	scopes *Scopes
	rep    *report.Reporter
	names  map[ast.NodeID]depm.Res
	lk     *lookup

	// exports lists every export statement in declaration order so they can
	// be finalized once all imports have settled.
	exports []*pendingImport

	// exported records which names have already been exported from each
	// namespace.
	exported map[exportKey]struct{}

	namespaceScopes map[depm.NamespaceID]ScopeID
}

// exportKey identifies an exported name.
type exportKey struct {
	ns   depm.NamespaceID
	kind depm.NameKind
	name string
}

func newBinder(table *depm.SymbolTable, scopes *Scopes, rep *report.Reporter, entry string, ctx VisibilityContext) *binder {
	return &binder{
		table:  table,
		scopes: scopes,
		rep:    rep,
		names:  make(map[ast.NodeID]depm.Res),
		lk: &lookup{
			table:  table,
			scopes: scopes,
			ctx:    ctx,
			entry:  entry,
		},
		exported:        make(map[exportKey]struct{}),
		namespaceScopes: make(map[depm.NamespaceID]ScopeID),
	}
}

// Bind binds and resolves a package against its dependencies.  Binding never
// stops at the first error: all problems are returned as diagnostics.
func Bind(pkg *ast.Package, deps []*depm.Dependency, opts Options) *Result {
	if opts.Entry == "" {
		opts.Entry = common.DefaultEntryNamespace
	}

	b := newBinder(depm.NewSymbolTable(), &Scopes{}, report.NewReporter(opts.File), opts.Entry, SamePackageOrEntry)

	for _, dep := range deps {
		b.mountDependency(dep)
	}

	nsScopes, pending := b.declareNamespaces(pkg.Namespaces)

	rootScope := b.scopes.Push(ScopeBlock, NoScope, depm.RootNamespace, report.TextSpan{})
	rootPending := b.declareBlockItems(rootScope, pkg.Stmts)

	b.settleImports(pending)
	b.finalizeExports()

	// imports of failed exports now bind to the inert error
	var retry []*pendingImport
	for _, p := range pending {
		if p.kind != pendingExport {
			retry = append(retry, p)
		}
	}

	b.settleImports(retry)
	b.reportUnresolved(pending)

	b.resolveImports(rootPending)

	for i, ns := range pkg.Namespaces {
		b.walkNamespace(nsScopes[i], ns)
	}

	b.walkStmts(rootScope, pkg.Stmts)

	return &Result{
		Table:           b.table,
		Scopes:          b.scopes,
		Names:           b.names,
		Diagnostics:     b.rep.Diagnostics(),
		Entry:           opts.Entry,
		namespaceScopes: b.namespaceScopes,
		rootScope:       rootScope,
	}
}

// NamespaceScope returns the scope of the first declaration block of a
// namespace.
func (r *Result) NamespaceScope(path []string) (ScopeID, bool) {
	ns, ok := r.Table.Tree.Lookup(path)
	if !ok {
		return NoScope, false
	}

	id, ok := r.namespaceScopes[ns]
	return id, ok
}

// RootScope returns the scope of the package's top-level statements.
func (r *Result) RootScope() ScopeID {
	return r.rootScope
}

// Errors returns only the error diagnostics of the result.
func (r *Result) Errors() []*report.Diagnostic {
	var errs []*report.Diagnostic
	for _, d := range r.Diagnostics {
		if d.Severity == report.SeverityError {
			errs = append(errs, d)
		}
	}

	return errs
}
