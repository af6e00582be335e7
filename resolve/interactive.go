package resolve

import (
	"nsbind/ast"
	"nsbind/depm"
	"nsbind/report"
)

// Interactive resolves a sequence of interactive or notebook cells against a
// frozen base package.  Every cell is resolved in the same persistent
// top-level scope, so later cells see and may redefine what earlier cells
// declared.  The base result is never modified and may be shared by several
// sessions at once.
type Interactive struct {
	b     *binder
	scope ScopeID
}

// CellResult is the outcome of resolving a single cell.
type CellResult struct {
	Names       map[ast.NodeID]depm.Res
	Diagnostics []*report.Diagnostic
}

// NewInteractive creates a session over a bound base package.
func NewInteractive(base *Result) *Interactive {
	b := newBinder(base.Table.Clone(), &Scopes{}, report.NewReporter(""), base.Entry, InteractiveOrNotebookCell)
	scope := b.scopes.Push(ScopeBlock, NoScope, depm.RootNamespace, report.TextSpan{})

	return &Interactive{b: b, scope: scope}
}

// Cell binds and resolves the statements of one cell.  Node IDs of the cell
// must not overlap those of the base package or of earlier cells.
func (it *Interactive) Cell(file string, stmts []*ast.Stmt) *CellResult {
	it.b.rep = report.NewReporter(file)
	it.b.names = make(map[ast.NodeID]depm.Res)

	it.b.resolveImports(it.b.declareBlockItems(it.scope, stmts))
	it.b.walkStmts(it.scope, stmts)

	return &CellResult{
		Names:       it.b.names,
		Diagnostics: it.b.rep.Diagnostics(),
	}
}

// Resolve resolves a path in the session's top-level scope.
func (it *Interactive) Resolve(path []string) (depm.Res, *report.Diagnostic) {
	r := &Result{
		Table:  it.b.table,
		Scopes: it.b.scopes,
		Entry:  it.b.lk.entry,
	}

	return r.Resolve(path, it.scope, InteractiveOrNotebookCell)
}

// Describe formats a result by the qualified name of what it denotes.
func (it *Interactive) Describe(res depm.Res) string {
	return it.b.describe(res)
}
