package resolve

import (
	"nsbind/ast"
	"nsbind/common"
	"nsbind/depm"
	"nsbind/report"
)

// Resolve resolves a path as seen from a scope in the given visibility
// context.  Terms are tried first, then types and finally namespaces.  The
// result is never mutated: the same query always yields the same answer.  On
// failure, the returned diagnostic describes the problem but is not recorded.
func (r *Result) Resolve(path []string, scope ScopeID, ctx VisibilityContext) (depm.Res, *report.Diagnostic) {
	lk := r.lookup(ctx)

	res, termErr := lk.resolve(depm.TermName, path, scope)
	if termErr == nil {
		return res, nil
	} else if termErr.failure == failAmbiguous {
		return depm.ErrorRes{}, r.diagnose(termErr)
	}

	res, tyErr := lk.resolve(depm.TypeName, path, scope)
	if tyErr == nil {
		return res, nil
	} else if tyErr.failure == failAmbiguous {
		return depm.ErrorRes{}, r.diagnose(tyErr)
	}

	if ns, _, ok := lk.resolveNamespace(path, scope); ok {
		return depm.NamespaceRes{ID: ns}, nil
	}

	return depm.ErrorRes{}, r.diagnose(termErr)
}

// ResolveType resolves a path in type position.
func (r *Result) ResolveType(path []string, scope ScopeID, ctx VisibilityContext) (depm.Res, *report.Diagnostic) {
	res, err := r.lookup(ctx).resolve(depm.TypeName, path, scope)
	if err != nil {
		return depm.ErrorRes{}, r.diagnose(err)
	}

	return res, nil
}

func (r *Result) lookup(ctx VisibilityContext) *lookup {
	return &lookup{table: r.Table, scopes: r.Scopes, ctx: ctx, entry: r.Entry}
}

// diagnose builds the diagnostic for a failed query without reporting it.
func (r *Result) diagnose(err *lookupError) *report.Diagnostic {
	rep := report.NewReporter("")
	b := &binder{table: r.Table, rep: rep}
	b.reportLookupError(report.TextSpan{}, err)
	return rep.Diagnostics()[0]
}

// -----------------------------------------------------------------------------

// walkNamespace resolves every reference inside the items of a namespace.
func (b *binder) walkNamespace(scope ScopeID, decl *ast.Namespace) {
	for _, item := range decl.Items {
		b.walkItem(scope, item)
	}
}

// walkItem resolves the references of a declared item.  Opens, imports and
// exports were already handled by the fixpoint.
func (b *binder) walkItem(scope ScopeID, item *ast.Item) {
	switch v := item.Kind.(type) {
	case *ast.CallableDecl:
		b.walkCallable(scope, item, v)
	case *ast.TypeDecl:
		for _, field := range v.Fields {
			b.walkTy(scope, field.Ty)
		}
	case *ast.OpenDecl, *ast.ImportOrExportDecl:
	default:
		report.ReportICE("unknown item kind %T", v)
	}
}

// walkCallable resolves a callable's signature and body in a fresh callable
// scope holding its generic parameters and parameters.
func (b *binder) walkCallable(parent ScopeID, item *ast.Item, decl *ast.CallableDecl) {
	ns := b.scopes.Get(parent).Namespace
	scopeID := b.scopes.Push(ScopeCallable, parent, ns, item.Span)
	scope := b.scopes.Get(scopeID)

	for _, g := range decl.Generics {
		scope.tyVars[g.Name] = g.ID
		b.names[g.ID] = depm.LocalRes{Node: g.ID}
	}

	bound := make(map[string]*ast.Ident)
	for _, pat := range decl.Input {
		b.walkPat(scopeID, pat, bound)
	}

	b.walkTy(scopeID, decl.Output)

	if decl.Body != nil {
		b.walkBlock(scopeID, decl.Body)
	}
}

// walkBlock resolves a block in a new block scope.  Items declared in the
// block are visible throughout it; locals only after their declaration.
func (b *binder) walkBlock(parent ScopeID, block *ast.Block) {
	ns := b.scopes.Get(parent).Namespace
	scope := b.scopes.Push(ScopeBlock, parent, ns, block.Span)

	b.resolveImports(b.declareBlockItems(scope, block.Stmts))
	b.walkStmts(scope, block.Stmts)
}

// walkStmts resolves a list of statements whose items were already declared
// in the scope.
func (b *binder) walkStmts(scope ScopeID, stmts []*ast.Stmt) {
	for _, stmt := range stmts {
		b.walkStmt(scope, stmt)
	}
}

func (b *binder) walkStmt(scope ScopeID, stmt *ast.Stmt) {
	switch v := stmt.Kind.(type) {
	case *ast.ItemStmt:
		b.walkItem(scope, v.Item)
	case *ast.LocalStmt:
		// the initializer cannot see the names it binds
		b.walkExpr(scope, v.Init)
		b.walkPat(scope, v.Pat, make(map[string]*ast.Ident))
	case *ast.ExprStmt:
		b.walkExpr(scope, v.Expr)
	default:
		report.ReportICE("unknown statement kind %T", v)
	}
}

func (b *binder) walkExpr(scope ScopeID, expr *ast.Expr) {
	if expr == nil {
		return
	}

	switch v := expr.Kind.(type) {
	case *ast.PathExpr:
		b.resolveTermPath(scope, v.Path)
	case *ast.CallExpr:
		b.walkExpr(scope, v.Callee)
		for _, arg := range v.Args {
			b.walkExpr(scope, arg)
		}
	case *ast.LitExpr:
	case *ast.TupleExpr:
		for _, item := range v.Items {
			b.walkExpr(scope, item)
		}
	case *ast.BlockExpr:
		b.walkBlock(scope, v.Block)
	case *ast.LambdaExpr:
		ns := b.scopes.Get(scope).Namespace
		inner := b.scopes.Push(ScopeBlock, scope, ns, expr.Span)
		b.walkPat(inner, v.Input, make(map[string]*ast.Ident))
		b.walkExpr(inner, v.Body)
	case *ast.ForExpr:
		b.walkExpr(scope, v.Iter)

		ns := b.scopes.Get(scope).Namespace
		inner := b.scopes.Push(ScopeBlock, scope, ns, expr.Span)
		b.walkPat(inner, v.Pat, make(map[string]*ast.Ident))
		b.walkBlock(inner, v.Body)
	default:
		report.ReportICE("unknown expression kind %T", v)
	}
}

// walkPat binds the names of a pattern in a scope.  `bound` tracks the names
// bound by the enclosing pattern list so that a name bound twice at once is
// reported; shadowing an earlier local is allowed.
func (b *binder) walkPat(scopeID ScopeID, pat *ast.Pat, bound map[string]*ast.Ident) {
	if pat == nil {
		return
	}

	switch v := pat.Kind.(type) {
	case *ast.BindPat:
		b.walkTy(scopeID, v.Ty)

		if prev, ok := bound[v.Name.Name]; ok {
			b.rep.Report(&report.Diagnostic{
				Kind:     report.DuplicateBinding,
				Severity: report.SeverityError,
				Span:     v.Name.Span,
				Message:  "`" + v.Name.Name + "` is bound more than once in this pattern",
				Related:  []report.RelatedSpan{{Span: prev.Span, Label: "first binding"}},
			})
		}

		bound[v.Name.Name] = v.Name
		b.scopes.Get(scopeID).vars[v.Name.Name] = v.Name.ID
		b.names[v.Name.ID] = depm.LocalRes{Node: v.Name.ID}
	case *ast.DiscardPat:
		b.walkTy(scopeID, v.Ty)
	case *ast.TuplePat:
		for _, item := range v.Items {
			b.walkPat(scopeID, item, bound)
		}
	default:
		report.ReportICE("unknown pattern kind %T", v)
	}
}

func (b *binder) walkTy(scope ScopeID, ty *ast.Ty) {
	if ty == nil {
		return
	}

	switch v := ty.Kind.(type) {
	case *ast.PathTy:
		res, err := b.lk.resolve(depm.TypeName, v.Path.Names(), scope)
		b.recordPath(v.Path, res, err)
	case *ast.ParamTy:
		b.resolveTyParam(scope, v.Name)
	case *ast.TupleTy:
		for _, item := range v.Items {
			b.walkTy(scope, item)
		}
	case *ast.ArrowTy:
		b.walkTy(scope, v.In)
		b.walkTy(scope, v.Out)
	case *ast.ArrayTy:
		b.walkTy(scope, v.Elem)
	default:
		report.ReportICE("unknown type kind %T", v)
	}
}

// resolveTermPath resolves a path in expression position.  A path that names
// no term may still name a type, which is how struct constructors are
// referenced.
func (b *binder) resolveTermPath(scope ScopeID, path *ast.Path) {
	names := path.Names()

	res, err := b.lk.resolve(depm.TermName, names, scope)
	if err != nil && err.failure == failNotFound {
		if tyRes, tyErr := b.lk.resolve(depm.TypeName, names, scope); tyErr == nil {
			if _, prim := tyRes.(depm.PrimRes); !prim {
				res, err = tyRes, nil
			}
		} else if tyErr.failure == failAmbiguous {
			res, err = tyRes, tyErr
		}
	}

	b.recordPath(path, res, err)
}

// resolveTyParam resolves a reference to a generic parameter.
func (b *binder) resolveTyParam(scopeID ScopeID, name *ast.Ident) {
	for id := scopeID; id != NoScope; id = b.scopes.Get(id).Parent {
		if node, ok := b.scopes.Get(id).tyVars[name.Name]; ok {
			b.names[name.ID] = depm.LocalRes{Node: node}
			return
		}
	}

	b.names[name.ID] = depm.ErrorRes{}
	b.rep.ReportError(report.UnresolvedName, name.Span, "type parameter `%s` not found", name.Name)
}

// -----------------------------------------------------------------------------

// ResolveNamespacePath resolves a dotted path to a namespace from the root.
// It is a convenience for callers that only deal in absolute paths.
func (r *Result) ResolveNamespacePath(path string) (depm.NamespaceID, bool) {
	return r.Table.Tree.Lookup(common.SplitPath(path))
}

// Describe formats a result by the qualified name of what it denotes.
func (r *Result) Describe(res depm.Res) string {
	return (&binder{table: r.Table}).describe(res)
}
