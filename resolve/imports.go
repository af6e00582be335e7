package resolve

import (
	"nsbind/ast"
	"nsbind/common"
	"nsbind/depm"
	"nsbind/report"
)

// resolveImports drives a set of pending statements to a fixed point and
// reports those that never resolved.
func (b *binder) resolveImports(pending []*pendingImport) {
	b.settleImports(pending)
	b.reportUnresolved(pending)
}

// settleImports runs the fixpoint.  Each iteration retries every statement
// that has not settled; the loop stops once an iteration binds nothing new.
// Failures are not reported here since a later binding may still satisfy a
// statement that failed early.
func (b *binder) settleImports(pending []*pendingImport) {
	// every productive iteration settles at least one statement
	limit := len(pending) + 1

	for iter := 0; ; iter++ {
		if iter == limit {
			b.rep.ReportError(report.ImportResolutionLimitExceeded, pending[0].span,
				"import resolution did not converge after %d iterations", limit)
			return
		}

		progress := false
		for _, p := range pending {
			if p.status == statusItem || p.status == statusNamespace {
				continue
			}

			if b.tryResolve(p) {
				progress = true
			}
		}

		if !progress {
			return
		}
	}
}

// reportUnresolved reports every statement left unresolved by the fixpoint.
func (b *binder) reportUnresolved(pending []*pendingImport) {
	for _, p := range pending {
		if p.status == statusError {
			b.names[p.path.ID] = depm.ErrorRes{}
			b.reportLookupError(p.path.Span, p.err)
		}
	}
}

// tryResolve attempts to resolve a single pending statement.  It returns
// whether the attempt changed what is visible in any scope.
func (b *binder) tryResolve(p *pendingImport) bool {
	if p.kind == pendingOpen {
		ns, _, ok := b.lk.resolveNamespace(p.path.Names(), p.scope)
		if !ok {
			p.status = statusError
			p.err = &lookupError{failure: failNotFound, path: p.path.Names()}
			return false
		}

		p.status = statusNamespace
		p.ns = ns
		b.names[p.path.ID] = depm.NamespaceRes{ID: ns}
		return b.scopes.Get(p.scope).addOpen(p.alias, Open{Namespace: ns, Span: p.span})
	}

	names := p.path.Names()
	term, termErr := b.lk.resolve(depm.TermName, names, p.scope)
	ty, tyErr := b.lk.resolve(depm.TypeName, names, p.scope)

	p.term, p.ty = nil, nil
	if termErr == nil && importable(term) {
		p.term = term
	}

	if tyErr == nil && importable(ty) {
		p.ty = ty
	}

	if p.term == nil && p.ty == nil {
		if termErr != nil && termErr.failure == failAmbiguous {
			p.status, p.err = statusError, termErr
			return false
		} else if tyErr != nil && tyErr.failure == failAmbiguous {
			p.status, p.err = statusError, tyErr
			return false
		}

		ns, viaAlias, ok := b.lk.resolveNamespace(names, p.scope)
		if !ok {
			p.status = statusError
			p.err = &lookupError{failure: failNotFound, path: names}
			return false
		}

		p.status = statusNamespace
		p.ns, p.viaAlias = ns, viaAlias
		b.names[p.path.ID] = depm.NamespaceRes{ID: ns}

		// exported namespaces are rejected once imports settle
		if p.kind == pendingExport {
			return false
		}

		return b.scopes.Get(p.scope).addOpen(p.alias, Open{Namespace: ns, Span: p.span})
	}

	p.status = statusItem

	progress := false
	if p.term != nil {
		b.names[p.path.ID] = p.term
		if b.bindImported(p, depm.TermName, p.term) {
			progress = true
		}
	}

	if p.ty != nil {
		if p.term == nil {
			b.names[p.path.ID] = p.ty
		}

		if b.bindImported(p, depm.TypeName, p.ty) {
			progress = true
		}
	}

	return progress
}

// importable returns whether a result can be bound by an import.  Locals and
// primitive types cannot be; errors are bound inertly.
func importable(res depm.Res) bool {
	switch res.(type) {
	case depm.ItemRes, depm.ErrorRes:
		return true
	default:
		return false
	}
}

// bindImported binds the name of a resolved import or export according to the
// collision policy of its scope.  It returns whether a new binding was made.
func (b *binder) bindImported(p *pendingImport, kind depm.NameKind, res depm.Res) bool {
	scope := b.scopes.Get(p.scope)
	name := p.alias

	// in block scopes, local declarations win and imports shadow imports
	if scope.Kind != ScopeNamespace {
		if prev, ok := scope.Binding(kind, name); ok && (prev.Res == res || prev.Source == depm.SourceDeclared) {
			return false
		}

		scope.bind(kind, name, &depm.Binding{Res: res, Source: depm.SourceImport, Span: p.span})
		return true
	}

	if p.kind == pendingExport {
		return b.bindExport(p, scope, kind, res)
	}

	if prev, ok := b.table.Get(scope.Namespace, kind, name); ok && prev.Source != depm.SourceExternal {
		if prev.Res != res {
			b.reportImportCollision(p, kind, prev)
		}

		return false
	}

	if prev, ok := scope.Binding(kind, name); ok {
		if prev.Res != res {
			b.reportImportCollision(p, kind, prev)
		}

		return false
	}

	scope.bind(kind, name, &depm.Binding{Res: res, Source: depm.SourceImport, Span: p.span})
	return true
}

// bindExport binds an exported name in the namespace's global table so other
// namespaces can import it while the fixpoint runs.  Exporting a name already
// declared in the namespace binds nothing.
func (b *binder) bindExport(p *pendingImport, scope *Scope, kind depm.NameKind, res depm.Res) bool {
	key := exportKey{ns: scope.Namespace, kind: kind, name: p.alias}

	if prev, ok := b.table.Get(scope.Namespace, kind, p.alias); ok && prev.Source != depm.SourceExternal {
		if prev.Res != res {
			b.reportImportCollision(p, kind, prev)
		} else if _, dup := b.exported[key]; dup {
			b.rep.Report(&report.Diagnostic{
				Kind:     report.DuplicateImportBinding,
				Severity: report.SeverityError,
				Span:     p.span,
				Message:  "`" + p.alias + "` is already exported from namespace `" + b.namespaceName(scope.Namespace) + "`",
				Related:  []report.RelatedSpan{{Span: prev.Span, Label: "previous binding"}},
			})
		} else {
			b.exported[key] = struct{}{}
		}

		return false
	}

	if prev, ok := scope.Binding(kind, p.alias); ok && prev.Res != res {
		b.reportImportCollision(p, kind, prev)
		return false
	}

	b.exported[key] = struct{}{}
	b.table.Bind(scope.Namespace, kind, p.alias, &depm.Binding{Res: res, Source: depm.SourceExport, Span: p.span})
	return true
}

// -----------------------------------------------------------------------------

// reportImportCollision reports a direct import or export whose name is
// already bound to something else.
func (b *binder) reportImportCollision(p *pendingImport, kind depm.NameKind, prev *depm.Binding) {
	what := "imported"
	switch prev.Source {
	case depm.SourceDeclared:
		what = "declared"
	case depm.SourceExport:
		what = "exported"
	}

	b.rep.Report(&report.Diagnostic{
		Kind:     report.DuplicateImportBinding,
		Severity: report.SeverityError,
		Span:     p.span,
		Message:  "`" + p.alias + "` is already " + what + " as a " + kind.String() + " in namespace `" + b.namespaceName(b.scopes.Get(p.scope).Namespace) + "`",
		Related:  []report.RelatedSpan{{Span: prev.Span, Label: "previous binding"}},
	})
}

// reportLookupError turns a failed lookup into a diagnostic.
func (b *binder) reportLookupError(span report.TextSpan, err *lookupError) {
	path := common.JoinPath(err.path)

	if err.failure == failNotFound {
		b.rep.ReportError(report.UnresolvedName, span, "`%s` not found", path)
		return
	}

	d := &report.Diagnostic{
		Kind:     report.AmbiguousName,
		Severity: report.SeverityError,
		Span:     span,
		Message:  "`" + path + "` is ambiguous",
	}

	for _, cand := range err.candidates {
		d.Related = append(d.Related, report.RelatedSpan{
			Span:  cand.span,
			Label: "could refer to `" + b.describe(cand.res) + "` found here",
		})
	}

	b.rep.Report(d)
}

// describe formats a result for a diagnostic.
func (b *binder) describe(res depm.Res) string {
	switch v := res.(type) {
	case depm.ItemRes:
		if item, ok := b.table.Item(v.ID); ok {
			if ns := b.namespaceName(item.Namespace); ns != "" {
				return ns + "." + item.Name
			}

			return item.Name
		}

		return v.String()
	case depm.NamespaceRes:
		return b.namespaceName(v.ID)
	case depm.LocalRes, depm.PrimRes, depm.ErrorRes:
		return v.String()
	default:
		report.ReportICE("unknown resolution %T", v)
		return ""
	}
}

func (b *binder) namespaceName(ns depm.NamespaceID) string {
	return common.JoinPath(b.table.Tree.Path(ns))
}

// recordPath stores the result of a path and reports a lookup failure once.
func (b *binder) recordPath(path *ast.Path, res depm.Res, err *lookupError) {
	b.names[path.ID] = res
	if err != nil {
		b.reportLookupError(path.Span, err)
	}
}
