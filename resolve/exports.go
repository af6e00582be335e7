package resolve

import (
	"nsbind/depm"
	"nsbind/report"
)

// finalizeExports runs once every namespace-level import has settled.  An
// export of an item declared in the same namespace under its own name only
// makes that item public.  Every other export gets an export item, including
// exports that failed so that references to them stay inert.
func (b *binder) finalizeExports() {
	for _, p := range b.exports {
		scope := b.scopes.Get(p.scope)

		switch p.status {
		case statusItem:
			if p.term != nil {
				b.finalizeItemExport(p, scope, depm.TermName, p.term)
			}

			if p.ty != nil {
				b.finalizeItemExport(p, scope, depm.TypeName, p.ty)
			}
		case statusNamespace:
			b.rejectNamespaceExport(p, scope)
			b.bindFailedExport(p, scope)
		case statusError:
			b.bindFailedExport(p, scope)
		default:
			report.ReportICE("export `%s` did not settle", p.path)
		}
	}
}

// finalizeItemExport finalizes an export that resolved to an item in one
// partition.
func (b *binder) finalizeItemExport(p *pendingImport, scope *Scope, kind depm.NameKind, res depm.Res) {
	if ir, ok := res.(depm.ItemRes); ok && ir.ID.IsLocal() {
		item, _ := b.table.Item(ir.ID)
		if item.Namespace == scope.Namespace && !item.Local && item.Name == p.alias {
			item.Public = true
			return
		}
	}

	binding, ok := b.table.Get(scope.Namespace, kind, p.alias)
	if !ok || binding.Source != depm.SourceExport || binding.Res != res || binding.Export != nil {
		// the export collided with another binding and was already reported
		return
	}

	export := b.table.NewExport(p.alias, scope.Namespace, res, p.span)
	binding.Export = &export.ID
}

// bindFailedExport records an export item for an export whose target could
// not be resolved and binds its name to the error so later references to it
// are not reported again.
func (b *binder) bindFailedExport(p *pendingImport, scope *Scope) {
	export := b.table.NewExport(p.alias, scope.Namespace, depm.ErrorRes{}, p.span)

	if _, ok := b.table.Get(scope.Namespace, depm.TermName, p.alias); !ok {
		b.table.Bind(scope.Namespace, depm.TermName, p.alias, &depm.Binding{
			Res:    depm.ErrorRes{},
			Source: depm.SourceExport,
			Span:   p.span,
			Export: &export.ID,
		})
	}
}

// rejectNamespaceExport reports an export whose path denotes a namespace.
// Namespaces have no item identity so exporting one can never make its
// members visible; the export is not bound to anything.
func (b *binder) rejectNamespaceExport(p *pendingImport, scope *Scope) {
	tree := b.table.Tree
	name := b.namespaceName(p.ns)

	if p.viaAlias || tree.Origin(p.ns)&depm.OriginExternal != 0 {
		b.rep.ReportError(report.CrossNamespaceExportOfTransitiveNamespace, p.span,
			"cannot re-export namespace `%s`: members of a namespace from another package or alias are not exported with it; export each item by name", name)
		return
	}

	if tree.Origin(p.ns)&depm.OriginDeclared == 0 || tree.IsAncestor(p.ns, scope.Namespace) {
		b.rep.ReportError(report.ProhibitedNamespaceExport, p.span,
			"cannot export parent namespace `%s`: it has no item identity", name)
		return
	}

	b.rep.ReportError(report.ProhibitedNamespaceExport, p.span,
		"exporting namespace `%s` has no effect: its members are not exported with it; export each item by name", name)
}
