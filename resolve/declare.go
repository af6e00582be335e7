package resolve

import (
	"nsbind/ast"
	"nsbind/common"
	"nsbind/depm"
	"nsbind/report"
)

// pendingKind is the kind of a pending open, import or export.
type pendingKind int

const (
	pendingOpen pendingKind = iota
	pendingDirect
	pendingExport
)

// importStatus is the resolution state of a pending statement.
type importStatus int

const (
	statusUnresolved importStatus = iota
	statusItem
	statusNamespace
	statusError
)

// pendingImport is an open, import or export waiting for the fixpoint.  The
// binder keeps them in flat slices and updates their state in place.
type pendingImport struct {
	kind  pendingKind
	scope ScopeID
	span  report.TextSpan

	// path is the path being imported and alias the name it is bound to.
	// For opens and glob imports, alias is the alias of the open, or empty.
	path  *ast.Path
	alias string

	// name is the identifier the statement binds, used for reporting.
	name *ast.Ident

	status importStatus

	// term and ty are the results found in each partition; at least one is
	// set once the statement resolves to an item.
	term, ty depm.Res

	// ns is set once the statement resolves to a namespace.
	ns       depm.NamespaceID
	viaAlias bool

	// err is the failure of the latest attempt.
	err *lookupError
}

// -----------------------------------------------------------------------------

// mountDependency makes the public names of a dependency visible under its
// alias.  The entry namespace of an aliased dependency is collapsed into the
// alias root.
func (b *binder) mountDependency(dep *depm.Dependency) {
	iface := dep.Interface

	root := depm.RootNamespace
	if dep.Alias != "" {
		root = b.table.Tree.Ensure([]string{dep.Alias})
		b.table.Tree.Mark(root, depm.OriginExternal)
	}

	for _, ins := range iface.Namespaces {
		path := common.SplitPath(ins.Path)
		if dep.Alias != "" && len(path) == 1 && path[0] == iface.Entry {
			path = nil
		}

		ns := root
		for _, seg := range path {
			ns = b.table.Tree.EnsureFrom(ns, []string{seg})
			b.table.Tree.Mark(ns, depm.OriginExternal)
		}

		for _, entry := range ins.Entries {
			target := entry.Target
			if target.Package == depm.LocalPackage {
				target.Package = iface.ID
			}

			b.table.AddExternalItem(&depm.Item{
				ID:        target,
				Name:      entry.Name,
				Namespace: ns,
				Kind:      externalItemKind(entry.ItemKind),
				Public:    true,
			})

			kind := externalNameKind(entry.Kind)
			if _, exists := b.table.Get(ns, kind, entry.Name); !exists {
				b.table.Bind(ns, kind, entry.Name, &depm.Binding{
					Res:    depm.ItemRes{ID: target},
					Source: depm.SourceExternal,
				})
			}
		}
	}
}

func externalNameKind(kind string) depm.NameKind {
	if kind == depm.TypeName.String() {
		return depm.TypeName
	}

	return depm.TermName
}

func externalItemKind(kind string) depm.ItemKind {
	if kind == depm.ItemType.String() {
		return depm.ItemType
	}

	return depm.ItemCallable
}

// -----------------------------------------------------------------------------

// declareNamespaces declares every item of every namespace and collects the
// namespaces' opens, imports and exports.  It returns the scope created for
// each namespace declaration.
func (b *binder) declareNamespaces(namespaces []*ast.Namespace) ([]ScopeID, []*pendingImport) {
	var pending []*pendingImport
	scopes := make([]ScopeID, len(namespaces))

	for i, decl := range namespaces {
		ns := b.table.Tree.Ensure(decl.Name.Names())
		b.table.Tree.Mark(ns, depm.OriginDeclared)
		b.names[decl.Name.ID] = depm.NamespaceRes{ID: ns}

		scope := b.scopes.Push(ScopeNamespace, NoScope, ns, decl.Span)
		if _, ok := b.namespaceScopes[ns]; !ok {
			b.namespaceScopes[ns] = scope
		}

		// a namespace can always refer to its own names and children
		b.scopes.Get(scope).addOpen("", Open{Namespace: ns, Span: decl.Name.Span})
		scopes[i] = scope

		for _, item := range decl.Items {
			pending = append(pending, b.declareItem(scope, item)...)
		}
	}

	return scopes, pending
}

// declareBlockItems declares the items of a block and collects its opens and
// imports.  Block-level declarations shadow instead of colliding.
func (b *binder) declareBlockItems(scope ScopeID, stmts []*ast.Stmt) []*pendingImport {
	var pending []*pendingImport
	for _, stmt := range stmts {
		if is, ok := stmt.Kind.(*ast.ItemStmt); ok {
			pending = append(pending, b.declareItem(scope, is.Item)...)
		}
	}

	return pending
}

// declareItem declares a single item in a scope.  Callables and types are
// bound immediately; opens, imports and exports are returned as pending.
func (b *binder) declareItem(scopeID ScopeID, item *ast.Item) []*pendingImport {
	scope := b.scopes.Get(scopeID)

	switch v := item.Kind.(type) {
	case *ast.CallableDecl:
		it := b.table.NewItem(v.Name.Name, scope.Namespace, depm.ItemCallable, v.Name.Span)
		it.Public = item.Public
		it.Local = scope.Kind != ScopeNamespace
		it.CallableKind = v.Kind
		it.Specs = v.Specs

		b.names[v.Name.ID] = depm.ItemRes{ID: it.ID}
		b.bindDeclared(scope, depm.TermName, v.Name, it)
	case *ast.TypeDecl:
		it := b.table.NewItem(v.Name.Name, scope.Namespace, depm.ItemType, v.Name.Span)
		it.Public = item.Public
		it.Local = scope.Kind != ScopeNamespace

		b.names[v.Name.ID] = depm.ItemRes{ID: it.ID}
		b.bindDeclared(scope, depm.TypeName, v.Name, it)
	case *ast.OpenDecl:
		p := &pendingImport{
			kind:  pendingOpen,
			scope: scopeID,
			span:  item.Span,
			path:  v.Path,
			name:  v.Path.Name(),
		}

		if v.Alias != nil {
			p.alias = v.Alias.Name
		}

		return []*pendingImport{p}
	case *ast.ImportOrExportDecl:
		var pending []*pendingImport
		for _, ii := range v.Items {
			if p := b.declareImportItem(scope, scopeID, ii, v.Export); p != nil {
				pending = append(pending, p)
			}
		}

		return pending
	default:
		report.ReportICE("unknown item kind %T", v)
	}

	return nil
}

// declareImportItem validates a single import or export path and turns it into
// a pending statement.  Malformed statements are reported and dropped.
func (b *binder) declareImportItem(scope *Scope, scopeID ScopeID, ii *ast.ImportItem, export bool) *pendingImport {
	if export && scope.Kind != ScopeNamespace {
		b.rep.ReportError(report.ExportFromLocalScope, ii.Span, "exports are only allowed at namespace level")
		b.names[ii.Path.ID] = depm.ErrorRes{}
		return nil
	}

	if ii.Wildcard {
		if export {
			b.rep.ReportError(report.InvalidWildcardTarget, ii.Span, "cannot export `%s.*`: export each name explicitly", ii.Path)
			b.names[ii.Path.ID] = depm.ErrorRes{}
			return nil
		}

		if ii.Alias != nil {
			b.rep.ReportError(report.InvalidWildcardTarget, ii.Span, "glob import `%s.*` cannot be aliased", ii.Path)
			b.names[ii.Path.ID] = depm.ErrorRes{}
			return nil
		}

		return &pendingImport{
			kind:  pendingOpen,
			scope: scopeID,
			span:  ii.Span,
			path:  ii.Path,
			name:  ii.Path.Name(),
		}
	}

	p := &pendingImport{
		kind:  pendingDirect,
		scope: scopeID,
		span:  ii.Span,
		path:  ii.Path,
		name:  ii.LocalName(),
		alias: ii.LocalName().Name,
	}

	if export {
		p.kind = pendingExport
		b.exports = append(b.exports, p)
	}

	return p
}

// bindDeclared binds a declared item in a scope.  In a namespace, two items
// of the same kind and name always collide; in a block the later one shadows.
func (b *binder) bindDeclared(scope *Scope, kind depm.NameKind, name *ast.Ident, item *depm.Item) {
	binding := &depm.Binding{
		Res:    depm.ItemRes{ID: item.ID},
		Source: depm.SourceDeclared,
		Span:   name.Span,
	}

	if scope.Kind != ScopeNamespace {
		scope.bind(kind, name.Name, binding)
		return
	}

	if prev, ok := b.table.Get(scope.Namespace, kind, name.Name); ok && prev.Source != depm.SourceExternal {
		b.rep.Report(&report.Diagnostic{
			Kind:     report.DuplicateDeclaration,
			Severity: report.SeverityError,
			Span:     name.Span,
			Message:  "`" + name.Name + "` is already declared in namespace `" + common.JoinPath(b.table.Tree.Path(scope.Namespace)) + "`",
			Related:  []report.RelatedSpan{{Span: prev.Span, Label: "previous declaration"}},
		})

		return
	}

	b.table.Bind(scope.Namespace, kind, name.Name, binding)
}
