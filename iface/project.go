// Package iface computes the public surface of a bound package and reads and
// writes it as an interface file for use by dependent packages.
package iface

import (
	"nsbind/common"
	"nsbind/depm"
	"nsbind/report"
	"nsbind/resolve"
)

// Project computes the public interface of a bound package.  A name is part
// of the interface if it is bound directly in a namespace of the package and
// either denotes an item declared public or is bound through a chain of export
// items ending in an item.  The contents of a namespace are never included
// just because the namespace is reachable: every name crosses a namespace
// boundary only when it is exported by name.
func Project(result *resolve.Result, pkgName string) *depm.Interface {
	p := &projector{
		table: result.Table,
		pkgID: depm.PackageID(common.GeneratePackageID(pkgName)),
	}

	iface := &depm.Interface{
		Package: pkgName,
		ID:      p.pkgID,
		Entry:   result.Entry,
	}

	p.table.Tree.Walk(func(ns depm.NamespaceID, path []string) {
		var entries []*depm.InterfaceEntry
		for _, kind := range []depm.NameKind{depm.TermName, depm.TypeName} {
			for _, name := range p.table.Names(ns, kind) {
				if entry, ok := p.entry(ns, kind, name); ok {
					entries = append(entries, entry)
				}
			}
		}

		if len(entries) > 0 {
			iface.Namespaces = append(iface.Namespaces, &depm.InterfaceNamespace{
				Path:    common.JoinPath(path),
				Entries: entries,
			})
		}
	})

	return iface
}

// projector holds the state of a single projection.
type projector struct {
	table *depm.SymbolTable
	pkgID depm.PackageID
}

// entry computes the interface entry of a single bound name, if it has one.
func (p *projector) entry(ns depm.NamespaceID, kind depm.NameKind, name string) (*depm.InterfaceEntry, bool) {
	b, _ := p.table.Get(ns, kind, name)

	var exportID *depm.ItemID
	switch b.Source {
	case depm.SourceDeclared:
		ir, ok := b.Res.(depm.ItemRes)
		if !ok {
			return nil, false
		}

		if item, ok := p.table.Item(ir.ID); !ok || !item.Public {
			return nil, false
		}
	case depm.SourceExport:
		if b.Export == nil {
			return nil, false
		}

		id := p.stamp(*b.Export)
		exportID = &id
	case depm.SourceImport, depm.SourceExternal:
		return nil, false
	default:
		report.ReportICE("unknown binding source %d", b.Source)
	}

	target, ok := p.terminal(b.Res)
	if !ok {
		return nil, false
	}

	itemKind := depm.ItemCallable
	if item, ok := p.table.Item(target); ok {
		itemKind = item.Kind
	}

	return &depm.InterfaceEntry{
		Name:     name,
		Kind:     kind.String(),
		ItemKind: itemKind.String(),
		Target:   p.stamp(target),
		Export:   exportID,
	}, true
}

// terminal follows a chain of export items to the item it ends in.  Chains
// ending in an error, or looping back on themselves, have no terminal item.
func (p *projector) terminal(res depm.Res) (depm.ItemID, bool) {
	visited := make(map[depm.ItemID]struct{})

	for {
		switch v := res.(type) {
		case depm.ItemRes:
			export, ok := p.table.Export(v.ID)
			if !ok {
				return v.ID, true
			}

			if _, seen := visited[v.ID]; seen {
				return depm.ItemID{}, false
			}

			visited[v.ID] = struct{}{}
			res = export.Target
		case depm.ErrorRes, depm.NamespaceRes, depm.LocalRes, depm.PrimRes:
			return depm.ItemID{}, false
		default:
			report.ReportICE("unknown resolution %T", v)
			return depm.ItemID{}, false
		}
	}
}

// stamp replaces the local package ID with the ID of the package.
func (p *projector) stamp(id depm.ItemID) depm.ItemID {
	if id.IsLocal() {
		id.Package = p.pkgID
	}

	return id
}
