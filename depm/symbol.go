package depm

import (
	"fmt"
	"nsbind/ast"
	"nsbind/report"
)

// PackageID identifies a package.  LocalPackage is the package currently
// being compiled; every other package is identified by the hash of its name.
type PackageID uint

// LocalPackage is the ID of the package being compiled.
const LocalPackage PackageID = 0

// LocalItemID is the index of an item within its package.
type LocalItemID int

// ItemID uniquely identifies an item across packages.  Items and export items
// share this ID space.
type ItemID struct {
	Package PackageID   `yaml:"package"`
	Index   LocalItemID `yaml:"index"`
}

func (id ItemID) String() string {
	if id.Package == LocalPackage {
		return fmt.Sprintf("%d", id.Index)
	}

	return fmt.Sprintf("%d:%d", id.Package, id.Index)
}

// IsLocal returns whether the item belongs to the package being compiled.
func (id ItemID) IsLocal() bool {
	return id.Package == LocalPackage
}

// ItemKind is the kind of an item.
type ItemKind int

// Enumeration of item kinds.
const (
	ItemCallable ItemKind = iota
	ItemType
	ItemExport
)

func (k ItemKind) String() string {
	switch k {
	case ItemCallable:
		return "callable"
	case ItemType:
		return "type"
	default:
		return "export"
	}
}

// Item is a declared callable or type.
type Item struct {
	// The unique ID of the item.
	ID ItemID

	// The declared name of the item.
	Name string

	// The namespace the item is declared in.  For items declared inside a
	// callable body, this is the namespace of the enclosing callable.
	Namespace NamespaceID

	// The kind of the item.
	Kind ItemKind

	// Public indicates whether the item is visible to dependent packages.
	// This is the only field that changes after the item is declared: a
	// same-namespace export flips it.
	Public bool

	// Local indicates the item was declared inside a block.
	Local bool

	// CallableKind and Specs are only meaningful for callables.
	CallableKind ast.CallableKind
	Specs        []ast.SpecKind

	// The span of the item's name.
	Span report.TextSpan
}

// ExportItem is an export that could not be represented by flipping the
// visibility of a locally declared item: aliased exports and re-exports of
// items declared elsewhere.
type ExportItem struct {
	// The ID of the export item.
	ID ItemID

	// The name the export is bound to.
	Name string

	// The namespace performing the export.
	Namespace NamespaceID

	// Target is the result the export denotes: an ItemRes when it resolved
	// and an ErrorRes otherwise.
	Target Res

	// The span of the export.
	Span report.TextSpan
}

// ItemAssigner allocates item IDs for the package being compiled.  IDs are
// handed out in declaration order so that binding the same tree twice
// produces the same IDs.
type ItemAssigner struct {
	next LocalItemID
}

// Next returns the next unused item ID.
func (a *ItemAssigner) Next() ItemID {
	id := ItemID{Package: LocalPackage, Index: a.next}
	a.next++
	return id
}
