package depm

import (
	"fmt"
	"nsbind/ast"
)

// Res is the outcome of resolving a path.  The set of variants is closed:
// ItemRes, NamespaceRes, LocalRes, PrimRes and ErrorRes.  Every variant is a
// comparable value so results can be used as map keys.
type Res interface {
	isRes()
	fmt.Stringer
}

// ItemRes denotes an item or export item.
type ItemRes struct {
	ID ItemID
}

// NamespaceRes denotes a namespace.
type NamespaceRes struct {
	ID NamespaceID
}

// LocalRes denotes a local variable or parameter by the ID of the identifier
// that binds it.
type LocalRes struct {
	Node ast.NodeID
}

// PrimRes denotes a built-in primitive type.
type PrimRes struct {
	Name string
}

// ErrorRes marks a path whose resolution failed.  The failure has already
// been reported, so consumers must not report it again.
type ErrorRes struct{}

func (ItemRes) isRes()      {}
func (NamespaceRes) isRes() {}
func (LocalRes) isRes()     {}
func (PrimRes) isRes()      {}
func (ErrorRes) isRes()     {}

func (r ItemRes) String() string      { return "Item(" + r.ID.String() + ")" }
func (r NamespaceRes) String() string { return fmt.Sprintf("Namespace(%d)", r.ID) }
func (r LocalRes) String() string     { return fmt.Sprintf("Local(%d)", r.Node) }
func (r PrimRes) String() string      { return "Prim(" + r.Name + ")" }
func (ErrorRes) String() string       { return "Error" }

// IsError returns whether a result is the error marker.
func IsError(res Res) bool {
	_, ok := res.(ErrorRes)
	return ok
}
