// Package ast defines the parsed input consumed by the binder and resolver.
// Every node that can carry a resolution carries a NodeID; IDs are assigned
// by the producer of the tree (see AssignIDs).
package ast

import (
	"nsbind/report"
	"strings"
)

// NodeID identifies a node within a single package tree.
type NodeID int

// Package is the root of a parsed compilation unit.
type Package struct {
	// The namespace declarations of the package.
	Namespaces []*Namespace

	// The top-level statements of the package.  These only occur in
	// interactive and notebook contexts.
	Stmts []*Stmt
}

// Ident is a single identifier.
type Ident struct {
	ID   NodeID
	Name string
	Span report.TextSpan
}

// Path is a dotted path such as `A.B.C`.
type Path struct {
	ID       NodeID
	Segments []*Ident
	Span     report.TextSpan
}

// Names returns the segment names of the path.
func (p *Path) Names() []string {
	names := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		names[i] = seg.Name
	}

	return names
}

// Qualifier returns every segment but the last.
func (p *Path) Qualifier() []string {
	return p.Names()[:len(p.Segments)-1]
}

// Name returns the last segment of the path.
func (p *Path) Name() *Ident {
	return p.Segments[len(p.Segments)-1]
}

func (p *Path) String() string {
	return strings.Join(p.Names(), ".")
}

// -----------------------------------------------------------------------------

// Namespace is a namespace declaration block.  The same namespace may be
// declared by several blocks.
type Namespace struct {
	ID    NodeID
	Name  *Path
	Span  report.TextSpan
	Items []*Item
}

// Item is a declaration appearing in a namespace or block.
type Item struct {
	ID   NodeID
	Span report.TextSpan

	// Public indicates the item was declared with public visibility.  Items
	// are internal to their package otherwise.
	Public bool

	Kind ItemKind
}

// ItemKind is the payload of an item: one of *CallableDecl, *TypeDecl,
// *OpenDecl or *ImportOrExportDecl.
type ItemKind interface {
	itemKind()
}

// CallableKind distinguishes functions from operations.
type CallableKind int

// Enumeration of callable kinds.
const (
	Function CallableKind = iota
	Operation
)

// SpecKind is a specialization a callable provides.
type SpecKind int

// Enumeration of specializations.
const (
	SpecBody SpecKind = iota
	SpecAdj
	SpecCtl
	SpecCtlAdj
)

// CallableDecl is a function or operation declaration.
type CallableDecl struct {
	Name     *Ident
	Kind     CallableKind
	Generics []*Ident
	Input    []*Pat
	Output   *Ty
	Specs    []SpecKind
	Body     *Block
}

// TypeDecl is a struct or newtype declaration.
type TypeDecl struct {
	Name   *Ident
	Fields []*FieldDecl
}

// FieldDecl is a single field of a type declaration.
type FieldDecl struct {
	Name *Ident
	Ty   *Ty
}

// OpenDecl is an `open` statement.  An open without an alias makes the
// names of the namespace visible unqualified.
type OpenDecl struct {
	Path  *Path
	Alias *Ident
}

// ImportOrExportDecl is an `import` or `export` statement listing one or
// more paths.
type ImportOrExportDecl struct {
	Export bool
	Items  []*ImportItem
}

// ImportItem is a single path of an import or export statement.
type ImportItem struct {
	ID       NodeID
	Span     report.TextSpan
	Path     *Path
	Alias    *Ident
	Wildcard bool
}

// LocalName returns the name the import binds: its alias if it has one and
// the last segment of its path otherwise.
func (ii *ImportItem) LocalName() *Ident {
	if ii.Alias != nil {
		return ii.Alias
	}

	return ii.Path.Name()
}

func (*CallableDecl) itemKind()       {}
func (*TypeDecl) itemKind()           {}
func (*OpenDecl) itemKind()           {}
func (*ImportOrExportDecl) itemKind() {}

// -----------------------------------------------------------------------------

// Block is a braced sequence of statements with its own scope.
type Block struct {
	ID    NodeID
	Span  report.TextSpan
	Stmts []*Stmt
}

// Stmt is a statement within a block.
type Stmt struct {
	ID   NodeID
	Span report.TextSpan
	Kind StmtKind
}

// StmtKind is the payload of a statement: one of *ItemStmt, *LocalStmt or
// *ExprStmt.
type StmtKind interface {
	stmtKind()
}

// ItemStmt is an item declared inside a block.
type ItemStmt struct {
	Item *Item
}

// LocalStmt is a `let` binding.
type LocalStmt struct {
	Pat  *Pat
	Init *Expr
}

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	Expr *Expr
}

func (*ItemStmt) stmtKind()  {}
func (*LocalStmt) stmtKind() {}
func (*ExprStmt) stmtKind()  {}

// -----------------------------------------------------------------------------

// Expr is an expression node.
type Expr struct {
	ID   NodeID
	Span report.TextSpan
	Kind ExprKind
}

// ExprKind is the payload of an expression.
type ExprKind interface {
	exprKind()
}

// PathExpr is a reference to a name.
type PathExpr struct {
	Path *Path
}

// CallExpr is a call of a callee with arguments.
type CallExpr struct {
	Callee *Expr
	Args   []*Expr
}

// LitExpr is a literal value.
type LitExpr struct {
	Value string
}

// TupleExpr is a tuple of expressions.
type TupleExpr struct {
	Items []*Expr
}

// BlockExpr is a block used as an expression.
type BlockExpr struct {
	Block *Block
}

// LambdaExpr is an anonymous callable.
type LambdaExpr struct {
	Input *Pat
	Body  *Expr
}

// ForExpr is a `for` loop binding each element of Iter to Pat.
type ForExpr struct {
	Pat  *Pat
	Iter *Expr
	Body *Block
}

func (*PathExpr) exprKind()   {}
func (*CallExpr) exprKind()   {}
func (*LitExpr) exprKind()    {}
func (*TupleExpr) exprKind()  {}
func (*BlockExpr) exprKind()  {}
func (*LambdaExpr) exprKind() {}
func (*ForExpr) exprKind()    {}

// -----------------------------------------------------------------------------

// Pat is a binding pattern.
type Pat struct {
	ID   NodeID
	Span report.TextSpan
	Kind PatKind
}

// PatKind is the payload of a pattern.
type PatKind interface {
	patKind()
}

// BindPat binds a single name, optionally annotated with a type.
type BindPat struct {
	Name *Ident
	Ty   *Ty
}

// DiscardPat matches anything without binding it.
type DiscardPat struct {
	Ty *Ty
}

// TuplePat destructures a tuple.
type TuplePat struct {
	Items []*Pat
}

func (*BindPat) patKind()    {}
func (*DiscardPat) patKind() {}
func (*TuplePat) patKind()   {}

// -----------------------------------------------------------------------------

// Ty is a type reference.
type Ty struct {
	ID   NodeID
	Span report.TextSpan
	Kind TyKind
}

// TyKind is the payload of a type reference.
type TyKind interface {
	tyKind()
}

// PathTy names a type by path.
type PathTy struct {
	Path *Path
}

// ParamTy refers to a generic parameter such as `'T`.
type ParamTy struct {
	Name *Ident
}

// TupleTy is a tuple of types.
type TupleTy struct {
	Items []*Ty
}

// ArrowTy is a callable type.
type ArrowTy struct {
	In, Out *Ty
}

// ArrayTy is an array of an element type.
type ArrayTy struct {
	Elem *Ty
}

func (*PathTy) tyKind()  {}
func (*ParamTy) tyKind() {}
func (*TupleTy) tyKind() {}
func (*ArrowTy) tyKind() {}
func (*ArrayTy) tyKind() {}
