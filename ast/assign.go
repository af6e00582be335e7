package ast

import "nsbind/report"

// Assigner hands out node IDs.  A single assigner must be used for every tree
// resolved against the same symbol table so that IDs never collide, which is
// why interactive cells continue numbering where their base package stopped.
type Assigner struct {
	next NodeID
}

// NewAssigner creates an assigner whose first ID is `start`.
func NewAssigner(start NodeID) *Assigner {
	return &Assigner{next: start}
}

// Next returns the next unused ID.
func (a *Assigner) Next() NodeID {
	id := a.next
	a.next++
	return id
}

// Peek returns the ID that will be handed out next.
func (a *Assigner) Peek() NodeID {
	return a.next
}

// AssignIDs numbers every node of the package in source order.
func (a *Assigner) AssignIDs(pkg *Package) {
	for _, ns := range pkg.Namespaces {
		ns.ID = a.Next()
		a.path(ns.Name)

		for _, item := range ns.Items {
			a.item(item)
		}
	}

	a.AssignStmts(pkg.Stmts)
}

// AssignStmts numbers a list of top-level statements.
func (a *Assigner) AssignStmts(stmts []*Stmt) {
	for _, stmt := range stmts {
		a.stmt(stmt)
	}
}

func (a *Assigner) item(item *Item) {
	item.ID = a.Next()

	switch v := item.Kind.(type) {
	case *CallableDecl:
		a.ident(v.Name)
		for _, g := range v.Generics {
			a.ident(g)
		}

		for _, p := range v.Input {
			a.pat(p)
		}

		a.ty(v.Output)
		a.block(v.Body)
	case *TypeDecl:
		a.ident(v.Name)
		for _, f := range v.Fields {
			a.ident(f.Name)
			a.ty(f.Ty)
		}
	case *OpenDecl:
		a.path(v.Path)
		a.ident(v.Alias)
	case *ImportOrExportDecl:
		for _, ii := range v.Items {
			ii.ID = a.Next()
			a.path(ii.Path)
			a.ident(ii.Alias)
		}
	default:
		report.ReportICE("unknown item kind %T", v)
	}
}

func (a *Assigner) block(block *Block) {
	if block == nil {
		return
	}

	block.ID = a.Next()
	for _, stmt := range block.Stmts {
		a.stmt(stmt)
	}
}

func (a *Assigner) stmt(stmt *Stmt) {
	stmt.ID = a.Next()

	switch v := stmt.Kind.(type) {
	case *ItemStmt:
		a.item(v.Item)
	case *LocalStmt:
		a.pat(v.Pat)
		a.expr(v.Init)
	case *ExprStmt:
		a.expr(v.Expr)
	default:
		report.ReportICE("unknown statement kind %T", v)
	}
}

func (a *Assigner) expr(expr *Expr) {
	if expr == nil {
		return
	}

	expr.ID = a.Next()

	switch v := expr.Kind.(type) {
	case *PathExpr:
		a.path(v.Path)
	case *CallExpr:
		a.expr(v.Callee)
		for _, arg := range v.Args {
			a.expr(arg)
		}
	case *LitExpr:
	case *TupleExpr:
		for _, item := range v.Items {
			a.expr(item)
		}
	case *BlockExpr:
		a.block(v.Block)
	case *LambdaExpr:
		a.pat(v.Input)
		a.expr(v.Body)
	case *ForExpr:
		a.pat(v.Pat)
		a.expr(v.Iter)
		a.block(v.Body)
	default:
		report.ReportICE("unknown expression kind %T", v)
	}
}

func (a *Assigner) pat(pat *Pat) {
	if pat == nil {
		return
	}

	pat.ID = a.Next()

	switch v := pat.Kind.(type) {
	case *BindPat:
		a.ident(v.Name)
		a.ty(v.Ty)
	case *DiscardPat:
		a.ty(v.Ty)
	case *TuplePat:
		for _, item := range v.Items {
			a.pat(item)
		}
	default:
		report.ReportICE("unknown pattern kind %T", v)
	}
}

func (a *Assigner) ty(ty *Ty) {
	if ty == nil {
		return
	}

	ty.ID = a.Next()

	switch v := ty.Kind.(type) {
	case *PathTy:
		a.path(v.Path)
	case *ParamTy:
		a.ident(v.Name)
	case *TupleTy:
		for _, item := range v.Items {
			a.ty(item)
		}
	case *ArrowTy:
		a.ty(v.In)
		a.ty(v.Out)
	case *ArrayTy:
		a.ty(v.Elem)
	default:
		report.ReportICE("unknown type kind %T", v)
	}
}

func (a *Assigner) path(path *Path) {
	if path == nil {
		return
	}

	path.ID = a.Next()
	for _, seg := range path.Segments {
		a.ident(seg)
	}
}

func (a *Assigner) ident(ident *Ident) {
	if ident != nil {
		ident.ID = a.Next()
	}
}
