package syntax

import (
	"fmt"

	"nsbind/ast"
	"nsbind/report"
)

// Parser parses the statement text of outline bodies and interactive cells.
// It produces AST nodes without IDs; the loader assigns them afterwards.
type Parser struct {
	toks []*Token
	pos  int

	// file is the repr path stamped onto every span.
	file string

	// prev is the last token consumed and is used to close spans.
	prev *Token
}

// NewParser creates a parser over a line of statement text starting at the
// given position of the file at `file`.
func NewParser(file, src string, line, col int) (*Parser, error) {
	toks, err := NewScanner(src, line, col).ScanAll()
	if err != nil {
		return nil, err
	}

	return &Parser{toks: toks, file: file}, nil
}

// ParseStmts parses a `;`-separated list of statements that must make up the
// whole input.
func (p *Parser) ParseStmts() ([]*ast.Stmt, error) {
	stmts, err := p.stmts()
	if err != nil {
		return nil, err
	}

	if !p.at(EOF, "") {
		return nil, p.unexpected()
	}

	return stmts, nil
}

// ParseImportItems parses the comma-separated paths of an import or export.
func (p *Parser) ParseImportItems() ([]*ast.ImportItem, error) {
	items, err := p.importItems()
	if err != nil {
		return nil, err
	}

	if !p.at(EOF, "") {
		return nil, p.unexpected()
	}

	return items, nil
}

// ParseOpen parses the path and optional alias of an open.
func (p *Parser) ParseOpen() (*ast.OpenDecl, error) {
	decl, err := p.openBody()
	if err != nil {
		return nil, err
	}

	if !p.at(EOF, "") {
		return nil, p.unexpected()
	}

	return decl, nil
}

// ParsePath parses a dotted path that must make up the whole input.
func (p *Parser) ParsePath() (*ast.Path, error) {
	path, err := p.path()
	if err != nil {
		return nil, err
	}

	if !p.at(EOF, "") {
		return nil, p.unexpected()
	}

	return path, nil
}

// ParseBinding parses a `name: Ty` pair used by parameters and fields.
func (p *Parser) ParseBinding() (*ast.Pat, error) {
	pat, err := p.pat()
	if err != nil {
		return nil, err
	}

	if !p.at(EOF, "") {
		return nil, p.unexpected()
	}

	return pat, nil
}

// ParseTy parses a type that must make up the whole input.
func (p *Parser) ParseTy() (*ast.Ty, error) {
	ty, err := p.ty()
	if err != nil {
		return nil, err
	}

	if !p.at(EOF, "") {
		return nil, p.unexpected()
	}

	return ty, nil
}

// -----------------------------------------------------------------------------

func (p *Parser) stmts() ([]*ast.Stmt, error) {
	var stmts []*ast.Stmt
	for !p.at(EOF, "") && !p.at(PUNCT, "}") {
		stmt, err := p.stmt()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, stmt)
		if !p.accept(PUNCT, ";") {
			break
		}
	}

	return stmts, nil
}

func (p *Parser) stmt() (*ast.Stmt, error) {
	start := p.curr()

	var kind ast.StmtKind
	switch {
	case p.at(IDENTIFIER, "let"):
		p.next()

		pat, err := p.pat()
		if err != nil {
			return nil, err
		}

		if err := p.expect(PUNCT, "="); err != nil {
			return nil, err
		}

		init, err := p.expr()
		if err != nil {
			return nil, err
		}

		kind = &ast.LocalStmt{Pat: pat, Init: init}
	case p.at(IDENTIFIER, "open"), p.at(IDENTIFIER, "import"), p.at(IDENTIFIER, "export"),
		p.at(IDENTIFIER, "function"), p.at(IDENTIFIER, "operation"), p.at(IDENTIFIER, "newtype"):
		item, err := p.item()
		if err != nil {
			return nil, err
		}

		kind = &ast.ItemStmt{Item: item}
	default:
		expr, err := p.expr()
		if err != nil {
			return nil, err
		}

		kind = &ast.ExprStmt{Expr: expr}
	}

	return &ast.Stmt{Span: p.spanFrom(start), Kind: kind}, nil
}

// item parses an item declared in a block.
func (p *Parser) item() (*ast.Item, error) {
	start := p.next()

	var kind ast.ItemKind
	switch start.Value {
	case "open":
		p.pos--
		decl, err := p.open()
		if err != nil {
			return nil, err
		}

		kind = decl
	case "import", "export":
		items, err := p.importItems()
		if err != nil {
			return nil, err
		}

		kind = &ast.ImportOrExportDecl{Export: start.Value == "export", Items: items}
	case "function", "operation":
		decl, err := p.callable(start.Value)
		if err != nil {
			return nil, err
		}

		kind = decl
	case "newtype":
		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		kind = &ast.TypeDecl{Name: name}
	}

	return &ast.Item{Span: p.spanFrom(start), Kind: kind}, nil
}

// callable parses `function Name(params) { stmts }` where the parameter list
// and body are optional.
func (p *Parser) callable(keyword string) (*ast.CallableDecl, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	decl := &ast.CallableDecl{Name: name}
	if keyword == "operation" {
		decl.Kind = ast.Operation
	}

	if p.accept(PUNCT, "(") {
		for !p.at(PUNCT, ")") {
			pat, err := p.pat()
			if err != nil {
				return nil, err
			}

			decl.Input = append(decl.Input, pat)
			if !p.accept(PUNCT, ",") {
				break
			}
		}

		if err := p.expect(PUNCT, ")"); err != nil {
			return nil, err
		}
	}

	if p.accept(PUNCT, ":") {
		if decl.Output, err = p.ty(); err != nil {
			return nil, err
		}
	}

	if p.at(PUNCT, "{") {
		if decl.Body, err = p.block(); err != nil {
			return nil, err
		}
	}

	return decl, nil
}

func (p *Parser) open() (*ast.OpenDecl, error) {
	if err := p.expect(IDENTIFIER, "open"); err != nil {
		return nil, err
	}

	return p.openBody()
}

func (p *Parser) openBody() (*ast.OpenDecl, error) {
	path, err := p.path()
	if err != nil {
		return nil, err
	}

	decl := &ast.OpenDecl{Path: path}
	if p.accept(IDENTIFIER, "as") {
		if decl.Alias, err = p.ident(); err != nil {
			return nil, err
		}
	}

	return decl, nil
}

func (p *Parser) importItems() ([]*ast.ImportItem, error) {
	var items []*ast.ImportItem
	for {
		start := p.curr()

		path, err := p.path()
		if err != nil {
			return nil, err
		}

		ii := &ast.ImportItem{Path: path}
		if p.accept(PUNCT, ".") {
			if err := p.expect(PUNCT, "*"); err != nil {
				return nil, err
			}

			ii.Wildcard = true
		}

		if p.accept(IDENTIFIER, "as") {
			if ii.Alias, err = p.ident(); err != nil {
				return nil, err
			}
		}

		ii.Span = p.spanFrom(start)
		items = append(items, ii)

		if !p.accept(PUNCT, ",") {
			return items, nil
		}
	}
}

func (p *Parser) block() (*ast.Block, error) {
	start := p.curr()
	if err := p.expect(PUNCT, "{"); err != nil {
		return nil, err
	}

	stmts, err := p.stmts()
	if err != nil {
		return nil, err
	}

	if err := p.expect(PUNCT, "}"); err != nil {
		return nil, err
	}

	return &ast.Block{Span: p.spanFrom(start), Stmts: stmts}, nil
}

func (p *Parser) expr() (*ast.Expr, error) {
	start := p.curr()

	// a lambda starts with a parameter followed by an arrow
	if p.at(IDENTIFIER, "") && p.peekIs(PUNCT, "->") {
		input, err := p.pat()
		if err != nil {
			return nil, err
		}

		p.next()
		body, err := p.expr()
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Span: p.spanFrom(start), Kind: &ast.LambdaExpr{Input: input, Body: body}}, nil
	}

	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for p.accept(PUNCT, "(") {
		var args []*ast.Expr
		for !p.at(PUNCT, ")") {
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}

			args = append(args, arg)
			if !p.accept(PUNCT, ",") {
				break
			}
		}

		if err := p.expect(PUNCT, ")"); err != nil {
			return nil, err
		}

		expr = &ast.Expr{Span: p.spanFrom(start), Kind: &ast.CallExpr{Callee: expr, Args: args}}
	}

	return expr, nil
}

func (p *Parser) primary() (*ast.Expr, error) {
	start := p.curr()

	switch {
	case p.at(NUMBER, "") || p.at(STRING, ""):
		tok := p.next()
		return &ast.Expr{Span: p.spanFrom(start), Kind: &ast.LitExpr{Value: tok.Value}}, nil
	case p.at(IDENTIFIER, "for"):
		p.next()

		pat, err := p.pat()
		if err != nil {
			return nil, err
		}

		if err := p.expect(IDENTIFIER, "in"); err != nil {
			return nil, err
		}

		iter, err := p.expr()
		if err != nil {
			return nil, err
		}

		body, err := p.block()
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Span: p.spanFrom(start), Kind: &ast.ForExpr{Pat: pat, Iter: iter, Body: body}}, nil
	case p.at(IDENTIFIER, ""):
		path, err := p.path()
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Span: path.Span, Kind: &ast.PathExpr{Path: path}}, nil
	case p.at(PUNCT, "{"):
		block, err := p.block()
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Span: block.Span, Kind: &ast.BlockExpr{Block: block}}, nil
	case p.at(PUNCT, "("):
		p.next()

		var items []*ast.Expr
		for !p.at(PUNCT, ")") {
			item, err := p.expr()
			if err != nil {
				return nil, err
			}

			items = append(items, item)
			if !p.accept(PUNCT, ",") {
				break
			}
		}

		if err := p.expect(PUNCT, ")"); err != nil {
			return nil, err
		}

		return &ast.Expr{Span: p.spanFrom(start), Kind: &ast.TupleExpr{Items: items}}, nil
	}

	return nil, p.unexpected()
}

func (p *Parser) pat() (*ast.Pat, error) {
	start := p.curr()

	if p.accept(PUNCT, "(") {
		var items []*ast.Pat
		for !p.at(PUNCT, ")") {
			item, err := p.pat()
			if err != nil {
				return nil, err
			}

			items = append(items, item)
			if !p.accept(PUNCT, ",") {
				break
			}
		}

		if err := p.expect(PUNCT, ")"); err != nil {
			return nil, err
		}

		return &ast.Pat{Span: p.spanFrom(start), Kind: &ast.TuplePat{Items: items}}, nil
	}

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	var ty *ast.Ty
	if p.accept(PUNCT, ":") {
		if ty, err = p.ty(); err != nil {
			return nil, err
		}
	}

	if name.Name == "_" {
		return &ast.Pat{Span: p.spanFrom(start), Kind: &ast.DiscardPat{Ty: ty}}, nil
	}

	return &ast.Pat{Span: p.spanFrom(start), Kind: &ast.BindPat{Name: name, Ty: ty}}, nil
}

func (p *Parser) ty() (*ast.Ty, error) {
	start := p.curr()

	var ty *ast.Ty
	switch {
	case p.accept(PUNCT, "'"):
		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		ty = &ast.Ty{Span: p.spanFrom(start), Kind: &ast.ParamTy{Name: name}}
	case p.accept(PUNCT, "("):
		var items []*ast.Ty
		for !p.at(PUNCT, ")") {
			item, err := p.ty()
			if err != nil {
				return nil, err
			}

			items = append(items, item)
			if !p.accept(PUNCT, ",") {
				break
			}
		}

		if err := p.expect(PUNCT, ")"); err != nil {
			return nil, err
		}

		ty = &ast.Ty{Span: p.spanFrom(start), Kind: &ast.TupleTy{Items: items}}
	default:
		path, err := p.path()
		if err != nil {
			return nil, err
		}

		ty = &ast.Ty{Span: path.Span, Kind: &ast.PathTy{Path: path}}
	}

	for p.at(PUNCT, "[") {
		p.next()
		if err := p.expect(PUNCT, "]"); err != nil {
			return nil, err
		}

		ty = &ast.Ty{Span: p.spanFrom(start), Kind: &ast.ArrayTy{Elem: ty}}
	}

	if p.accept(PUNCT, "->") {
		out, err := p.ty()
		if err != nil {
			return nil, err
		}

		ty = &ast.Ty{Span: p.spanFrom(start), Kind: &ast.ArrowTy{In: ty, Out: out}}
	}

	return ty, nil
}

// path parses a dotted path.  A trailing `.*` is left for the caller.
func (p *Parser) path() (*ast.Path, error) {
	start := p.curr()

	first, err := p.ident()
	if err != nil {
		return nil, err
	}

	path := &ast.Path{Segments: []*ast.Ident{first}}
	for p.at(PUNCT, ".") && p.peekIs(IDENTIFIER, "") {
		p.next()

		seg, err := p.ident()
		if err != nil {
			return nil, err
		}

		path.Segments = append(path.Segments, seg)
	}

	path.Span = p.spanFrom(start)
	return path, nil
}

func (p *Parser) ident() (*ast.Ident, error) {
	tok := p.curr()
	if tok.Kind != IDENTIFIER || (IsKeyword(tok.Value) && tok.Value != "_") {
		return nil, p.unexpected()
	}

	p.next()
	return &ast.Ident{Name: tok.Value, Span: p.tokenSpan(tok, tok)}, nil
}

// -----------------------------------------------------------------------------

func (p *Parser) curr() *Token {
	return p.toks[p.pos]
}

func (p *Parser) next() *Token {
	tok := p.toks[p.pos]
	if tok.Kind != EOF {
		p.pos++
	}

	p.prev = tok
	return tok
}

// at checks the kind and, if value is non-empty, the value of the current
// token.
func (p *Parser) at(kind int, value string) bool {
	tok := p.curr()
	return tok.Kind == kind && (value == "" || tok.Value == value)
}

func (p *Parser) peekIs(kind int, value string) bool {
	if p.pos+1 >= len(p.toks) {
		return false
	}

	tok := p.toks[p.pos+1]
	return tok.Kind == kind && (value == "" || tok.Value == value)
}

func (p *Parser) accept(kind int, value string) bool {
	if p.at(kind, value) {
		p.next()
		return true
	}

	return false
}

func (p *Parser) expect(kind int, value string) error {
	if !p.accept(kind, value) {
		return p.unexpected()
	}

	return nil
}

func (p *Parser) unexpected() error {
	tok := p.curr()
	if tok.Kind == EOF {
		return fmt.Errorf("%d:%d: unexpected end of statement", tok.Line+1, tok.Col+1)
	}

	return fmt.Errorf("%d:%d: unexpected token `%s`", tok.Line+1, tok.Col+1, tok.Value)
}

// spanFrom returns the span from a starting token to the last consumed token.
func (p *Parser) spanFrom(start *Token) report.TextSpan {
	end := p.prev
	if end == nil {
		end = start
	}

	return p.tokenSpan(start, end)
}

func (p *Parser) tokenSpan(start, end *Token) report.TextSpan {
	endCol := end.Col + len([]rune(end.Value)) - 1
	if end.Kind == STRING {
		endCol += 2
	}

	if endCol < end.Col {
		endCol = end.Col
	}

	return report.TextSpan{
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    endCol,
		File:      p.file,
	}
}
