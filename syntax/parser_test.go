package syntax

import (
	"testing"

	"nsbind/ast"
	"nsbind/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanner_Tokens(t *testing.T) {
	toks, err := NewScanner(`let x = F.G("s", 1.5) -> 'T`, 2, 4).ScanAll()
	require.NoError(t, err)

	var values []string
	for _, tok := range toks[:len(toks)-1] {
		values = append(values, tok.Value)
	}

	assert.Equal(t, []string{"let", "x", "=", "F", ".", "G", "(", "s", ",", "1.5", ")", "->", "'", "T"}, values)
	assert.Equal(t, EOF, toks[len(toks)-1].Kind)
	assert.Equal(t, STRING, toks[7].Kind)
	assert.Equal(t, NUMBER, toks[9].Kind)

	// positions are offset by the start of the text
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 8, toks[1].Col)
}

func TestScanner_Errors(t *testing.T) {
	for _, src := range []string{`"open`, "a # b"} {
		_, err := NewScanner(src, 0, 0).ScanAll()
		assert.Error(t, err, src)
	}
}

func TestParser_ImportItems(t *testing.T) {
	p, err := NewParser("a.toml", "A.B as C, D.*, E", 0, 0)
	require.NoError(t, err)

	items, err := p.ParseImportItems()
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "A.B", items[0].Path.String())
	assert.Equal(t, "C", items[0].LocalName().Name)
	assert.True(t, items[1].Wildcard)
	assert.Equal(t, "D", items[1].Path.String())
	assert.Equal(t, "E", items[2].LocalName().Name)

	assert.Equal(t, report.TextSpan{StartLine: 0, StartCol: 0, EndLine: 0, EndCol: 7, File: "a.toml"}, items[0].Span)
	assert.Equal(t, "a.toml", items[2].Path.Segments[0].Span.File)
}

func TestParser_Statements(t *testing.T) {
	p, err := NewParser("", "open A as B; import C.D; function F(x: Int): Unit { x }; newtype T; let (a, _) = G(1); y -> y", 0, 0)
	require.NoError(t, err)

	stmts, err := p.ParseStmts()
	require.NoError(t, err)
	require.Len(t, stmts, 6)

	open := stmts[0].Kind.(*ast.ItemStmt).Item.Kind.(*ast.OpenDecl)
	assert.Equal(t, "A", open.Path.String())
	assert.Equal(t, "B", open.Alias.Name)

	imp := stmts[1].Kind.(*ast.ItemStmt).Item.Kind.(*ast.ImportOrExportDecl)
	assert.False(t, imp.Export)

	fn := stmts[2].Kind.(*ast.ItemStmt).Item.Kind.(*ast.CallableDecl)
	assert.Equal(t, "F", fn.Name.Name)
	assert.Len(t, fn.Input, 1)
	require.NotNil(t, fn.Body)
	assert.Len(t, fn.Body.Stmts, 1)

	assert.IsType(t, &ast.TypeDecl{}, stmts[3].Kind.(*ast.ItemStmt).Item.Kind)

	let := stmts[4].Kind.(*ast.LocalStmt)
	assert.IsType(t, &ast.TuplePat{}, let.Pat.Kind)
	assert.IsType(t, &ast.CallExpr{}, let.Init.Kind)

	assert.IsType(t, &ast.LambdaExpr{}, stmts[5].Kind.(*ast.ExprStmt).Expr.Kind)
}

func TestParser_Types(t *testing.T) {
	p, err := NewParser("", "(Int, 'T[]) -> A.B", 0, 0)
	require.NoError(t, err)

	ty, err := p.ParseTy()
	require.NoError(t, err)

	arrow := ty.Kind.(*ast.ArrowTy)
	tuple := arrow.In.Kind.(*ast.TupleTy)
	require.Len(t, tuple.Items, 2)
	assert.IsType(t, &ast.ArrayTy{}, tuple.Items[1].Kind)
	assert.Equal(t, "A.B", arrow.Out.Kind.(*ast.PathTy).Path.String())
}

func TestParser_Errors(t *testing.T) {
	for _, src := range []string{"let = 1", "import", "function (x)", "A B", "open A as"} {
		p, err := NewParser("", src, 0, 0)
		require.NoError(t, err, src)

		_, err = p.ParseStmts()
		assert.Error(t, err, src)
	}

	p, err := NewParser("", "let", 0, 0)
	require.NoError(t, err)
	_, err = p.ParsePath()
	assert.Error(t, err)
}
