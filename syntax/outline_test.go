package syntax

import (
	"os"
	"path/filepath"
	"testing"

	"nsbind/ast"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOutline = `stmts = ["open Sample"]

[[namespace]]
name = "Sample"
open = "Std.Math as M"
import = ["Other.*", "Other.F as G"]
export = "Run"

[[namespace.type]]
name = "Pair"
public = true
fields = ["fst: Int", "snd: 'T"]

[[namespace.callable]]
name = "Run"
kind = "operation"
specs = ["body", "adj"]
generics = ["T"]
params = ["q: Qubit"]
output = "Unit"
body = "let r = M.Measure(q); G(r)"
`

func TestLoader_ParseOutline(t *testing.T) {
	pkg, err := NewLoader().ParseOutline(sampleOutline)
	require.NoError(t, err)

	require.Len(t, pkg.Stmts, 1)
	require.Len(t, pkg.Namespaces, 1)

	ns := pkg.Namespaces[0]
	assert.Equal(t, "Sample", ns.Name.String())
	assert.Equal(t, 3, ns.Name.Span.StartLine)

	// opens, imports and exports come before types and callables
	require.Len(t, ns.Items, 6)
	assert.IsType(t, &ast.OpenDecl{}, ns.Items[0].Kind)

	// every import string is its own declaration
	imports := ns.Items[1].Kind.(*ast.ImportOrExportDecl)
	assert.False(t, imports.Export)
	require.Len(t, imports.Items, 1)
	assert.True(t, imports.Items[0].Wildcard)

	aliased := ns.Items[2].Kind.(*ast.ImportOrExportDecl)
	assert.False(t, aliased.Export)
	assert.Equal(t, "G", aliased.Items[0].LocalName().Name)
	assert.True(t, ns.Items[3].Kind.(*ast.ImportOrExportDecl).Export)

	pair := ns.Items[4].Kind.(*ast.TypeDecl)
	assert.True(t, ns.Items[4].Public)
	assert.Len(t, pair.Fields, 2)

	assert.IsType(t, &ast.CallableDecl{}, ns.Items[5].Kind)
}

func TestLoader_Callables(t *testing.T) {
	pkg, err := NewLoader().ParseOutline(sampleOutline + `
[[namespace.callable]]
name = "Other"
`)
	require.NoError(t, err)

	items := pkg.Namespaces[0].Items
	run := items[len(items)-2].Kind.(*ast.CallableDecl)

	assert.Equal(t, ast.Operation, run.Kind)
	assert.Equal(t, []ast.SpecKind{ast.SpecBody, ast.SpecAdj}, run.Specs)
	assert.Equal(t, "T", run.Generics[0].Name)
	require.Len(t, run.Input, 1)
	require.NotNil(t, run.Output)
	require.NotNil(t, run.Body)
	assert.Len(t, run.Body.Stmts, 2)

	other := items[len(items)-1].Kind.(*ast.CallableDecl)
	assert.Equal(t, ast.Function, other.Kind)
	assert.Nil(t, other.Body)
	assert.False(t, items[len(items)-1].Public)
}

func TestLoader_AssignsUniqueIDs(t *testing.T) {
	loader := NewLoader()

	first, err := loader.ParseOutline(sampleOutline)
	require.NoError(t, err)

	mid := loader.NextID()
	assert.Greater(t, int(mid), 0)

	second, err := loader.ParseOutline(sampleOutline)
	require.NoError(t, err)
	assert.NotEqual(t, first.Namespaces[0].Name.ID, second.Namespaces[0].Name.ID)

	stmts, err := NewLoaderAt(loader.NextID()).ParseCell("open Sample\nlet x = 1; x")
	require.NoError(t, err)
	require.Len(t, stmts, 3)
	assert.Equal(t, 1, stmts[1].Span.StartLine)

	merged := Merge(first, second)
	assert.Len(t, merged.Namespaces, 2)
	assert.Len(t, merged.Stmts, 2)
}

func TestLoader_LoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleOutline), 0644))

	pkg, err := NewLoader().LoadFile(path, "sample.toml")
	require.NoError(t, err)

	ns := pkg.Namespaces[0]
	assert.Equal(t, "sample.toml", ns.Name.Span.File)
	assert.Equal(t, "sample.toml", ns.Items[3].Span.File)

	_, err = NewLoader().LoadFile(filepath.Join(dir, "missing.toml"), "missing.toml")
	assert.Error(t, err)
}

func TestLoader_Errors(t *testing.T) {
	for name, src := range map[string]string{
		"bad toml":       "[[namespace]\n",
		"no name":        "[[namespace]]\nopen = \"A\"\n",
		"bad kind":       "[[namespace]]\nname = \"A\"\n[[namespace.callable]]\nname = \"F\"\nkind = \"macro\"\n",
		"bad spec":       "[[namespace]]\nname = \"A\"\n[[namespace.callable]]\nname = \"F\"\nspecs = [\"ctrl\"]\n",
		"bad field":      "[[namespace]]\nname = \"A\"\n[[namespace.type]]\nname = \"T\"\nfields = [\"_: Int\"]\n",
		"bad public":     "[[namespace]]\nname = \"A\"\n[[namespace.type]]\nname = \"T\"\npublic = \"yes\"\n",
		"bad item name":  "[[namespace]]\nname = \"A\"\n[[namespace.type]]\nname = \"A.T\"\n",
		"bad statements": "stmts = [\"let = 1\"]\n",
		"bad imports":    "[[namespace]]\nname = \"A\"\nimport = 3\n",
	} {
		_, err := NewLoader().ParseOutline(src)
		assert.Error(t, err, name)
	}
}
