package resolve

import (
	"sync"
	"testing"

	"nsbind/depm"
	"nsbind/report"
	"nsbind/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const interactiveBase = `
[[namespace]]
name = "A"

[[namespace.callable]]
name = "F"

[[namespace.type]]
name = "T"
`

func TestInteractive_CellsShareOneScope(t *testing.T) {
	loader := syntax.NewLoader()
	pkg, err := loader.ParseOutline(interactiveBase)
	require.NoError(t, err)

	base := Bind(pkg, nil, Options{})
	require.Empty(t, base.Diagnostics)

	it := NewInteractive(base)
	cell := func(src string) *CellResult {
		stmts, err := loader.ParseCell(src)
		require.NoError(t, err)
		return it.Cell("cell", stmts)
	}

	// internal items are visible to interactive cells
	require.Empty(t, cell("A.F()").Diagnostics)
	require.Empty(t, cell("open A; F()").Diagnostics)

	// redefinition is allowed in the top-level scope
	require.Empty(t, cell("import A.F; import A.F").Diagnostics)
	require.Empty(t, cell("let F = 1; F").Diagnostics)

	res, diag := it.Resolve([]string{"F"})
	require.Nil(t, diag)
	assert.IsType(t, depm.LocalRes{}, res)

	require.Empty(t, cell("function G() {}").Diagnostics)
	first, diag := it.Resolve([]string{"G"})
	require.Nil(t, diag)

	require.Empty(t, cell("function G() { F }").Diagnostics)
	second, diag := it.Resolve([]string{"G"})
	require.Nil(t, diag)
	assert.NotEqual(t, first, second)

	res, diag = it.Resolve([]string{"T"})
	require.Nil(t, diag)
	assert.Equal(t, declared(t, base, "A", depm.TypeName, "T"), res)

	failed := cell("Nope()")
	require.Len(t, failed.Diagnostics, 1)
	assert.Equal(t, report.UnresolvedName, failed.Diagnostics[0].Kind)
	assert.Equal(t, "cell", failed.Diagnostics[0].File)

	// the base package is never modified
	assert.Len(t, base.Table.Items(), 2)
	_, diag = base.Resolve([]string{"G"}, base.RootScope(), InteractiveOrNotebookCell)
	assert.NotNil(t, diag)
}

func TestInteractive_ConcurrentSessions(t *testing.T) {
	loader := syntax.NewLoader()
	pkg, err := loader.ParseOutline(interactiveBase)
	require.NoError(t, err)

	base := Bind(pkg, nil, Options{})
	start := loader.NextID()

	var wg sync.WaitGroup
	results := make([][]*report.Diagnostic, 8)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			cells := syntax.NewLoaderAt(start)
			it := NewInteractive(base)

			for _, src := range []string{"open A", "function F() {}", "let x = F(T)", "x"} {
				stmts, err := cells.ParseCell(src)
				if err != nil {
					panic(err)
				}

				results[i] = append(results[i], it.Cell("cell", stmts).Diagnostics...)
			}
		}(i)
	}

	wg.Wait()

	for _, diags := range results {
		assert.Empty(t, diags)
	}

	assert.Len(t, base.Table.Items(), 2)
}
