package resolve

import (
	"testing"

	"nsbind/common"
	"nsbind/depm"
	"nsbind/report"
	"nsbind/syntax"

	"github.com/stretchr/testify/require"
)

func bindOutline(t *testing.T, src string, deps ...*depm.Dependency) *Result {
	t.Helper()

	pkg, err := syntax.NewLoader().ParseOutline(src)
	require.NoError(t, err)

	return Bind(pkg, deps, Options{})
}

func kindsOf(diags []*report.Diagnostic) []report.ErrorKind {
	kinds := make([]report.ErrorKind, len(diags))
	for i, d := range diags {
		kinds[i] = d.Kind
	}

	return kinds
}

func scopeOf(t *testing.T, r *Result, ns string) ScopeID {
	t.Helper()

	scope, ok := r.NamespaceScope(common.SplitPath(ns))
	require.True(t, ok, "no scope for namespace %s", ns)
	return scope
}

// declared returns the result a namespace binds a name to.
func declared(t *testing.T, r *Result, ns string, kind depm.NameKind, name string) depm.Res {
	t.Helper()

	id, ok := r.ResolveNamespacePath(ns)
	require.True(t, ok, "no namespace %s", ns)

	b, ok := r.Table.Get(id, kind, name)
	require.True(t, ok, "%s is not bound in %s", name, ns)
	return b.Res
}

func item(t *testing.T, r *Result, res depm.Res) *depm.Item {
	t.Helper()

	ir, ok := res.(depm.ItemRes)
	require.True(t, ok, "%s is not an item", res)

	it, ok := r.Table.Item(ir.ID)
	require.True(t, ok)
	return it
}
