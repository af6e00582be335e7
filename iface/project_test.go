package iface

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"nsbind/common"
	"nsbind/depm"
	"nsbind/resolve"
	"nsbind/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libOutline = `
[[namespace]]
name = "Main"
export = ["Hidden as Shown", "Tools.Helper"]

[[namespace.callable]]
name = "Run"
public = true

[[namespace.callable]]
name = "Hidden"

[[namespace]]
name = "Tools"
export = ["Box", "Missing", "Main"]

[[namespace.type]]
name = "Box"

[[namespace.callable]]
name = "Helper"

[[namespace.callable]]
name = "Internal"
`

func bindLib(t *testing.T) *resolve.Result {
	t.Helper()

	pkg, err := syntax.NewLoader().ParseOutline(libOutline)
	require.NoError(t, err)

	return resolve.Bind(pkg, nil, resolve.Options{})
}

func entryNames(iface *depm.Interface) map[string][]string {
	names := make(map[string][]string)
	for _, ns := range iface.Namespaces {
		for _, entry := range ns.Entries {
			names[ns.Path] = append(names[ns.Path], entry.Kind+" "+entry.Name)
		}
	}

	return names
}

func TestProject_OnlyPublicNamesCross(t *testing.T) {
	r := bindLib(t)
	// `Missing` and the export of namespace `Main`
	require.Len(t, r.Errors(), 2)

	iface := Project(r, "Lib")

	assert.Equal(t, "Lib", iface.Package)
	assert.Equal(t, depm.PackageID(common.GeneratePackageID("Lib")), iface.ID)
	assert.Equal(t, "Main", iface.Entry)

	assert.Equal(t, map[string][]string{
		"Main":  {"term Helper", "term Run", "term Shown"},
		"Tools": {"type Box"},
	}, entryNames(iface))

	for _, ns := range iface.Namespaces {
		for _, entry := range ns.Entries {
			assert.Equal(t, iface.ID, entry.Target.Package, entry.Name)

			switch entry.Name {
			case "Run", "Box":
				assert.Nil(t, entry.Export, entry.Name)
			default:
				require.NotNil(t, entry.Export, entry.Name)
				assert.Equal(t, iface.ID, entry.Export.Package)
			}
		}
	}
}

func TestProject_ExportTargetsTerminalItem(t *testing.T) {
	r := bindLib(t)
	iface := Project(r, "Lib")

	hidden, ok := r.Table.Get(mustLookup(t, r, "Main"), depm.TermName, "Hidden")
	require.True(t, ok)

	for _, entry := range iface.Namespaces[0].Entries {
		if entry.Name == "Shown" {
			assert.Equal(t, hidden.Res.(depm.ItemRes).ID.Index, entry.Target.Index)
			assert.Equal(t, "callable", entry.ItemKind)
			return
		}
	}

	t.Fatal("no entry for Shown")
}

func mustLookup(t *testing.T, r *resolve.Result, path string) depm.NamespaceID {
	ns, ok := r.ResolveNamespacePath(path)
	require.True(t, ok)
	return ns
}

func TestProject_DependentSeesInterface(t *testing.T) {
	lib := Project(bindLib(t), "Lib")

	pkg, err := syntax.NewLoader().ParseOutline(`
[[namespace]]
name = "App"
import = ["Lib.Run", "Lib.Shown", "Lib.Helper", "Lib.Tools.Box"]
open = "Lib.Tools"

[[namespace.callable]]
name = "Use"
body = "Hidden(); Internal()"
`)
	require.NoError(t, err)

	r := resolve.Bind(pkg, []*depm.Dependency{{Alias: "Lib", Interface: lib}}, resolve.Options{})
	require.Len(t, r.Diagnostics, 2)
	assert.Contains(t, r.Diagnostics[0].Message, "Hidden")
	assert.Contains(t, r.Diagnostics[1].Message, "Internal")

	// re-projecting does not leak the dependency's names
	assert.Empty(t, Project(r, "App").Namespaces)
}

func TestInterfaceFile_RoundTrip(t *testing.T) {
	iface := Project(bindLib(t), "Lib")

	path := filepath.Join(t.TempDir(), "Lib"+common.InterfaceFileExtension)
	require.NoError(t, WriteFile(path, iface))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, iface, loaded)
}

func TestInterfaceFile_Encoding(t *testing.T) {
	buff := &bytes.Buffer{}
	require.NoError(t, Encode(buff, &depm.Interface{
		Package: "Lib",
		ID:      5,
		Entry:   "Main",
		Namespaces: []*depm.InterfaceNamespace{{
			Path:    "Main",
			Entries: []*depm.InterfaceEntry{{Name: "F", Kind: "term", ItemKind: "callable", Target: depm.ItemID{Package: 5, Index: 1}}},
		}},
	}))

	assert.Equal(t, `package: Lib
id: 5
entry: Main
namespaces:
  - path: Main
    entries:
      - name: F
        kind: term
        item-kind: callable
        target:
          package: 5
          index: 1
`, buff.String())
}

func TestInterfaceFile_RejectsMalformed(t *testing.T) {
	for _, src := range []string{
		"package: Lib\nversion: 2\n",
		"id: 3\n",
		"package: [",
	} {
		_, err := Decode(strings.NewReader(src))
		assert.Error(t, err, src)
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.iface.yaml"))
	assert.Error(t, err)
}
