package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"nsbind/common"
	"nsbind/depm"
	"nsbind/iface"
	"nsbind/mods"
	"nsbind/report"
	"nsbind/resolve"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func manifest(name string, extra string) string {
	return "[package]\nname = \"" + name + "\"\nlanguage-version = \"" + common.LanguageVersion + "\"\n" + extra
}

const libOutline = `
[[namespace]]
name = "Main"

[[namespace.callable]]
name = "Helper"
public = true

[[namespace.callable]]
name = "Secret"
`

const appOutline = `
[[namespace]]
name = "Main"

[[namespace.callable]]
name = "Run"
body = "Lib.Helper(); Length(1)"
`

// setupWorkspace lays out an application depending on a library by path and
// on a prebuilt standard library interface.
func setupWorkspace(t *testing.T, appSrc, libSrc string) string {
	dir := t.TempDir()

	require.NoError(t, iface.WriteFile(filepath.Join(dir, "std.iface.yaml"), &depm.Interface{
		Package: "Std",
		ID:      9,
		Namespaces: []*depm.InterfaceNamespace{{
			Path:    "Std.Core",
			Entries: []*depm.InterfaceEntry{{Name: "Length", Kind: "term", ItemKind: "callable", Target: depm.ItemID{Package: 9, Index: 1}}},
		}},
	}))

	writeFile(t, filepath.Join(dir, "lib", common.ManifestFileName), manifest("Lib", "interface = \"lib.iface.yaml\"\n"))
	writeFile(t, filepath.Join(dir, "lib", "main.toml"), libSrc)

	writeFile(t, filepath.Join(dir, "app", common.ManifestFileName), manifest("App", `
[[dependencies]]
alias = "Lib"
path = "../lib"

[[dependencies]]
interface = "../std.iface.yaml"
`))
	writeFile(t, filepath.Join(dir, "app", "main.toml"), appSrc)

	return dir
}

func analyzeApp(t *testing.T, dir string) (*Compiler, bool) {
	pkg, err := mods.LoadPackage(filepath.Join(dir, "app"))
	require.NoError(t, err)

	c := NewCompiler(pkg)
	ok, err := c.Analyze(context.Background())
	require.NoError(t, err)

	return c, ok
}

func TestCompiler_Analyze(t *testing.T) {
	dir := setupWorkspace(t, appOutline, libOutline)

	c, ok := analyzeApp(t, dir)
	require.True(t, ok)
	assert.Empty(t, c.Diagnostics())

	units := c.Units()
	require.Len(t, units, 2)
	assert.Equal(t, "Lib", units[0].Package.Name)
	assert.Equal(t, c.Root(), units[1])

	// the library's interface is written next to its manifest
	written, err := iface.LoadFile(filepath.Join(dir, "lib", "lib.iface.yaml"))
	require.NoError(t, err)
	assert.Equal(t, units[0].Interface, written)
	require.Len(t, written.Namespaces, 1)
	require.Len(t, written.Namespaces[0].Entries, 1)
	assert.Equal(t, "Helper", written.Namespaces[0].Entries[0].Name)

	res := c.Root().Result
	found, diag := res.Resolve([]string{"Lib", "Helper"}, res.RootScope(), resolve.DependentPackage)
	require.Nil(t, diag)
	assert.Equal(t, "Lib.Helper", res.Describe(found))
}

func TestCompiler_ErrorsStopDependents(t *testing.T) {
	dir := setupWorkspace(t, appOutline, libOutline+"body = \"Missing()\"\n")

	c, ok := analyzeApp(t, dir)
	require.False(t, ok)

	units := c.Units()
	require.Len(t, units, 1)
	assert.Nil(t, c.Root().Result)

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, report.UnresolvedName, diags[0].Kind)
	assert.Equal(t, "main.toml", diags[0].File)

	_, err := os.Stat(filepath.Join(dir, "lib", "lib.iface.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestCompiler_ReportsInternalNames(t *testing.T) {
	dir := setupWorkspace(t, appOutline+"\n[[namespace]]\nname = \"Other\"\nopen = \"Lib\"\nimport = \"Lib.Secret\"\n", libOutline)

	c, ok := analyzeApp(t, dir)
	require.False(t, ok)

	diags := c.Root().Result.Errors()
	require.Len(t, diags, 1)
	assert.Equal(t, report.UnresolvedName, diags[0].Kind)
}

func TestCompiler_ImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", common.ManifestFileName), manifest("A", "[[dependencies]]\nalias = \"B\"\npath = \"../b\"\n"))
	writeFile(t, filepath.Join(dir, "b", common.ManifestFileName), manifest("B", "[[dependencies]]\nalias = \"A\"\npath = \"../a\"\n"))

	pkg, err := mods.LoadPackage(filepath.Join(dir, "a"))
	require.NoError(t, err)

	_, err = NewCompiler(pkg).Analyze(context.Background())
	assert.Error(t, err)
}

func TestCompiler_MissingDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", common.ManifestFileName), manifest("A", "[[dependencies]]\nalias = \"B\"\npath = \"../b\"\n"))

	pkg, err := mods.LoadPackage(filepath.Join(dir, "a"))
	require.NoError(t, err)

	_, err = NewCompiler(pkg).Analyze(context.Background())
	assert.Error(t, err)
}

func TestCompiler_ResolutionBatches(t *testing.T) {
	util := &Unit{Package: &mods.Package{Name: "Util"}}
	lib := &Unit{Package: &mods.Package{Name: "Lib"}, dependsOn: []*unitDep{{alias: "Util", unit: util}}}
	app := &Unit{Package: &mods.Package{Name: "App"}, dependsOn: []*unitDep{
		{alias: "Util", unit: util},
		{alias: "Lib", unit: lib},
		{iface: &depm.Interface{Package: "Std"}},
	}}

	c := &Compiler{root: app}
	assert.Equal(t, [][]*Unit{{util}, {lib}, {app}}, c.createResolutionBatches(app))

	// independent dependencies share a batch
	other := &Unit{Package: &mods.Package{Name: "Other"}}
	app.dependsOn = append(app.dependsOn, &unitDep{alias: "Other", unit: other})
	assert.Equal(t, [][]*Unit{{util}, {lib, other}, {app}}, c.createResolutionBatches(app))
}

func TestSession(t *testing.T) {
	dir := setupWorkspace(t, appOutline, libOutline)
	c, ok := analyzeApp(t, dir)
	require.True(t, ok)

	_, err := NewSession(&Unit{Package: &mods.Package{Name: "X"}})
	assert.Error(t, err)

	s, err := NewSession(c.Root())
	require.NoError(t, err)

	cell, err := s.Eval("open Main\nlet x = Run(); Lib.Helper(x)")
	require.NoError(t, err)
	assert.Empty(t, cell.Diagnostics)

	found, diag := s.Resolve([]string{"Run"})
	require.Nil(t, diag)
	assert.Equal(t, "Main.Run", s.Describe(found))

	// cell node IDs never collide with those of the package
	for id := range cell.Names {
		_, inPackage := c.Root().Result.Names[id]
		assert.False(t, inPackage)
	}

	_, err = s.Eval("let = 1")
	assert.Error(t, err)

	failed, err := s.Eval("Nope()")
	require.NoError(t, err)
	require.Len(t, failed.Diagnostics, 1)
	assert.Equal(t, s.CellName(2), failed.Diagnostics[0].File)

	other, err := NewSession(c.Root())
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, other.ID)

	_, diag = other.Resolve([]string{"x"})
	assert.NotNil(t, diag)
}
