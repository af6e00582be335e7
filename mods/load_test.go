package mods

import (
	"os"
	"path/filepath"
	"testing"

	"nsbind/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadPackage(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, common.ManifestFileName, `
[package]
name = "App"
version = "v1.0.0"
language-version = "v1.0.0"
interface = "out/app.iface.yaml"

[[dependencies]]
alias = "Lib"
path = "../lib"

[[dependencies]]
interface = "std.iface.yaml"
`)
	writeFile(t, dir, "b.toml", "")
	writeFile(t, dir, "a.toml", "")
	writeFile(t, dir, "notes.txt", "")

	pkg, err := LoadPackage(dir)
	require.NoError(t, err)

	assert.Equal(t, "App", pkg.Name)
	assert.Equal(t, common.DefaultEntryNamespace, pkg.Entry)
	assert.Equal(t, []string{filepath.Join(dir, "a.toml"), filepath.Join(dir, "b.toml")}, pkg.Sources)
	assert.Equal(t, filepath.Join(dir, "out", "app.iface.yaml"), pkg.Interface)

	require.Len(t, pkg.Dependencies, 2)
	assert.Equal(t, &Dependency{Alias: "Lib", Path: filepath.Join(filepath.Dir(dir), "lib")}, pkg.Dependencies[0])
	assert.Equal(t, &Dependency{Interface: filepath.Join(dir, "std.iface.yaml")}, pkg.Dependencies[1])
}

func TestLoadPackage_Sources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, common.ManifestFileName, `
[package]
name = "App"
entry = "Program"
language-version = "v1.2.0"
sources = ["src/*.toml", "src/main.toml"]
`)
	writeFile(t, dir, "src/main.toml", "")
	writeFile(t, dir, "top.toml", "")

	pkg, err := LoadPackage(dir)
	require.NoError(t, err)

	assert.Equal(t, "Program", pkg.Entry)
	assert.Equal(t, []string{filepath.Join(dir, "src", "main.toml")}, pkg.Sources)
	assert.Empty(t, pkg.Interface)
}

func TestLoadPackage_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing package":  `[[dependencies]]` + "\npath = \"x\"\n",
		"missing name":     "[package]\nlanguage-version = \"v1.0.0\"\n",
		"bad name":         "[package]\nname = \"my-app\"\nlanguage-version = \"v1.0.0\"\n",
		"bad entry":        "[package]\nname = \"App\"\nentry = \"A.B\"\nlanguage-version = \"v1.0.0\"\n",
		"bad version":      "[package]\nname = \"App\"\nversion = \"1.0\"\nlanguage-version = \"v1.0.0\"\n",
		"newer language":   "[package]\nname = \"App\"\nlanguage-version = \"v1.9.0\"\n",
		"both dep sources": "[package]\nname = \"App\"\nlanguage-version = \"v1.0.0\"\n[[dependencies]]\npath = \"a\"\ninterface = \"b\"\n",
		"no dep source":    "[package]\nname = \"App\"\nlanguage-version = \"v1.0.0\"\n[[dependencies]]\nalias = \"A\"\n",
		"bad alias":        "[package]\nname = \"App\"\nlanguage-version = \"v1.0.0\"\n[[dependencies]]\nalias = \"1A\"\npath = \"a\"\n",
		"duplicate alias":  "[package]\nname = \"App\"\nlanguage-version = \"v1.0.0\"\n[[dependencies]]\nalias = \"A\"\npath = \"a\"\n[[dependencies]]\nalias = \"A\"\npath = \"b\"\n",
		"bad toml":         "[package\n",
	}

	for name, manifest := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, common.ManifestFileName, manifest)

			_, err := LoadPackage(dir)
			assert.Error(t, err)
		})
	}

	_, err := LoadPackage(t.TempDir())
	assert.Error(t, err)
}

func TestCheckLanguageVersion(t *testing.T) {
	assert.NoError(t, CheckLanguageVersion("A", "v1.0.0"))
	assert.NoError(t, CheckLanguageVersion("A", "v1.2.7"))
	assert.Error(t, CheckLanguageVersion("A", "v1.3.0"))
	assert.Error(t, CheckLanguageVersion("A", "v0.9.0"))
	assert.Error(t, CheckLanguageVersion("A", "v2.0.0"))
	assert.Error(t, CheckLanguageVersion("A", "1.0"))
	assert.Error(t, CheckLanguageVersion("A", ""))
}

func TestInitPackage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitPackage("Demo", dir))

	pkg, err := LoadPackage(dir)
	require.NoError(t, err)

	assert.Equal(t, "Demo", pkg.Name)
	assert.Equal(t, common.DefaultEntryNamespace, pkg.Entry)
	assert.Equal(t, "v0.1.0", pkg.Version)
	assert.Equal(t, common.LanguageVersion, pkg.LanguageVersion)
	assert.Empty(t, pkg.Dependencies)

	assert.EqualError(t, InitPackage("Demo", dir), "manifest already exists")
	assert.Error(t, InitPackage("not valid", t.TempDir()))
}
