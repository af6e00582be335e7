package mods

import (
	"os"
	"path/filepath"
	"sort"

	"nsbind/common"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"golang.org/x/mod/semver"
)

// tomlManifest represents the manifest as it is encoded in TOML
type tomlManifest struct {
	Package      *tomlPackage      `toml:"package"`
	Dependencies []*tomlDependency `toml:"dependencies"`
}

// tomlPackage represents the package table of a manifest
type tomlPackage struct {
	Name            string   `toml:"name"`
	Entry           string   `toml:"entry,omitempty"`
	Version         string   `toml:"version,omitempty"`
	LanguageVersion string   `toml:"language-version"`
	Sources         []string `toml:"sources"`
	Interface       string   `toml:"interface,omitempty"`
}

// tomlDependency represents a dependency as it is encoded in TOML
type tomlDependency struct {
	Alias     string `toml:"alias,omitempty"`
	Path      string `toml:"path,omitempty"`
	Interface string `toml:"interface,omitempty"`
}

// LoadPackage loads and validates the manifest of the package in the
// directory at `path`.
func LoadPackage(path string) (*Package, error) {
	abspath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving package path %s", path)
	}

	buff, err := os.ReadFile(filepath.Join(abspath, common.ManifestFileName))
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest of package at %s", abspath)
	}

	tm := &tomlManifest{}
	if err := toml.Unmarshal(buff, tm); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest of package at %s", abspath)
	}

	if tm.Package == nil {
		return nil, errors.Errorf("manifest of package at %s is missing a [package] table", abspath)
	}

	pkg := &Package{
		Name:            tm.Package.Name,
		Root:            abspath,
		Entry:           tm.Package.Entry,
		Version:         tm.Package.Version,
		LanguageVersion: tm.Package.LanguageVersion,
	}

	if err := validatePackage(pkg); err != nil {
		return nil, err
	}

	if pkg.Sources, err = expandSources(abspath, tm.Package.Sources); err != nil {
		return nil, err
	}

	if tm.Package.Interface != "" {
		pkg.Interface = filepath.Join(abspath, tm.Package.Interface)
	}

	if pkg.Dependencies, err = loadDependencies(pkg, tm.Dependencies); err != nil {
		return nil, err
	}

	return pkg, nil
}

// validatePackage checks that the top level package contents are valid
func validatePackage(pkg *Package) error {
	if pkg.Name == "" {
		return errors.Errorf("missing package name for package at %s", pkg.Root)
	}

	if !common.IsValidIdentifier(pkg.Name) {
		return errors.Errorf("package name `%s` must be a valid identifier", pkg.Name)
	}

	if pkg.Entry == "" {
		pkg.Entry = common.DefaultEntryNamespace
	} else if !common.IsValidIdentifier(pkg.Entry) {
		return errors.Errorf("entry namespace `%s` of package `%s` must be a valid identifier", pkg.Entry, pkg.Name)
	}

	if pkg.Version != "" && !semver.IsValid(pkg.Version) {
		return errors.Errorf("version `%s` of package `%s` is not a valid semantic version", pkg.Version, pkg.Name)
	}

	return CheckLanguageVersion(pkg.Name, pkg.LanguageVersion)
}

// CheckLanguageVersion checks that a package written for `version` can be
// resolved by this version of the language: the major versions must agree and
// the package cannot require a newer minor version.
func CheckLanguageVersion(pkgName, version string) error {
	if !semver.IsValid(version) {
		return errors.Errorf("language version `%s` of package `%s` is not a valid semantic version", version, pkgName)
	}

	if semver.Major(version) != semver.Major(common.LanguageVersion) {
		return errors.Errorf("package `%s` targets language %s which is incompatible with %s",
			pkgName, semver.Major(version), semver.Major(common.LanguageVersion))
	}

	if semver.Compare(semver.MajorMinor(version), semver.MajorMinor(common.LanguageVersion)) > 0 {
		return errors.Errorf("package `%s` requires language %s but only %s is supported",
			pkgName, version, common.LanguageVersion)
	}

	return nil
}

// expandSources expands the source globs of a manifest into a sorted,
// duplicate-free list of absolute paths.
func expandSources(root string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"*" + common.OutlineFileExtension}
	}

	seen := make(map[string]struct{})
	var sources []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(filepath.Join(root, pattern))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid source pattern `%s`", pattern)
		}

		for _, match := range matches {
			if filepath.Base(match) == common.ManifestFileName {
				continue
			}

			if _, ok := seen[match]; !ok {
				seen[match] = struct{}{}
				sources = append(sources, match)
			}
		}
	}

	sort.Strings(sources)
	return sources, nil
}

// loadDependencies validates the dependencies of a package
func loadDependencies(pkg *Package, tdeps []*tomlDependency) ([]*Dependency, error) {
	aliases := make(map[string]struct{})

	var deps []*Dependency
	for _, tdep := range tdeps {
		if (tdep.Path == "") == (tdep.Interface == "") {
			return nil, errors.Errorf("dependency `%s` of package `%s` must give exactly one of `path` and `interface`", tdep.Alias, pkg.Name)
		}

		if tdep.Alias != "" {
			if !common.IsValidIdentifier(tdep.Alias) {
				return nil, errors.Errorf("dependency alias `%s` of package `%s` must be a valid identifier", tdep.Alias, pkg.Name)
			}

			if _, ok := aliases[tdep.Alias]; ok {
				return nil, errors.Errorf("package `%s` declares the dependency alias `%s` more than once", pkg.Name, tdep.Alias)
			}

			aliases[tdep.Alias] = struct{}{}
		}

		dep := &Dependency{Alias: tdep.Alias}
		if tdep.Path != "" {
			dep.Path = filepath.Join(pkg.Root, tdep.Path)
		} else {
			dep.Interface = filepath.Join(pkg.Root, tdep.Interface)
		}

		deps = append(deps, dep)
	}

	return deps, nil
}
