package mods

// Package represents a package: specifically, its manifest after it has been
// loaded and validated.
type Package struct {
	// Name is the name of the package
	Name string

	// Root is the absolute path to the directory containing the manifest
	Root string

	// Entry is the entry namespace of the package
	Entry string

	// Version is the version of the package itself
	Version string

	// LanguageVersion is the language version the package was written for
	LanguageVersion string

	// Sources lists the absolute paths of the package's outline files in a
	// stable order
	Sources []string

	// Interface is the absolute path the package's interface is written to,
	// if one should be written at all
	Interface string

	// Dependencies lists the packages this package depends on in the order
	// they are mounted
	Dependencies []*Dependency
}

// Dependency is a dependency as declared in a manifest.  Exactly one of
// `Path` and `Interface` is set.
type Dependency struct {
	// Alias is the name the dependency is referred to by.  It is empty for the
	// standard library, which is mounted at the root.
	Alias string

	// Path is the absolute path of a package directory to build first.
	Path string

	// Interface is the absolute path of a prebuilt interface file.
	Interface string
}
