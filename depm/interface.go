package depm

// Interface is the public surface of a bound package: every name a dependent
// package can see, keyed by namespace.  Interfaces are immutable once
// published and may be shared by concurrent compilations.
type Interface struct {
	// The name of the package.
	Package string `yaml:"package"`

	// The ID stamped onto every local item of the package.
	ID PackageID `yaml:"id"`

	// The entry namespace of the package.  It is collapsed into the alias
	// root when the package is mounted under an alias.
	Entry string `yaml:"entry"`

	Namespaces []*InterfaceNamespace `yaml:"namespaces"`
}

// InterfaceNamespace lists the public names of a single namespace.
type InterfaceNamespace struct {
	// The dotted path of the namespace.
	Path string `yaml:"path"`

	Entries []*InterfaceEntry `yaml:"entries"`
}

// InterfaceEntry is one public name.
type InterfaceEntry struct {
	// The name as visible to dependents.
	Name string `yaml:"name"`

	// Either "term" or "type".
	Kind string `yaml:"kind"`

	// The kind of the item ultimately denoted.
	ItemKind string `yaml:"item-kind"`

	// The terminal item the name denotes.  This is never an export item.
	Target ItemID `yaml:"target"`

	// The export item the name is bound through, if any.
	Export *ItemID `yaml:"export,omitempty"`
}

// Dependency is an already-bound package made available to a compilation.
type Dependency struct {
	// The name the package is referred to by.  An empty alias mounts the
	// package at the root of the namespace tree, which is only done for the
	// standard library.
	Alias string

	Interface *Interface
}
