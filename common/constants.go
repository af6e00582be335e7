package common

// NSBindVersion is the current version of the resolution core and its tooling.
const NSBindVersion = "0.3.0"

// LanguageVersion is the language version packages are resolved against.
// Manifests declaring an incompatible major version are rejected.
const LanguageVersion = "v1.2.0"

// ManifestFileName is the name of the file describing a package.
const ManifestFileName = "nsbind-pkg.toml"

// OutlineFileExtension is the extension of outline source files.
const OutlineFileExtension = ".toml"

// InterfaceFileExtension is the extension used for serialized package
// interfaces.
const InterfaceFileExtension = ".iface.yaml"

// DefaultEntryNamespace is the entry namespace used when a manifest does not
// name one.  It is collapsed into the package root when the package is
// consumed as a dependency.
const DefaultEntryNamespace = "Main"

// PreludeNamespaces are opened implicitly in every scope when they exist.
var PreludeNamespaces = [][]string{
	{"Std", "Canon"},
	{"Std", "Core"},
	{"Std", "Measurement"},
}

// PrimitiveTypes are the built-in type names.
var PrimitiveTypes = map[string]struct{}{
	"BigInt": {},
	"Bool":   {},
	"Double": {},
	"Int":    {},
	"Pauli":  {},
	"Qubit":  {},
	"Range":  {},
	"Result": {},
	"String": {},
	"Unit":   {},
}
