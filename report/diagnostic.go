package report

import "fmt"

// ErrorKind is the tag identifying what kind of problem a diagnostic reports.
type ErrorKind int

// Enumeration of diagnostic kinds.
const (
	UnresolvedName ErrorKind = iota
	AmbiguousName
	DuplicateDeclaration
	DuplicateImportBinding
	InvalidWildcardTarget
	ProhibitedNamespaceExport
	CrossNamespaceExportOfTransitiveNamespace
	ExportFromLocalScope
	DuplicateBinding
	ImportResolutionLimitExceeded
)

var errorKindNames = map[ErrorKind]string{
	UnresolvedName:                "UnresolvedName",
	AmbiguousName:                 "AmbiguousName",
	DuplicateDeclaration:          "DuplicateDeclaration",
	DuplicateImportBinding:        "DuplicateImportBinding",
	InvalidWildcardTarget:         "InvalidWildcardTarget",
	ProhibitedNamespaceExport:     "ProhibitedNamespaceExport",
	ExportFromLocalScope:          "ExportFromLocalScope",
	DuplicateBinding:              "DuplicateBinding",
	ImportResolutionLimitExceeded: "ImportResolutionLimitExceeded",

	CrossNamespaceExportOfTransitiveNamespace: "CrossNamespaceExportOfTransitiveNamespace",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Severity is the severity of a diagnostic.
type Severity int

// Enumeration of severities.
const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}

	return "error"
}

// RelatedSpan is a secondary location attached to a diagnostic.
type RelatedSpan struct {
	Span  TextSpan
	Label string
}

// Diagnostic is a single problem discovered during binding or resolution.
type Diagnostic struct {
	// The kind tag of the diagnostic.
	Kind ErrorKind

	// The severity of the diagnostic.
	Severity Severity

	// The representative path of the file the diagnostic occurs in.  This may
	// be empty if the AST was not loaded from a file.
	File string

	// The span of the offending source text.
	Span TextSpan

	// The message describing the problem.
	Message string

	// Related contains the contributing locations.  For ambiguity errors,
	// this lists every candidate source.
	Related []RelatedSpan
}

func (d *Diagnostic) Error() string {
	if d.File == "" {
		return fmt.Sprintf("%d:%d: %s: %s", d.Span.StartLine+1, d.Span.StartCol+1, d.Severity, d.Message)
	}

	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Span.StartLine+1, d.Span.StartCol+1, d.Severity, d.Message)
}
