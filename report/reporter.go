package report

import (
	"fmt"
	"sort"
	"sync"
)

// Reporter accumulates the diagnostics of a single compilation.  Nothing in
// the core aborts on an error: every problem is reported here and work
// continues with best-effort information.
type Reporter struct {
	// file is the repr path attached to diagnostics whose span has none.
	file string

	diags      []*Diagnostic
	errorCount int

	m *sync.Mutex
}

// NewReporter creates a new reporter.  `file` is the default repr path of the
// diagnostics it collects and may be empty.
func NewReporter(file string) *Reporter {
	return &Reporter{file: file, m: &sync.Mutex{}}
}

// ReportError reports an error of the given kind at span.
func (r *Reporter) ReportError(kind ErrorKind, span TextSpan, msg string, args ...interface{}) *Diagnostic {
	return r.Report(&Diagnostic{
		Kind:     kind,
		Severity: SeverityError,
		Span:     span,
		Message:  fmt.Sprintf(msg, args...),
	})
}

// ReportWarning reports a warning of the given kind at span.
func (r *Reporter) ReportWarning(kind ErrorKind, span TextSpan, msg string, args ...interface{}) *Diagnostic {
	return r.Report(&Diagnostic{
		Kind:     kind,
		Severity: SeverityWarning,
		Span:     span,
		Message:  fmt.Sprintf(msg, args...),
	})
}

// Report records a fully-formed diagnostic.
func (r *Reporter) Report(d *Diagnostic) *Diagnostic {
	r.m.Lock()
	defer r.m.Unlock()

	if d.File == "" {
		d.File = d.Span.File
	}

	if d.File == "" {
		d.File = r.file
	}

	if d.Severity == SeverityError {
		r.errorCount++
	}

	r.diags = append(r.diags, d)
	return d
}

// ShouldProceed indicates whether or not there have been any errors.
func (r *Reporter) ShouldProceed() bool {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount == 0
}

// ErrorCount returns the number of errors reported so far.
func (r *Reporter) ErrorCount() int {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount
}

// Diagnostics returns the reported diagnostics ordered by file, position and
// kind.  The order does not depend on the order of discovery.
func (r *Reporter) Diagnostics() []*Diagnostic {
	r.m.Lock()
	defer r.m.Unlock()

	diags := make([]*Diagnostic, len(r.diags))
	copy(diags, r.diags)

	SortDiagnostics(diags)
	return diags
}

// SortDiagnostics sorts diagnostics in place by file, position and kind.
func SortDiagnostics(diags []*Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return a.File < b.File
		}

		if a.Span != b.Span {
			return a.Span.Before(b.Span)
		}

		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}

		return a.Message < b.Message
	})
}

// ReportICE reports an internal compiler error.  These indicate a broken
// invariant in the core rather than a problem with user code.
func ReportICE(msg string, args ...interface{}) {
	panic(fmt.Sprintf("internal compiler error: "+msg, args...))
}
