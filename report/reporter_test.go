package report

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func span(file string, line, col int) TextSpan {
	return TextSpan{StartLine: line, StartCol: col, EndLine: line, EndCol: col + 2, File: file}
}

func TestReporter_Diagnostics(t *testing.T) {
	r := NewReporter("default.toml")
	assert.True(t, r.ShouldProceed())

	r.ReportWarning(UnresolvedName, span("", 3, 0), "late")
	r.ReportError(DuplicateDeclaration, span("b.toml", 0, 0), "other file %d", 1)
	r.ReportError(UnresolvedName, span("", 1, 4), "early")
	r.ReportError(AmbiguousName, span("", 1, 4), "same span")

	assert.False(t, r.ShouldProceed())
	assert.Equal(t, 3, r.ErrorCount())

	diags := r.Diagnostics()
	require.Len(t, diags, 4)

	assert.Equal(t, "b.toml", diags[0].File)
	assert.Equal(t, "other file 1", diags[0].Message)

	// spans without a file fall back to the reporter's file
	assert.Equal(t, "default.toml", diags[1].File)
	assert.Equal(t, []string{"early", "same span", "late"}, []string{diags[1].Message, diags[2].Message, diags[3].Message})
	assert.Equal(t, "default.toml:2:5: error: early", diags[1].Error())
	assert.Equal(t, SeverityWarning, diags[3].Severity)
}

func TestReporter_Concurrent(t *testing.T) {
	r := NewReporter("")

	wg := sync.WaitGroup{}
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.ReportError(UnresolvedName, span("", i, 0), "name %d", i)
		}(i)
	}

	wg.Wait()

	diags := r.Diagnostics()
	require.Len(t, diags, 16)
	for i, d := range diags {
		assert.Equal(t, i, d.Span.StartLine)
	}
}

func TestTextSpan(t *testing.T) {
	over := NewSpanOver(span("a.toml", 1, 2), span("", 4, 0))
	assert.Equal(t, TextSpan{StartLine: 1, StartCol: 2, EndLine: 4, EndCol: 2, File: "a.toml"}, over)

	assert.True(t, span("", 1, 2).Before(span("", 1, 3)))
	assert.True(t, span("", 0, 9).Before(span("", 1, 0)))
	assert.False(t, span("", 1, 2).Before(span("", 1, 2)))

	assert.Equal(t, "UnresolvedName", UnresolvedName.String())
	assert.Equal(t, "ErrorKind(999)", ErrorKind(999).String())
}
