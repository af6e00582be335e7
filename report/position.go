package report

// TextSpan represents a range or "span" of source text. Text spans are
// inclusive on both sides: the starting position is the position of the first
// character in the span and the ending position is the position of the last
// character in the span.  The line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int

	// File is the repr path of the file containing the span.  It is empty for
	// text that does not come from a file.
	File string
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end TextSpan) TextSpan {
	return TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
		File:      start.File,
	}
}

// Before returns whether span begins before other.  Spans starting at the
// same position are ordered by their ends.
func (span TextSpan) Before(other TextSpan) bool {
	if span.StartLine != other.StartLine {
		return span.StartLine < other.StartLine
	}

	if span.StartCol != other.StartCol {
		return span.StartCol < other.StartCol
	}

	if span.EndLine != other.EndLine {
		return span.EndLine < other.EndLine
	}

	return span.EndCol < other.EndCol
}
