package report

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Enumeration of log levels.
const (
	LogLevelSilent = iota
	LogLevelError
	LogLevelWarning
	LogLevelVerbose
)

// LogLevelNames maps the CLI names of the log levels to their values.
var LogLevelNames = map[string]int{
	"silent":  LogLevelSilent,
	"error":   LogLevelError,
	"warn":    LogLevelWarning,
	"verbose": LogLevelVerbose,
}

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
)

// InitDisplay configures terminal output.  Colors are only emitted when
// standard output is a terminal.
func InitDisplay() {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		pterm.DisableColor()
	}
}

// PrintErrorMessage prints a standard Go error to the console.
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console.
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user.
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// -----------------------------------------------------------------------------

// DisplayDiagnostics prints every diagnostic allowed by the log level.
// `root` is the directory the diagnostics' repr paths are relative to; when
// the file can be read, the offending source text is shown beneath the
// message.
func DisplayDiagnostics(diags []*Diagnostic, root string, loglevel int) {
	for _, d := range diags {
		switch d.Severity {
		case SeverityError:
			if loglevel < LogLevelError {
				continue
			}
		case SeverityWarning:
			if loglevel < LogLevelWarning {
				continue
			}
		}

		displayDiagnostic(d, root)
	}
}

// DisplaySummary prints the closing line of a check.
func DisplaySummary(diags []*Diagnostic, loglevel int) {
	if loglevel < LogLevelVerbose {
		return
	}

	errorCount, warnCount := 0, 0
	for _, d := range diags {
		if d.Severity == SeverityError {
			errorCount++
		} else {
			warnCount++
		}
	}

	if errorCount == 0 {
		SuccessStyleBG.Print("Done")
		fmt.Printf(" %d warning(s)\n", warnCount)
	} else {
		ErrorStyleBG.Print("Fail")
		fmt.Printf(" %d error(s), %d warning(s)\n", errorCount, warnCount)
	}
}

func displayDiagnostic(d *Diagnostic, root string) {
	label := d.Severity.String()
	if d.Severity == SeverityError {
		ErrorColorFG.Print(label)
	} else {
		WarnColorFG.Print(label)
	}

	fmt.Printf("[%s] ", d.Kind)

	if d.File == "" {
		fmt.Printf("%d:%d: %s\n", d.Span.StartLine+1, d.Span.StartCol+1, d.Message)
	} else {
		fmt.Printf("%s:%d:%d: %s\n", d.File, d.Span.StartLine+1, d.Span.StartCol+1, d.Message)
		displaySourceText(filepath.Join(root, d.File), d.Span)
	}

	for _, rel := range d.Related {
		fmt.Print("  ")
		InfoColorFG.Print("note")
		if rel.Span.File == "" || rel.Span.File == d.File {
			fmt.Printf(": %d:%d: %s\n", rel.Span.StartLine+1, rel.Span.StartCol+1, rel.Label)
		} else {
			fmt.Printf(": %s:%d:%d: %s\n", rel.Span.File, rel.Span.StartLine+1, rel.Span.StartCol+1, rel.Label)
		}
	}

	fmt.Println()
}

// displaySourceText displays a segment of source text defined by a text span.
// Unlike a fatal reporter, an unreadable file just means no selection is
// shown: ASTs do not always come from files on disk.
func displaySourceText(absPath string, span TextSpan) {
	lines, err := readSpanLines(absPath, span)
	if err != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := len(line) - len(strings.TrimLeft(line, " "))
		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		InfoColorFG.Print(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		start := minIndent
		if i == 0 {
			start = clamp(span.StartCol, minIndent, len(line))
		}

		end := len(line)
		if i == len(lines)-1 {
			end = clamp(span.EndCol+1, start, len(line))
		}

		fmt.Print(strings.Repeat(" ", start-minIndent))
		ErrorColorFG.Println(strings.Repeat("^", max(end-start, 1)))
	}
}

// readSpanLines reads the source lines a span covers with tabs expanded.
func readSpanLines(absPath string, span TextSpan) ([]string, error) {
	file, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	if len(lines) != span.EndLine-span.StartLine+1 {
		return nil, errors.New("span exceeds file")
	}

	return lines, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
