package build

import (
	"fmt"

	"nsbind/depm"
	"nsbind/report"
	"nsbind/resolve"
	"nsbind/syntax"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session is an interactive session over a bound package.  Each cell
// evaluated by the session is resolved in a persistent top-level scope; the
// package itself is never modified so any number of sessions may be opened
// over the same unit.
type Session struct {
	// ID uniquely identifies the session.  It prefixes the repr paths of the
	// session's cells.
	ID uuid.UUID

	loader *syntax.Loader
	it     *resolve.Interactive
	cells  int
}

// NewSession opens a new session over a unit that has been bound.
func NewSession(unit *Unit) (*Session, error) {
	if unit.Result == nil {
		return nil, errors.Errorf("package `%s` has not been bound", unit.Package.Name)
	}

	return &Session{
		ID:     uuid.New(),
		loader: syntax.NewLoaderAt(unit.nextID),
		it:     resolve.NewInteractive(unit.Result),
	}, nil
}

// Eval parses and resolves a single cell.  The returned error indicates that
// the cell could not be parsed; resolution problems are reported as the
// diagnostics of the cell result.
func (s *Session) Eval(src string) (*resolve.CellResult, error) {
	stmts, err := s.loader.ParseCell(src)
	if err != nil {
		return nil, errors.Wrapf(err, "cell %d", s.cells+1)
	}

	s.cells++
	return s.it.Cell(s.CellName(s.cells), stmts), nil
}

// CellName returns the repr path of the n-th cell of the session.
func (s *Session) CellName(n int) string {
	return fmt.Sprintf("%s#cell%d", s.ID, n)
}

// Resolve resolves a path in the session's top-level scope.
func (s *Session) Resolve(path []string) (depm.Res, *report.Diagnostic) {
	return s.it.Resolve(path)
}

// Describe formats a result by the qualified name of what it denotes.
func (s *Session) Describe(res depm.Res) string {
	return s.it.Describe(res)
}
