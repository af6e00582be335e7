package syntax

import (
	"fmt"
	"strings"
	"unicode"
)

// Token represents a token read in by the scanner
type Token struct {
	Kind  int
	Value string

	// Line and Col are zero-indexed.
	Line int
	Col  int
}

// The kinds of tokens produced by the scanner
const (
	IDENTIFIER = iota
	NUMBER
	STRING
	PUNCT
	EOF
)

// keywords are identifiers with special meaning at the start of a statement
var keywords = map[string]struct{}{
	"let":       {},
	"open":      {},
	"import":    {},
	"export":    {},
	"as":        {},
	"function":  {},
	"operation": {},
	"newtype":   {},
	"for":       {},
	"in":        {},
}

// IsKeyword returns whether an identifier is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}

// Scanner splits a single line of outline statement text into tokens.
type Scanner struct {
	src  []rune
	pos  int
	line int
	col  int
}

// NewScanner creates a scanner for text starting at the given position.
func NewScanner(src string, line, col int) *Scanner {
	return &Scanner{src: []rune(src), line: line, col: col}
}

// ScanAll reads every token of the input followed by an EOF token.
func (s *Scanner) ScanAll() ([]*Token, error) {
	var toks []*Token
	for {
		tok, err := s.ReadToken()
		if err != nil {
			return nil, err
		}

		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// ReadToken reads a single token from the input.
func (s *Scanner) ReadToken() (*Token, error) {
	for s.pos < len(s.src) && unicode.IsSpace(s.src[s.pos]) {
		s.advance()
	}

	if s.pos >= len(s.src) {
		return &Token{Kind: EOF, Line: s.line, Col: s.col}, nil
	}

	start, line, col := s.pos, s.line, s.col
	c := s.src[s.pos]

	switch {
	case c == '_' || unicode.IsLetter(c):
		for s.pos < len(s.src) && (s.src[s.pos] == '_' || unicode.IsLetter(s.src[s.pos]) || unicode.IsDigit(s.src[s.pos])) {
			s.advance()
		}

		return &Token{Kind: IDENTIFIER, Value: string(s.src[start:s.pos]), Line: line, Col: col}, nil
	case unicode.IsDigit(c):
		for s.pos < len(s.src) && (unicode.IsDigit(s.src[s.pos]) || s.src[s.pos] == '.') {
			// a dot not followed by a digit ends the number
			if s.src[s.pos] == '.' && (s.pos+1 >= len(s.src) || !unicode.IsDigit(s.src[s.pos+1])) {
				break
			}

			s.advance()
		}

		return &Token{Kind: NUMBER, Value: string(s.src[start:s.pos]), Line: line, Col: col}, nil
	case c == '"':
		s.advance()

		sb := strings.Builder{}
		for s.pos < len(s.src) && s.src[s.pos] != '"' {
			sb.WriteRune(s.src[s.pos])
			s.advance()
		}

		if s.pos >= len(s.src) {
			return nil, fmt.Errorf("%d:%d: unclosed string literal", line+1, col+1)
		}

		s.advance()
		return &Token{Kind: STRING, Value: sb.String(), Line: line, Col: col}, nil
	case c == '-' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '>':
		s.advance()
		s.advance()
		return &Token{Kind: PUNCT, Value: "->", Line: line, Col: col}, nil
	case strings.ContainsRune(".,()[]{};:=*'", c):
		s.advance()
		return &Token{Kind: PUNCT, Value: string(c), Line: line, Col: col}, nil
	}

	return nil, fmt.Errorf("%d:%d: unexpected character `%c`", line+1, col+1, c)
}

func (s *Scanner) advance() {
	s.pos++
	s.col++
}
