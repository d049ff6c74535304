package rule

import (
	"fmt"
	"unicode"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokEquals
	tokLParen
	tokRParen
	tokAnd
	tokOr
	tokNot
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of rule"
	case tokIdent:
		return "identifier"
	case tokEquals:
		return "'='"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokAnd:
		return "'and'"
	case tokOr:
		return "'or'"
	case tokNot:
		return "'not'"
	}
	return "unknown"
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

var keywords = map[string]tokenKind{
	"and": tokAnd,
	"or":  tokOr,
	"not": tokNot,
}

// lex splits an antecedent into tokens. Keywords are lowercase; identifiers
// start with a letter or underscore.
func lex(src string) ([]token, error) {
	var toks []token
	runes := []rune(src)
	offsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		offsets[i] = off
		off += len(string(r))
	}
	offsets[len(runes)] = off

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '=':
			toks = append(toks, token{kind: tokEquals, text: "=", pos: offsets[i]})
			i++
		case r == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: offsets[i]})
			i++
		case r == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: offsets[i]})
			i++
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			word := string(runes[start:i])
			kind, ok := keywords[word]
			if !ok {
				kind = tokIdent
			}
			toks = append(toks, token{kind: kind, text: word, pos: offsets[start]})
		default:
			return nil, fmt.Errorf("offset %d: unexpected character %q: %w", offsets[i], r, internalerr.ErrMalformedExpression)
		}
	}
	toks = append(toks, token{kind: tokEOF, pos: off})
	return toks, nil
}

// IsIdentifier reports whether s can name a variable or value in a rule:
// a letter or '_' followed by letters, digits or '_', and not a keyword.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	if _, kw := keywords[s]; kw {
		return false
	}
	for i, r := range s {
		if unicode.IsLetter(r) || r == '_' || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
