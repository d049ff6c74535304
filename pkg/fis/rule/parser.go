package rule

import (
	"fmt"

	"github.com/cognicore/fis/pkg/fis/internalerr"
)

// Parse turns an antecedent such as
//
//	Agua = Fria and not(Aire = Caliente or Aire = Tibio)
//
// into an expression tree. "and" binds tighter than "or", both are left
// associative, and "not" only applies to a parenthesized sub-expression.
func Parse(src string) (Expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected %s after expression", tok.kind)
	}
	return e, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.next()
	if tok.kind != kind {
		return tok, p.errorf(tok, "expected %s, got %s", kind, describe(tok))
	}
	return tok, nil
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return fmt.Errorf("offset %d: %s: %w", tok.pos, fmt.Sprintf(format, args...), internalerr.ErrMalformedExpression)
}

// parseOr: term {"or" term}
func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = Or{Left: left, Right: right}
	}
	return left, nil
}

// parseAnd: factor {"and" factor}
func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = And{Left: left, Right: right}
	}
	return left, nil
}

// parseFactor: "not" "(" expr ")" | "(" expr ")" | atom
func (p *parser) parseFactor() (Expr, error) {
	switch tok := p.peek(); tok.kind {
	case tokNot:
		p.next()
		if _, err := p.expect(tokLParen); err != nil {
			return nil, err
		}
		inner, err := p.parseGroupTail()
		if err != nil {
			return nil, err
		}
		return Not{Operand: inner}, nil
	case tokLParen:
		p.next()
		return p.parseGroupTail()
	case tokIdent:
		return p.parseAtom()
	default:
		return nil, p.errorf(tok, "expected condition, got %s", describe(tok))
	}
}

// parseGroupTail parses the inside of a group whose '(' was consumed.
func (p *parser) parseGroupTail() (Expr, error) {
	inner, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *parser) parseAtom() (Expr, error) {
	name, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokEquals); err != nil {
		return nil, err
	}
	value, err := p.expect(tokIdent)
	if err != nil {
		return nil, err
	}
	return Atom{Variable: name.text, Value: value.text}, nil
}

func describe(tok token) string {
	if tok.kind == tokIdent {
		return fmt.Sprintf("identifier %q", tok.text)
	}
	return tok.kind.String()
}
