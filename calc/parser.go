package calc

import "fmt"

// Grammar:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = primary [ ("^" | "**") unary ]
//	primary = number | constant | func "(" expr ")" | "(" expr ")"
type parser struct {
	lex lexer
	tok token
}

// Parse builds the syntax tree for an expression.
func Parse(expr string) (Node, error) {
	p := &parser{lex: lexer{src: expr}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected()
	}
	return n, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) unexpected() error {
	if p.tok.kind == tokEOF {
		return &SyntaxError{Pos: p.tok.pos, Msg: "unexpected end of expression"}
	}
	return &SyntaxError{Pos: p.tok.pos, Msg: fmt.Sprintf("unexpected %s %q", p.tok.kind, p.tok.text)}
}

func (p *parser) expr() (Node, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := p.tok.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) term() (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokStar || p.tok.kind == tokSlash {
		op := p.tok.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) unary() (Node, error) {
	if p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		op := p.tok.text[0]
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.power()
}

// power is right-associative and binds tighter than a leading sign,
// so -2^2 is -(2^2) and 2^-1 is 2^(-1).
func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokPow {
		return base, nil
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Binary{Op: '^', Left: base, Right: exp}, nil
}

func (p *parser) primary() (Node, error) {
	switch p.tok.kind {
	case tokNumber:
		n := &Number{Value: p.tok.num, Text: p.tok.text}
		return n, p.advance()

	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.unexpected()
		}
		return n, p.advance()

	case tokIdent:
		name := p.tok.text
		pos := p.tok.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if fn, ok := functions[name]; ok {
			if p.tok.kind != tokLParen {
				return nil, &SyntaxError{Pos: p.tok.pos, Msg: fmt.Sprintf("function %s requires parentheses", name)}
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			arg, err := p.expr()
			if err != nil {
				return nil, err
			}
			if p.tok.kind != tokRParen {
				return nil, p.unexpected()
			}
			return &Call{Name: name, Arg: arg, fn: fn}, p.advance()
		}
		if v, ok := constants[name]; ok {
			return &Number{Value: v, Text: name}, nil
		}
		return nil, &SyntaxError{Pos: pos, Msg: fmt.Sprintf("unknown name %q", name)}
	}
	return nil, p.unexpected()
}
