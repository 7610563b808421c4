// Package parser builds an ast.Node expression tree from source text.
// It is an external collaborator to the core - the core only ever
// consumes a pre-built ast.Node - structured as a Parser struct walking
// a token slice with check/advance/peek helpers, one method per
// precedence level.
//
// Grammar (lowest to highest precedence):
//
//	expr     -> term (('+' | '-') term)*
//	term     -> unary (('*' | '/') unary)*
//	unary    -> '-' unary | exponent
//	exponent -> primary ('^' unary)?   // right-associative; unary on the
//	                                   // right lets "2^-3" parse, and
//	                                   // keeps "-2^2" == -(2^2) == -4,
//	                                   // i.e. unary minus binds *looser*
//	                                   // than '^', the conventional rule.
//	primary  -> NUMBER | IDENT | '(' expr ')'
package parser

import (
	"strconv"

	"github.com/ThermalSpan/implicit-plotter/internal/ast"
	"github.com/ThermalSpan/implicit-plotter/internal/errors"
	"github.com/ThermalSpan/implicit-plotter/internal/lexer"
)

// Parser consumes a token stream and produces an ast.Node.
type Parser struct {
	tokens  []lexer.Token
	current int
	source  string
}

// Parse tokenizes and parses source in one call, the convenience entry
// point most callers want.
func Parse(source string) (ast.Node, error) {
	scanner := lexer.NewScanner(source)
	p := &Parser{tokens: scanner.ScanTokens(), source: source}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.isAtEnd() {
		return nil, errors.NewSyntaxError(
			"unexpected trailing input: "+p.peek().Lexeme, p.source, 0, p.peek().Column)
	}
	return node, nil
}

func (p *Parser) parseExpression() (ast.Node, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		op := p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		if op.Type == lexer.TokenPlus {
			left = ast.Add(left, right)
		} else {
			left = ast.Sub(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseTerm() (ast.Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.check(lexer.TokenStar) || p.check(lexer.TokenSlash) {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if op.Type == lexer.TokenStar {
			left = ast.Mul(left, right)
		} else {
			left = ast.Div(left, right)
		}
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Node, error) {
	if p.check(lexer.TokenMinus) {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Sub(ast.Constant(0), operand), nil
	}
	return p.parseExponent()
}

// parseExponent is right-associative: x^y^z == x^(y^z). It recurses
// through parseUnary (not parseExponent) on the right so "2^-3" parses,
// which keeps unary minus binding looser than '^' on the left operand.
func (p *Parser) parseExponent() (ast.Node, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.TokenCaret) {
		p.advance()
		power, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.Exp(base, power), nil
	}
	return base, nil
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.TokenNumber:
		p.advance()
		v, err := strconv.ParseFloat(tok.Lexeme, 32)
		if err != nil {
			return nil, errors.NewSyntaxError("invalid number literal "+tok.Lexeme, p.source, 0, tok.Column)
		}
		return ast.Constant(float32(v)), nil
	case lexer.TokenIdent:
		p.advance()
		if len(tok.Lexeme) != 1 {
			return nil, errors.NewSyntaxError("variables must be a single character (x, y or z), got "+tok.Lexeme, p.source, 0, tok.Column)
		}
		return ast.Variable(rune(tok.Lexeme[0])), nil
	case lexer.TokenLParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !p.check(lexer.TokenRParen) {
			return nil, errors.NewSyntaxError("expected ')'", p.source, 0, p.peek().Column)
		}
		p.advance()
		return inner, nil
	default:
		return nil, errors.NewSyntaxError("unexpected token "+string(tok.Type), p.source, 0, tok.Column)
	}
}

func (p *Parser) check(t lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return tok
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.current]
}

func (p *Parser) isAtEnd() bool {
	return p.tokens[p.current].Type == lexer.TokenEOF
}
