package main

/*
This file converts lexer tokens into call expressions. A call expression is a
receiver followed by a chain of method calls and property reads:

	new Point(1, 2).move(3L, *[4.5d]).x
	Math.max(1, 2)
	"abc".size()

A bare class name is the class itself, so calls on it are static calls.
Numbers take an optional suffix: i Integer, L Long, G BigInteger, f Float,
d Double. Unsuffixed integers are Integer, Long, or BigInteger by size, and
unsuffixed fractions are BigDecimal.
*/

import (
	"bufio"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type nodeKind int

const (
	literalNode nodeKind = iota
	classNode            // a class name
	listNode             // [a, b]
	newNode              // new T(args)
	callNode             // recv.name(args)
	propNode             // recv.name
	spreadNode           // *expr
)

// node is a parsed call expression.
type node struct {
	Kind  nodeKind
	Value interface{}
	Name  string
	Recv  *node
	Args  []*node
	Col   int
}

type parser struct {
	tokens chan token
	peeked *token
}

// parse converts a call expression into a tree.
func parse(src string) (*node, error) {
	tokens := make(chan token)
	go lex(bufio.NewReader(strings.NewReader(src)), tokens)
	p := &parser{tokens: tokens}
	defer p.drain()
	n, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.next(); t.Kind != eofToken {
		return nil, p.unexpected(t)
	}
	return n, nil
}

func (p *parser) next() token {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t
	}
	t, ok := <-p.tokens
	if !ok {
		return token{Kind: eofToken}
	}
	return t
}

func (p *parser) peek() token {
	if p.peeked == nil {
		t := p.next()
		p.peeked = &t
	}
	return *p.peeked
}

// drain consumes remaining tokens so that the lexer can finish.
func (p *parser) drain() {
	for range p.tokens {
	}
}

func (p *parser) unexpected(t token) error {
	switch t.Kind {
	case badToken:
		return t.Err
	case eofToken:
		return fmt.Errorf("unexpected end of expression")
	}
	return fmt.Errorf("unexpected %s at column %d", t.Value, t.Col)
}

// expr parses a primary followed by calls and property reads.
func (p *parser) expr() (*node, error) {
	n, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == dotToken {
		p.next()
		t := p.next()
		if t.Kind != identToken {
			return nil, p.unexpected(t)
		}
		if o := p.peek(); o.Kind == openToken && o.Value == "(" {
			p.next()
			args, err := p.args(")")
			if err != nil {
				return nil, err
			}
			n = &node{Kind: callNode, Name: t.Value, Recv: n, Args: args, Col: t.Col}
			continue
		}
		n = &node{Kind: propNode, Name: t.Value, Recv: n, Col: t.Col}
	}
	return n, nil
}

func (p *parser) primary() (*node, error) {
	t := p.next()
	switch t.Kind {
	case numberToken:
		v, err := parseNumber(t.Value)
		if err != nil {
			return nil, fmt.Errorf("bad number at column %d: %w", t.Col, err)
		}
		return &node{Kind: literalNode, Value: v, Col: t.Col}, nil
	case stringToken:
		s, err := unquote(t.Value)
		if err != nil {
			return nil, fmt.Errorf("bad string at column %d: %w", t.Col, err)
		}
		return &node{Kind: literalNode, Value: s, Col: t.Col}, nil
	case identToken:
		switch t.Value {
		case "null":
			return &node{Kind: literalNode, Col: t.Col}, nil
		case "true", "false":
			return &node{Kind: literalNode, Value: t.Value == "true", Col: t.Col}, nil
		case "new":
			c := p.next()
			if c.Kind != identToken {
				return nil, p.unexpected(c)
			}
			if o := p.next(); o.Kind != openToken || o.Value != "(" {
				return nil, p.unexpected(o)
			}
			args, err := p.args(")")
			if err != nil {
				return nil, err
			}
			return &node{Kind: newNode, Name: c.Value, Args: args, Col: t.Col}, nil
		}
		return &node{Kind: classNode, Name: t.Value, Col: t.Col}, nil
	case openToken:
		if t.Value == "[" {
			args, err := p.args("]")
			if err != nil {
				return nil, err
			}
			return &node{Kind: listNode, Args: args, Col: t.Col}, nil
		}
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if c := p.next(); c.Kind != closeToken || c.Value != ")" {
			return nil, p.unexpected(c)
		}
		return n, nil
	}
	return nil, p.unexpected(t)
}

// args parses a comma-separated argument list through the closing bracket.
func (p *parser) args(close string) ([]*node, error) {
	if t := p.peek(); t.Kind == closeToken && t.Value == close {
		p.next()
		return nil, nil
	}
	var args []*node
	for {
		var arg *node
		if p.peek().Kind == starToken {
			s := p.next()
			v, err := p.expr()
			if err != nil {
				return nil, err
			}
			arg = &node{Kind: spreadNode, Args: []*node{v}, Col: s.Col}
		} else {
			v, err := p.expr()
			if err != nil {
				return nil, err
			}
			arg = v
		}
		args = append(args, arg)
		switch t := p.next(); {
		case t.Kind == commaToken:
		case t.Kind == closeToken && t.Value == close:
			return args, nil
		default:
			return nil, p.unexpected(t)
		}
	}
}

// parseNumber converts a number token to a runtime value.
func parseNumber(s string) (interface{}, error) {
	body, suffix := s, byte(0)
	if c := s[len(s)-1]; strings.IndexByte("iIlLgGfFdD", c) >= 0 {
		body, suffix = s[:len(s)-1], c
	}
	switch suffix {
	case 'i', 'I':
		n, err := strconv.ParseInt(body, 10, 32)
		return int32(n), err
	case 'l', 'L':
		return strconv.ParseInt(body, 10, 64)
	case 'g', 'G':
		n, ok := new(big.Int).SetString(body, 10)
		if !ok {
			return nil, fmt.Errorf("invalid BigInteger %s", body)
		}
		return n, nil
	case 'f', 'F':
		f, err := strconv.ParseFloat(body, 32)
		return float32(f), err
	case 'd', 'D':
		return strconv.ParseFloat(body, 64)
	}
	if strings.ContainsAny(body, ".e") {
		return decimal.NewFromString(body)
	}
	if n, err := strconv.ParseInt(body, 10, 32); err == nil {
		return int32(n), nil
	}
	if n, err := strconv.ParseInt(body, 10, 64); err == nil {
		return n, nil
	}
	n, ok := new(big.Int).SetString(body, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %s", body)
	}
	return n, nil
}

// unquote removes the quotes from a string token and interprets escapes.
func unquote(s string) (string, error) {
	if s[0] == '\'' {
		inner := s[1 : len(s)-1]
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
		s = `"` + inner + `"`
	}
	return strconv.Unquote(s)
}
