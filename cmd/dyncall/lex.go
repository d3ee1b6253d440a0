package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// A token is a single lexical element of a call expression.
type token struct {
	Kind  tokenKind
	Value string
	Err   error

	Col int
}

type tokenKind int

const (
	badToken tokenKind = iota

	identToken  // identifier or keyword
	numberToken // number, with an optional type suffix
	stringToken // "string" or 'string'
	openToken   // ( or [
	closeToken  // ) or ]
	commaToken  // comma
	dotToken    // .
	starToken   // * spread marker
	eofToken    // end of input, never sent by the lexer
)

// lexFn is a lexer state function. Each lexFn lexes a token, sends it on the
// supplied channel, and returns the next lexFn to use.
type lexFn func(src *bufio.Reader, tokens chan<- token, col int) (lexFn, int)

// lex converts a source into a stream of tokens.
func lex(src *bufio.Reader, tokens chan<- token) {
	state := eatSpace
	col := 1
	for state != nil {
		state, col = state(src, tokens, col)
	}
	close(tokens)
}

// accept appends the next run of characters in src which satisfy the predicate
// to b. Returns b after appending, the first rune which did not satisfy the
// predicate, and any error that occurred. If there was no such error, the
// last rune is unread.
func accept(src *bufio.Reader, predicate func(rune) bool, b []byte) ([]byte, rune, error) {
	r, _, err := src.ReadRune()
	for {
		if err != nil {
			return b, r, err
		}
		if !predicate(r) {
			break
		}
		b = append(b, string(r)...)
		r, _, err = src.ReadRune()
	}
	src.UnreadRune()
	return b, r, nil
}

// lexsend is a shortcut for sending a token with error checking. It returns
// eatSpace as the default lexing function.
func lexsend(err error, tokens chan<- token, good token) lexFn {
	if err != nil && err != io.EOF {
		good.Kind = badToken
		good.Err = err
	}
	tokens <- good
	if err != nil {
		return nil
	}
	return eatSpace
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdent(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || isDigit(r) || r == '_' || r == '$' || r >= 0x80
}

// eatSpace consumes space and decides the next lexFn to use.
func eatSpace(src *bufio.Reader, tokens chan<- token, col int) (lexFn, int) {
	eaten, r, err := accept(src, func(r rune) bool { return strings.ContainsRune(" \r\n\f\t\v", r) }, nil)
	col += len(eaten)
	if err != nil {
		if err != io.EOF {
			tokens <- token{Kind: badToken, Value: string(r), Err: err, Col: col}
		}
		return nil, col
	}
	single := func(kind tokenKind) (lexFn, int) {
		src.ReadRune()
		tokens <- token{Kind: kind, Value: string(r), Col: col}
		return eatSpace, col + 1
	}
	switch {
	case isDigit(r):
		return lexNumber, col
	case r == '-':
		peek, _ := src.Peek(2)
		if len(peek) > 1 && isDigit(rune(peek[1])) {
			return lexNumber, col
		}
	case isIdent(r):
		return lexIdent, col
	case r == '"', r == '\'':
		return lexString, col
	case r == '(', r == '[':
		return single(openToken)
	case r == ')', r == ']':
		return single(closeToken)
	case r == ',':
		return single(commaToken)
	case r == '.':
		return single(dotToken)
	case r == '*':
		return single(starToken)
	}
	tokens <- token{
		Kind:  badToken,
		Value: string(r),
		Err:   fmt.Errorf("invalid character %q at column %d", r, col),
		Col:   col,
	}
	return nil, col
}

// lexIdent lexes an identifier.
func lexIdent(src *bufio.Reader, tokens chan<- token, col int) (lexFn, int) {
	b, _, err := accept(src, isIdent, nil)
	return lexsend(err, tokens, token{Kind: identToken, Value: string(b), Col: col}), col + len(b)
}

// lexNumber lexes a number: an optional minus sign, digits, an optional
// fraction and exponent, and an optional type suffix. A dot not followed by a
// digit ends the number, so that 1.plus(2) calls plus on 1.
func lexNumber(src *bufio.Reader, tokens chan<- token, col int) (lexFn, int) {
	var b []byte
	if peek, _ := src.Peek(1); len(peek) > 0 && peek[0] == '-' {
		src.ReadRune()
		b = append(b, '-')
	}
	b, r, err := accept(src, isDigit, b)
	if err != nil {
		return lexsend(err, tokens, token{Kind: numberToken, Value: string(b), Col: col}), col + len(b)
	}
	if r == '.' {
		peek, _ := src.Peek(2)
		if len(peek) > 1 && isDigit(rune(peek[1])) {
			src.ReadRune()
			b = append(b, '.')
			b, r, err = accept(src, isDigit, b)
			if err != nil {
				return lexsend(err, tokens, token{Kind: numberToken, Value: string(b), Col: col}), col + len(b)
			}
		}
	}
	if r == 'e' || r == 'E' {
		src.ReadRune()
		b = append(b, 'e')
		if peek, _ := src.Peek(1); len(peek) > 0 && (peek[0] == '-' || peek[0] == '+') {
			sign := peek[0]
			src.ReadRune()
			b = append(b, sign)
		}
		n := len(b)
		b, r, err = accept(src, isDigit, b)
		if len(b) == n {
			tokens <- token{Kind: badToken, Value: string(b), Err: fmt.Errorf("missing exponent in %s at column %d", b, col), Col: col}
			return nil, col
		}
		if err != nil {
			return lexsend(err, tokens, token{Kind: numberToken, Value: string(b), Col: col}), col + len(b)
		}
	}
	if strings.ContainsRune("iIlLgGfFdD", r) {
		src.ReadRune()
		b = append(b, byte(r))
	}
	return lexsend(nil, tokens, token{Kind: numberToken, Value: string(b), Col: col}), col + len(b)
}

// lexString lexes a string delimited by double or single quotes. Backslash
// escapes the next character.
func lexString(src *bufio.Reader, tokens chan<- token, col int) (lexFn, int) {
	q, _, _ := src.ReadRune()
	b := []byte{byte(q)}
	ncol := col + 1
	ps := false
	for {
		r, _, err := src.ReadRune()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			tokens <- token{Kind: badToken, Value: string(b), Err: err, Col: col}
			return nil, ncol
		}
		ncol++
		b = append(b, string(r)...)
		if r == '\\' {
			ps = !ps
		} else if r == q && !ps {
			return lexsend(nil, tokens, token{Kind: stringToken, Value: string(b), Col: col}), ncol
		} else {
			ps = false
		}
	}
}
