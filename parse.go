// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package rtlsim

import (
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// A Connection connects a component clock input to a clock.
//
type Connection struct {
	Input string
	Clock string
}

// ParseConnections parses a comma separated list of input=clock pairs:
//
//	ParseConnections("clk=sys, wclk=io") // []Connection{{"clk", "sys"}, {"wclk", "io"}}
//
// Names start with a letter or underscore and may contain letters, digits,
// underscores and dots.
//
func ParseConnections(s string) ([]Connection, error) {
	var out []Connection
	p := &scanner{in: s}
	if p.skipSpace(); p.eof() {
		return nil, nil
	}
	for {
		in, err := p.ident("input name")
		if err != nil {
			return nil, err
		}
		if err = p.expect('='); err != nil {
			return nil, err
		}
		clk, err := p.ident("clock name")
		if err != nil {
			return nil, err
		}
		out = append(out, Connection{in, clk})
		if p.skipSpace(); p.eof() {
			return out, nil
		}
		if err = p.expect(','); err != nil {
			return nil, err
		}
	}
}

type scanner struct {
	in  string
	pos int
}

func (p *scanner) eof() bool { return p.pos >= len(p.in) }

func (p *scanner) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.in[p.pos:])
	return r
}

func (p *scanner) skipSpace() {
	for !p.eof() {
		r, sz := utf8.DecodeRuneInString(p.in[p.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		p.pos += sz
	}
}

func (p *scanner) ident(what string) (string, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() {
		r, sz := utf8.DecodeRuneInString(p.in[p.pos:])
		if !(unicode.IsLetter(r) || r == '_' || p.pos > start && (unicode.IsDigit(r) || r == '.')) {
			break
		}
		p.pos += sz
	}
	if p.pos == start {
		return "", p.errorf("expected %s", what)
	}
	return p.in[start:p.pos], nil
}

func (p *scanner) expect(r rune) error {
	p.skipSpace()
	if p.eof() || p.peek() != r {
		return p.errorf("expected %q", r)
	}
	p.pos += utf8.RuneLen(r)
	return nil
}

func (p *scanner) errorf(format string, args ...interface{}) error {
	return errors.Errorf("in %q at pos %d: "+format, append([]interface{}{p.in, p.pos + 1}, args...)...)
}
