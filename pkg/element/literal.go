package element

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// looksLikeLiteral reports whether s starts like an object or array literal.
func looksLikeLiteral(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[")
}

// ParseLiteral parses a JSON-like object or array literal. Keys may be
// unquoted and strings may use single or double quotes; trailing commas are
// accepted. The input is data only and is never evaluated.
func ParseLiteral(src string) (Value, error) {
	p := &literalParser{src: src}
	p.skipSpace()
	v, err := p.parseValue()
	if err != nil {
		return Null, err
	}
	p.skipSpace()
	if !p.eof() {
		return Null, p.errorf("unexpected %q after value", p.peek())
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) eof() bool { return p.pos >= len(p.src) }

func (p *literalParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *literalParser) errorf(format string, args ...any) error {
	return fmt.Errorf("literal: offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literalParser) skipSpace() {
	for !p.eof() && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *literalParser) expect(c byte) error {
	p.skipSpace()
	if p.peek() != c {
		if p.eof() {
			return p.errorf("expected %q, got end of input", c)
		}
		return p.errorf("expected %q, got %q", c, p.peek())
	}
	p.pos++
	return nil
}

func (p *literalParser) parseValue() (Value, error) {
	p.skipSpace()
	switch c := p.peek(); {
	case p.eof():
		return Null, p.errorf("unexpected end of input")
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '\'' || c == '"':
		s, err := p.parseQuoted()
		if err != nil {
			return Null, err
		}
		return String(s), nil
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		word := p.parseWord()
		switch word {
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		case "null", "undefined":
			return Null, nil
		case "":
			return Null, p.errorf("unexpected %q", c)
		default:
			return Null, p.errorf("bare word %q is not a value", word)
		}
	}
}

func (p *literalParser) parseObject() (Value, error) {
	p.pos++ // {
	entries := map[string]Value{}
	for {
		p.skipSpace()
		if p.peek() == '}' {
			p.pos++
			return Map(entries), nil
		}
		key, err := p.parseKey()
		if err != nil {
			return Null, err
		}
		if err := p.expect(':'); err != nil {
			return Null, err
		}
		v, err := p.parseValue()
		if err != nil {
			return Null, err
		}
		entries[key] = v

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return Map(entries), nil
		default:
			if p.eof() {
				return Null, p.errorf("unterminated object")
			}
			return Null, p.errorf("expected ',' or '}', got %q", p.peek())
		}
	}
}

func (p *literalParser) parseArray() (Value, error) {
	p.pos++ // [
	var items []Value
	for {
		p.skipSpace()
		if p.peek() == ']' {
			p.pos++
			return List(items...), nil
		}
		v, err := p.parseValue()
		if err != nil {
			return Null, err
		}
		items = append(items, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return List(items...), nil
		default:
			if p.eof() {
				return Null, p.errorf("unterminated array")
			}
			return Null, p.errorf("expected ',' or ']', got %q", p.peek())
		}
	}
}

func (p *literalParser) parseKey() (string, error) {
	p.skipSpace()
	if c := p.peek(); c == '\'' || c == '"' {
		return p.parseQuoted()
	}
	word := p.parseWord()
	if word == "" {
		if p.eof() {
			return "", p.errorf("unterminated object")
		}
		return "", p.errorf("expected key, got %q", p.peek())
	}
	return word, nil
}

func (p *literalParser) parseWord() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if c == '_' || c == '-' || c == '$' || c == '.' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *literalParser) parseQuoted() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if p.eof() {
				return "", p.errorf("unterminated string")
			}
			esc := p.src[p.pos]
			p.pos++
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case 'u':
				if p.pos+4 > len(p.src) {
					return "", p.errorf("short unicode escape")
				}
				code, err := strconv.ParseUint(p.src[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return "", p.errorf("bad unicode escape %q", p.src[p.pos:p.pos+4])
				}
				b.WriteRune(rune(code))
				p.pos += 4
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *literalParser) parseNumber() (Value, error) {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == '+' || c == 'e' || c == 'E' {
			p.pos++
			continue
		}
		break
	}
	n, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return Null, p.errorf("bad number %q", p.src[start:p.pos])
	}
	return Number(n), nil
}
