package verify

import (
	"fmt"
	"strconv"
	"strings"
)

// Tuple is a parsed Python tuple. It stays distinct from []any so that
// verifiers requiring tuple answers can tell the two apart.
type Tuple []any

// ParseLiteral parses a single JSON value or Python literal: lists, tuples,
// dicts with string keys, single- or double-quoted strings, numbers,
// booleans, and None/null. Integers parse as int, everything else numeric
// as float64.
func ParseLiteral(text string) (any, error) {
	p := &literalParser{src: text}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("verify: trailing data at offset %d", p.pos)
	}
	return v, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("verify: unexpected end of input")
	}
	switch c := p.src[p.pos]; {
	case c == '[':
		items, _, err := p.sequence('[', ']')
		if err != nil {
			return nil, err
		}
		return items, nil
	case c == '(':
		items, sawComma, err := p.sequence('(', ')')
		if err != nil {
			return nil, err
		}
		// A parenthesised single value without a trailing comma is not
		// a tuple.
		if len(items) == 1 && !sawComma {
			return items[0], nil
		}
		return Tuple(items), nil
	case c == '{':
		return p.dict()
	case c == '"' || c == '\'':
		return p.quoted()
	case c == '-' || c == '+' || c == '.' || c >= '0' && c <= '9':
		return p.number()
	default:
		return p.ident()
	}
}

func (p *literalParser) sequence(open, close byte) ([]any, bool, error) {
	p.pos++
	items := []any{}
	sawComma := false
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, false, fmt.Errorf("verify: unterminated %q", string(open))
		}
		if p.src[p.pos] == close {
			p.pos++
			return items, sawComma, nil
		}
		if len(items) > 0 {
			if p.src[p.pos] != ',' {
				return nil, false, fmt.Errorf("verify: expected ',' or %q at offset %d", string(close), p.pos)
			}
			sawComma = true
			p.pos++
			p.skipSpace()
			if p.pos < len(p.src) && p.src[p.pos] == close {
				p.pos++
				return items, sawComma, nil
			}
		}
		v, err := p.value()
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)
	}
}

func (p *literalParser) dict() (any, error) {
	p.pos++
	out := make(map[string]any)
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("verify: unterminated dict")
		}
		if p.src[p.pos] == '}' {
			p.pos++
			return out, nil
		}
		if len(out) > 0 {
			if p.src[p.pos] != ',' {
				return nil, fmt.Errorf("verify: expected ',' or '}' at offset %d", p.pos)
			}
			p.pos++
			p.skipSpace()
			if p.pos < len(p.src) && p.src[p.pos] == '}' {
				p.pos++
				return out, nil
			}
		}
		key, err := p.value()
		if err != nil {
			return nil, err
		}
		ks, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("verify: dict key must be a string")
		}
		p.skipSpace()
		if p.pos >= len(p.src) || p.src[p.pos] != ':' {
			return nil, fmt.Errorf("verify: expected ':' at offset %d", p.pos)
		}
		p.pos++
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out[ks] = v
	}
}

func (p *literalParser) quoted() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", fmt.Errorf("verify: unterminated escape")
			}
			switch e := p.src[p.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'u':
				if p.pos+4 >= len(p.src) {
					return "", fmt.Errorf("verify: truncated unicode escape")
				}
				code, err := strconv.ParseUint(p.src[p.pos+1:p.pos+5], 16, 32)
				if err != nil {
					return "", fmt.Errorf("verify: invalid unicode escape")
				}
				b.WriteRune(rune(code))
				p.pos += 4
			default:
				b.WriteByte(e)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("verify: unterminated string")
}

func (p *literalParser) number() (any, error) {
	start := p.pos
	if c := p.src[p.pos]; c == '+' || c == '-' {
		p.pos++
	}
	isFloat := false
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c >= '0' && c <= '9':
			p.pos++
		case c == '.' || c == 'e' || c == 'E':
			isFloat = true
			p.pos++
		case (c == '+' || c == '-') && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E'):
			p.pos++
		default:
			goto done
		}
	}
done:
	text := p.src[start:p.pos]
	digits := strings.TrimLeft(text, "+-")
	if !isFloat {
		// Leading zeros are not valid integer literals, so "0011" stays
		// a plain token rather than the number 11.
		if len(digits) > 1 && digits[0] == '0' {
			return nil, fmt.Errorf("verify: invalid integer %q", text)
		}
		if n, err := strconv.Atoi(text); err == nil {
			return n, nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("verify: invalid number %q", text)
	}
	return f, nil
}

func (p *literalParser) ident() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' {
			p.pos++
		} else {
			break
		}
	}
	switch p.src[start:p.pos] {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	case "None", "null":
		return nil, nil
	}
	return nil, fmt.Errorf("verify: unexpected token at offset %d", start)
}
