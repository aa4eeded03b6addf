// Package codec is the raw JSON layer: an order-preserving parser and a
// generator with the classic pretty-print knobs (indent, space around the
// colon, line terminators, nesting limit, escaping policy).
package codec

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mcncl/tidyjson/internal/errors"
	"github.com/mcncl/tidyjson/internal/value"
)

// GenerateOptions controls raw JSON generation. The zero value produces
// compact output with no nesting limit.
type GenerateOptions struct {
	Indent      string
	SpaceBefore string // before each ':'
	Space       string // after each ':'
	ObjectNL    string // after '{', between members and before '}'
	ArrayNL     string // after '[', between elements and before ']'
	MaxNesting  int    // 0 disables the check
	EscapeSlash bool
	ASCIIOnly   bool
	AllowNaN    bool
}

// Generate writes v as JSON text
func Generate(v value.Value, opts GenerateOptions) (string, error) {
	g := generator{opts: opts}
	if err := g.value(v, 0); err != nil {
		return "", err
	}
	return g.sb.String(), nil
}

// Compact writes v with no insignificant whitespace
func Compact(v value.Value) (string, error) {
	return Generate(v, GenerateOptions{})
}

type generator struct {
	opts GenerateOptions
	sb   strings.Builder
}

func (g *generator) value(v value.Value, depth int) error {
	switch v.Kind() {
	case value.KindNull:
		g.sb.WriteString("null")
	case value.KindBool:
		if v.BoolValue() {
			g.sb.WriteString("true")
		} else {
			g.sb.WriteString("false")
		}
	case value.KindNumber:
		return g.number(v.NumberText())
	case value.KindString:
		return g.string(v.StringValue())
	case value.KindMap:
		return g.object(v.MapValue(), depth+1)
	case value.KindSeq:
		return g.array(v.Elems(), depth+1)
	}
	return nil
}

func (g *generator) checkDepth(depth int) error {
	if g.opts.MaxNesting > 0 && depth > g.opts.MaxNesting {
		return errors.NewGenerateError(
			fmt.Sprintf("nesting of %d is too deep", depth),
			errors.ErrNestingTooDeep,
		)
	}
	return nil
}

func (g *generator) object(m *value.Map, depth int) error {
	if err := g.checkDepth(depth); err != nil {
		return err
	}
	if m.Len() == 0 {
		g.sb.WriteString("{}")
		return nil
	}

	g.sb.WriteByte('{')
	g.sb.WriteString(g.opts.ObjectNL)
	for i, e := range m.Entries() {
		if i > 0 {
			g.sb.WriteByte(',')
			g.sb.WriteString(g.opts.ObjectNL)
		}
		g.indent(depth)
		if err := g.string(e.Key); err != nil {
			return err
		}
		g.sb.WriteString(g.opts.SpaceBefore)
		g.sb.WriteByte(':')
		g.sb.WriteString(g.opts.Space)
		if err := g.value(e.Value, depth); err != nil {
			return err
		}
	}
	g.sb.WriteString(g.opts.ObjectNL)
	g.indent(depth - 1)
	g.sb.WriteByte('}')
	return nil
}

func (g *generator) array(elems []value.Value, depth int) error {
	if err := g.checkDepth(depth); err != nil {
		return err
	}
	if len(elems) == 0 {
		g.sb.WriteString("[]")
		return nil
	}

	g.sb.WriteByte('[')
	g.sb.WriteString(g.opts.ArrayNL)
	for i, e := range elems {
		if i > 0 {
			g.sb.WriteByte(',')
			g.sb.WriteString(g.opts.ArrayNL)
		}
		g.indent(depth)
		if err := g.value(e, depth); err != nil {
			return err
		}
	}
	g.sb.WriteString(g.opts.ArrayNL)
	g.indent(depth - 1)
	g.sb.WriteByte(']')
	return nil
}

func (g *generator) indent(depth int) {
	if g.opts.Indent == "" {
		return
	}
	for i := 0; i < depth; i++ {
		g.sb.WriteString(g.opts.Indent)
	}
}

var numberLiteral = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

func (g *generator) number(text string) error {
	switch text {
	case "NaN", "Infinity", "-Infinity":
		if !g.opts.AllowNaN {
			return errors.NewGenerateError(fmt.Sprintf("%s not allowed in JSON", text), errors.ErrNaN)
		}
	default:
		if !numberLiteral.MatchString(text) {
			return errors.NewGenerateError(fmt.Sprintf("invalid number literal %q", text), errors.ErrInvalidNumber)
		}
	}
	g.sb.WriteString(text)
	return nil
}

const hexDigits = "0123456789abcdef"

func (g *generator) string(s string) error {
	if !utf8.ValidString(s) {
		return errors.NewGenerateError(fmt.Sprintf("cannot generate %q", s), errors.ErrInvalidUTF8)
	}

	g.sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			g.sb.WriteString(`\"`)
		case '\\':
			g.sb.WriteString(`\\`)
		case '\b':
			g.sb.WriteString(`\b`)
		case '\f':
			g.sb.WriteString(`\f`)
		case '\n':
			g.sb.WriteString(`\n`)
		case '\r':
			g.sb.WriteString(`\r`)
		case '\t':
			g.sb.WriteString(`\t`)
		case '/':
			if g.opts.EscapeSlash {
				g.sb.WriteString(`\/`)
			} else {
				g.sb.WriteByte('/')
			}
		default:
			switch {
			case r < 0x20:
				g.unicodeEscape(r)
			case r > 0x7f && g.opts.ASCIIOnly:
				if r > 0xffff {
					// Astral runes become a surrogate pair
					r -= 0x10000
					g.unicodeEscape(0xd800 + (r>>10)&0x3ff)
					g.unicodeEscape(0xdc00 + r&0x3ff)
				} else {
					g.unicodeEscape(r)
				}
			default:
				g.sb.WriteRune(r)
			}
		}
	}
	g.sb.WriteByte('"')
	return nil
}

func (g *generator) unicodeEscape(r rune) {
	g.sb.WriteString(`\u`)
	g.sb.WriteByte(hexDigits[(r>>12)&0xf])
	g.sb.WriteByte(hexDigits[(r>>8)&0xf])
	g.sb.WriteByte(hexDigits[(r>>4)&0xf])
	g.sb.WriteByte(hexDigits[r&0xf])
}
