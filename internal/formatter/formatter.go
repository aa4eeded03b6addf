// Package formatter pretty-prints value trees as indented JSON text.
package formatter

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/tidyjson/internal/value"
)

var (
	blankLineRegex     = regexp.MustCompile(`(?m)^[ \t]+\r?\n`)
	trailingCommaRegex = regexp.MustCompile(`,(\s*[\]}]\s*)$`)
)

// Formatter renders value trees using one resolved Format. It keeps no
// state between calls to Render.
type Formatter struct {
	format Format
}

// cursor is the layout state of a single Render pass
type cursor struct {
	// leftBracketOffset counts how many more nested sequences should have
	// their indent reduced by one step
	leftBracketOffset int
	needOffset        bool
}

// New creates a Formatter for opts
func New(opts Options) *Formatter {
	return &Formatter{format: opts.Resolve()}
}

// NewWithFormat creates a Formatter for an already resolved Format
func NewWithFormat(format Format) *Formatter {
	return &Formatter{format: format}
}

// Format returns the resolved format in use
func (f *Formatter) Format() Format {
	return f.format
}

// Render returns v as pretty-printed JSON text. A map is laid out one
// member per line, each member rendered by FormatNode; anything else is
// rendered as a single standalone node.
func (f *Formatter) Render(v value.Value) string {
	cur := &cursor{}

	if !v.IsMap() {
		return f.formatNode(v, value.Null(), 0, cur)
	}

	var sb strings.Builder
	sb.WriteString("{\n")
	for idx, e := range v.MapValue().Entries() {
		sb.WriteString(f.format.Indent)
		sb.WriteString(quote(e.Key))
		sb.WriteString(": ")
		sb.WriteString(f.formatNode(e.Value, v, idx, cur))
	}
	sb.WriteString("}\n")
	return Trim(sb.String())
}

// FormatNode renders node, which sits at position idx of the container
// parent. Map and sequence nodes assume they open on a line indented one
// level deep. A separator follows the node unless it is the last element
// of parent; a parent that is not a container counts as holding node
// alone.
func (f *Formatter) FormatNode(node, parent value.Value, idx int) string {
	return f.formatNode(node, parent, idx, &cursor{})
}

func (f *Formatter) formatNode(node, parent value.Value, idx int, cur *cursor) string {
	indent := f.format.Indent
	isLast := isLastElement(parent, idx)

	var sb strings.Builder
	switch node.Kind() {
	case value.KindSeq:
		elems := node.Elems()
		sb.WriteByte('[')
		if len(elems) > 0 {
			sb.WriteByte('\n')
		}

		for i, elem := range elems {
			if elem.IsMap() {
				sb.WriteString(strings.Repeat(indent, 2))
				f.writeInlineMap(&sb, elem.MapValue(), 2, cur)
			} else {
				if leading := leadingSeqs(elem); leading > 0 {
					cur.leftBracketOffset = leading
				}
				sb.WriteString(strings.Repeat(indent, 2))
				sb.WriteString(f.nodeToStr(elem, 0, cur))
			}

			if i != len(elems)-1 {
				sb.WriteString(",\n")
			}
		}

		if len(elems) > 0 {
			sb.WriteByte('\n')
			sb.WriteString(indent)
		}
		sb.WriteByte(']')
		if isLast {
			sb.WriteByte('\n')
		} else {
			sb.WriteString(",\n")
		}

	case value.KindMap:
		entries := node.MapValue().Entries()
		sb.WriteByte('{')
		if len(entries) > 0 {
			sb.WriteByte('\n')
		}

		for i, e := range entries {
			sb.WriteString(strings.Repeat(indent, 2))
			if e.Value.IsMap() {
				key := e.Key
				if key == "" {
					key = "<#" + className(e.Value.MapValue()) + ">"
				}
				sb.WriteString(quote(key))
				sb.WriteString(": ")
				f.writeInlineMap(&sb, e.Value.MapValue(), 2, cur)
			} else {
				sb.WriteString(quote(e.Key))
				sb.WriteString(": ")
				sb.WriteString(f.nodeToStr(e.Value, 0, cur))
			}

			if i != len(entries)-1 {
				sb.WriteString(",\n")
			}
		}

		if len(entries) > 0 {
			sb.WriteByte('\n')
			sb.WriteString(indent)
		}
		sb.WriteByte('}')
		if !isLast {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')

	default:
		sb.WriteString(f.nodeToStr(node, 0, cur))
		if !isLast {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}

	return Trim(postProcess(sb.String()))
}

// writeInlineMap writes m as a block whose members sit one level deeper
// than level and whose closing brace sits at level
func (f *Formatter) writeInlineMap(sb *strings.Builder, m *value.Map, level int, cur *cursor) {
	indent := f.format.Indent
	entries := m.Entries()

	sb.WriteByte('{')
	if len(entries) == 0 {
		sb.WriteByte('}')
		return
	}
	sb.WriteByte('\n')

	for i, e := range entries {
		sb.WriteString(strings.Repeat(indent, level+1))
		sb.WriteString(quote(e.Key))
		sb.WriteString(": ")
		sb.WriteString(f.nodeToStr(e.Value, 2*level, cur))
		if i != len(entries)-1 {
			sb.WriteByte(',')
		}
		sb.WriteByte('\n')
	}

	sb.WriteString(strings.Repeat(indent, level))
	sb.WriteByte('}')
}

// nodeToStr renders a scalar as JSON text, or renders a container as a
// standalone block grafted at tabs/2 indent steps
func (f *Formatter) nodeToStr(node value.Value, tabs int, cur *cursor) string {
	if tabs == 0 {
		tabs = 2
	}
	if cur.needOffset && cur.leftBracketOffset > 0 {
		tabs--
		cur.leftBracketOffset--
	}

	switch node.Kind() {
	case value.KindNull:
		return "null"
	case value.KindBool:
		return strconv.FormatBool(node.BoolValue())
	case value.KindNumber:
		return node.NumberText()
	case value.KindString:
		return quote(node.StringValue())
	case value.KindSeq:
		cur.needOffset = cur.leftBracketOffset > 0
	}

	block := f.formatNode(node, value.Null(), 0, cur)
	prefix := strings.Repeat(f.format.Indent, tabs/2)

	var graft strings.Builder
	for _, line := range strings.Split(block, "\n") {
		graft.WriteByte('\n')
		graft.WriteString(prefix)
		graft.WriteString(line)
	}
	return strings.TrimSpace(graft.String())
}

// Trim removes a separator left between the last element of a document and
// its closing bracket
func Trim(s string) string {
	loc := trailingCommaRegex.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}

	trail := s[loc[2]:loc[3]]
	if trail != "" && (trail[0] == ' ' || trail[0] == '\t' || trail[0] == '\n' || trail[0] == '\r') {
		trail = "\n" + trail[1:]
	}
	return s[:loc[0]] + trail
}

func postProcess(s string) string {
	s = blankLineRegex.ReplaceAllString(s, "")
	return collapseCommas(s)
}

// collapseCommas reduces a run of commas after a closing bracket to one.
// String literals are copied untouched.
func collapseCommas(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		sb.WriteByte(c)

		switch {
		case inString && escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && (c == ']' || c == '}') && i+2 < len(s) && s[i+1] == ',' && s[i+2] == ',':
			sb.WriteByte(',')
			for i+1 < len(s) && s[i+1] == ',' {
				i++
			}
		}
	}
	return sb.String()
}

// isLastElement compares positions, so repeated equal values are never
// mistaken for the final one
func isLastElement(parent value.Value, idx int) bool {
	n := parent.Len()
	if !parent.IsContainer() || n <= 1 {
		return true
	}
	return idx == n-1
}

// leadingSeqs counts the sequences at the start of a sequence that contains
// at least one sequence
func leadingSeqs(v value.Value) int {
	if !v.IsSeq() {
		return 0
	}

	elems := v.Elems()
	nested := false
	for _, e := range elems {
		if e.IsSeq() {
			nested = true
			break
		}
	}
	if !nested {
		return 0
	}

	n := 0
	for _, e := range elems {
		if !e.IsSeq() {
			break
		}
		n++
	}
	return n
}

// className names an anonymous nested map after its class member
func className(m *value.Map) string {
	if c, ok := m.Get("class"); ok && c.Kind() == value.KindString && c.StringValue() != "" {
		return strcase.ToSnake(c.StringValue())
	}
	return "map"
}

const hexDigits = "0123456789abcdef"

func quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if c < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[c>>4])
				sb.WriteByte(hexDigits[c&0xf])
			} else {
				sb.WriteByte(c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
