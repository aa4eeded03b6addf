// Package value holds the generic tree that sits between object
// introspection and JSON text: null, booleans, numbers, strings,
// insertion-ordered maps and sequences.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which variant a Value holds
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMap
	KindSeq
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindSeq:
		return "seq"
	default:
		return "unknown"
	}
}

// Value is a JSON-compatible value. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	text string // number literal or string contents
	m    *Map
	seq  []Value
}

// Null returns the null value
func Null() Value {
	return Value{}
}

// Bool wraps a boolean
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int wraps an integer
func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

// Uint wraps an unsigned integer
func Uint(u uint64) Value {
	return Value{kind: KindNumber, text: strconv.FormatUint(u, 10)}
}

// Float wraps a float. NaN and infinities are kept as the literals NaN,
// Infinity and -Infinity; the generator decides whether they may be written.
func Float(f float64) Value {
	switch {
	case math.IsNaN(f):
		return Value{kind: KindNumber, text: "NaN"}
	case math.IsInf(f, 1):
		return Value{kind: KindNumber, text: "Infinity"}
	case math.IsInf(f, -1):
		return Value{kind: KindNumber, text: "-Infinity"}
	}

	// Plain decimal for the everyday range, exponent form beyond it
	if f >= -1e15 && f <= 1e15 {
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return Value{kind: KindNumber, text: s}
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number wraps a number literal as written, e.g. a json.Number
func Number(text string) Value {
	return Value{kind: KindNumber, text: text}
}

// String wraps a string
func String(s string) Value {
	return Value{kind: KindString, text: s}
}

// FromMap wraps an ordered map. A nil map becomes an empty one.
func FromMap(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// Seq wraps a sequence of values
func Seq(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindSeq, seq: elems}
}

// Kind reports the variant held by v
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }
func (v Value) IsMap() bool  { return v.kind == KindMap }
func (v Value) IsSeq() bool  { return v.kind == KindSeq }

// IsContainer reports whether v is a map or a sequence
func (v Value) IsContainer() bool {
	return v.kind == KindMap || v.kind == KindSeq
}

// BoolValue returns the boolean held by v, false for other kinds
func (v Value) BoolValue() bool { return v.kind == KindBool && v.b }

// NumberText returns the number literal held by v
func (v Value) NumberText() string {
	if v.kind != KindNumber {
		return ""
	}
	return v.text
}

// StringValue returns the string held by v
func (v Value) StringValue() string {
	if v.kind != KindString {
		return ""
	}
	return v.text
}

// MapValue returns the map held by v, or nil
func (v Value) MapValue() *Map {
	if v.kind != KindMap {
		return nil
	}
	return v.m
}

// Elems returns the elements held by v, or nil
func (v Value) Elems() []Value {
	if v.kind != KindSeq {
		return nil
	}
	return v.seq
}

// Len returns the number of children of a container, 0 for scalars
func (v Value) Len() int {
	switch v.kind {
	case KindMap:
		return v.m.Len()
	case KindSeq:
		return len(v.seq)
	default:
		return 0
	}
}

// Equal compares two values deeply. Map order is significant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber, KindString:
		return v.text == o.text
	case KindMap:
		return v.m.Equal(o.m)
	case KindSeq:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v
func (v Value) Clone() Value {
	switch v.kind {
	case KindMap:
		return FromMap(v.m.Clone())
	case KindSeq:
		elems := make([]Value, len(v.seq))
		for i, e := range v.seq {
			elems[i] = e.Clone()
		}
		return Seq(elems...)
	default:
		return v
	}
}

// String returns a compact, JSON-like rendering for debugging. It does not
// escape anything beyond double quotes; use the codec for real output.
func (v Value) String() string {
	var sb strings.Builder
	v.debug(&sb)
	return sb.String()
}

func (v Value) debug(sb *strings.Builder) {
	switch v.kind {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		sb.WriteString(v.text)
	case KindString:
		sb.WriteString(strconv.Quote(v.text))
	case KindMap:
		sb.WriteByte('{')
		for i, e := range v.m.Entries() {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteByte(':')
			e.Value.debug(sb)
		}
		sb.WriteByte('}')
	case KindSeq:
		sb.WriteByte('[')
		for i, e := range v.seq {
			if i > 0 {
				sb.WriteByte(',')
			}
			e.debug(sb)
		}
		sb.WriteByte(']')
	}
}
