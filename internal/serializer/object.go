// Package serializer turns objects into ordered maps by walking the
// fields they choose to expose.
package serializer

// Object is implemented by types that can describe their own fields.
// Fields are reported in the order they should appear in the output.
type Object interface {
	TypeName() string
	Fields() []Field
}

// Field is one visible member of an Object. A nil Get marks a member that
// exists but cannot be read; it serializes as null.
type Field struct {
	Name string
	Get  func() any
}

// Attr returns a readable field holding v
func Attr(name string, v any) Field {
	return Field{Name: name, Get: func() any { return v }}
}

// Hidden returns a field without a reader
func Hidden(name string) Field {
	return Field{Name: name}
}

// List boxes a typed slice, e.g. []*Child, so it can be used as a
// sequence field value
func List[T any](s []T) []any {
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = e
	}
	return out
}

// KV is one entry of a Dict
type KV struct {
	Key   string
	Value any
}

// Dict is an ordered map whose values may be objects. Go maps lose their
// order, so map[string]any members are serialized with sorted keys; a Dict
// keeps the order it was built in.
type Dict []KV
