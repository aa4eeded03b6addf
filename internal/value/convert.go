package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
)

// ErrUnsupported is returned by FromAny for Go values with no JSON shape
var ErrUnsupported = errors.New("unsupported value type")

// FromAny converts plain Go data into a Value. Go maps have no order, so
// the keys of string-keyed maps are sorted to keep the result deterministic.
func FromAny(x any) (Value, error) {
	if v, ok := Scalar(x); ok {
		return v, nil
	}

	switch t := x.(type) {
	case Value:
		return t, nil
	case *Map:
		return FromMap(t), nil
	}

	if t, ok := StringMap(x); ok {
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		m := NewMap()
		for _, k := range keys {
			v, err := FromAny(t[k])
			if err != nil {
				return Value{}, fmt.Errorf("key %q: %w", k, err)
			}
			m.Set(k, v)
		}
		return FromMap(m), nil
	}

	if elems, ok := Elements(x); ok {
		out := make([]Value, len(elems))
		for i, e := range elems {
			v, err := FromAny(e)
			if err != nil {
				return Value{}, fmt.Errorf("index %d: %w", i, err)
			}
			out[i] = v
		}
		return Seq(out...), nil
	}

	return Value{}, fmt.Errorf("%w: %T", ErrUnsupported, x)
}

// Scalar converts a Go primitive (or a scalar Value) into a Value
func Scalar(x any) (Value, bool) {
	switch t := x.(type) {
	case nil:
		return Null(), true
	case bool:
		return Bool(t), true
	case string:
		return String(t), true
	case json.Number:
		return Number(t.String()), true
	case int:
		return Int(int64(t)), true
	case int8:
		return Int(int64(t)), true
	case int16:
		return Int(int64(t)), true
	case int32:
		return Int(int64(t)), true
	case int64:
		return Int(t), true
	case uint:
		return Uint(uint64(t)), true
	case uint8:
		return Uint(uint64(t)), true
	case uint16:
		return Uint(uint64(t)), true
	case uint32:
		return Uint(uint64(t)), true
	case uint64:
		return Uint(t), true
	case float32:
		return Float(float64(t)), true
	case float64:
		return Float(t), true
	case Value:
		if !t.IsContainer() {
			return t, true
		}
		return Value{}, false
	}
	return namedScalar(x)
}

// namedScalar converts values of named primitive types, e.g. a string enum
func namedScalar(x any) (Value, bool) {
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), true
	case reflect.String:
		return String(rv.String()), true
	}
	return Value{}, false
}

// StringMap returns a Go map with string keys as map[string]any. Any value
// type is accepted; other key types are not.
func StringMap(x any) (map[string]any, bool) {
	if m, ok := x.(map[string]any); ok {
		return m, true
	}

	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// Elements returns the elements of a sequence-shaped Go value: any slice or
// array, and sequence Values.
func Elements(x any) ([]any, bool) {
	switch t := x.(type) {
	case []any:
		return t, true
	case []Value:
		return box(t), true
	case []string:
		return box(t), true
	case []int:
		return box(t), true
	case []int64:
		return box(t), true
	case []float64:
		return box(t), true
	case []bool:
		return box(t), true
	case []map[string]any:
		return box(t), true
	case Value:
		if t.kind == KindSeq {
			return box(t.seq), true
		}
		return nil, false
	}

	rv := reflect.ValueOf(x)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func box[T any](s []T) []any {
	out := make([]any, len(s))
	for i, e := range s {
		out[i] = e
	}
	return out
}
