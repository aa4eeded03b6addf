package serializer

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/mcncl/tidyjson/internal/logging"
	"github.com/mcncl/tidyjson/internal/value"
)

// ClassKey is the key under which an object's type name is recorded
const ClassKey = "class"

// Depth caps. A member of the object being walked sits at depth 1.
const (
	// DefaultMapDepth: objects stored as values of a map member are
	// serialized; objects in maps nested below that are not.
	DefaultMapDepth = 2
	// DefaultSeqDepth: objects in a sequence member, and in up to this many
	// sequences nested inside it, are serialized; deeper ones are not.
	DefaultSeqDepth = 3
	// DefaultObjectDepth bounds chains of objects holding objects, which is
	// what keeps cyclic graphs finite.
	DefaultObjectDepth = 8
)

// Options configures a Serializer. Non-positive depths use the defaults.
type Options struct {
	MapDepth    int
	SeqDepth    int
	ObjectDepth int
	Logger      *slog.Logger
}

// Serializer walks objects into ordered maps. It holds no per-call state
// and may be shared.
type Serializer struct {
	mapDepth    int
	seqDepth    int
	objectDepth int
	log         *slog.Logger
}

// New creates a Serializer
func New(opts Options) *Serializer {
	s := &Serializer{
		mapDepth:    opts.MapDepth,
		seqDepth:    opts.SeqDepth,
		objectDepth: opts.ObjectDepth,
		log:         opts.Logger,
	}
	if s.mapDepth <= 0 {
		s.mapDepth = DefaultMapDepth
	}
	if s.seqDepth <= 0 {
		s.seqDepth = DefaultSeqDepth
	}
	if s.objectDepth <= 0 {
		s.objectDepth = DefaultObjectDepth
	}
	if s.log == nil {
		s.log = logging.Default()
	}
	return s
}

// Seed returns the conventional starting map for obj: {"class": <type name>}
func Seed(obj Object) *value.Map {
	m := value.NewMap()
	m.Set(ClassKey, value.String(typeName(obj)))
	return m
}

// Serialize records every visible field of obj into seed, in field order,
// and returns it. A nil seed starts from an empty map. Serialize never
// panics on account of obj: unreadable members become null and members it
// cannot make sense of are stored as shallow copies.
func (s *Serializer) Serialize(obj Object, seed *value.Map) *value.Map {
	if seed == nil {
		seed = value.NewMap()
	}
	s.walk(obj, seed, 1)
	return seed
}

func (s *Serializer) walk(obj Object, out *value.Map, objDepth int) {
	fields, ok := s.fields(obj)
	if !ok {
		return
	}

	for _, f := range fields {
		if f.Name == "" {
			continue
		}
		s.member(obj, f, out, objDepth)
	}
}

func (s *Serializer) fields(obj Object) (fields []Field, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("fields could not be listed",
				slog.String("type", typeName(obj)),
				slog.Any("panic", r))
			fields, ok = nil, false
		}
	}()
	return obj.Fields(), true
}

func (s *Serializer) member(obj Object, f Field, out *value.Map, objDepth int) {
	if f.Get == nil {
		out.Set(f.Name, value.Null())
		return
	}

	raw, ok := s.read(obj, f)
	if !ok {
		out.Set(f.Name, value.Null())
		return
	}

	// A member whose shape trips up the walk is stored as a shallow copy
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("structure mismatch, storing shallow copy",
				slog.String("type", typeName(obj)),
				slog.String("member", f.Name),
				slog.Any("panic", r))
			out.Set(f.Name, s.shallow(raw))
		}
	}()

	limit := 1
	if _, isMap := mapEntries(raw); isMap {
		limit = s.mapDepth
	} else if _, isSeq := value.Elements(raw); isSeq {
		// the member itself and its elements, then the nested sequences
		limit = 2 + s.seqDepth
	}
	out.Set(f.Name, s.convert(raw, 1, limit, objDepth))
}

func (s *Serializer) read(obj Object, f Field) (raw any, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Warn("member could not be read",
				slog.String("type", typeName(obj)),
				slog.String("member", f.Name),
				slog.Any("panic", r))
			raw, ok = nil, false
		}
	}()
	return f.Get(), true
}

// convert turns raw into a Value. Objects found at a level within limit
// are serialized in place; beyond it they are replaced by a stand-in.
func (s *Serializer) convert(raw any, level, limit, objDepth int) value.Value {
	if obj, ok := raw.(Object); ok {
		if level > limit || objDepth >= s.objectDepth {
			return standIn(obj)
		}
		nested := Seed(obj)
		s.walk(obj, nested, objDepth+1)
		return value.FromMap(nested)
	}

	if v, ok := value.Scalar(raw); ok {
		return v
	}

	if entries, ok := mapEntries(raw); ok {
		m := value.NewMap()
		for _, e := range entries {
			m.Set(e.Key, s.convert(e.Value, level+1, limit, objDepth))
		}
		return value.FromMap(m)
	}

	if elems, ok := value.Elements(raw); ok {
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			out[i] = s.convert(e, level+1, limit, objDepth)
		}
		return value.Seq(out...)
	}

	s.log.Warn("unsupported member type, storing its string form",
		slog.String("go_type", fmt.Sprintf("%T", raw)))
	return value.String(fmt.Sprintf("%v", raw))
}

// shallow copies raw without descending into any object
func (s *Serializer) shallow(raw any) (v value.Value) {
	defer func() {
		if r := recover(); r != nil {
			v = value.String(fmt.Sprintf("%v", raw))
		}
	}()
	return s.convert(raw, 1, 0, s.objectDepth)
}

// mapEntries returns the entries of a map-shaped value
func mapEntries(raw any) ([]KV, bool) {
	switch t := raw.(type) {
	case Dict:
		return t, true
	case *value.Map:
		return valuePairs(t), true
	case value.Value:
		if t.IsMap() {
			return valuePairs(t.MapValue()), true
		}
	}
	if m, ok := value.StringMap(raw); ok {
		return sortedPairs(m), true
	}
	return nil, false
}

func valuePairs(m *value.Map) []KV {
	out := make([]KV, 0, m.Len())
	for _, e := range m.Entries() {
		out = append(out, KV{Key: e.Key, Value: e.Value})
	}
	return out
}

func sortedPairs(m map[string]any) []KV {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]KV, len(keys))
	for i, k := range keys {
		out[i] = KV{Key: k, Value: m[k]}
	}
	return out
}

// standIn is the inert text recorded for an object past a depth cap
func standIn(obj Object) (v value.Value) {
	defer func() {
		if r := recover(); r != nil {
			v = value.String(fmt.Sprintf("#<%T>", obj))
		}
	}()
	if str, ok := obj.(fmt.Stringer); ok {
		return value.String(str.String())
	}
	return value.String("#<" + obj.TypeName() + ">")
}

func typeName(obj Object) (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = fmt.Sprintf("%T", obj)
		}
	}()
	return obj.TypeName()
}
