// Package tidyjson dumps object graphs and JSON-shaped data as tidy,
// deterministically indented JSON.
//
// Types opt in by implementing Object:
//
//	func (u *User) TypeName() string { return "User" }
//	func (u *User) Fields() []tidyjson.Field {
//		return []tidyjson.Field{
//			tidyjson.Attr("name", u.Name),
//			tidyjson.Attr("roles", tidyjson.List(u.Roles)),
//		}
//	}
//
//	fmt.Print(tidyjson.Tidy(user, tidyjson.Options{Indent: 4}))
package tidyjson

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/mcncl/tidyjson/internal/codec"
	"github.com/mcncl/tidyjson/internal/errors"
	"github.com/mcncl/tidyjson/internal/formatter"
	"github.com/mcncl/tidyjson/internal/logging"
	"github.com/mcncl/tidyjson/internal/serializer"
	"github.com/mcncl/tidyjson/internal/value"
)

type (
	// Object is implemented by types that describe their own fields
	Object = serializer.Object
	// Field is one visible member of an Object
	Field = serializer.Field
	// Value is a JSON-compatible value tree
	Value = value.Value
	// Map is an insertion-ordered map of Values
	Map = value.Map
	// Options are the formatting knobs
	Options = formatter.Options
	// SerializerOptions bound how deep objects are walked
	SerializerOptions = serializer.Options
	// Dict is an ordered map whose values may be objects
	Dict = serializer.Dict
	// KV is one entry of a Dict
	KV = serializer.KV
)

// NoNestingLimit disables the nesting check when used as Options.MaxNesting
const NoNestingLimit = formatter.NoNestingLimit

// Attr returns a readable field holding v
func Attr(name string, v any) Field { return serializer.Attr(name, v) }

// Hidden returns a field that exists but cannot be read
func Hidden(name string) Field { return serializer.Hidden(name) }

// List boxes a typed slice so it can be used as a field value
func List[T any](s []T) []any { return serializer.List(s) }

var (
	lineBreakRunRegex = regexp.MustCompile(`[\n\r]{2,}`)
	emptyArrayRegex   = regexp.MustCompile(`\[[ \t]*[\r\n]\s*\]`)
	emptyObjectRegex  = regexp.MustCompile(`\{[ \t]*[\r\n]\s*\}`)
)

// Tidier pretty-prints values with fixed options. The zero value uses the
// defaults throughout.
type Tidier struct {
	Format     Options
	Serializer SerializerOptions
	// Logger receives diagnostics; nil means the process-wide logger
	Logger *slog.Logger
}

func (t *Tidier) log() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return logging.Default()
}

func (t *Tidier) serializer() *serializer.Serializer {
	opts := t.Serializer
	if opts.Logger == nil {
		opts.Logger = t.log()
	}
	return serializer.New(opts)
}

// Tidy renders v as pretty-printed JSON followed by a newline. v may be an
// Object, a Value or *Map, or plain Go maps and slices. Scalars and objects
// without fields have nothing to tidy and are rejected.
func (t *Tidier) Tidy(v any) (string, error) {
	f := formatter.New(t.Format)
	format := f.Format()

	var (
		out string
		err error
	)
	if obj, ok := v.(Object); ok {
		out, err = t.tidyObject(f, obj)
	} else {
		out, err = t.tidyValue(format, v)
	}
	if err != nil {
		return "", err
	}

	out = lineBreakRunRegex.ReplaceAllString(out, "\n")
	out = emptyArrayRegex.ReplaceAllString(out, "[]")
	out = emptyObjectRegex.ReplaceAllString(out, "{}")
	return out + "\n", nil
}

func (t *Tidier) tidyObject(f *formatter.Formatter, obj Object) (string, error) {
	m := t.serializer().Serialize(obj, serializer.Seed(obj))
	if m.Len() <= 1 {
		return "", errors.NewSerializeError(
			fmt.Sprintf("%s exposes no fields", typeName(obj)),
			errors.ErrNothingToTidy,
		)
	}

	tree := value.FromMap(m)
	if f.Format().Sorted {
		tree = formatter.SortKeys(tree)
	}

	// The layout pass decides line breaks; generating from its parsed
	// result applies the raw JSON knobs on top
	gen := f.Format().GenerateOptions()

	// Values JSON cannot hold fail here; reading the rendered text back
	// would otherwise replace bad UTF-8 quietly
	if _, err := codec.Generate(tree, gen); err != nil {
		return "", err
	}

	rendered := formatter.Trim(f.Render(tree))
	parsed, err := codec.ParseString(rendered)
	if err != nil {
		// NaN and Infinity have no JSON literal to read back
		if !gen.AllowNaN {
			return "", errors.NewFormatError("rendered text is not valid JSON", err)
		}
		parsed = tree
	}
	return codec.Generate(parsed, gen)
}

func (t *Tidier) tidyValue(format formatter.Format, v any) (string, error) {
	tree, err := value.FromAny(v)
	if err != nil {
		return "", errors.NewSerializeError("cannot convert value", err)
	}
	if !tree.IsContainer() {
		return "", errors.NewSerializeError(
			fmt.Sprintf("cannot tidy a %s", tree.Kind()),
			errors.ErrNothingToTidy,
		)
	}

	if format.Sorted {
		tree = formatter.SortKeys(tree)
	}
	return codec.Generate(tree, format.GenerateOptions())
}

// TidyE renders v with opts and the default serializer depths
func TidyE(v any, opts Options) (string, error) {
	t := Tidier{Format: opts}
	return t.Tidy(v)
}

// Tidy is TidyE for call sites that only want the text. Failures are
// logged and yield "".
func Tidy(v any, opts Options) string {
	out, err := TidyE(v, opts)
	if err != nil {
		logging.Default().Warn("could not tidy value",
			slog.String("go_type", fmt.Sprintf("%T", v)),
			slog.Any("err", err))
		return ""
	}
	return out
}

// SortKeys returns v with keys in ascending order, two levels deep
func SortKeys(v Value) Value {
	return formatter.SortKeys(v)
}

// Serialize records the visible fields of obj into seed, which may be nil,
// using the default depth caps
func Serialize(obj Object, seed *Map) *Map {
	return serializer.New(serializer.Options{}).Serialize(obj, seed)
}

// Stringify returns the compact JSON form of obj's fields, starting with
// its class. It returns "{}" if the result cannot be generated.
func Stringify(obj Object) string {
	t := Tidier{}
	return t.Stringify(obj)
}

// Stringify is the package-level Stringify using t's serializer settings
func (t *Tidier) Stringify(obj Object) string {
	m := t.serializer().Serialize(obj, serializer.Seed(obj))
	out, err := codec.Compact(value.FromMap(m))
	if err != nil {
		t.log().Warn("could not stringify object",
			slog.String("type", typeName(obj)),
			slog.Any("err", err))
		return "{}"
	}
	return out
}

// ToValue converts v into a Value tree. Objects are serialized with their
// class; other values must be JSON-shaped Go data.
func ToValue(v any) (Value, error) {
	if obj, ok := v.(Object); ok {
		return value.FromMap(Serialize(obj, serializer.Seed(obj))), nil
	}
	tree, err := value.FromAny(v)
	if err != nil {
		return Value{}, errors.NewSerializeError("cannot convert value", err)
	}
	return tree, nil
}

// typeName is the name an object reports, falling back to its Go type
func typeName(obj Object) (name string) {
	defer func() {
		if r := recover(); r != nil {
			name = fmt.Sprintf("%T", obj)
		}
	}()
	return obj.TypeName()
}
