package formatter

import (
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	"github.com/mcncl/tidyjson/internal/codec"
	"github.com/mcncl/tidyjson/internal/logging"
)

// Defaults applied when an option is missing or out of range
const (
	DefaultIndent      = 2
	DefaultSpaceBefore = 0
	DefaultSpace       = 1
	DefaultMaxNesting  = 100
	DefaultNewline     = "\n"
)

// NoNestingLimit disables the max nesting check when set as
// Options.MaxNesting
const NoNestingLimit = -1

// Options are the user-facing formatting knobs. Invalid values are not an
// error: each one silently falls back to its default when resolved.
type Options struct {
	// Indent is the number of spaces per level: an even number from 2 to 12
	Indent int
	// SpaceBefore is the number of spaces before each ':', from 2 to 8
	SpaceBefore int
	// Space is the number of spaces after each ':', from 2 to 8
	Space int
	// ObjectNL and ArrayNL end each object member and array element.
	// Empty means "\n".
	ObjectNL string
	ArrayNL  string
	// MaxNesting bounds the depth of generated JSON. Zero means the
	// default; NoNestingLimit turns the check off.
	MaxNesting  int
	EscapeSlash bool
	ASCIIOnly   bool
	AllowNaN    bool
	// Sort orders keys before formatting, see SortKeys
	Sort bool
}

// Format is a resolved, immutable set of Options
type Format struct {
	Indent      string
	SpaceBefore string
	Space       string
	ObjectNL    string
	ArrayNL     string
	MaxNesting  int // 0 means unlimited
	EscapeSlash bool
	ASCIIOnly   bool
	AllowNaN    bool
	Sorted      bool
}

// Resolve validates o and fills in defaults
func (o Options) Resolve() Format {
	log := logging.Default()

	indent := o.Indent
	if indent < 2 || indent > 12 || indent%2 != 0 {
		if indent != 0 {
			log.Debug("indent out of range, using default", slog.Int("indent", indent))
		}
		indent = DefaultIndent
	}

	spaceBefore := o.SpaceBefore
	if spaceBefore < 2 || spaceBefore > 8 {
		spaceBefore = DefaultSpaceBefore
	}

	space := o.Space
	if space < 2 || space > 8 {
		space = DefaultSpace
	}

	maxNesting := o.MaxNesting
	switch {
	case maxNesting == NoNestingLimit:
		maxNesting = 0
	case maxNesting <= 0:
		maxNesting = DefaultMaxNesting
	}

	return Format{
		Indent:      strings.Repeat(" ", indent),
		SpaceBefore: strings.Repeat(" ", spaceBefore),
		Space:       strings.Repeat(" ", space),
		ObjectNL:    orDefault(o.ObjectNL, DefaultNewline),
		ArrayNL:     orDefault(o.ArrayNL, DefaultNewline),
		MaxNesting:  maxNesting,
		EscapeSlash: o.EscapeSlash,
		ASCIIOnly:   o.ASCIIOnly,
		AllowNaN:    o.AllowNaN,
		Sorted:      o.Sort,
	}
}

// GenerateOptions maps the format onto the raw JSON generator
func (f Format) GenerateOptions() codec.GenerateOptions {
	return codec.GenerateOptions{
		Indent:      f.Indent,
		SpaceBefore: f.SpaceBefore,
		Space:       f.Space,
		ObjectNL:    f.ObjectNL,
		ArrayNL:     f.ArrayNL,
		MaxNesting:  f.MaxNesting,
		EscapeSlash: f.EscapeSlash,
		ASCIIOnly:   f.ASCIIOnly,
		AllowNaN:    f.AllowNaN,
	}
}

// OptionsFromMap reads loosely typed options, as found in a config file,
// keyed by their snake_case names (indent, space_before, space, object_nl,
// array_nl, max_nesting, escape_slash, ascii_only, allow_nan, sort).
// Values of the wrong type are ignored, so "8" for indent means the
// default. A max_nesting of 0 disables the nesting check.
func OptionsFromMap(m map[string]any) Options {
	var o Options
	if n, ok := intOption(m["indent"]); ok {
		o.Indent = n
	}
	if n, ok := intOption(m["space_before"]); ok {
		o.SpaceBefore = n
	}
	if n, ok := intOption(m["space"]); ok {
		o.Space = n
	}
	if s, ok := m["object_nl"].(string); ok {
		o.ObjectNL = s
	}
	if s, ok := m["array_nl"].(string); ok {
		o.ArrayNL = s
	}
	if n, ok := intOption(m["max_nesting"]); ok {
		switch {
		case n == 0:
			o.MaxNesting = NoNestingLimit
		case n > 0:
			o.MaxNesting = n
		}
	}
	o.EscapeSlash = boolOption(m["escape_slash"])
	o.ASCIIOnly = boolOption(m["ascii_only"])
	o.AllowNaN = boolOption(m["allow_nan"])
	o.Sort = boolOption(m["sort"])
	return o
}

func intOption(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	}
	return 0, false
}

func boolOption(v any) bool {
	b, ok := v.(bool)
	return ok && b
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
