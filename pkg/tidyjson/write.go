package tidyjson

import (
	"log/slog"
	"time"

	"github.com/mcncl/tidyjson/internal/codec"
	"github.com/mcncl/tidyjson/internal/logging"
	"github.com/mcncl/tidyjson/internal/value"
	"github.com/mcncl/tidyjson/internal/writer"
)

// WriteOptions control WriteJSON
type WriteOptions struct {
	// Tidy pretty-prints the output with Format; otherwise it is compact
	Tidy   bool
	Format Options
	// Dir is where the file goes; empty means the working directory
	Dir string
	// Now overrides the clock used for default file names
	Now func() time.Time
}

// WriteJSON writes v to <out>.json and returns the path written. An empty
// out names the file after v's type and the current Unix time, e.g.
// user_1700000000.json. Failures are logged as well as returned.
func WriteJSON(v any, out string, opts WriteOptions) (string, error) {
	w := &writer.Writer{Dir: opts.Dir, Now: opts.Now}
	if out == "" {
		out = w.DefaultName(nameOf(v))
	}

	path, err := writeJSON(w, v, out, opts)
	if err != nil {
		logging.Default().Warn("could not write JSON",
			slog.String("out", out),
			slog.Any("err", err))
		return "", err
	}
	return path, nil
}

func writeJSON(w *writer.Writer, v any, out string, opts WriteOptions) (string, error) {
	var (
		text string
		err  error
	)
	switch {
	case opts.Tidy:
		text, err = TidyE(v, opts.Format)
	default:
		if obj, ok := v.(Object); ok {
			text = Stringify(obj)
			break
		}
		var tree Value
		if tree, err = ToValue(v); err == nil {
			text, err = codec.Compact(tree)
		}
	}
	if err != nil {
		return "", err
	}
	return w.Write(out, text)
}

// nameOf is the type name used in default file names
func nameOf(v any) string {
	if obj, ok := v.(Object); ok {
		return typeName(obj)
	}
	if tree, err := value.FromAny(v); err == nil {
		switch tree.Kind() {
		case value.KindMap:
			return "Map"
		case value.KindSeq:
			return "Seq"
		}
	}
	return "Value"
}
