// Package writer saves JSON text to files named after what they hold.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/tidyjson/internal/errors"
)

// Extension is appended to every file name
const Extension = ".json"

// Writer writes files into Dir. Now supplies the timestamp used in default
// names; nil means time.Now.
type Writer struct {
	Dir string
	Now func() time.Time
}

// New creates a Writer for dir
func New(dir string) *Writer {
	return &Writer{Dir: dir}
}

// DefaultName returns the default base name for a value of the named type,
// e.g. "user_profile_1700000000"
func (w *Writer) DefaultName(typeName string) string {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	name := strcase.ToSnake(typeName)
	if name == "" {
		name = "output"
	}
	return fmt.Sprintf("%s_%d", name, now().Unix())
}

// Write saves text to <Dir>/<base>.json, replacing any existing file, and
// returns the path written
func (w *Writer) Write(base, text string) (string, error) {
	if strings.TrimSpace(base) == "" {
		return "", errors.NewOutputError("output name is empty", errors.ErrInvalidFilePath)
	}

	path := base + Extension
	if w.Dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(w.Dir, path)
	}

	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return "", errors.NewOutputError(fmt.Sprintf("failed to write output file '%s'", path), err)
	}
	return path, nil
}
