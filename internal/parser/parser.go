package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mcncl/tidyjson/internal/codec"
	"github.com/mcncl/tidyjson/internal/errors" // Custom errors package
	"github.com/mcncl/tidyjson/internal/value"
)

// Syntax selects the input language
type Syntax int

const (
	// SyntaxAuto picks YAML for .yml/.yaml files and JSON otherwise
	SyntaxAuto Syntax = iota
	SyntaxJSON
	SyntaxYAML
)

// Parse converts JSON data from an io.Reader into a value tree. Object
// members keep their document order.
func Parse(reader io.Reader) (value.Value, error) {
	return codec.Parse(reader)
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (value.Value, error) {
	// An empty reader and a whitespace-only one fail differently, so catch
	// both here with one message
	if strings.TrimSpace(jsonString) == "" {
		return value.Value{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ParseReader parses r using the given syntax. SyntaxAuto means JSON.
func ParseReader(r io.Reader, syntax Syntax) (value.Value, error) {
	if syntax == SyntaxYAML {
		return ParseYAML(r)
	}
	return Parse(r)
}

// ParseFile parses JSON or YAML from a file path
func ParseFile(filePath string, syntax Syntax) (value.Value, error) {
	if strings.TrimSpace(filePath) == "" {
		return value.Value{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return value.Value{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return value.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return value.Value{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return value.Value{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	if syntax == SyntaxAuto {
		syntax = DetectSyntax(filePath)
	}
	return ParseReader(file, syntax)
}

// DetectSyntax guesses the syntax of a file from its extension
func DetectSyntax(filePath string) Syntax {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yml", ".yaml":
		return SyntaxYAML
	default:
		return SyntaxJSON
	}
}
