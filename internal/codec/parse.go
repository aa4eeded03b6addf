package codec

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"

	"github.com/mcncl/tidyjson/internal/errors"
	"github.com/mcncl/tidyjson/internal/value"
)

// Parse reads exactly one JSON value from r. Object members keep the order
// they appear in; a repeated key keeps its first position and its last value.
func Parse(r io.Reader) (value.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return value.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return value.Value{}, syntaxError(err)
	}

	root, err := decodeValue(dec, tok)
	if err != nil {
		return value.Value{}, err
	}

	// Only whitespace may follow the root value
	if _, err := dec.Token(); err == nil {
		return value.Value{}, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return value.Value{}, errors.NewParsingError("invalid trailing data after first JSON value", errors.ErrInvalidJSON)
	}

	return root, nil
}

// ParseString parses a single JSON value held in s
func ParseString(s string) (value.Value, error) {
	return Parse(strings.NewReader(s))
}

func decodeValue(dec *json.Decoder, tok json.Token) (value.Value, error) {
	switch t := tok.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case json.Number:
		return value.Number(t.String()), nil
	case string:
		return value.String(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
	}
	return value.Value{}, errors.NewParsingError(fmt.Sprintf("unexpected token %v", tok), errors.ErrInvalidJSON)
}

func decodeObject(dec *json.Decoder) (value.Value, error) {
	m := value.NewMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return value.Value{}, syntaxError(err)
		}
		key, ok := tok.(string)
		if !ok {
			return value.Value{}, errors.NewParsingError(fmt.Sprintf("object key must be a string, got %v", tok), errors.ErrInvalidJSON)
		}

		v, err := next(dec)
		if err != nil {
			return value.Value{}, err
		}
		m.Set(key, v)
	}
	if err := closing(dec); err != nil {
		return value.Value{}, err
	}
	return value.FromMap(m), nil
}

func decodeArray(dec *json.Decoder) (value.Value, error) {
	elems := []value.Value{}
	for dec.More() {
		v, err := next(dec)
		if err != nil {
			return value.Value{}, err
		}
		elems = append(elems, v)
	}
	if err := closing(dec); err != nil {
		return value.Value{}, err
	}
	return value.Seq(elems...), nil
}

func next(dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, syntaxError(err)
	}
	return decodeValue(dec, tok)
}

// closing consumes the delimiter that ends the current container
func closing(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		return syntaxError(err)
	}
	return nil
}

func syntaxError(err error) error {
	var se *json.SyntaxError
	if stderrors.As(err, &se) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d", se.Offset),
			errors.ErrInvalidJSON,
		)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidJSON)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}
