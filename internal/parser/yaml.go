package parser

import (
	stderrors "errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/tidyjson/internal/errors"
	"github.com/mcncl/tidyjson/internal/value"
)

// maxAliasDepth stops alias chains that refer back to themselves
const maxAliasDepth = 64

// ParseYAML converts a single YAML document into a value tree. Mapping
// keys keep their document order and aliases are expanded.
func ParseYAML(reader io.Reader) (value.Value, error) {
	decoder := yaml.NewDecoder(reader)

	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return value.Value{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
		}
		return value.Value{}, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); err == nil {
		return value.Value{}, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleJSON)
	} else if !stderrors.Is(err, io.EOF) {
		return value.Value{}, errors.NewParsingError(err.Error(), errors.ErrInvalidYAML)
	}

	return fromNode(&doc, 0)
}

func fromNode(n *yaml.Node, aliases int) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return fromNode(n.Content[0], aliases)

	case yaml.AliasNode:
		if aliases >= maxAliasDepth || n.Alias == nil {
			return value.Value{}, errors.NewParsingError("alias nesting too deep", errors.ErrInvalidYAML)
		}
		return fromNode(n.Alias, aliases+1)

	case yaml.MappingNode:
		m := value.NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return value.Value{}, errors.NewParsingError(
					fmt.Sprintf("line %d: only scalar mapping keys are supported", key.Line),
					errors.ErrInvalidYAML,
				)
			}
			v, err := fromNode(val, aliases)
			if err != nil {
				return value.Value{}, err
			}
			m.Set(key.Value, v)
		}
		return value.FromMap(m), nil

	case yaml.SequenceNode:
		elems := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c, aliases)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, v)
		}
		return value.Seq(elems...), nil

	case yaml.ScalarNode:
		return fromScalar(n)
	}

	return value.Value{}, errors.NewParsingError(fmt.Sprintf("line %d: unsupported YAML node", n.Line), errors.ErrInvalidYAML)
}

func fromScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, scalarError(n, err)
		}
		return value.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err != nil {
			return value.Value{}, scalarError(n, err)
		}
		return value.Uint(u), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, scalarError(n, err)
		}
		return value.Float(f), nil
	default:
		// Strings, timestamps and binary data keep their literal text
		return value.String(n.Value), nil
	}
}

func scalarError(n *yaml.Node, err error) error {
	return errors.NewParsingError(
		fmt.Sprintf("line %d: cannot read %q: %v", n.Line, n.Value, err),
		errors.ErrInvalidYAML,
	)
}
