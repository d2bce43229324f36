package prefixid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MarshalText implements encoding.TextMarshaler.
func (id ID[K]) MarshalText() ([]byte, error) {
	if id.IsZero() {
		return nil, zeroErr[K]()
	}
	return []byte(id.raw), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID[K]) UnmarshalText(text []byte) error {
	parsed, err := Parse[K](string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalJSON encodes id as a JSON string. A zero ID fails with ErrZeroID;
// tag optional fields with omitzero or use NullID.
func (id ID[K]) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return nil, zeroErr[K]()
	}
	return json.Marshal(id.raw)
}

// UnmarshalJSON accepts only JSON strings. Numbers, booleans, objects,
// arrays and null fail with *TypeMismatchError.
func (id *ID[K]) UnmarshalJSON(data []byte) error {
	s, err := jsonString(kindName[K](), data)
	if err != nil {
		return err
	}
	return id.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler.
func (id ID[K]) MarshalYAML() (any, error) {
	if id.IsZero() {
		return nil, zeroErr[K]()
	}
	return id.raw, nil
}

// UnmarshalYAML accepts only !!str scalars. yaml.v3 does not call it for
// null nodes, which leave id zero.
func (id *ID[K]) UnmarshalYAML(value *yaml.Node) error {
	s, err := yamlString(kindName[K](), value)
	if err != nil {
		return err
	}
	return id.UnmarshalText([]byte(s))
}

// MarshalGQL writes id as a GraphQL string scalar (gqlgen convention),
// escaped the same way as MarshalJSON. gqlgen marshalers cannot return an
// error, so a zero ID panics with ErrZeroID; use NullID for optional fields.
func (id ID[K]) MarshalGQL(w io.Writer) {
	b, err := id.MarshalJSON()
	if err != nil {
		panic(err)
	}
	_, _ = w.Write(b)
}

// UnmarshalGQL accepts only string input values.
func (id *ID[K]) UnmarshalGQL(v any) error {
	s, ok := v.(string)
	if !ok {
		return gqlMismatch(kindName[K](), v)
	}
	return id.UnmarshalText([]byte(s))
}

// MarshalJSON encodes an invalid NullID as null.
func (n NullID[K]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return n.ID.MarshalJSON()
}

// UnmarshalJSON decodes null as an invalid NullID.
func (n *NullID[K]) UnmarshalJSON(data []byte) error {
	*n = NullID[K]{}
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}
	if err := n.ID.UnmarshalJSON(data); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalYAML encodes an invalid NullID as null.
func (n NullID[K]) MarshalYAML() (any, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.ID.MarshalYAML()
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *NullID[K]) UnmarshalYAML(value *yaml.Node) error {
	*n = NullID[K]{}
	if value.ShortTag() == "!!null" {
		return nil
	}
	if err := n.ID.UnmarshalYAML(value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// MarshalGQL writes an invalid NullID as null.
func (n NullID[K]) MarshalGQL(w io.Writer) {
	if !n.Valid {
		_, _ = io.WriteString(w, "null")
		return
	}
	n.ID.MarshalGQL(w)
}

// UnmarshalGQL decodes a nil input value as an invalid NullID.
func (n *NullID[K]) UnmarshalGQL(v any) error {
	*n = NullID[K]{}
	if v == nil {
		return nil
	}
	if err := n.ID.UnmarshalGQL(v); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func kindName[K Kind]() string {
	var k K
	return k.Name()
}

func zeroErr[K Kind]() error {
	return fmt.Errorf("encode `%s`: %w", kindName[K](), ErrZeroID)
}

func jsonString(name string, data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		got := "nothing"
		var cause error
		if len(data) > 0 {
			switch data[0] {
			case 'n':
				got = "null"
			case 't', 'f':
				got = "bool"
			case '{':
				got = "object"
			case '[':
				got = "array"
			default:
				got = "number"
				cause = ErrNumericID
			}
		}
		return "", &TypeMismatchError{TypeName: name, Got: got, Err: cause}
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", fmt.Errorf("decode `%s`: %w", name, err)
	}
	return s, nil
}

func yamlString(name string, node *yaml.Node) (string, error) {
	if node.Kind != yaml.ScalarNode {
		return "", &TypeMismatchError{TypeName: name, Got: "yaml node kind " + strconv.Itoa(int(node.Kind))}
	}
	switch tag := node.ShortTag(); tag {
	case "!!str":
		return node.Value, nil
	case "!!int", "!!float":
		return "", &TypeMismatchError{TypeName: name, Got: tag, Err: ErrNumericID}
	default:
		return "", &TypeMismatchError{TypeName: name, Got: tag}
	}
}

func gqlMismatch(name string, v any) error {
	switch v.(type) {
	case nil:
		return &TypeMismatchError{TypeName: name, Got: "null"}
	case int, int32, int64, uint, uint32, uint64, float32, float64, json.Number:
		return &TypeMismatchError{TypeName: name, Got: fmt.Sprintf("%T", v), Err: ErrNumericID}
	default:
		return &TypeMismatchError{TypeName: name, Got: fmt.Sprintf("%T", v)}
	}
}
