package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FieldKind represents the input kind a field belongs to
type FieldKind string

const (
	FieldKindText  FieldKind = "text"
	FieldKindTable FieldKind = "table"
)

// Valid reports whether the kind is one of the known field kinds
func (k FieldKind) Valid() bool {
	return k == FieldKindText || k == FieldKindTable
}

// FieldKey identifies a stored field value. Keys are namespaced by kind so that
// a text field and a table field sharing a human name never collide.
type FieldKey struct {
	Kind FieldKind
	Name string
}

// TextKey returns the key of a text field
func TextKey(name string) FieldKey {
	return FieldKey{Kind: FieldKindText, Name: name}
}

// TableKey returns the key of a table field
func TableKey(name string) FieldKey {
	return FieldKey{Kind: FieldKindTable, Name: name}
}

// String returns the "<kind>:<name>" form of the key
func (k FieldKey) String() string {
	return string(k.Kind) + ":" + k.Name
}

// ParseFieldKey parses the "<kind>:<name>" form of a key
func ParseFieldKey(s string) (FieldKey, error) {
	kind, name, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return FieldKey{}, fmt.Errorf("invalid field key %q", s)
	}
	key := FieldKey{Kind: FieldKind(kind), Name: name}
	if !key.Kind.Valid() {
		return FieldKey{}, fmt.Errorf("unknown field kind in key %q", s)
	}
	return key, nil
}

// MarshalText implements encoding.TextMarshaler so keys can be JSON object keys
func (k FieldKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *FieldKey) UnmarshalText(text []byte) error {
	parsed, err := ParseFieldKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type valueKind int

const (
	valueMissing valueKind = iota
	valueText
	valueTable
)

// FieldValue is a tagged union of Text, Table and Missing.
// The zero value is Missing.
type FieldValue struct {
	kind valueKind
	text string
	rows [][]string
}

// TextValue returns a text value
func TextValue(s string) FieldValue {
	return FieldValue{kind: valueText, text: s}
}

// TableValue returns a table value
func TableValue(rows [][]string) FieldValue {
	if rows == nil {
		rows = [][]string{}
	}
	return FieldValue{kind: valueTable, rows: rows}
}

// MissingValue returns the missing value
func MissingValue() FieldValue {
	return FieldValue{}
}

// IsMissing reports whether the value is Missing
func (v FieldValue) IsMissing() bool {
	return v.kind == valueMissing
}

// Text returns the text and true for a Text value
func (v FieldValue) Text() (string, bool) {
	return v.text, v.kind == valueText
}

// Rows returns the rows and true for a Table value
func (v FieldValue) Rows() ([][]string, bool) {
	return v.rows, v.kind == valueTable
}

// Matches reports whether the value's variant is the one stored under the given field kind
func (v FieldValue) Matches(kind FieldKind) bool {
	switch kind {
	case FieldKindText:
		return v.kind == valueText
	case FieldKindTable:
		return v.kind == valueTable
	}
	return false
}

// Blank reports whether the value carries no user content
func (v FieldValue) Blank() bool {
	switch v.kind {
	case valueText:
		return strings.TrimSpace(v.text) == ""
	case valueTable:
		for _, row := range v.rows {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					return false
				}
			}
		}
		return true
	}
	return true
}

// MarshalJSON encodes Text as a string, Table as an array of string arrays and Missing as null
func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueText:
		return json.Marshal(v.text)
	case valueTable:
		return json.Marshal(v.rows)
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes the encoding produced by MarshalJSON and rejects any other shape
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty field value")
	}

	switch trimmed[0] {
	case 'n':
		if !bytes.Equal(trimmed, []byte("null")) {
			return fmt.Errorf("invalid field value %s", trimmed)
		}
		*v = MissingValue()
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("invalid text value: %w", err)
		}
		*v = TextValue(s)
		return nil
	case '[':
		var rows [][]string
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return fmt.Errorf("invalid table value: %w", err)
		}
		*v = TableValue(rows)
		return nil
	}

	return fmt.Errorf("unsupported field value %s", trimmed)
}

// FieldValues maps namespaced field keys to values
type FieldValues map[FieldKey]FieldValue

// Get returns the value for key, or Missing
func (fv FieldValues) Get(key FieldKey) FieldValue {
	if fv == nil {
		return MissingValue()
	}
	return fv[key]
}

// Merge returns a copy of fv with every non-missing entry of patch written over it
func (fv FieldValues) Merge(patch FieldValues) FieldValues {
	merged := make(FieldValues, len(fv)+len(patch))
	for k, v := range fv {
		merged[k] = v
	}
	for k, v := range patch {
		if v.IsMissing() {
			continue
		}
		merged[k] = v
	}
	return merged
}

// Without returns a copy of fv with the given keys removed
func (fv FieldValues) Without(keys []FieldKey) FieldValues {
	out := make(FieldValues, len(fv))
	for k, v := range fv {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Validate checks that every value's variant agrees with its key's kind
func (fv FieldValues) Validate() error {
	for k, v := range fv {
		if v.IsMissing() {
			continue
		}
		if !v.Matches(k.Kind) {
			return fmt.Errorf("field %s holds a value of the wrong kind", k)
		}
	}
	return nil
}
