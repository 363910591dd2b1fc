package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// SourceKey is the metadata key holding the originating document identifier.
const SourceKey = "source"

// ValueKind tags the variant held by a MetadataValue.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// MetadataValue is a scalar metadata value: string, number, boolean or null.
type MetadataValue struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

func StringValue(s string) MetadataValue  { return MetadataValue{kind: KindString, str: s} }
func NumberValue(n float64) MetadataValue { return MetadataValue{kind: KindNumber, num: n} }
func BoolValue(b bool) MetadataValue      { return MetadataValue{kind: KindBool, b: b} }
func NullValue() MetadataValue            { return MetadataValue{kind: KindNull} }

// ValueOf converts an arbitrary Go value into a MetadataValue.
// Anything that is not a scalar is stringified.
func ValueOf(v any) MetadataValue {
	switch t := v.(type) {
	case nil:
		return NullValue()
	case MetadataValue:
		return t
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case int:
		return NumberValue(float64(t))
	case int32:
		return NumberValue(float64(t))
	case int64:
		return NumberValue(float64(t))
	case uint:
		return NumberValue(float64(t))
	case uint32:
		return NumberValue(float64(t))
	case uint64:
		return NumberValue(float64(t))
	case float32:
		return NumberValue(float64(t))
	case float64:
		return NumberValue(t)
	case json.Number:
		if n, err := t.Float64(); err == nil {
			return NumberValue(n)
		}
		return StringValue(t.String())
	case fmt.Stringer:
		return StringValue(t.String())
	}
	if raw, err := json.Marshal(v); err == nil {
		return StringValue(string(raw))
	}
	return StringValue(fmt.Sprint(v))
}

func (v MetadataValue) Kind() ValueKind { return v.kind }
func (v MetadataValue) IsNull() bool    { return v.kind == KindNull }

// String renders the value as text; null renders as the empty string.
func (v MetadataValue) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	}
	return ""
}

// Interface returns the value as a plain Go scalar.
func (v MetadataValue) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	}
	return nil
}

func (v MetadataValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *MetadataValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

// Metadata is the per-record metadata map.
type Metadata map[string]MetadataValue

// NewMetadata builds Metadata from loosely typed values.
func NewMetadata(values map[string]any) Metadata {
	m := make(Metadata, len(values))
	for k, v := range values {
		m[k] = ValueOf(v)
	}
	return m
}

// SourceMetadata returns metadata tagged with the given document identifier.
func SourceMetadata(documentID string) Metadata {
	return Metadata{SourceKey: StringValue(documentID)}
}

// Source returns the source attribution, if present and non-null.
func (m Metadata) Source() (string, bool) {
	v, ok := m[SourceKey]
	if !ok || v.IsNull() {
		return "", false
	}
	return v.String(), true
}
