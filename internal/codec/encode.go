package codec

import (
	"bytes"
	"encoding/json"
)

// Field is one member of an object being encoded. Members are written in the order
// given, which keeps the output stable and readable.
type Field struct {
	Key   string
	Value any
	Omit  bool
}

// F is a member that is always written.
func F(key string, v any) Field {
	return Field{Key: key, Value: v}
}

// Opt is a member that is left out when v is nil.
func Opt[T any](key string, v *T) Field {
	return Field{Key: key, Value: v, Omit: v == nil}
}

// Null is a member written as null when v is nil.
func Null[T any](key string, v *T) Field {
	return Field{Key: key, Value: v}
}

// EncodeObject writes fields as a JSON object.
func EncodeObject(fields ...Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range fields {
		if f.Omit {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
