package codec

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Object is a JSON object split into raw members, used by decoders that need to look at
// which keys are present before committing to a shape.
type Object map[string]json.RawMessage

// ReadObject parses data as a JSON object. Anything else is reported as ErrMalformedJSON.
func ReadObject(data []byte) (Object, error) {
	if Kind(data) != '{' {
		return nil, Errorf(ErrMalformedJSON, "expected object, got %s", Describe(data))
	}
	var obj Object
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, Errorf(ErrMalformedJSON, "%v", err)
	}
	return obj, nil
}

// Has reports whether key is present, including when its value is null.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Keys returns the member names in sorted order, so that error reports are stable.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Allow fails with ErrUnknownField on the first (sorted) key not in legal.
func (o Object) Allow(legal ...KeySet) error {
	for _, k := range o.Keys() {
		known := false
		for _, set := range legal {
			if set.Contains(k) {
				known = true
				break
			}
		}
		if !known {
			return UnknownField(k)
		}
	}
	return nil
}

// Optional decodes key into v when it is present and not null. It reports whether a
// value was decoded.
func (o Object) Optional(key string, v any) (bool, error) {
	raw, ok := o[key]
	if !ok || IsNull(raw) {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, WithField(err, key)
	}
	return true, nil
}

// Required decodes key into v, failing with ErrMissingField when it is absent or null.
func (o Object) Required(key string, v any) error {
	raw, ok := o[key]
	if !ok || IsNull(raw) {
		return MissingField(key)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return WithField(err, key)
	}
	return nil
}

// KeySet is an immutable set of legal object keys.
type KeySet map[string]struct{}

// Keys builds a KeySet.
func Keys(names ...string) KeySet {
	s := make(KeySet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s KeySet) Contains(k string) bool {
	_, ok := s[k]
	return ok
}

// SubsetOf reports whether every key of s is also in other.
func (s KeySet) SubsetOf(other KeySet) bool {
	for k := range s {
		if !other.Contains(k) {
			return false
		}
	}
	return true
}

// Kind returns the first significant byte of a JSON value: '{', '[', '"', 't', 'f', 'n',
// a digit or '-'. It returns 0 for empty input.
func Kind(data []byte) byte {
	data = bytes.TrimLeft(data, " \t\r\n")
	if len(data) == 0 {
		return 0
	}
	return data[0]
}

// IsNull reports whether data is the JSON literal null.
func IsNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// Describe names the JSON kind of data for error details.
func Describe(data []byte) string {
	switch Kind(data) {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	case 0:
		return "empty input"
	default:
		return "number"
	}
}

// DecodeStrict is DecodeFields after checking the object's keys against legal.
func DecodeStrict(data []byte, v any, legal ...KeySet) error {
	obj, err := ReadObject(data)
	if err != nil {
		return err
	}
	if err := obj.Allow(legal...); err != nil {
		return err
	}
	return obj.Fields(v)
}
