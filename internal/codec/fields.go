package codec

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

var unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

// DecodeFields decodes a JSON object into the struct v points to, one member at a time,
// so a failure is reported with the key (and array index) it happened at.
//
// Members are matched to fields by their json tag; untagged embedded structs are read
// from the same object. A field is optional when it is a pointer, when its json tag has
// omitempty, or when it is tagged `codec:"optional"`; every other field is required and
// fails with ErrMissingField when absent or null. Keys without a field are ignored.
func DecodeFields(data []byte, v any) error {
	obj, err := ReadObject(data)
	if err != nil {
		return err
	}
	return obj.Fields(v)
}

// Fields is DecodeFields for an object that has already been read.
func (o Object) Fields(v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("codec: Fields needs a non-nil struct pointer, got %T", v)
	}
	return o.decodeStruct(rv.Elem())
}

func (o Object) decodeStruct(sv reflect.Value) error {
	st := sv.Type()
	for i := 0; i < st.NumField(); i++ {
		f := st.Field(i)
		if !f.IsExported() {
			continue
		}
		key, optional := fieldKey(f)
		if key == "-" {
			continue
		}
		if f.Anonymous && key == "" && f.Type.Kind() == reflect.Struct {
			if err := o.decodeStruct(sv.Field(i)); err != nil {
				return err
			}
			continue
		}
		if key == "" {
			key = f.Name
		}

		raw, ok := o[key]
		if !ok || IsNull(raw) {
			if optional || f.Type.Kind() == reflect.Pointer {
				continue
			}
			return MissingField(key)
		}
		if err := decodeValue(raw, sv.Field(i).Addr()); err != nil {
			return WithField(err, key)
		}
	}
	return nil
}

func fieldKey(f reflect.StructField) (key string, optional bool) {
	tag := f.Tag.Get("json")
	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			optional = true
		}
	}
	if f.Tag.Get("codec") == "optional" {
		optional = true
	}
	return name, optional
}

// decodeValue unmarshals raw into ptr. Slices without their own unmarshaler are read
// element by element so the failing index ends up in the path.
func decodeValue(raw json.RawMessage, ptr reflect.Value) error {
	t := ptr.Elem().Type()
	if t.Kind() != reflect.Slice || t.Elem().Kind() == reflect.Uint8 || ptr.Type().Implements(unmarshalerType) {
		return json.Unmarshal(raw, ptr.Interface())
	}
	if Kind(raw) != '[' {
		return Errorf(ErrMalformedJSON, "expected array, got %s", Describe(raw))
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return Errorf(ErrMalformedJSON, "%v", err)
	}
	out := reflect.MakeSlice(t, len(items), len(items))
	for i, item := range items {
		if err := decodeValue(item, out.Index(i).Addr()); err != nil {
			return WithIndex(err, i)
		}
	}
	ptr.Elem().Set(out)
	return nil
}
