package codec

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorPaths(t *testing.T) {
	err := MissingField("address")
	err = WithIndex(err, 0)
	err = WithField(err, "accessList")

	require.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, "accessList[0].address", PathOf(err))
	assert.Equal(t, "accessList[0].address: missing field", err.Error())

	nested := WithField(WithIndex(Errorf(ErrMalformedHex, "bad"), 2), "transactions")
	assert.Equal(t, "transactions[2]", PathOf(nested))

	deep := WithField(WithField(UnknownField("foo"), "inner"), "outer")
	assert.Equal(t, "outer.inner.foo", PathOf(deep))
	assert.ErrorIs(t, deep, ErrUnknownField)
}

func TestWithFieldConvertsForeignErrors(t *testing.T) {
	err := WithField(errors.New("boom"), "value")
	assert.ErrorIs(t, err, ErrMalformedJSON)
	assert.Equal(t, "value", PathOf(err))
	assert.Nil(t, WithField(nil, "value"))
}

func TestReadObject(t *testing.T) {
	obj, err := ReadObject([]byte(` {"a": 1, "b": null}`))
	require.NoError(t, err)
	assert.True(t, obj.Has("a"))
	assert.True(t, obj.Has("b"), "null members are present")
	assert.False(t, obj.Has("c"))
	assert.Equal(t, []string{"a", "b"}, obj.Keys())

	for _, in := range []string{`[]`, `"x"`, `1`, `true`, `null`, ``} {
		_, err := ReadObject([]byte(in))
		assert.ErrorIs(t, err, ErrMalformedJSON, in)
	}
}

func TestObjectAllow(t *testing.T) {
	obj, err := ReadObject([]byte(`{"to": "x", "zzz": 1, "aaa": 2}`))
	require.NoError(t, err)

	err = obj.Allow(Keys("to"))
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, "aaa", PathOf(err), "first unknown key in sorted order")

	assert.NoError(t, obj.Allow(Keys("to"), Keys("aaa", "zzz")))
}

func TestObjectRequiredOptional(t *testing.T) {
	obj, err := ReadObject([]byte(`{"n": 3, "nil": null, "bad": "x"}`))
	require.NoError(t, err)

	var n int
	require.NoError(t, obj.Required("n", &n))
	assert.Equal(t, 3, n)

	err = obj.Required("nil", &n)
	assert.ErrorIs(t, err, ErrMissingField)
	assert.Equal(t, "nil", PathOf(err))

	err = obj.Required("absent", &n)
	assert.ErrorIs(t, err, ErrMissingField)

	ok, err := obj.Optional("absent", &n)
	assert.NoError(t, err)
	assert.False(t, ok)

	ok, err = obj.Optional("nil", &n)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, err = obj.Optional("bad", &n)
	assert.ErrorIs(t, err, ErrMalformedJSON)
	assert.Equal(t, "bad", PathOf(err))
}

func TestKindAndDescribe(t *testing.T) {
	tests := []struct {
		in   string
		kind byte
		desc string
	}{
		{` {}`, '{', "object"},
		{"\n[1]", '[', "array"},
		{`"s"`, '"', "string"},
		{`false`, 'f', "boolean"},
		{`null`, 'n', "null"},
		{`-1`, '-', "number"},
		{`  `, 0, "empty input"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.kind, Kind([]byte(tt.in)), tt.in)
		assert.Equal(t, tt.desc, Describe([]byte(tt.in)), tt.in)
	}
	assert.True(t, IsNull([]byte(" null ")))
	assert.False(t, IsNull([]byte(`"null"`)))
}

func TestDecodeStrict(t *testing.T) {
	type plain struct {
		A int    `json:"a"`
		B string `json:"b"`
	}
	legal := Keys("a", "b")

	var p plain
	require.NoError(t, DecodeStrict([]byte(`{"a": 1, "b": "x"}`), &p, legal))
	assert.Equal(t, plain{A: 1, B: "x"}, p)

	err := DecodeStrict([]byte(`{"a": 1, "c": 2}`), &p, legal)
	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, "c", PathOf(err))

	err = DecodeStrict([]byte(`{"a": "one"}`), &p, legal)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

type hexWord string

func (w *hexWord) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil || !strings.HasPrefix(s, "0x") {
		return Errorf(ErrMalformedHex, "bad word %s", data)
	}
	*w = hexWord(s)
	return nil
}

type inner struct {
	Root hexWord `json:"root"`
}

type outer struct {
	inner
	Words  []hexWord   `json:"words"`
	Nested [][]hexWord `json:"nested,omitempty"`
	Parent *hexWord    `json:"parent"`
	Note   string      `json:"note" codec:"optional"`
}

func TestDecodeFields(t *testing.T) {
	var o outer
	require.NoError(t, DecodeFields([]byte(`{"root":"0x1","words":["0xa","0xb"],"parent":null,"extra":true}`), &o))
	assert.Equal(t, hexWord("0x1"), o.Root)
	assert.Equal(t, []hexWord{"0xa", "0xb"}, o.Words)
	assert.Nil(t, o.Parent)
	assert.Empty(t, o.Note)

	tests := []struct {
		name string
		in   string
		kind error
		path string
	}{
		{name: "missing", in: `{"root":"0x1"}`, kind: ErrMissingField, path: "words"},
		{name: "null_required", in: `{"root":null,"words":[]}`, kind: ErrMissingField, path: "root"},
		{name: "embedded_field", in: `{"root":"1","words":[]}`, kind: ErrMalformedHex, path: "root"},
		{name: "element", in: `{"root":"0x1","words":["0xa","b"]}`, kind: ErrMalformedHex, path: "words[1]"},
		{name: "nested_element", in: `{"root":"0x1","words":[],"nested":[[],["0x1","x"]]}`, kind: ErrMalformedHex, path: "nested[1][1]"},
		{name: "not_array", in: `{"root":"0x1","words":"0xa"}`, kind: ErrMalformedJSON, path: "words"},
		{name: "pointer", in: `{"root":"0x1","words":[],"parent":"p"}`, kind: ErrMalformedHex, path: "parent"},
		{name: "type_mismatch", in: `{"root":"0x1","words":[],"note":1}`, kind: ErrMalformedJSON, path: "note"},
		{name: "not_object", in: `[]`, kind: ErrMalformedJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var o outer
			err := DecodeFields([]byte(tt.in), &o)
			require.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.path, PathOf(err))
		})
	}

	assert.Error(t, DecodeFields([]byte(`{}`), o), "needs a pointer")
}

func TestOneOrMany(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want OneOrMany[string]
		out  string
	}{
		{name: "bare", in: `"a"`, want: OneOrMany[string]{"a"}, out: `"a"`},
		{name: "single_element_array", in: `["a"]`, want: OneOrMany[string]{"a"}, out: `"a"`},
		{name: "many", in: `["a","b","a"]`, want: OneOrMany[string]{"a", "b", "a"}, out: `["a","b","a"]`},
		{name: "empty", in: `[]`, want: nil, out: `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got OneOrMany[string]
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)

			out, err := json.Marshal(got)
			require.NoError(t, err)
			assert.Equal(t, tt.out, string(out))
		})
	}
}

func TestOneOrManyElementErrorHasIndex(t *testing.T) {
	var got OneOrMany[int]
	err := json.Unmarshal([]byte(`[1, "x"]`), &got)
	require.Error(t, err)
	assert.Equal(t, "[1]", PathOf(err))
}

type shape struct{ name string }

func TestFirstMatch(t *testing.T) {
	decodeAs := func(name string) func(Object) (shape, error) {
		return func(Object) (shape, error) { return shape{name}, nil }
	}
	candidates := []Candidate[shape]{
		{Name: "small", Keys: Keys("a"), Decode: decodeAs("small")},
		{Name: "large", Keys: Keys("a", "b"), Decode: decodeAs("large")},
	}

	tests := []struct {
		in   string
		want string
	}{
		{`{}`, "small"},
		{`{"a": 1}`, "small"},
		{`{"b": 1}`, "large"},
		{`{"a": 1, "b": 2}`, "large"},
	}
	for _, tt := range tests {
		obj, err := ReadObject([]byte(tt.in))
		require.NoError(t, err)
		got, err := FirstMatch("Shape", obj, candidates...)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got.name, tt.in)
	}

	obj, err := ReadObject([]byte(`{"c": 1}`))
	require.NoError(t, err)
	_, err = FirstMatch("Shape", obj, candidates...)
	require.ErrorIs(t, err, ErrNoMatchingVariant)
	assert.Contains(t, err.Error(), "small")
	assert.Contains(t, err.Error(), "large")
}

func TestFirstMatchDoesNotFallThrough(t *testing.T) {
	failing := errors.New("inner failure")
	candidates := []Candidate[shape]{
		{Name: "first", Keys: Keys("a"), Decode: func(Object) (shape, error) { return shape{}, failing }},
		{Name: "second", Keys: Keys("a", "b"), Decode: func(Object) (shape, error) { return shape{"second"}, nil }},
	}
	obj, err := ReadObject([]byte(`{"a": 1}`))
	require.NoError(t, err)
	_, err = FirstMatch("Shape", obj, candidates...)
	assert.ErrorIs(t, err, failing)
}

func TestFirstTagged(t *testing.T) {
	decodeAs := func(name string) func(Object) (shape, error) {
		return func(Object) (shape, error) { return shape{name}, nil }
	}
	candidates := []Candidate[shape]{
		{Name: "small", Keys: Keys("a"), Tag: "s", Decode: decodeAs("small")},
		{Name: "large", Keys: Keys("a", "b"), Tag: "l", Decode: decodeAs("large")},
	}

	obj, err := ReadObject([]byte(`{"a": 1}`))
	require.NoError(t, err)

	got, err := FirstTagged("Shape", obj, "s", candidates...)
	require.NoError(t, err)
	assert.Equal(t, "small", got.name)

	got, err = FirstTagged("Shape", obj, "l", candidates...)
	require.NoError(t, err)
	assert.Equal(t, "large", got.name, "a later fitting shape is chosen by its tag")

	_, err = FirstTagged("Shape", obj, "x", candidates...)
	require.ErrorIs(t, err, ErrTagMismatch)
	assert.Contains(t, err.Error(), "[small large]")

	obj, err = ReadObject([]byte(`{"b": 1}`))
	require.NoError(t, err)
	_, err = FirstTagged("Shape", obj, "s", candidates...)
	assert.ErrorIs(t, err, ErrTagMismatch, "small does not fit, large has another tag")

	obj, err = ReadObject([]byte(`{"c": 1}`))
	require.NoError(t, err)
	_, err = FirstTagged("Shape", obj, "s", candidates...)
	assert.ErrorIs(t, err, ErrNoMatchingVariant)
}

func TestCheckReachable(t *testing.T) {
	ok := []Candidate[shape]{
		{Name: "a", Keys: Keys("x")},
		{Name: "b", Keys: Keys("x", "y")},
	}
	assert.NoError(t, CheckReachable(ok...))

	shadowed := []Candidate[shape]{
		{Name: "a", Keys: Keys("x", "y")},
		{Name: "b", Keys: Keys("y")},
	}
	err := CheckReachable(shadowed...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b is shadowed by a")
}

func TestTagTable(t *testing.T) {
	tags := NewTagTable(map[int]string{1: "one", 2: "two"})

	s, ok := tags.Tag(1)
	assert.True(t, ok)
	assert.Equal(t, "one", s)

	k, ok := tags.Lookup("two")
	assert.True(t, ok)
	assert.Equal(t, 2, k)

	_, ok = tags.Lookup("TWO")
	assert.False(t, ok)
	assert.False(t, tags.Contains(3))

	assert.Panics(t, func() { NewTagTable(map[int]string{1: "x", 2: "x"}) })
}

func TestEncodeObject(t *testing.T) {
	n := 5
	var absent *int

	out, err := EncodeObject(
		F("z", "first"),
		Opt("skipped", absent),
		Opt("n", &n),
		Null("nothing", absent),
		F("a", []int{1}),
	)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"first","n":5,"nothing":null,"a":[1]}`, string(out))

	out, err = EncodeObject()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(out))
}
