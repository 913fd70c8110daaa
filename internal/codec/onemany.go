package codec

import "encoding/json"

// OneOrMany is a sequence that travels as a bare value when it holds exactly one element
// and as an array otherwise. Order and duplicates are preserved.
type OneOrMany[T any] []T

func (s OneOrMany[T]) MarshalJSON() ([]byte, error) {
	switch len(s) {
	case 0:
		return []byte("[]"), nil
	case 1:
		return json.Marshal(s[0])
	default:
		return json.Marshal([]T(s))
	}
}

func (s *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	if IsNull(data) {
		return nil
	}
	if Kind(data) != '[' {
		var one T
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		*s = OneOrMany[T]{one}
		return nil
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return Errorf(ErrMalformedJSON, "%v", err)
	}
	if len(raws) == 0 {
		*s = nil
		return nil
	}
	out := make(OneOrMany[T], len(raws))
	for i, raw := range raws {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			return WithIndex(err, i)
		}
	}
	*s = out
	return nil
}
