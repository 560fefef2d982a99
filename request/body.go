package request

import (
	"encoding/json"

	"github.com/fedsign/fedsign/sigv4"
)

// EncodingError reports parameters that could not be brought into the
// canonical byte form required for payload hashing.
type EncodingError struct {
	wrapped error
}

func (e *EncodingError) Error() string {
	return "could not encode request parameters: " + e.wrapped.Error()
}

func (e *EncodingError) Unwrap() error {
	return e.wrapped
}

// CanonicalJSONBody serializes structured parameters to the canonical JSON
// form that gets hashed and transmitted: one object, keys sorted byte-wise,
// no insignificant whitespace. Duplicate keys collapse to the last value.
// Nil parameters yield a nil body, not "{}".
func CanonicalJSONBody(params []sigv4.QueryParam) ([]byte, error) {
	if len(params) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.Key] = p.Value
	}
	//encoding/json marshals map keys in sorted order which is exactly the
	//canonical form we need
	body, err := json.Marshal(m)
	if err != nil {
		return nil, &EncodingError{wrapped: err}
	}
	return body, nil
}
