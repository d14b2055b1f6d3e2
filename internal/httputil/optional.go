package httputil

import (
	"bytes"
	"encoding/json"
)

// OptionalString distinguishes an absent JSON field from an explicit null
// (RFC 7396 merge-patch semantics), which a plain *string cannot express:
//   - Present=false: field absent (leave unchanged)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value=&"text": field carries a value
type OptionalString struct {
	Present bool
	Value   *string
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the field
// appears in the document, so Present is set unconditionally.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}
