package letter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ParsePersonalisation decodes a flat JSON object into string variables.
// Numbers and booleans are kept in their JSON spelling, null values are
// skipped. Nested objects and arrays are rejected.
func ParsePersonalisation(raw []byte) (map[string]string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return map[string]string{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPersonalisation, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after object", ErrInvalidPersonalisation)
	}

	out := make(map[string]string, len(fields))
	for name, value := range fields {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: empty field name", ErrInvalidPersonalisation)
		}
		switch v := value.(type) {
		case nil:
		case string:
			out[name] = v
		case json.Number:
			out[name] = v.String()
		case bool:
			out[name] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("%w: field %q must be a scalar", ErrInvalidPersonalisation, name)
		}
	}
	return out, nil
}
