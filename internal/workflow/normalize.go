package workflow

import (
	"encoding/json"
	"strconv"
	"strings"
)

// UnknownType is reported when the model names no contract type.
const UnknownType = "Unknown"

var typeKeys = []string{"contract_type", "contractType", "type"}

// NormalizeType reduces a model's contract-type answer to a bare string.
//
// A JSON object yields the first truthy value among contract_type,
// contractType and type, then its first value in document order, else
// UnknownType. A JSON array yields its first truthy element. Any other JSON
// value yields its text form. Non-JSON text has one surrounding quote
// stripped from each end.
func NormalizeType(raw string) string {
	raw = strings.TrimSpace(raw)

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil || dec.InputOffset() != int64(len(raw)) {
		return trimQuotes(raw)
	}

	switch parsed := v.(type) {
	case map[string]any:
		for _, k := range typeKeys {
			if s := truthy(parsed[k]); s != "" {
				return s
			}
		}
		if s := truthy(firstObjectValue(raw)); s != "" {
			return s
		}
		return UnknownType
	case []any:
		if len(parsed) > 0 {
			if s := truthy(parsed[0]); s != "" {
				return s
			}
		}
		return UnknownType
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(parsed)
	case json.Number:
		return parsed.String()
	case string:
		return parsed
	}
	return UnknownType
}

// firstObjectValue returns the first member value of a JSON object in
// document order.
func firstObjectValue(raw string) any {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}
	if _, err := dec.Token(); err != nil {
		return nil
	}

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// truthy renders v as a string, returning "" for values that would not
// count as a usable answer.
func truthy(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return ""
		}
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return ""
	case nil:
		return ""
	default:
		raw, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}

func trimQuotes(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if n := len(s); n > 0 && (s[n-1] == '"' || s[n-1] == '\'') {
		s = s[:n-1]
	}
	return strings.TrimSpace(s)
}
