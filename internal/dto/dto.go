// dto.go
package dto

import "fmt"

// Shipway payloads are free-form passthrough documents, so request bodies are
// decoded as maps and checked field-by-field; the helpers here implement the
// shape rules shared by every handler.

// MissingFields returns the required keys that are absent, nil, empty strings
// or empty arrays in the payload, in the order they were asked for.
func MissingFields(payload map[string]interface{}, required ...string) []string {
	var missing []string
	for _, field := range required {
		v, ok := payload[field]
		if !ok || v == nil || v == "" {
			missing = append(missing, field)
			continue
		}
		if list, isList := asList(v); isList && len(list) == 0 {
			missing = append(missing, field)
		}
	}
	return missing
}

// StringField coerces a payload value to its string form. Numeric ids sent
// without quotes come out the way they were typed.
func StringField(payload map[string]interface{}, key string) string {
	v, ok := payload[key]
	if !ok || v == nil {
		return ""
	}
	if s, isStr := v.(string); isStr {
		return s
	}
	if f, isNum := v.(float64); isNum && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprint(v)
}

// StringList converts a decoded JSON value into a list of ids. Returns false
// when the value is not a non-empty array.
func StringList(v interface{}) ([]string, bool) {
	list, ok := asList(v)
	if !ok || len(list) == 0 {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		switch t := item.(type) {
		case string:
			out = append(out, t)
		case float64:
			if t == float64(int64(t)) {
				out = append(out, fmt.Sprintf("%d", int64(t)))
			} else {
				out = append(out, fmt.Sprint(t))
			}
		default:
			out = append(out, fmt.Sprint(t))
		}
	}
	return out, true
}

func asList(v interface{}) ([]interface{}, bool) {
	list, ok := v.([]interface{})
	return list, ok
}
