package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON decodes a JSON string into v.
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONStrict decodes a JSON string into v, rejecting unknown fields.
func ParseJSONStrict(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, true)
}

// ParseJSONBytes decodes a JSON byte slice into v.
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v, false)
}

// DecodeJSON decodes JSON from r into v with unified settings.
func DecodeJSON(r io.Reader, v interface{}) error {
	return decodeJSON(r, v, false)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// Reject trailing data after the first value.
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

var fencePattern = regexp.MustCompile("(?is)```(?:json)?(.*?)```")

// stripCodeFence returns the body of the first markdown code fence, or the
// input unchanged when no fence is present.
func stripCodeFence(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

// ExtractJSONObject locates the outermost brace pair in free-form model
// output (optionally wrapped in a code fence) and parses it into v.
// Returns false when no parsable object is found; never returns an error
// to the caller beyond that signal.
func ExtractJSONObject(text string, v interface{}) bool {
	if text == "" {
		return false
	}
	body := stripCodeFence(text)
	first := strings.Index(body, "{")
	last := strings.LastIndex(body, "}")
	if first == -1 || last == -1 || last <= first {
		return false
	}
	slice := strings.TrimSpace(body[first : last+1])
	return json.Unmarshal([]byte(slice), v) == nil
}

// ExtractJSONArray locates the outermost bracket pair in free-form model
// output and parses it as a JSON array of strings. Non-string elements are
// stringified. Returns nil when nothing parsable is found.
func ExtractJSONArray(text string) []string {
	if text == "" {
		return nil
	}
	body := stripCodeFence(text)
	first := strings.Index(body, "[")
	last := strings.LastIndex(body, "]")
	if first == -1 || last == -1 || last <= first {
		return nil
	}
	var raw []interface{}
	if err := json.Unmarshal([]byte(body[first:last+1]), &raw); err != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		switch s := item.(type) {
		case string:
			out = append(out, s)
		default:
			out = append(out, fmt.Sprintf("%v", item))
		}
	}
	return out
}

// ToJSON marshals v into a JSON string.
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
