package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrMalformed is returned when the manifest is not a JSON array of objects.
var ErrMalformed = errors.New("manifest: malformed")

// Value is a scalar manifest field kept in its textual form.
//
// Strings are kept as-is, numbers keep their literal spelling, booleans
// become "True"/"False" and null becomes the empty value.
type Value string

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*v = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value(s)
	case bytes.Equal(data, []byte("true")):
		*v = "True"
	case bytes.Equal(data, []byte("false")):
		*v = "False"
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*v = Value(buf.String())
	}
	return nil
}

// String returns the textual form.
func (v Value) String() string { return string(v) }

// Record is one manifest entry.
type Record struct {
	ID          Value `json:"id"`
	Category    Value `json:"category"`
	Subcategory Value `json:"subcategory"`
	Speed       Value `json:"speed"`
	Length      Value `json:"length"`
	Pressure    Value `json:"pressure"`
	Time        Value `json:"time"`
	Sound       Value `json:"sound"`
	Image       Value `json:"image"`
	Video       Value `json:"video"`
}

// Path returns the raw relative path stored for kind, or "" when absent.
func (r Record) Path(kind Kind) string {
	switch kind {
	case Sound:
		return string(r.Sound)
	case Image:
		return string(r.Image)
	case Video:
		return string(r.Video)
	default:
		return ""
	}
}

// Load reads and decodes the manifest at path.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	records, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Decode decodes a manifest from r.
func Decode(r io.Reader) ([]Record, error) {
	dec := json.NewDecoder(r)

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after manifest array")
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return records, nil
}

// NormalizePath converts backslashes to forward slashes and strips every
// leading slash.
func NormalizePath(p string) string {
	return strings.TrimLeft(strings.ReplaceAll(p, `\`, "/"), "/")
}
