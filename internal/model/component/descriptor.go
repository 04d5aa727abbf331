package component

import (
	"fmt"
	"math"
	"strconv"
)

// Kind tags the mock widget a descriptor asks the canvas to draw.
type Kind string

const (
	Assessment Kind = "assessment"
	Form       Kind = "form"
	Dashboard  Kind = "dashboard"
	Card       Kind = "card"
	Table      Kind = "table"
)

// Kinds lists the closed set of renderable kinds in registry order.
func Kinds() []Kind {
	return []Kind{Assessment, Form, Dashboard, Card, Table}
}

// Known reports whether k belongs to the closed set. Descriptors carrying an
// unknown kind are still valid values; the renderer decides what to show.
func (k Kind) Known() bool {
	switch k {
	case Assessment, Form, Dashboard, Card, Table:
		return true
	default:
		return false
	}
}

// Descriptor describes which mock widget to render and with what sample data.
type Descriptor struct {
	Type  Kind  `json:"type"`
	Props Props `json:"props,omitempty"`
}

// New builds a descriptor, copying props so the caller can keep mutating its map.
func New(kind Kind, props Props) Descriptor {
	return Descriptor{Type: kind, Props: props.Clone()}
}

// Props holds the kind-specific payload. Values may come from Go literals
// ([]string, int) or from decoded JSON ([]any, float64); every accessor copes
// with both and falls back instead of failing.
type Props map[string]any

// Clone returns a shallow copy.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Has reports whether key is present with a non-nil value.
func (p Props) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the value at key formatted for display. Empty strings,
// zero, false, NaN and missing keys yield def, as do lists and maps.
// Numbers keep their sign and fraction: -3 and 2.5 display as given.
func (p Props) String(key, def string) string {
	v := p[key]
	if !truthy(v) {
		return def
	}
	if s, ok := scalar(v); ok {
		return s
	}
	return def
}

// Strings returns the value at key as a list of strings. Numbers print in
// plain decimal notation, nil and false print empty. Anything that is not a
// list yields nil.
func (p Props) Strings(key string) []string {
	return toStrings(p[key])
}

// Rows returns the value at key as a list of rows. Rows that are not lists
// are skipped; rows of any length are kept as they are.
func (p Props) Rows(key string) [][]string {
	switch v := p[key].(type) {
	case [][]string:
		out := make([][]string, len(v))
		for i, row := range v {
			out[i] = append([]string(nil), row...)
		}
		return out
	case []any:
		out := make([][]string, 0, len(v))
		for _, item := range v {
			if row := toStrings(item); row != nil {
				out = append(out, row)
			}
		}
		return out
	default:
		return nil
	}
}

func toStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := scalar(item); ok {
				out = append(out, s)
			} else {
				out = append(out, fmt.Sprint(item))
			}
		}
		return out
	default:
		return nil
	}
}

// scalar formats a string, number or bool the way a template prints it:
// nil and false print nothing. ok is false for lists, maps and other values.
func scalar(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "", true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

// truthy reports whether a value overrides a default: zero numbers, NaN,
// false, empty strings and nil do not.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case int:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	default:
		return true
	}
}
