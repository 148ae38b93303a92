package certgen

import "strings"

const (
	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"

	DefaultTitle    = "Certificate"
	DefaultFontSize = 14.0
)

type Field struct {
	Key   string
	Label string
	Type  string
}

type Layout struct {
	Orientation string
	FontSize    float64
}

// Template is what the renderer needs to know about a certificate layout.
type Template struct {
	Title  string
	Fields []Field
	Layout Layout
}

func (t Template) IsLandscape() bool {
	return strings.EqualFold(t.Layout.Orientation, OrientationLandscape)
}

func (t Template) title() string {
	if strings.TrimSpace(t.Title) == "" {
		return DefaultTitle
	}
	return t.Title
}

func (t Template) fontSize() float64 {
	if t.Layout.FontSize <= 0 {
		return DefaultFontSize
	}
	return t.Layout.FontSize
}

// FieldValue formats data[key] for display. Missing and falsy values render as an empty string.
func FieldValue(data map[string]any, key string) string {
	v, ok := data[key]
	if !ok || IsFalsy(v) {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := jsonAPI.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// IsFalsy reports whether v counts as "not provided": nil, false, "", or numeric zero.
func IsFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	case float32:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case int32:
		return t == 0
	}
	return false
}

// MissingFields returns the placeholders that are absent or falsy in data, in placeholder order.
func MissingFields(placeholders []string, data map[string]any) []string {
	missing := []string{}
	for _, p := range placeholders {
		if v, ok := data[p]; !ok || IsFalsy(v) {
			missing = append(missing, p)
		}
	}
	return missing
}
