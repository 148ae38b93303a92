package certgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name         string
		placeholders []string
		data         map[string]any
		want         []string
	}{
		{"all present", []string{"name", "course"}, map[string]any{"name": "Ada", "course": "Math"}, []string{}},
		{"absent key", []string{"name", "course"}, map[string]any{"name": "Ada"}, []string{"course"}},
		{"empty string", []string{"name"}, map[string]any{"name": ""}, []string{"name"}},
		{"false and zero", []string{"passed", "score"}, map[string]any{"passed": false, "score": 0.0}, []string{"passed", "score"}},
		{"nil value", []string{"name"}, map[string]any{"name": nil}, []string{"name"}},
		{"extra keys ignored", []string{"name"}, map[string]any{"name": "Ada", "other": ""}, []string{}},
		{"no placeholders", nil, nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingFields(tt.placeholders, tt.data))
		})
	}
}

func TestFieldValue(t *testing.T) {
	data := map[string]any{"name": "Ada", "score": 98.5, "empty": "", "passed": true}

	assert.Equal(t, "Ada", FieldValue(data, "name"))
	assert.Equal(t, "98.5", FieldValue(data, "score"))
	assert.Equal(t, "true", FieldValue(data, "passed"))
	assert.Equal(t, "", FieldValue(data, "empty"))
	assert.Equal(t, "", FieldValue(data, "missing"))
}

func TestTemplateDefaults(t *testing.T) {
	tpl := Template{}
	assert.Equal(t, DefaultTitle, tpl.title())
	assert.Equal(t, DefaultFontSize, tpl.fontSize())
	assert.False(t, tpl.IsLandscape())

	tpl.Layout = Layout{Orientation: "Landscape", FontSize: 18}
	assert.True(t, tpl.IsLandscape())
	assert.Equal(t, 18.0, tpl.fontSize())
}
