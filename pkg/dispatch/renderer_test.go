package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTemplate(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"user":   map[string]any{"name": "Ana"},
		"result": map[string]any{"band": 6.5},
	}

	tests := []struct {
		name    string
		tmpl    string
		payload map[string]any
		want    string
	}{
		{
			name:    "nested paths resolve",
			tmpl:    "Hello {{user.name}}, band {{result.band}}",
			payload: payload,
			want:    "Hello Ana, band 6.5",
		},
		{
			name: "unresolvable path substitutes empty string",
			tmpl: "Hello {{user.name}}, band {{result.band}}",
			payload: map[string]any{
				"user": map[string]any{"name": "Ana"},
			},
			want: "Hello Ana, band ",
		},
		{
			name:    "spaces inside placeholder are tolerated",
			tmpl:    "Hello {{ user.name }}",
			payload: payload,
			want:    "Hello Ana",
		},
		{
			name:    "template of only placeholders renders empty",
			tmpl:    "{{missing}} {{also.missing}}",
			payload: payload,
			want:    "",
		},
		{
			name:    "blank template renders empty",
			tmpl:    "   ",
			payload: payload,
			want:    "",
		},
		{
			name:    "path through non-map fails to resolve",
			tmpl:    "{{user.name.first}}",
			payload: payload,
			want:    "",
		},
		{
			name:    "nil payload",
			tmpl:    "Hi {{user.name}}!",
			payload: nil,
			want:    "Hi !",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, renderTemplate(tt.tmpl, tt.payload))
		})
	}
}

func TestFallbackTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		eventKey string
		want     string
	}{
		{"mock_completed_listening", "Mock Completed Listening"},
		{"streak_warning", "Streak Warning"},
		{"band-improved", "Band Improved"},
		{"payment received", "Payment Received"},
		{"mock_completed-writing now", "Mock Completed Writing Now"},
		{"", DefaultTitle},
		{"___", DefaultTitle},
	}

	for _, tt := range tests {
		t.Run(tt.eventKey, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fallbackTitle(tt.eventKey))
		})
	}
}

func TestFallbackBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload map[string]any
		want    string
	}{
		{
			name:    "message wins over body and title",
			payload: map[string]any{"title": "X", "body": "Z", "message": "Y"},
			want:    "Y",
		},
		{
			name:    "body wins over title",
			payload: map[string]any{"title": "X", "body": "Z"},
			want:    "Z",
		},
		{
			name:    "title as last resort",
			payload: map[string]any{"title": "X"},
			want:    "X",
		},
		{
			name:    "empty strings are skipped",
			payload: map[string]any{"message": "  ", "body": "Z"},
			want:    "Z",
		},
		{
			name:    "non-string values are skipped",
			payload: map[string]any{"message": 42, "body": "Z"},
			want:    "Z",
		},
		{
			name:    "no candidates",
			payload: map[string]any{"other": "value"},
			want:    DefaultBody,
		},
		{
			name:    "nil payload",
			payload: nil,
			want:    DefaultBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, fallbackBody(tt.payload))
		})
	}
}

func TestRenderContent(t *testing.T) {
	t.Parallel()

	t.Run("template content wins", func(t *testing.T) {
		t.Parallel()
		tpl := &Template{
			TitleTemplate: "Result for {{user.name}}",
			BodyTemplate:  "You scored {{result.band}}",
		}
		payload := map[string]any{
			"user":   map[string]any{"name": "Ana"},
			"result": map[string]any{"band": 6.5},
		}

		content := renderContent(tpl, "mock_submitted", payload)
		assert.Equal(t, "Result for Ana", content.Title)
		assert.Equal(t, "You scored 6.5", content.Body)
	})

	t.Run("no template falls back entirely", func(t *testing.T) {
		t.Parallel()
		content := renderContent(nil, "mock_completed_listening", map[string]any{"message": "Well done"})
		assert.Equal(t, "Mock Completed Listening", content.Title)
		assert.Equal(t, "Well done", content.Body)
	})

	t.Run("empty render falls back per field", func(t *testing.T) {
		t.Parallel()
		tpl := &Template{
			TitleTemplate: "{{missing.path}}",
			BodyTemplate:  "Band {{result.band}}",
		}
		payload := map[string]any{"result": map[string]any{"band": 7.0}}

		content := renderContent(tpl, "band_improved", payload)
		assert.Equal(t, "Band Improved", content.Title)
		assert.Equal(t, "Band 7", content.Body)
	})
}
