package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		want   Channel
		wantOK bool
	}{
		{"in_app", ChannelInApp, true},
		{"email", ChannelEmail, true},
		{"whatsapp", ChannelWhatsApp, true},
		{"push", ChannelPush, true},
		{"sms", ChannelWhatsApp, true},
		{"fax", "", false},
		{"", "", false},
		{"EMAIL", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ch, ok := ParseChannel(tt.name)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, ch)
		})
	}
}

func TestResolveChannels(t *testing.T) {
	t.Parallel()

	emailTpl := Template{EventKey: "mock_submitted", Channel: ChannelEmail}
	pushTpl := Template{EventKey: "mock_submitted", Channel: ChannelPush}

	tests := []struct {
		name      string
		override  string
		list      []string
		templates []Template
		want      []Channel
	}{
		{
			name: "no input resolves to in_app only",
			want: []Channel{ChannelInApp},
		},
		{
			name:     "override always keeps in_app",
			override: "email",
			want:     []Channel{ChannelInApp, ChannelEmail},
		},
		{
			name: "list entries are unioned",
			list: []string{"email", "push"},
			want: []Channel{ChannelInApp, ChannelEmail, ChannelPush},
		},
		{
			name:     "override and list combine",
			override: "whatsapp",
			list:     []string{"email"},
			want:     []Channel{ChannelInApp, ChannelEmail, ChannelWhatsApp},
		},
		{
			name: "sms normalizes to whatsapp",
			list: []string{"sms"},
			want: []Channel{ChannelInApp, ChannelWhatsApp},
		},
		{
			name: "unknown list entries are dropped",
			list: []string{"fax", "email"},
			want: []Channel{ChannelInApp, ChannelEmail},
		},
		{
			name:      "templates imply channels when caller is silent",
			templates: []Template{emailTpl, pushTpl},
			want:      []Channel{ChannelInApp, ChannelEmail, ChannelPush},
		},
		{
			name:      "explicit channels suppress template-implied ones",
			list:      []string{"email"},
			templates: []Template{pushTpl},
			want:      []Channel{ChannelInApp, ChannelEmail},
		},
		{
			name:      "in_app template adds nothing new",
			templates: []Template{{Channel: ChannelInApp}},
			want:      []Channel{ChannelInApp},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := resolveChannels(tt.override, tt.list, tt.templates)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTemplateFor(t *testing.T) {
	t.Parallel()

	first := Template{TitleTemplate: "first", Channel: ChannelEmail}
	second := Template{TitleTemplate: "second", Channel: ChannelEmail}
	templates := []Template{first, second, {Channel: ChannelPush}}

	t.Run("first match per channel wins", func(t *testing.T) {
		t.Parallel()
		got := templateFor(templates, ChannelEmail)
		assert.NotNil(t, got)
		assert.Equal(t, "first", got.TitleTemplate)
	})

	t.Run("no match returns nil", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, templateFor(templates, ChannelWhatsApp))
	})
}
