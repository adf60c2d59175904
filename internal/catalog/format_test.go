package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		vars map[string]string
		want string
	}{
		{
			name: "substitutes known keys",
			tmpl: "Title: {title}\nURL: {url}",
			vars: map[string]string{"title": "Go", "url": "https://go.dev/"},
			want: "Title: Go\nURL: https://go.dev/",
		},
		{
			name: "unknown placeholder stays",
			tmpl: "{title} {missing}",
			vars: map[string]string{"title": "T"},
			want: "T {missing}",
		},
		{
			name: "values are not rescanned",
			tmpl: "{title}",
			vars: map[string]string{"title": "{url}", "url": "x"},
			want: "{url}",
		},
		{
			name: "json braces survive",
			tmpl: "{\n  \"summary\": \"{title}\"\n}",
			vars: map[string]string{"title": "T"},
			want: "{\n  \"summary\": \"T\"\n}",
		},
		{
			name: "unterminated brace",
			tmpl: "a {title",
			vars: map[string]string{"title": "T"},
			want: "a {title",
		},
		{
			name: "repeated key",
			tmpl: "{x}-{x}",
			vars: map[string]string{"x": "1"},
			want: "1-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.tmpl, tt.vars))
		})
	}
}

func TestFormatPrompt_FillsEveryPlaceholder(t *testing.T) {
	for _, p := range Prompts() {
		out := FormatPrompt(p, map[string]string{"title": "T", "url": "U", "content": "C"})
		assert.NotContains(t, out, "{title}", p.ID)
		assert.NotContains(t, out, "{url}", p.ID)
		assert.NotContains(t, out, "{content}", p.ID)
	}
}
