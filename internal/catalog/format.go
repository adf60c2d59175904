package catalog

import (
	"strings"

	"github.com/set-night/pagecast/internal/domain"
)

// Format substitutes every {key} in tmpl that has an entry in vars.
// Placeholders without a value stay as written. Substituted values are not
// rescanned, so a value containing "{url}" is inserted literally.
func Format(tmpl string, vars map[string]string) string {
	var b strings.Builder
	b.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		if tmpl[i] != '{' {
			b.WriteByte(tmpl[i])
			i++
			continue
		}
		end := strings.IndexAny(tmpl[i+1:], "{}")
		if end >= 0 && tmpl[i+1+end] == '}' {
			if v, ok := vars[tmpl[i+1:i+1+end]]; ok {
				b.WriteString(v)
				i += end + 2
				continue
			}
		}
		b.WriteByte('{')
		i++
	}
	return b.String()
}

// FormatPrompt formats the user-facing half of a prompt template.
func FormatPrompt(p domain.PromptTemplate, vars map[string]string) string {
	return Format(p.UserPromptTemplate, vars)
}
