package termwiki

import (
	"strings"
)

const relatedExpression = "related expression"

// Expression is one {{Related expression}} template of a concept page.
type Expression struct {
	Language   string
	Expression string
	POS        string
	Status     string
}

// Concept is a parsed concept page.
type Concept struct {
	Title       string
	Expressions []Expression
}

// ParseConcept extracts every Related expression template from wikitext.
// Parameter order, key case and surrounding whitespace do not matter.
// Templates without a language or an expression are ignored.
func ParseConcept(title, wikitext string) Concept {
	c := Concept{Title: title}
	for _, body := range templates(wikitext) {
		name, params := splitTemplate(body)
		if normalizeName(name) != relatedExpression {
			continue
		}
		e := Expression{
			Language:   strings.ToLower(params["language"]),
			Expression: params["expression"],
			POS:        params["pos"],
			Status:     params["status"],
		}
		if e.Language == "" || e.Expression == "" {
			continue
		}
		c.Expressions = append(c.Expressions, e)
	}
	return c
}

func normalizeName(name string) string {
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// templates returns the bodies of the top-level {{...}} templates. Nested
// templates stay inside their parent's body.
func templates(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i+1 < len(s); i++ {
		switch {
		case s[i] == '{' && s[i+1] == '{':
			if depth == 0 {
				start = i + 2
			}
			depth++
			i++
		case s[i] == '}' && s[i+1] == '}' && depth > 0:
			depth--
			if depth == 0 {
				out = append(out, s[start:i])
			}
			i++
		}
	}
	return out
}

// splitTemplate splits a template body on top-level pipes into its name
// and named parameters. Positional parameters are dropped.
func splitTemplate(body string) (string, map[string]string) {
	var (
		parts []string
		depth int
		last  int
	)
	for i := 0; i < len(body); i++ {
		switch {
		case strings.HasPrefix(body[i:], "{{") || strings.HasPrefix(body[i:], "[["):
			depth++
			i++
		case (strings.HasPrefix(body[i:], "}}") || strings.HasPrefix(body[i:], "]]")) && depth > 0:
			depth--
			i++
		case body[i] == '|' && depth == 0:
			parts = append(parts, body[last:i])
			last = i + 1
		}
	}
	parts = append(parts, body[last:])

	params := make(map[string]string, len(parts)-1)
	for _, p := range parts[1:] {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		params[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return strings.TrimSpace(parts[0]), params
}
