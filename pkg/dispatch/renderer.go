package dispatch

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// placeholderRegex finds substitution placeholders in the form {{ path }}.
var placeholderRegex = regexp.MustCompile(`\{\{\s*([^{}]+?)\s*\}\}`)

const (
	// DefaultTitle is the fallback notification title when the event key is
	// empty and no template resolves.
	DefaultTitle = "Notification"

	// DefaultBody is the fallback notification body when neither a template
	// nor the payload yields any renderable text.
	DefaultBody = "You have a new notification."
)

// renderContent produces the title/body pair for one channel. Template text
// wins when it renders to something non-empty; otherwise the title falls
// back to a title-cased event key and the body to well-known payload fields.
func renderContent(tpl *Template, eventKey string, payload map[string]any) Content {
	var title, body string
	if tpl != nil {
		title = renderTemplate(tpl.TitleTemplate, payload)
		body = renderTemplate(tpl.BodyTemplate, payload)
	}
	if title == "" {
		title = fallbackTitle(eventKey)
	}
	if body == "" {
		body = fallbackBody(payload)
	}
	return Content{Title: title, Body: body}
}

// renderTemplate substitutes every {{ dotted.path }} placeholder with the
// value resolved against the payload. Paths that cannot be fully resolved
// substitute the empty string. A result that is blank after trimming is
// treated as "no template value" and returned as empty.
func renderTemplate(tmpl string, payload map[string]any) string {
	if strings.TrimSpace(tmpl) == "" {
		return ""
	}

	result := placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		path := strings.TrimSpace(strings.Trim(match, "{}"))
		val, ok := lookupPath(payload, path)
		if !ok || val == nil {
			return ""
		}
		return fmt.Sprintf("%v", val)
	})

	if strings.TrimSpace(result) == "" {
		return ""
	}
	return result
}

// lookupPath traverses nested payload maps using dot-separated keys, so
// "user.name" resolves payload["user"]["name"].
func lookupPath(payload map[string]any, path string) (any, bool) {
	if payload == nil || path == "" {
		return nil, false
	}

	current := payload
	parts := strings.Split(path, ".")
	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return val, true
		}
		next, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}
	return nil, false
}

// fallbackTitle title-cases the event key: "mock_completed_listening"
// becomes "Mock Completed Listening".
func fallbackTitle(eventKey string) string {
	tokens := strings.FieldsFunc(eventKey, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '\t' || r == '\n'
	})
	if len(tokens) == 0 {
		return DefaultTitle
	}
	// Casers are stateful, so one is created per call instead of shared.
	caser := cases.Title(language.English)
	for i, tok := range tokens {
		tokens[i] = caser.String(tok)
	}
	return strings.Join(tokens, " ")
}

// fallbackBody scans the payload for the first non-empty string among the
// legacy body-carrying keys, in precedence order.
func fallbackBody(payload map[string]any) string {
	for _, key := range []string{"message", "body", "title"} {
		if val, ok := payload[key]; ok {
			if s, ok := val.(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	return DefaultBody
}
