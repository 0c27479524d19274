// Package htmlsanitize cleans operator-supplied rich text (alert
// messages, medical history notes) before it reaches a template.
package htmlsanitize

import (
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// policy is built once; bluemonday policies are safe for concurrent use.
var policy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()

	// Tables, including layout attributes the rich editor emits.
	p.AllowElements("table", "thead", "tbody", "tfoot", "tr", "th", "td")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	p.AllowAttrs("style").OnElements("table", "tr", "td", "th")

	// Inline formatting beyond the UGC defaults.
	p.AllowElements("u", "s", "sub", "sup", "mark", "hr")

	p.AllowAttrs("class").Globally()
	p.RequireNoFollowOnLinks(true)

	return p
}

// strictPolicy keeps no markup at all.
var strictPolicy = bluemonday.StrictPolicy()

// Sanitize strips dangerous markup and returns the cleaned HTML string.
func Sanitize(html string) string {
	return policy.Sanitize(html)
}

// StripTags removes all markup. For single-line values that should
// never carry formatting, like group names.
func StripTags(s string) string {
	return strictPolicy.Sanitize(s)
}

// SanitizeToHTML sanitizes and wraps the result as template.HTML so it
// renders unescaped.
func SanitizeToHTML(html string) template.HTML {
	return template.HTML(Sanitize(html))
}

// IsPlainText reports whether the string contains no HTML tags.
// A lone < or > (e.g. "5 < 10") still counts as plain text.
func IsPlainText(s string) bool {
	lt := strings.Index(s, "<")
	if lt == -1 {
		return true
	}
	return strings.Index(s[lt:], ">") == -1
}

// PlainTextToHTML escapes plain text and converts newlines to <br>,
// wrapping the result in a paragraph.
func PlainTextToHTML(s string) string {
	if s == "" {
		return ""
	}
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\n", "<br>")
	return "<p>" + escaped + "</p>"
}

// PrepareForDisplay handles both plain text and HTML input: plain text
// is escaped and paragraph-wrapped, HTML is sanitized.
func PrepareForDisplay(s string) template.HTML {
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return template.HTML(PlainTextToHTML(s))
	}
	return SanitizeToHTML(s)
}
