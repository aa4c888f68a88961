package search

import (
	"regexp"
	"strings"
)

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// EscapeHTML escapes &, < and >.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// Highlight HTML-escapes text and wraps every case-insensitive match of a
// query word in <mark></mark>. Matching runs on the escaped text.
func Highlight(text, query string) string {
	return Mark(EscapeHTML(text), query, func(m string) string {
		return "<mark>" + m + "</mark>"
	})
}

// Mark replaces every case-insensitive match of a query word in text with
// wrap(match). Text is not escaped. An empty query returns text unchanged.
func Mark(text, query string, wrap func(string) string) string {
	re := matcher(query)
	if re == nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, wrap)
}

// matcher compiles an alternation of the quoted query words, or returns nil
// when the query has no words.
func matcher(query string) *regexp.Regexp {
	words := strings.Fields(query)
	if len(words) == 0 {
		return nil
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile("(?i)(" + strings.Join(words, "|") + ")")
}
