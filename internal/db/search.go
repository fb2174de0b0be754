package db

import "strings"

// MatchAll is the FT.SEARCH query that selects every document in an index.
const MatchAll = "*"

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}

// TagQuery builds "@field:{v1|v2|...}" matching documents whose TAG field holds any of values.
// Empty values are skipped; an empty result means there is nothing to match.
func TagQuery(field string, values ...string) string {
	escaped := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		escaped = append(escaped, EscapeTag(v))
	}
	if len(escaped) == 0 {
		return ""
	}
	return "@" + field + ":{" + strings.Join(escaped, "|") + "}"
}

// EscapeTag escapes TAG query syntax characters in a single tag value.
func EscapeTag(s string) string {
	return tagEscaper.Replace(s)
}

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"[", "\\[",
	"]", "\\]",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	"/", "\\/",
	" ", "\\ ",
)
