package chatlog

import (
	"regexp"
	"strings"
)

// pass is one substitution of the display pipeline.
type pass struct {
	name string
	re   *regexp.Regexp
	repl string
}

// cleanPasses run in order. Later passes assume earlier ones have already
// removed the brackets and quotes around what they match, so the order is
// part of the behavior.
var cleanPasses = []pass{
	{"tool block", regexp.MustCompile(`(?is)<tool_(use|call|result)>.*?</tool_(use|call|result)>`), ""},
	{"tool marker", regexp.MustCompile(`(?i)\[(?:used tool|tool(?:_use|_call|_result)?)\s*[:=][^\]]*\]`), ""},
	{"host or email", regexp.MustCompile(`(?i)\[(?:host(?:name)?|email|e-mail)\s*[:=][^\]]*\]`), ""},
	{"json wrapper", regexp.MustCompile(`(?s)^\s*\{\s*"(?:response|reply|content|message|text)"\s*:\s*"(.*)"\s*\}\s*$`), "$1"},
	{"date marker", regexp.MustCompile(`(?i)\[(?:today|now|date|time|timestamp)\s*=[^\]]*\]`), ""},
	{"timestamp", regexp.MustCompile(`\[\d{4}-\d{2}-\d{2}(?:[T ]\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:?\d{2})?)?\]`), ""},
	{"escaped newline", regexp.MustCompile(`\\r\\n|\\n`), "\n"},
	{"escaped quote", regexp.MustCompile(`\\"`), `"`},
	{"leading artifact", regexp.MustCompile(`^[\s"'\[\]]+`), ""},
	{"trailing artifact", regexp.MustCompile(`[\s"'\[\]]+$`), ""},
	{"spaces", regexp.MustCompile(`[ \t]{2,}`), " "},
	{"blank lines", regexp.MustCompile(`\n{3,}`), "\n\n"},
	{"bold", regexp.MustCompile(`\*\*([^*\n]+?)\*\*`), "<strong>$1</strong>"},
	{"italic", regexp.MustCompile(`\*([^*\n]+?)\*`), "<em>$1</em>"},
}

var todayMarker = regexp.MustCompile(`\[today=([^\]]+)\]`)

// CleanContent strips chat-log artifacts from raw message text and converts
// **bold** and *italic* to <strong> and <em>. The passes are purely textual:
// malformed input can leave partial artifacts behind. Text is not
// HTML-escaped.
func CleanContent(raw string) string {
	s := raw
	for _, p := range cleanPasses {
		s = p.re.ReplaceAllString(s, p.repl)
	}
	return s
}

// ExtractDate returns the value of the first [today=...] marker in raw.
func ExtractDate(raw string) (string, bool) {
	m := todayMarker.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	v := strings.TrimSpace(m[1])
	return v, v != ""
}
