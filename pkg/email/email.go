// Package email holds address helpers shared by firm records and contract
// recipients.
package email

import (
	"strings"
	"unicode"
)

// Valid reports whether addr looks like a deliverable address: exactly one
// '@' with a non-empty local part and a domain, and no whitespace.
func Valid(addr string) bool {
	if strings.IndexFunc(addr, unicode.IsSpace) >= 0 {
		return false
	}
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return !strings.Contains(domain, "@")
}

// DisplayName derives a greeting name from the local part of addr.
//
//	DisplayName("ana.kovac@ferko.example") // "Ana Kovac"
//	DisplayName("info@ferko.example")      // "Info"
func DisplayName(addr string) string {
	local := addr
	if at := strings.IndexByte(addr, '@'); at > 0 {
		local = addr[:at]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return ""
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
