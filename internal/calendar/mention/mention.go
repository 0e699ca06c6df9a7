// Package mention decides whether a calendar title is a mentoring call and
// pulls the mentee's name out of it.
package mention

import (
	"regexp"
	"strings"
)

var keywords = []string{"call", "mentoria", "1:1"}

// A trigger word must be followed by "-" or ":" before the name. Titles such
// as "Mentoria Dr. Maria" deliberately do not match.
var namePattern = regexp.MustCompile(`(?i)(?:call|mentoria|1:1)\s*[-:]\s*(?:dra?\.\s*)?(\p{L}+(?:[ \t]+\p{L}+)*)`)

// IsCallEvent reports whether title mentions any call keyword, ignoring case.
func IsCallEvent(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractMentoradoName returns the candidate mentee name in title.
func ExtractMentoradoName(title string) (string, bool) {
	if !IsCallEvent(title) {
		return "", false
	}
	m := namePattern.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return "", false
	}
	return name, true
}
