package domain

import (
	"strings"

	"github.com/gosimple/slug"
)

// Roster matches candidate names extracted from calendar titles against the
// active mentees of one organization. Matching ignores case and accents.
type Roster struct {
	entries []rosterEntry
}

type rosterEntry struct {
	mentee Mentee
	tokens []string
	full   string
}

func NewRoster(mentees []Mentee) *Roster {
	r := &Roster{entries: make([]rosterEntry, 0, len(mentees))}
	for _, m := range mentees {
		tokens := nameTokens(m.Name)
		if len(tokens) == 0 {
			continue
		}
		r.entries = append(r.entries, rosterEntry{
			mentee: m,
			tokens: tokens,
			full:   strings.Join(tokens, "-"),
		})
	}
	return r
}

func nameTokens(name string) []string {
	s := slug.Make(name)
	if s == "" {
		return nil
	}
	return strings.Split(s, "-")
}

// Resolve returns the unique mentee matching candidate, trying an exact full
// name, then a name prefix, then a lone first name. Ambiguity yields nil.
func (r *Roster) Resolve(candidate string) *Mentee {
	if r == nil {
		return nil
	}
	tokens := nameTokens(candidate)
	if len(tokens) == 0 {
		return nil
	}
	full := strings.Join(tokens, "-")

	if m, ok := r.unique(func(e rosterEntry) bool { return e.full == full }); ok {
		return m
	}
	if m, ok := r.unique(func(e rosterEntry) bool { return hasPrefix(e.tokens, tokens) }); ok {
		return m
	}
	if len(tokens) == 1 {
		if m, ok := r.unique(func(e rosterEntry) bool { return e.tokens[0] == tokens[0] }); ok {
			return m
		}
	}
	return nil
}

// unique reports a match only when exactly one entry satisfies pred.
func (r *Roster) unique(pred func(rosterEntry) bool) (*Mentee, bool) {
	var found *Mentee
	for i := range r.entries {
		if !pred(r.entries[i]) {
			continue
		}
		if found != nil {
			return nil, false
		}
		m := r.entries[i].mentee
		found = &m
	}
	return found, found != nil
}

func hasPrefix(tokens, prefix []string) bool {
	if len(prefix) > len(tokens) {
		return false
	}
	for i := range prefix {
		if tokens[i] != prefix[i] {
			return false
		}
	}
	return true
}
