package domain

import (
	"encoding/json"
	"errors"
	"strings"
)

// Severity is ordered Green < Yellow < Red.
type Severity int

const (
	SeverityGreen Severity = iota
	SeverityYellow
	SeverityRed
)

var ErrUnknownSeverity = errors.New("unknown_severity")

func (s Severity) String() string {
	switch s {
	case SeverityGreen:
		return "green"
	case SeverityYellow:
		return "yellow"
	case SeverityRed:
		return "red"
	default:
		return "invalid"
	}
}

func (s Severity) Valid() bool {
	return s >= SeverityGreen && s <= SeverityRed
}

func ParseSeverity(raw string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "green":
		return SeverityGreen, nil
	case "yellow":
		return SeverityYellow, nil
	case "red":
		return SeverityRed, nil
	default:
		return 0, ErrUnknownSeverity
	}
}

// Worse returns the more severe of a and b.
func Worse(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, ErrUnknownSeverity
	}
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return ErrUnknownSeverity
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
