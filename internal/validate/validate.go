// Package validate holds the per-field rules the account forms are checked
// against before anything is sent to the backend.
package validate

import (
	"regexp"
	"unicode/utf8"
)

// Kind is the reason a field failed validation.
type Kind int

const (
	// Absent means the field passed every rule.
	Absent Kind = iota
	RequiredMissing
	PatternMismatch
	TooShort
	Mismatch
)

func (k Kind) String() string {
	switch k {
	case Absent:
		return "absent"
	case RequiredMissing:
		return "requiredMissing"
	case PatternMismatch:
		return "patternMismatch"
	case TooShort:
		return "tooShort"
	case Mismatch:
		return "mismatch"
	}
	return "unknown"
}

// EmailPattern is the address shape accepted by the storefront forms.
var EmailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,4}$`)

// MinPasswordLen is the shortest password the backend accepts.
const MinPasswordLen = 6

// Predicate is a custom check run after the built-in rules. It sees every
// field value so it can compare fields against each other.
type Predicate func(value string, values map[string]string) Kind

// Rule is the static set of constraints declared for one field.
type Rule struct {
	Field     string
	Required  bool
	Pattern   *regexp.Regexp
	MinLength int
	Custom    Predicate

	// Messages maps a failure kind to the text shown under the field.
	Messages map[Kind]string
}

// Check evaluates r against value. The first failing rule wins:
// required, then pattern, then minimum length, then the custom predicate.
// An empty optional field skips pattern and length checks.
func (r Rule) Check(value string, values map[string]string) Kind {
	if value == "" {
		if r.Required {
			return RequiredMissing
		}
	} else {
		if r.Pattern != nil && !r.Pattern.MatchString(value) {
			return PatternMismatch
		}
		if r.MinLength > 0 && utf8.RuneCountInString(value) < r.MinLength {
			return TooShort
		}
	}
	if r.Custom != nil {
		return r.Custom(value, values)
	}
	return Absent
}

// Message returns the user-facing text for kind, or "" when the field is valid.
func (r Rule) Message(kind Kind) string {
	if kind == Absent {
		return ""
	}
	if msg, ok := r.Messages[kind]; ok {
		return msg
	}
	return r.Field + " is invalid"
}

// Equals returns a predicate that requires the field to match other, unless
// both are empty.
func Equals(other string) Predicate {
	return func(value string, values map[string]string) Kind {
		peer := values[other]
		if value == "" && peer == "" {
			return Absent
		}
		if value != peer {
			return Mismatch
		}
		return Absent
	}
}
