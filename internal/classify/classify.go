// Package classify tells a task identifier apart from a filter expression.
//
// The list keyword serves both "list tasks matching a filter" and "show the
// actions for one task", so the argument's shape is the only discriminator.
// Only the canonical 8-4-4-4-12 form counts as an identifier; anything else,
// including near misses, is a filter expression.
package classify

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Kind is the class of a raw argument.
type Kind int

const (
	// FilterExpression is any argument that is not exactly an identifier.
	FilterExpression Kind = iota
	// Identifier is a canonical task UUID.
	Identifier
)

func (k Kind) String() string {
	switch k {
	case Identifier:
		return "identifier"
	default:
		return "filter"
	}
}

// canonicalLen is the length of xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
const canonicalLen = 36

// Classify decides the class of argument after trimming surrounding spaces.
func Classify(argument string) Kind {
	if IsIdentifier(argument) {
		return Identifier
	}
	return FilterExpression
}

// IsIdentifier reports whether s (trimmed) is a canonical UUID in any letter
// case. uuid.Parse also accepts braced, urn: and undashed forms, so the
// length is pinned to the canonical form first.
func IsIdentifier(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != canonicalLen {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// Normalize returns the trimmed, lower-cased identifier, or "" if s is not one.
func Normalize(s string) string {
	if !IsIdentifier(s) {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// filterSyntax holds characters that turn a token into a Taskwarrior filter:
// tags, attribute modifiers, patterns, id ranges and expression operators.
const filterSyntax = "+-:/=()<>!~^*,"

// IsTaskRef reports whether s selects one task by itself: a canonical UUID,
// or a short id (numeric id or UUID prefix) free of filter syntax.
func IsTaskRef(s string) bool {
	s = strings.TrimSpace(s)
	if IsIdentifier(s) {
		return true
	}
	if s == "" || strings.ContainsAny(s, filterSyntax) {
		return false
	}
	return !strings.ContainsFunc(s, unicode.IsSpace)
}
