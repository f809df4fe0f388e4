// Package parse turns a typed or scanned kiosk line into a ParsedRecord.
//
// Two formats exist. A line ending in the badge sentinel "%" must be
// "first$last$year%"; anything else must be three whitespace separated
// tokens "first last year". The sentinel selects the format exclusively, so
// a malformed badge line is rejected rather than retried as a manual entry.
// Names are case folded before extraction and stored lower case.
package parse

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/crshop/attendance/internal/attendance/types"
)

const (
	BadgeSentinel  = "%"
	BadgeSeparator = "$"
)

// Line parses one raw input line. The returned error is always a *ParseError.
func Line(raw string) (types.ParsedRecord, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return types.ParsedRecord{}, &ParseError{Reason: ReasonEmpty}
	}
	// Casers carry state and are not safe for concurrent use.
	s = cases.Lower(language.Und).String(s)

	if IsBadge(s) {
		return badge(s)
	}
	return manual(s)
}

// IsBadge reports whether raw carries the trailing badge sentinel.
func IsBadge(raw string) bool {
	return strings.HasSuffix(strings.TrimSpace(raw), BadgeSentinel)
}

func badge(s string) (types.ParsedRecord, error) {
	fields := strings.Split(s, BadgeSeparator)
	if len(fields) != 3 {
		return types.ParsedRecord{}, &ParseError{Reason: ReasonBadgeFields, Badge: true}
	}

	first := strings.TrimSpace(fields[0])
	last := strings.TrimSpace(fields[1])
	if first == "" || last == "" {
		return types.ParsedRecord{}, &ParseError{Reason: ReasonName, Badge: true}
	}

	year, ok := gradYear(strings.TrimSuffix(strings.TrimSpace(fields[2]), BadgeSentinel))
	if !ok {
		return types.ParsedRecord{}, &ParseError{Reason: ReasonYear, Badge: true}
	}

	return types.ParsedRecord{
		FirstName: first,
		LastName:  last,
		GradYear:  year,
		Badge:     true,
	}, nil
}

func manual(s string) (types.ParsedRecord, error) {
	tokens := strings.Fields(s)
	if len(tokens) != 3 {
		return types.ParsedRecord{}, &ParseError{Reason: ReasonTokenCount}
	}

	year, ok := gradYear(tokens[2])
	if !ok {
		return types.ParsedRecord{}, &ParseError{Reason: ReasonYear}
	}

	return types.ParsedRecord{
		FirstName: tokens[0],
		LastName:  tokens[1],
		GradYear:  year,
	}, nil
}

// gradYear accepts unsigned decimal years in 1..65535.
func gradYear(s string) (uint16, bool) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint16(v), true
}
