package parse

import "errors"

// ErrDeserialize matches every ParseError via errors.Is.
var ErrDeserialize = errors.New("deserialize error")

// Reason says why a line was rejected.
type Reason int

const (
	ReasonEmpty Reason = iota + 1
	ReasonTokenCount
	ReasonBadgeFields
	ReasonYear
	ReasonName
)

func (r Reason) String() string {
	switch r {
	case ReasonEmpty:
		return "empty_input"
	case ReasonTokenCount:
		return "token_count"
	case ReasonBadgeFields:
		return "badge_fields"
	case ReasonYear:
		return "grad_year"
	case ReasonName:
		return "empty_name"
	default:
		return "unknown"
	}
}

// ParseError is the single rejection type returned by Line.
type ParseError struct {
	Reason Reason
	Badge  bool // the badge sentinel was present
}

func (e *ParseError) Error() string {
	if e.Badge {
		return "deserialize badge line: " + e.Reason.String()
	}
	return "deserialize line: " + e.Reason.String()
}

func (e *ParseError) Is(target error) bool { return target == ErrDeserialize }
