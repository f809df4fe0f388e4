package parse

import (
	"fmt"
	"strings"
)

// Greeting renders the live welcome line for a not yet submitted buffer.
// It is a display preview only and does not decide whether the buffer will
// be accepted on submit.
func Greeting(buffer string) string {
	tokens := strings.Fields(buffer)
	if len(tokens) == 3 {
		if year, ok := gradYear(tokens[2]); ok {
			return fmt.Sprintf("Welcome %s %s, Graduation year: %d", tokens[0], tokens[1], year)
		}
	}
	if buffer != "" {
		return "Welcome " + buffer
	}
	return ""
}
