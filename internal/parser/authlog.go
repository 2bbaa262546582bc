package parser

import (
	"authscan/internal/types"
	"fmt"
	"strings"
)

const authLogFields = 4

// AuthLogParser parses the fixed four-field auth log layout
// Format: 2025-11-10 17:33:04 user123 LOGIN_FAILED
type AuthLogParser struct{}

// NewAuthLogParser creates a new auth log parser
func NewAuthLogParser() *AuthLogParser {
	return &AuthLogParser{}
}

// Parse implements the Parser interface.
// Date, time and event values are taken verbatim; only the field count is checked.
func (p *AuthLogParser) Parse(line string) (types.LogEntry, error) {
	fields := strings.Fields(line)
	if len(fields) != authLogFields {
		return types.LogEntry{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedLine, authLogFields, len(fields))
	}

	return types.LogEntry{
		Date:  fields[0],
		Time:  fields[1],
		User:  fields[2],
		Event: fields[3],
	}, nil
}
