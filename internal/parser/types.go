package parser

import (
	"authscan/internal/types"
	"errors"
)

// ErrMalformedLine is returned for lines that do not split into exactly four fields
var ErrMalformedLine = errors.New("malformed line")

// Parser defines the interface for log parsers
type Parser interface {
	Parse(line string) (types.LogEntry, error)
}
