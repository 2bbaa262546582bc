package audit

import (
	"authscan/internal/types"
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger handles appending findings to the audit log
type Logger struct {
	mu       sync.Mutex
	filePath string
	now      func() time.Time
}

// NewLogger creates a new audit logger
func NewLogger(filePath string) *Logger {
	return &Logger{
		filePath: filePath,
		now:      time.Now,
	}
}

// NewEvent builds the audit record for a finding
func NewEvent(f types.Finding, source string, threshold int, at time.Time) types.Event {
	return types.Event{
		ID:          uuid.NewString(),
		Timestamp:   at,
		Source:      source,
		Risk:        f.Risk,
		Summary:     "Repeated Failed Logins",
		Explanation: fmt.Sprintf("User %s had %d failed logins (threshold %d).", f.User, f.FailedLogins, threshold),
		Evidence: []types.Evidence{
			{Type: "user", Value: f.User},
			{Type: "failed_logins", Value: f.FailedLogins},
			{Type: "threshold", Value: threshold},
		},
		Mode: "advisory",
	}
}

// LogFindings appends one JSON line per finding in a single write
func (l *Logger) LogFindings(findings []types.Finding, source string, threshold int) error {
	if len(findings) == 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	encoder := json.NewEncoder(w)
	at := l.now().UTC()
	for _, finding := range findings {
		if err := encoder.Encode(NewEvent(finding, source, threshold, at)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// ReadEvents decodes every record in an audit log stream
func ReadEvents(r io.Reader) ([]types.Event, error) {
	var events []types.Event
	decoder := json.NewDecoder(r)
	for {
		var evt types.Event
		if err := decoder.Decode(&evt); err != nil {
			if err == io.EOF {
				return events, nil
			}
			return events, fmt.Errorf("failed to decode audit record %d: %w", len(events)+1, err)
		}
		events = append(events, evt)
	}
}
