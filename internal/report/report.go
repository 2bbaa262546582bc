package report

import (
	"authscan/internal/feature"
	"authscan/internal/types"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Summary is the result of one scan
type Summary struct {
	LogPath           string          `json:"log_path"`
	Threshold         int             `json:"threshold"`
	TotalLines        int             `json:"total_lines"`
	ValidEntries      int             `json:"valid_entries"`
	MalformedLines    int             `json:"malformed_lines"`
	TotalFailed       int             `json:"total_failed_logins"`
	DistinctUsers     int             `json:"distinct_users"`
	UsersWithFailures int             `json:"users_with_failures"`
	Suspicious        []types.Finding `json:"suspicious"`
}

// NewSummary assembles a summary from the run totals and findings
func NewSummary(logPath string, threshold int, totals feature.Totals, usersWithFailures int, findings []types.Finding) *Summary {
	if findings == nil {
		findings = []types.Finding{}
	}
	return &Summary{
		LogPath:           logPath,
		Threshold:         threshold,
		TotalLines:        totals.Lines,
		ValidEntries:      totals.ValidEntries,
		MalformedLines:    totals.Malformed,
		TotalFailed:       totals.FailedLogins,
		DistinctUsers:     totals.DistinctUsers,
		UsersWithFailures: usersWithFailures,
		Suspicious:        findings,
	}
}

// Write renders the summary in the given format ("text" or "json")
func Write(w io.Writer, s *Summary, format string) error {
	switch format {
	case "json":
		return WriteJSON(w, s)
	case "text", "":
		return WriteText(w, s)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteText prints the human-readable console summary
func WriteText(w io.Writer, s *Summary) error {
	var b strings.Builder

	b.WriteString("=== Auth Log Failed-Login Report ===\n\n")
	fmt.Fprintf(&b, "Log file: %s\n", sanitize(s.LogPath))
	fmt.Fprintf(&b, "Total lines: %d\n", s.TotalLines)
	fmt.Fprintf(&b, "Valid entries: %d\n", s.ValidEntries)
	fmt.Fprintf(&b, "Malformed lines skipped: %d\n", s.MalformedLines)
	fmt.Fprintf(&b, "Total failed logins: %d\n", s.TotalFailed)
	fmt.Fprintf(&b, "Distinct users: %d\n", s.DistinctUsers)
	fmt.Fprintf(&b, "Users with at least one failed login: %d\n", s.UsersWithFailures)
	fmt.Fprintf(&b, "Threshold for anomaly: %d failed logins (inclusive)\n\n", s.Threshold)

	if len(s.Suspicious) == 0 {
		b.WriteString("No suspicious users found based on the current threshold.\n")
	} else {
		fmt.Fprintf(&b, "Suspicious users (%d):\n", len(s.Suspicious))
		for _, f := range s.Suspicious {
			fmt.Fprintf(&b, " - %s (%d failed logins, risk: %s)\n", sanitize(f.User), f.FailedLogins, f.Risk)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON prints the summary as an indented JSON document
func WriteJSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// sanitize strips control characters to prevent terminal injection
// through usernames taken from the log.
func sanitize(s string) string {
	var builder strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
