package report

import (
	"authscan/internal/feature"
	"authscan/internal/types"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *Summary {
	totals := feature.Totals{Lines: 8, ValidEntries: 7, Malformed: 1, FailedLogins: 6, DistinctUsers: 2}
	findings := []types.Finding{{User: "user123", FailedLogins: 6, Risk: types.RiskMedium}}
	return NewSummary("logs/auth.log", 5, totals, 1, findings)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, sampleSummary()))

	want := "=== Auth Log Failed-Login Report ===\n\n" +
		"Log file: logs/auth.log\n" +
		"Total lines: 8\n" +
		"Valid entries: 7\n" +
		"Malformed lines skipped: 1\n" +
		"Total failed logins: 6\n" +
		"Distinct users: 2\n" +
		"Users with at least one failed login: 1\n" +
		"Threshold for anomaly: 5 failed logins (inclusive)\n\n" +
		"Suspicious users (1):\n" +
		" - user123 (6 failed logins, risk: medium)\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteText_NoSuspicious(t *testing.T) {
	s := NewSummary("empty.log", 5, feature.Totals{}, 0, nil)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))

	assert.Contains(t, buf.String(), "Total lines: 0\n")
	assert.Contains(t, buf.String(), "No suspicious users found based on the current threshold.\n")
}

func TestWriteText_SanitizesUsernames(t *testing.T) {
	s := NewSummary("auth.log", 1, feature.Totals{}, 1, []types.Finding{
		{User: "evil\x1b[31mred", FailedLogins: 1, Risk: types.RiskHigh},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, s))

	assert.NotContains(t, buf.String(), "\x1b")
	assert.Contains(t, buf.String(), "evil[31mred")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleSummary(), "json"))

	var got Summary
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleSummary(), got)
}

func TestWriteJSON_EmptySuspiciousIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, NewSummary("x", 5, feature.Totals{}, 0, nil)))

	assert.Contains(t, buf.String(), `"suspicious": []`)
}

func TestWrite_UnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, sampleSummary(), "xml"))
}
