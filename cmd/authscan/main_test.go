package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `2025-11-10 17:33:04 user123 LOGIN_FAILED
2025-11-10 17:34:00 user123 LOGIN_FAILED
2025-11-10 17:35:00 user123 LOGIN_FAILED
2025-11-10 17:36:00 user123 LOGIN_FAILED
2025-11-10 17:37:00 user123 LOGIN_FAILED
2025-11-10 17:38:00 user123 LOGIN_FAILED
2025-11-10 17:40:00 user456 LOGIN_OK
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := scanCommand(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestScanCommand_Positional(t *testing.T) {
	path := writeFile(t, t.TempDir(), "auth.log", sampleLog)

	code, out, _ := run(path, "5")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Total lines: 7")
	assert.Contains(t, out, " - user123 (6 failed logins, risk: medium)")
	assert.NotContains(t, out, "user456 (")
}

func TestScanCommand_NoSuspiciousStillSucceeds(t *testing.T) {
	path := writeFile(t, t.TempDir(), "auth.log", sampleLog)

	code, out, _ := run(path, "10")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "No suspicious users found")
}

func TestScanCommand_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.log")

	code, out, errOut := run(missing)

	assert.Equal(t, exitError, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Log file not found: "+missing)
}

func TestScanCommand_InvalidThresholdFallsBack(t *testing.T) {
	path := writeFile(t, t.TempDir(), "auth.log", sampleLog)

	code, out, errOut := run(path, "abc")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, errOut, `Invalid threshold value: "abc". Using default: 5.`)
	assert.Contains(t, out, "Threshold for anomaly: 5 failed logins")
}

func TestScanCommand_TooManyArgs(t *testing.T) {
	code, _, _ := run("a", "1", "extra")
	assert.Equal(t, exitUsage, code)
}

func TestScanCommand_BadFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "auth.log", sampleLog)

	code, _, errOut := run("-format", "xml", path)

	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "[CONFIG]")
}

func TestScanCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "auth.log", sampleLog)
	auditPath := filepath.Join(dir, "audit.log")
	metricsPath := filepath.Join(dir, "authscan.prom")
	cfgPath := writeFile(t, dir, "config.yml", "input:\n  auth_log_path: "+logPath+
		"\ndetection:\n  failed_login_threshold: 6\noutput:\n  format: json\n  audit_log_path: "+auditPath+
		"\n  metrics_textfile: "+metricsPath+"\n")

	code, out, _ := run("-config", cfgPath)

	require.Equal(t, exitOK, code)
	assert.Contains(t, out, `"threshold": 6`)
	assert.Contains(t, out, `"user": "user123"`)

	auditData, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Contains(t, string(auditData), "user123")

	metricsData, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(metricsData), "authscan_failed_logins_total 6")
}

func TestScanCommand_PositionalOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "auth.log", sampleLog)
	cfgPath := writeFile(t, dir, "config.yml", "detection:\n  failed_login_threshold: 100\n")

	code, out, _ := run("-config", cfgPath, logPath, "6")

	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Threshold for anomaly: 6 failed logins")
	assert.Contains(t, out, "user123")
}

func TestScanCommand_MissingConfig(t *testing.T) {
	code, _, errOut := run("-config", filepath.Join(t.TempDir(), "none.yml"))

	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "failed to open config file")
}

func TestAuditCommand(t *testing.T) {
	dir := t.TempDir()
	logPath := writeFile(t, dir, "auth.log", sampleLog)
	auditPath := filepath.Join(dir, "audit.log")

	code, _, _ := run("-audit-log", auditPath, logPath)
	require.Equal(t, exitOK, code)

	var stdout, stderr bytes.Buffer
	code = auditCommand([]string{"-file", auditPath}, &stdout, &stderr)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout.String(), "[medium]")
	assert.Contains(t, stdout.String(), "User user123 had 6 failed logins (threshold 5).")
}

func TestAuditCommand_MissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := auditCommand([]string{"-file", filepath.Join(t.TempDir(), "x")}, &stdout, &stderr)

	assert.Equal(t, exitError, code)
}
