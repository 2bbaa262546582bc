package types

import "time"

// FailedLoginEvent is the event value that marks a failed authentication attempt
const FailedLoginEvent = "LOGIN_FAILED"

// RiskLevel defines the severity of a finding
type RiskLevel string

const (
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// LogEntry is one parsed line of the auth log
// Format: 2025-11-10 17:33:04 user123 LOGIN_FAILED
type LogEntry struct {
	Date  string
	Time  string
	User  string
	Event string
}

// Finding is a user whose failed-login count met the threshold
type Finding struct {
	User         string    `json:"user"`
	FailedLogins int       `json:"failed_logins"`
	Risk         RiskLevel `json:"risk"`
}

// Event is the audit record written for each finding
type Event struct {
	ID          string     `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	Source      string     `json:"source"`
	Risk        RiskLevel  `json:"risk"`
	Summary     string     `json:"summary"`
	Explanation string     `json:"explanation"`
	Evidence    []Evidence `json:"evidence"`
	Mode        string     `json:"mode"` // always "advisory"
}

// Evidence holds key-value pairs supporting the detection
type Evidence struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
}

// Config represents the application configuration
type Config struct {
	Input struct {
		AuthLogPath string `yaml:"auth_log_path"`
	} `yaml:"input"`

	Detection struct {
		// Users with count >= threshold are reported
		FailedLoginThreshold *int `yaml:"failed_login_threshold"`
	} `yaml:"detection"`

	Output struct {
		Format          string `yaml:"format"` // text, json
		AuditLogPath    string `yaml:"audit_log_path"`
		MetricsTextfile string `yaml:"metrics_textfile"`
		WarnMalformed   *bool  `yaml:"warn_malformed"`
	} `yaml:"output"`
}

// Threshold returns the configured threshold, or 0 if unset
func (c *Config) Threshold() int {
	if c.Detection.FailedLoginThreshold == nil {
		return 0
	}
	return *c.Detection.FailedLoginThreshold
}

// ShouldWarnMalformed reports whether malformed lines are logged
func (c *Config) ShouldWarnMalformed() bool {
	return c.Output.WarnMalformed == nil || *c.Output.WarnMalformed
}
