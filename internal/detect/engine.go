package detect

import (
	"authscan/internal/types"
	"sort"
)

// Engine applies the failed-login threshold to a run's counts
type Engine struct {
	threshold int
}

// NewEngine creates a new detection engine
func NewEngine(threshold int) *Engine {
	return &Engine{threshold: threshold}
}

// Threshold returns the configured cutoff
func (e *Engine) Threshold() int {
	return e.threshold
}

// IsSuspicious reports whether a count meets the threshold.
// The comparison is inclusive: count == threshold is flagged.
func (e *Engine) IsSuspicious(count int) bool {
	return count >= e.threshold
}

// Evaluate returns one finding per suspicious user, ordered by
// descending count and then ascending username.
func (e *Engine) Evaluate(counts map[string]int) []types.Finding {
	findings := make([]types.Finding, 0)
	for user, count := range counts {
		if count <= 0 || !e.IsSuspicious(count) {
			continue
		}
		findings = append(findings, types.Finding{
			User:         user,
			FailedLogins: count,
			Risk:         e.riskFor(count),
		})
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].FailedLogins != findings[j].FailedLogins {
			return findings[i].FailedLogins > findings[j].FailedLogins
		}
		return findings[i].User < findings[j].User
	})
	return findings
}

func (e *Engine) riskFor(count int) types.RiskLevel {
	if count >= 2*e.threshold {
		return types.RiskHigh
	}
	return types.RiskMedium
}
