package feature

import (
	"authscan/internal/types"
	"sort"
)

// FailureCounter accumulates per-user failed-login counts for a single run.
// Not safe for concurrent use; a run owns exactly one counter.
type FailureCounter struct {
	failures map[string]int
	users    map[string]struct{}

	totalLines   int
	validEntries int
	malformed    int
	totalFailed  int
}

// Totals is a snapshot of the run counters
type Totals struct {
	Lines         int
	ValidEntries  int
	Malformed     int
	FailedLogins  int
	DistinctUsers int
}

// NewFailureCounter creates an empty counter
func NewFailureCounter() *FailureCounter {
	return &FailureCounter{
		failures: make(map[string]int),
		users:    make(map[string]struct{}),
	}
}

// Add records a parsed entry and reports whether it was a failed login
func (c *FailureCounter) Add(entry types.LogEntry) bool {
	c.totalLines++
	c.validEntries++
	c.users[entry.User] = struct{}{}

	if entry.Event != types.FailedLoginEvent {
		return false
	}

	c.failures[entry.User]++
	c.totalFailed++
	return true
}

// AddMalformed records a skipped line so totals reconcile
func (c *FailureCounter) AddMalformed() {
	c.totalLines++
	c.malformed++
}

// Count returns the failed-login count for a user
func (c *FailureCounter) Count(user string) int {
	return c.failures[user]
}

// Counts returns a copy of the per-user failure counts
func (c *FailureCounter) Counts() map[string]int {
	out := make(map[string]int, len(c.failures))
	for user, n := range c.failures {
		out[user] = n
	}
	return out
}

// Users returns the users with at least one failed login, sorted
func (c *FailureCounter) Users() []string {
	users := make([]string, 0, len(c.failures))
	for user := range c.failures {
		users = append(users, user)
	}
	sort.Strings(users)
	return users
}

// Totals returns the current run totals
func (c *FailureCounter) Totals() Totals {
	return Totals{
		Lines:         c.totalLines,
		ValidEntries:  c.validEntries,
		Malformed:     c.malformed,
		FailedLogins:  c.totalFailed,
		DistinctUsers: len(c.users),
	}
}
