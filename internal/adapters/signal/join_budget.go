package signal

import "time"

// joinBudget counts the join attempts of one session over a sliding window.
// It is owned by the session's read loop, so it needs no lock and goes away
// together with the session.
type joinBudget struct {
	limit    int
	interval time.Duration
	now      func() time.Time
	attempts []time.Time
}

func newJoinBudget(limit int, interval time.Duration) *joinBudget {
	return &joinBudget{limit: limit, interval: interval, now: time.Now}
}

// take spends one attempt and reports false once the window is used up.
// A zero limit disables the check.
func (b *joinBudget) take() bool {
	if b.limit <= 0 {
		return true
	}
	now := b.now()
	cutoff := now.Add(-b.interval)

	expired := 0
	for expired < len(b.attempts) && !b.attempts[expired].After(cutoff) {
		expired++
	}
	b.attempts = b.attempts[expired:]

	if len(b.attempts) >= b.limit {
		return false
	}
	b.attempts = append(b.attempts, now)
	return true
}
