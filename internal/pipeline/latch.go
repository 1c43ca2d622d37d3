package pipeline

// QuotaLatch is the batch-level quota state machine: normal until tripped,
// then quota-exceeded for the rest of the batch. It never resets within one
// run, so after the first rate-limit failure no further provider calls are
// issued and only one quota error is ever reported.
type QuotaLatch struct {
	tripped bool
}

// Trip moves the latch to quota-exceeded. It returns true only on the
// transition, which is what entitles the caller to record the one quota
// error for the batch.
func (l *QuotaLatch) Trip() bool {
	if l.tripped {
		return false
	}
	l.tripped = true
	return true
}

// Active reports whether the latch has been tripped.
func (l *QuotaLatch) Active() bool { return l.tripped }
