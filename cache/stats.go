package cache

// Stats is a snapshot of cache counters. Counters are only updated when
// Options.RecordStats is set and survive InvalidateAll.
type Stats struct {
	HitCount     uint64
	MissCount    uint64
	RequestCount uint64

	LoadSuccessCount uint64
	LoadFailureCount uint64
	// EvictionCount counts size and expiry removals, not explicit ones.
	EvictionCount uint64
}

// HitRate returns HitCount/RequestCount, or 1 when nothing was requested.
func (s Stats) HitRate() float64 {
	if s.RequestCount == 0 {
		return 1
	}
	return float64(s.HitCount) / float64(s.RequestCount)
}

// MissRate returns MissCount/RequestCount, or 0 when nothing was requested.
func (s Stats) MissRate() float64 {
	if s.RequestCount == 0 {
		return 0
	}
	return float64(s.MissCount) / float64(s.RequestCount)
}

// statsRecorder owns the counters. It has a lifecycle independent of the
// entry storage: InvalidateAll rebuilds storage but keeps the recorder.
type statsRecorder struct {
	enabled bool
	s       Stats
}

func (r *statsRecorder) hit() {
	if r.enabled {
		r.s.RequestCount++
		r.s.HitCount++
	}
}

func (r *statsRecorder) miss() {
	if r.enabled {
		r.s.RequestCount++
		r.s.MissCount++
	}
}

// request counts a read that was neither a hit nor a miss (an expired
// read handed to the loader).
func (r *statsRecorder) request() {
	if r.enabled {
		r.s.RequestCount++
	}
}

func (r *statsRecorder) load(err error) {
	if !r.enabled {
		return
	}
	if err != nil {
		r.s.LoadFailureCount++
	} else {
		r.s.LoadSuccessCount++
	}
}

func (r *statsRecorder) removal(c RemovalCause) {
	if r.enabled && c.Evicted() {
		r.s.EvictionCount++
	}
}
