package entity

import "time"

// RateWindow is the list of request instants (unix milliseconds) recorded under
// one rate-limit key.
type RateWindow struct {
	Key        string
	Timestamps []int64
}

// Prune keeps only the timestamps strictly newer than now-window.
func (w *RateWindow) Prune(now time.Time, window time.Duration) {
	start := now.Add(-window).UnixMilli()
	kept := w.Timestamps[:0]
	for _, ts := range w.Timestamps {
		if ts > start {
			kept = append(kept, ts)
		}
	}
	w.Timestamps = kept
}

func (w *RateWindow) Count() int {
	return len(w.Timestamps)
}

func (w *RateWindow) Record(now time.Time) {
	w.Timestamps = append(w.Timestamps, now.UnixMilli())
}
