// Package scoring aggregates hit times into the scoreboard figures.
package scoring

import (
	"fmt"
	"time"
)

// BucketCount is the number of scoreboard rows.
const BucketCount = 6

// bucketBounds are hit indices: bucket i covers hits [bounds[i], bounds[i+1]).
// Misses never take a slot, so the rows read "the Nth through Mth hit".
var bucketBounds = [BucketCount + 1]int{0, 5, 10, 20, 30, 40, 50}

// Buckets returns the average raw hit time of each bucket in seconds,
// rounded to milliseconds. Empty buckets are 0.
func Buckets(raw []time.Duration) [BucketCount]float64 {
	var out [BucketCount]float64
	for i := 0; i < BucketCount; i++ {
		lo := min(bucketBounds[i], len(raw))
		hi := min(bucketBounds[i+1], len(raw))
		out[i] = meanSeconds(raw[lo:hi])
	}
	return out
}

func meanSeconds(ds []time.Duration) float64 {
	if len(ds) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range ds {
		sum += d
	}
	mean := sum / time.Duration(len(ds))
	// Halves round away from zero.
	millis := (mean + time.Millisecond/2) / time.Millisecond
	return float64(millis) / 1000
}

// Labels returns the hit ranges shown next to each bucket.
func Labels() [BucketCount]string {
	var out [BucketCount]string
	for i := 0; i < BucketCount; i++ {
		out[i] = fmt.Sprintf("%d-%d", bucketBounds[i], bucketBounds[i+1])
	}
	return out
}

// HitRate returns the share of clicks that hit, as a truncated percentage.
func HitRate(hits, misses int) int {
	total := hits + misses
	if total <= 0 {
		return 0
	}
	return hits * 100 / total
}

// Summary is what the end screen reports for a session.
type Summary struct {
	Score   int
	Hits    int
	Misses  int
	HitRate int
	Elapsed time.Duration // Effective play time, pauses excluded
	Buckets [BucketCount]float64
}

// Summarize builds a Summary from session counters and the raw hit times.
func Summarize(score, hits, misses int, elapsed time.Duration, raw []time.Duration) Summary {
	return Summary{
		Score:   score,
		Hits:    hits,
		Misses:  misses,
		HitRate: HitRate(hits, misses),
		Elapsed: elapsed,
		Buckets: Buckets(raw),
	}
}
