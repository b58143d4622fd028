// internal/app/system/scoring/scoring.go

// Package scoring normalizes raw activity metrics and aggregates them into
// composite scores for dynamic group threshold filtering.
//
// All functions are pure: they operate on in-memory maps keyed by user ID
// and never touch the database. The candidate universe is always the full
// org profile list, so a user absent from every raw map still gets a
// well-defined composite score of 0.
package scoring

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Normalize converts raw metric values into 0–100 scores using linear
// min-max against a zero floor and the observed maximum:
//
//	score = 100 * raw / max(maxRaw, 1)
//
// The floor of 1 keeps the division defined when every raw value is 0, in
// which case every score is 0. The user holding the maximum raw value
// scores exactly 100.
func Normalize(raw map[primitive.ObjectID]float64) map[primitive.ObjectID]float64 {
	maxRaw := 0.0
	for _, v := range raw {
		if v > maxRaw {
			maxRaw = v
		}
	}
	if maxRaw < 1 {
		maxRaw = 1
	}

	scores := make(map[primitive.ObjectID]float64, len(raw))
	for id, v := range raw {
		scores[id] = 100 * v / maxRaw
	}
	return scores
}

// Composite computes each candidate's arithmetic mean across the given
// per-metric score maps. A candidate missing from a metric map contributes
// 0 for that metric; a candidate missing from every map scores 0 overall.
// The mean is over exactly the metrics supplied, not all metrics that
// exist.
func Composite(candidates []primitive.ObjectID, perMetric []map[primitive.ObjectID]float64) map[primitive.ObjectID]float64 {
	out := make(map[primitive.ObjectID]float64, len(candidates))
	if len(perMetric) == 0 {
		for _, id := range candidates {
			out[id] = 0
		}
		return out
	}

	for _, id := range candidates {
		sum := 0.0
		for _, scores := range perMetric {
			sum += scores[id]
		}
		out[id] = sum / float64(len(perMetric))
	}
	return out
}

// PassThreshold returns, in candidate order, the users whose composite
// score meets or exceeds the threshold. The comparison is inclusive, so a
// threshold of 0 passes every candidate.
func PassThreshold(candidates []primitive.ObjectID, composite map[primitive.ObjectID]float64, threshold float64) []primitive.ObjectID {
	passed := make([]primitive.ObjectID, 0, len(candidates))
	for _, id := range candidates {
		if composite[id] >= threshold {
			passed = append(passed, id)
		}
	}
	return passed
}
