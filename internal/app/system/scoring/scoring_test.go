package scoring_test

import (
	"testing"

	"github.com/lumenlearn/lumenhub/internal/app/system/scoring"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNormalize_MaxScoresExactly100(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	raw := map[primitive.ObjectID]float64{a: 10, b: 5, c: 0}

	scores := scoring.Normalize(raw)

	if scores[a] != 100 {
		t.Errorf("max holder: got %g, want 100", scores[a])
	}
	if scores[b] != 50 {
		t.Errorf("half of max: got %g, want 50", scores[b])
	}
	if scores[c] != 0 {
		t.Errorf("zero raw: got %g, want 0", scores[c])
	}
}

func TestNormalize_BoundsHold(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	raw := map[primitive.ObjectID]float64{a: 3600, b: 1, c: 1799}

	for id, s := range scoring.Normalize(raw) {
		if s < 0 || s > 100 {
			t.Errorf("score for %v out of bounds: %g", id, s)
		}
	}
}

func TestNormalize_AllZeroYieldsAllZero(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	raw := map[primitive.ObjectID]float64{a: 0, b: 0}

	scores := scoring.Normalize(raw)
	if scores[a] != 0 || scores[b] != 0 {
		t.Errorf("expected all-zero scores, got %v", scores)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	scores := scoring.Normalize(nil)
	if len(scores) != 0 {
		t.Errorf("expected empty result, got %v", scores)
	}
}

func TestNormalize_FractionalMaxUsesFloorOfOne(t *testing.T) {
	a := primitive.NewObjectID()
	raw := map[primitive.ObjectID]float64{a: 0.5}

	// Max below 1 engages the floor: 100 * 0.5 / 1 = 50, still within bounds.
	scores := scoring.Normalize(raw)
	if scores[a] != 50 {
		t.Errorf("got %g, want 50", scores[a])
	}
}

func TestComposite_UnweightedMean(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	candidates := []primitive.ObjectID{a, b}

	metricA := map[primitive.ObjectID]float64{a: 100, b: 50}
	metricB := map[primitive.ObjectID]float64{a: 0, b: 50}

	composite := scoring.Composite(candidates, []map[primitive.ObjectID]float64{metricA, metricB})

	if composite[a] != 50 {
		t.Errorf("a: got %g, want 50 (mean of 100 and 0)", composite[a])
	}
	if composite[b] != 50 {
		t.Errorf("b: got %g, want 50", composite[b])
	}
}

func TestComposite_AbsentUserScoresZero(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	candidates := []primitive.ObjectID{a, b}

	// b appears in no metric map at all.
	metricA := map[primitive.ObjectID]float64{a: 80}

	composite := scoring.Composite(candidates, []map[primitive.ObjectID]float64{metricA})
	if composite[b] != 0 {
		t.Errorf("absent user: got %g, want 0", composite[b])
	}
	if composite[a] != 80 {
		t.Errorf("present user: got %g, want 80", composite[a])
	}
}

func TestComposite_NoMetricsYieldsAllZero(t *testing.T) {
	a := primitive.NewObjectID()
	composite := scoring.Composite([]primitive.ObjectID{a}, nil)
	if composite[a] != 0 {
		t.Errorf("got %g, want 0", composite[a])
	}
}

func TestComposite_Monotonic(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	candidates := []primitive.ObjectID{a, b}

	before := scoring.Composite(candidates, []map[primitive.ObjectID]float64{
		scoring.Normalize(map[primitive.ObjectID]float64{a: 10, b: 20}),
	})

	// Raising a's raw value must never decrease a's composite, and must
	// never increase b's.
	after := scoring.Composite(candidates, []map[primitive.ObjectID]float64{
		scoring.Normalize(map[primitive.ObjectID]float64{a: 30, b: 20}),
	})

	if after[a] < before[a] {
		t.Errorf("a decreased: before %g, after %g", before[a], after[a])
	}
	if after[b] > before[b] {
		t.Errorf("b increased: before %g, after %g", before[b], after[b])
	}
}

func TestPassThreshold_Inclusive(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	candidates := []primitive.ObjectID{a, b, c}
	composite := map[primitive.ObjectID]float64{a: 100, b: 50, c: 49.9}

	passed := scoring.PassThreshold(candidates, composite, 50)

	if len(passed) != 2 {
		t.Fatalf("got %d passing, want 2", len(passed))
	}
	if passed[0] != a || passed[1] != b {
		t.Errorf("expected [a b], got %v", passed)
	}
}

func TestPassThreshold_ZeroIsNoOpFilter(t *testing.T) {
	a, b := primitive.NewObjectID(), primitive.NewObjectID()
	candidates := []primitive.ObjectID{a, b}
	composite := map[primitive.ObjectID]float64{a: 0, b: 0}

	// 0 >= 0: the entire candidate set passes.
	passed := scoring.PassThreshold(candidates, composite, 0)
	if len(passed) != len(candidates) {
		t.Errorf("got %d passing, want %d", len(passed), len(candidates))
	}
}

func TestPassThreshold_EmptyCandidates(t *testing.T) {
	passed := scoring.PassThreshold(nil, nil, 50)
	if len(passed) != 0 {
		t.Errorf("expected no passers, got %v", passed)
	}
}

// Mirrors the canonical three-user scenario: X maxes both metrics, Y sits
// at exactly half on both, Z has no activity at all.
func TestScenario_MostActiveStreaksAndTime(t *testing.T) {
	x, y, z := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	candidates := []primitive.ObjectID{x, y, z}

	streaks := scoring.Normalize(map[primitive.ObjectID]float64{x: 10, y: 5})
	viewTime := scoring.Normalize(map[primitive.ObjectID]float64{x: 3600, y: 1800})

	composite := scoring.Composite(candidates, []map[primitive.ObjectID]float64{streaks, viewTime})

	if composite[x] != 100 {
		t.Errorf("X composite: got %g, want 100", composite[x])
	}
	if composite[y] != 50 {
		t.Errorf("Y composite: got %g, want 50", composite[y])
	}
	if composite[z] != 0 {
		t.Errorf("Z composite: got %g, want 0", composite[z])
	}

	passed := scoring.PassThreshold(candidates, composite, 50)
	if len(passed) != 2 || passed[0] != x || passed[1] != y {
		t.Errorf("expected X and Y to pass (threshold inclusive), got %v", passed)
	}
}
