// internal/domain/models/criteria.go
package models

import (
	"errors"
	"fmt"
)

// Metric names usable inside dynamic group criteria. Each maps to one raw
// collector in store/queries/activitymetrics.
const (
	MetricStreaks               = "streaks"
	MetricTimeInCourse          = "time_in_course"
	MetricCoursesCompleted      = "courses_completed"
	MetricCollectionUtilization = "collection_utilization"
	MetricTimeSpent             = "time_spent"
	MetricCreditsEarned         = "credits_earned"
	MetricConversationCount     = "conversation_count"
	MetricMessageCount          = "message_count"
)

// DynamicCriteria is the typed payload governing one dynamic group's
// computation. It is a tagged union in spirit: which fields are meaningful
// depends on the group's DynamicType.
//
//   - recent_logins / no_logins use Days only.
//   - most_active / top_learners / most_talkative use Metrics, PeriodDays,
//     and Threshold.
type DynamicCriteria struct {
	// Days is the login window for recent_logins / no_logins.
	Days int `bson:"days,omitempty" json:"days,omitempty"`

	// Metrics selects which raw metrics feed the composite score.
	Metrics []string `bson:"metrics,omitempty" json:"metrics,omitempty"`

	// PeriodDays is the activity window for threshold-based types.
	PeriodDays int `bson:"period_days,omitempty" json:"period_days,omitempty"`

	// Threshold is the inclusive composite-score cutoff, 0–100.
	Threshold float64 `bson:"threshold,omitempty" json:"threshold,omitempty"`
}

// MetricsForType returns the legal metric set for a threshold-based dynamic
// type, or nil for window-only types and unknown tags.
func MetricsForType(dynType string) []string {
	switch dynType {
	case DynamicMostActive:
		return []string{MetricStreaks, MetricTimeInCourse, MetricCoursesCompleted, MetricCollectionUtilization}
	case DynamicTopLearners:
		return []string{MetricTimeSpent, MetricCoursesCompleted, MetricCreditsEarned}
	case DynamicMostTalkative:
		return []string{MetricConversationCount, MetricMessageCount}
	default:
		return nil
	}
}

var (
	ErrUnknownDynamicType = errors.New("unknown dynamic group type")
	ErrMissingCriteria    = errors.New("dynamic group criteria is required")
)

// ValidateCriteria checks that a criteria payload has the right shape for
// the given dynamic type. Malformed criteria would otherwise silently
// degrade scoring (an empty metric list scores everyone 0), so writes are
// rejected here instead.
func ValidateCriteria(dynType string, c *DynamicCriteria) error {
	if c == nil {
		return ErrMissingCriteria
	}

	switch dynType {
	case DynamicRecentLogins, DynamicNoLogins:
		if c.Days <= 0 {
			return fmt.Errorf("%s: days must be positive, got %d", dynType, c.Days)
		}
		return nil

	case DynamicMostActive, DynamicTopLearners, DynamicMostTalkative:
		if c.PeriodDays <= 0 {
			return fmt.Errorf("%s: period_days must be positive, got %d", dynType, c.PeriodDays)
		}
		if c.Threshold < 0 || c.Threshold > 100 {
			return fmt.Errorf("%s: threshold must be within [0,100], got %g", dynType, c.Threshold)
		}
		if len(c.Metrics) == 0 {
			return fmt.Errorf("%s: at least one metric is required", dynType)
		}
		legal := MetricsForType(dynType)
		for _, m := range c.Metrics {
			if !containsMetric(legal, m) {
				return fmt.Errorf("%s: metric %q is not valid for this group type", dynType, m)
			}
		}
		return nil

	default:
		return fmt.Errorf("%w: %q", ErrUnknownDynamicType, dynType)
	}
}

func containsMetric(set []string, m string) bool {
	for _, s := range set {
		if s == m {
			return true
		}
	}
	return false
}
