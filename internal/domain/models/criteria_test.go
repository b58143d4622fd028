package models_test

import (
	"errors"
	"testing"

	"github.com/lumenlearn/lumenhub/internal/domain/models"
)

func TestValidateCriteria_WindowTypes(t *testing.T) {
	for _, dynType := range []string{models.DynamicRecentLogins, models.DynamicNoLogins} {
		if err := models.ValidateCriteria(dynType, &models.DynamicCriteria{Days: 30}); err != nil {
			t.Errorf("%s with days=30: unexpected error %v", dynType, err)
		}
		if err := models.ValidateCriteria(dynType, &models.DynamicCriteria{Days: 0}); err == nil {
			t.Errorf("%s with days=0: expected error", dynType)
		}
		if err := models.ValidateCriteria(dynType, &models.DynamicCriteria{Days: -7}); err == nil {
			t.Errorf("%s with negative days: expected error", dynType)
		}
	}
}

func TestValidateCriteria_ThresholdTypes(t *testing.T) {
	valid := &models.DynamicCriteria{
		Metrics:    []string{models.MetricStreaks, models.MetricTimeInCourse},
		PeriodDays: 30,
		Threshold:  50,
	}
	if err := models.ValidateCriteria(models.DynamicMostActive, valid); err != nil {
		t.Fatalf("valid most_active criteria rejected: %v", err)
	}

	cases := []struct {
		name string
		c    models.DynamicCriteria
	}{
		{"empty metrics", models.DynamicCriteria{PeriodDays: 30, Threshold: 50}},
		{"zero period", models.DynamicCriteria{Metrics: []string{models.MetricStreaks}, Threshold: 50}},
		{"threshold above 100", models.DynamicCriteria{Metrics: []string{models.MetricStreaks}, PeriodDays: 30, Threshold: 101}},
		{"threshold below 0", models.DynamicCriteria{Metrics: []string{models.MetricStreaks}, PeriodDays: 30, Threshold: -1}},
		{"foreign metric", models.DynamicCriteria{Metrics: []string{models.MetricCreditsEarned}, PeriodDays: 30, Threshold: 50}},
	}
	for _, tc := range cases {
		c := tc.c
		if err := models.ValidateCriteria(models.DynamicMostActive, &c); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestValidateCriteria_BoundaryThresholds(t *testing.T) {
	for _, th := range []float64{0, 100} {
		c := &models.DynamicCriteria{
			Metrics:    []string{models.MetricCreditsEarned},
			PeriodDays: 7,
			Threshold:  th,
		}
		if err := models.ValidateCriteria(models.DynamicTopLearners, c); err != nil {
			t.Errorf("threshold %g should be legal: %v", th, err)
		}
	}
}

func TestValidateCriteria_MetricSetsPerType(t *testing.T) {
	// time_spent belongs to top_learners, not most_active.
	c := &models.DynamicCriteria{Metrics: []string{models.MetricTimeSpent}, PeriodDays: 30, Threshold: 10}
	if err := models.ValidateCriteria(models.DynamicMostActive, c); err == nil {
		t.Error("time_spent should be rejected for most_active")
	}
	if err := models.ValidateCriteria(models.DynamicTopLearners, c); err != nil {
		t.Errorf("time_spent should be legal for top_learners: %v", err)
	}

	c = &models.DynamicCriteria{Metrics: []string{models.MetricMessageCount}, PeriodDays: 30, Threshold: 10}
	if err := models.ValidateCriteria(models.DynamicMostTalkative, c); err != nil {
		t.Errorf("message_count should be legal for most_talkative: %v", err)
	}
}

func TestValidateCriteria_UnknownType(t *testing.T) {
	err := models.ValidateCriteria("trendsetters", &models.DynamicCriteria{Days: 7})
	if !errors.Is(err, models.ErrUnknownDynamicType) {
		t.Errorf("expected ErrUnknownDynamicType, got %v", err)
	}
}

func TestValidateCriteria_NilCriteria(t *testing.T) {
	if err := models.ValidateCriteria(models.DynamicMostActive, nil); !errors.Is(err, models.ErrMissingCriteria) {
		t.Errorf("expected ErrMissingCriteria, got %v", err)
	}
}

func TestUser_IsOrgAdmin(t *testing.T) {
	cases := []struct {
		role, membership string
		want             bool
	}{
		{models.RoleAdmin, "", true},
		{models.RoleMember, models.MembershipOrgAdmin, true},
		{models.RoleAdmin, models.MembershipOrgAdmin, true},
		{models.RoleMember, models.MembershipMember, false},
		{models.RoleMember, "", false},
	}
	for _, tc := range cases {
		u := models.User{Role: tc.role, MembershipStatus: tc.membership}
		if got := u.IsOrgAdmin(); got != tc.want {
			t.Errorf("role=%q membership=%q: got %v, want %v", tc.role, tc.membership, got, tc.want)
		}
	}
}
