package grading_test

import (
	"math"
	"testing"
	"time"

	"edu_manage_backend/internal/grading"
)

func f(v float64) *float64 { return &v }

func TestAggregateAllComponents(t *testing.T) {
	got := grading.Aggregate(grading.Components{
		Final:      f(8),
		Midterm:    f(7),
		Assignment: f(9),
		Quiz:       f(6),
	})
	if got == nil {
		t.Fatal("expected a composite, got nil")
	}
	if math.Abs(*got-7.8) > 1e-9 {
		t.Fatalf("expected 7.8, got %v", *got)
	}
}

func TestAggregateRequiresFinal(t *testing.T) {
	got := grading.Aggregate(grading.Components{
		Midterm:    f(8),
		Assignment: f(9),
		Quiz:       f(9),
	})
	if got != nil {
		t.Fatalf("expected nil without a final grade, got %v", *got)
	}
}

func TestAggregateFinalOnly(t *testing.T) {
	got := grading.Aggregate(grading.Components{Final: f(10)})
	if got == nil {
		t.Fatal("expected a composite, got nil")
	}
	// weightedSum 5.0 over totalWeight 0.5
	if math.Abs(*got-10.0) > 1e-9 {
		t.Fatalf("expected 10.0, got %v", *got)
	}
}

func TestAggregatePartialComponents(t *testing.T) {
	got := grading.Aggregate(grading.Components{Final: f(6), Quiz: f(10)})
	if got == nil {
		t.Fatal("expected a composite, got nil")
	}
	want := (0.5*6 + 0.1*10) / 0.6
	if math.Abs(*got-want) > 1e-9 {
		t.Fatalf("expected %v, got %v", want, *got)
	}
}

func TestEvaluateSubmission(t *testing.T) {
	deadline := time.Date(2026, 5, 10, 23, 59, 0, 0, time.UTC)

	cases := []struct {
		name        string
		now         time.Time
		hasExisting bool
		want        grading.SubmissionDecision
	}{
		{"before deadline, first submission", deadline.Add(-time.Second), false, grading.SubmissionDecision{Allowed: true, Late: false}},
		{"after deadline, first submission", deadline.Add(time.Second), false, grading.SubmissionDecision{Allowed: false, Late: true}},
		{"after deadline, resubmission", deadline.Add(time.Second), true, grading.SubmissionDecision{Allowed: true, Late: true}},
		{"exactly at deadline", deadline, false, grading.SubmissionDecision{Allowed: true, Late: false}},
	}

	for _, tc := range cases {
		got := grading.EvaluateSubmission(deadline, tc.now, tc.hasExisting)
		if got != tc.want {
			t.Fatalf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}
