// Package grading holds the pure decision functions of the grading
// domain: the assignment (re)submission gate and the weighted
// composite-grade calculator. Nothing here touches storage or time
// sources; callers pass both in.
package grading

import "time"

// Fixed component weights of the composite course grade.
const (
	WeightFinal      = 0.50
	WeightMidterm    = 0.20
	WeightAssignment = 0.20
	WeightQuiz       = 0.10
)

// Components are the per-category course grades, each in [0,10] when
// present.
type Components struct {
	Quiz       *float64
	Midterm    *float64
	Assignment *float64
	Final      *float64
}

// Aggregate computes the weighted composite over the present
// components. The final grade is a hard gate: without it the composite
// is nil no matter how many other components exist. That asymmetry is
// carried over from the existing product intentionally; change it only
// with a product decision, not as a cleanup.
func Aggregate(c Components) *float64 {
	if c.Final == nil {
		return nil
	}

	weightedSum := 0.0
	totalWeight := 0.0
	add := func(value *float64, weight float64) {
		if value != nil {
			weightedSum += weight * *value
			totalWeight += weight
		}
	}
	add(c.Final, WeightFinal)
	add(c.Midterm, WeightMidterm)
	add(c.Assignment, WeightAssignment)
	add(c.Quiz, WeightQuiz)

	composite := weightedSum / totalWeight
	return &composite
}

// SubmissionDecision is the outcome of the resubmission gate.
type SubmissionDecision struct {
	Allowed bool
	Late    bool
}

// EvaluateSubmission decides whether an assignment submission may
// proceed. Before the deadline anyone may submit; after it, only a
// resubmission (an existing record) is allowed; a first submission
// past the deadline never is. The decision carries no cached state and
// must be evaluated fresh with the caller's current time.
func EvaluateSubmission(deadline, now time.Time, hasExisting bool) SubmissionDecision {
	late := now.After(deadline)
	return SubmissionDecision{
		Allowed: !late || hasExisting,
		Late:    late,
	}
}
