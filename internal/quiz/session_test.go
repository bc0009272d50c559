package quiz_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"edu_manage_backend/internal/quiz"
)

func fiveQuestions() []quiz.Question {
	return []quiz.Question{
		{Text: "q0", Options: []string{"a", "b"}, CorrectIndex: 0},
		{Text: "q1", Options: []string{"a", "b"}, CorrectIndex: 1},
		{Text: "q2", Options: []string{"a", "b", "c"}, CorrectIndex: 2},
		{Text: "q3", Options: []string{"a", "b"}, CorrectIndex: 0},
		{Text: "q4", Options: []string{"a", "b"}, CorrectIndex: 1},
	}
}

func TestScoreThreeOfFive(t *testing.T) {
	session := quiz.NewSession(fiveQuestions(), 0, nil)
	if err := session.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	session.RecordAnswer(0, 0) // correct
	session.RecordAnswer(1, 1) // correct
	session.RecordAnswer(2, 2) // correct
	session.RecordAnswer(3, 1) // wrong
	// q4 unanswered

	result, err := session.Submit(quiz.TriggerManual)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Score != 6.0 {
		t.Fatalf("expected score 6.0, got %v", result.Score)
	}
	if result.CorrectAnswers != 3 || result.TotalQuestions != 5 {
		t.Fatalf("expected 3/5, got %d/%d", result.CorrectAnswers, result.TotalQuestions)
	}
}

func TestRecordAnswerOverwrites(t *testing.T) {
	session := quiz.NewSession(fiveQuestions(), 0, nil)
	if err := session.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	session.RecordAnswer(0, 1)
	session.RecordAnswer(0, 0)
	if got := session.Answers()[0]; got != 0 {
		t.Fatalf("expected overwrite to 0, got %d", got)
	}
}

func TestRecordAnswerIgnoredOutsideInProgress(t *testing.T) {
	session := quiz.NewSession(fiveQuestions(), 0, nil)

	session.RecordAnswer(0, 0) // NotStarted: ignored
	if n := session.AnsweredCount(); n != 0 {
		t.Fatalf("answer recorded before start, count %d", n)
	}

	if err := session.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	session.RecordAnswer(0, 0)
	if _, err := session.Submit(quiz.TriggerManual); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	session.RecordAnswer(1, 1) // Submitted: ignored
	if n := session.AnsweredCount(); n != 1 {
		t.Fatalf("late answer landed after submit, count %d", n)
	}
}

func TestRecordAnswerIgnoresOutOfRangeIndices(t *testing.T) {
	session := quiz.NewSession(fiveQuestions(), 0, nil)
	if err := session.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	session.RecordAnswer(-1, 0)
	session.RecordAnswer(5, 0)
	session.RecordAnswer(0, 2) // q0 has two options
	session.RecordAnswer(0, -1)

	if n := session.AnsweredCount(); n != 0 {
		t.Fatalf("out-of-range answers recorded, count %d", n)
	}
}

func TestSubmitInvokesPersistExactlyOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	session := quiz.NewSession(fiveQuestions(), 0, func(quiz.Result) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return nil
	})
	if err := session.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	// Manual click and clock expiry arriving in the same window: only
	// the first to execute may persist.
	var wg sync.WaitGroup
	for _, trig := range []quiz.Trigger{quiz.TriggerManual, quiz.TriggerAuto} {
		wg.Add(1)
		go func(trig quiz.Trigger) {
			defer wg.Done()
			if _, err := session.Submit(trig); err != nil {
				t.Errorf("submit(%s) failed: %v", trig, err)
			}
		}(trig)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Fatalf("persist invoked %d times, want 1", calls)
	}
	if session.Status() != quiz.StatusSubmitted {
		t.Fatalf("expected submitted status, got %s", session.Status())
	}
}

func TestSubmitBeforeStartRejected(t *testing.T) {
	session := quiz.NewSession(fiveQuestions(), 0, nil)
	if _, err := session.Submit(quiz.TriggerManual); !errors.Is(err, quiz.ErrNotInProgress) {
		t.Fatalf("expected ErrNotInProgress, got %v", err)
	}
}

func TestSubmitStaysSubmittedWhenPersistFails(t *testing.T) {
	boom := errors.New("store unavailable")
	session := quiz.NewSession(fiveQuestions(), 0, func(quiz.Result) error { return boom })
	if err := session.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if _, err := session.Submit(quiz.TriggerManual); !errors.Is(err, boom) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if session.Status() != quiz.StatusSubmitted {
		t.Fatalf("expected optimistic submitted state, got %s", session.Status())
	}
}

func TestAutoSubmitOnExpiry(t *testing.T) {
	results := make(chan quiz.Result, 1)
	session := quiz.NewSession(fiveQuestions(), 30*time.Millisecond, func(r quiz.Result) error {
		results <- r
		return nil
	})
	defer session.Dispose()

	if err := session.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	session.RecordAnswer(0, 0)

	select {
	case result := <-results:
		if result.Trigger != quiz.TriggerAuto {
			t.Fatalf("expected auto trigger, got %s", result.Trigger)
		}
		if result.Score != 2.0 {
			t.Fatalf("expected score 2.0 for 1/5, got %v", result.Score)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expiry never auto-submitted")
	}

	if session.Status() != quiz.StatusSubmitted {
		t.Fatalf("expected submitted status, got %s", session.Status())
	}
}

func TestReviewSessionIsReadOnly(t *testing.T) {
	answers := map[int]int{0: 0, 1: 1}
	submittedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	session := quiz.NewReviewSession(fiveQuestions(), answers, 4.0, submittedAt)

	if session.Status() != quiz.StatusReviewing {
		t.Fatalf("expected reviewing status, got %s", session.Status())
	}
	if err := session.Start(nil); !errors.Is(err, quiz.ErrNotStartable) {
		t.Fatalf("expected ErrNotStartable, got %v", err)
	}

	session.RecordAnswer(2, 2)
	if n := session.AnsweredCount(); n != 2 {
		t.Fatalf("review session accepted an answer, count %d", n)
	}

	result := session.Result()
	if result == nil || result.Score != 4.0 || !result.SubmittedAt.Equal(submittedAt) {
		t.Fatalf("unexpected review result %+v", result)
	}
}

func TestDisposeCancelsClock(t *testing.T) {
	persisted := make(chan struct{}, 1)
	session := quiz.NewSession(fiveQuestions(), 20*time.Millisecond, func(quiz.Result) error {
		persisted <- struct{}{}
		return nil
	})
	if err := session.Start(nil); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	session.Dispose()

	select {
	case <-persisted:
		t.Fatal("clock fired after dispose")
	case <-time.After(100 * time.Millisecond):
	}
	// Status stays InProgress: dispose releases resources, it does not
	// submit on the caller's behalf.
	if session.Status() != quiz.StatusInProgress {
		t.Fatalf("unexpected status after dispose: %s", session.Status())
	}
}
