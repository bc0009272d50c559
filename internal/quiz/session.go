package quiz

import (
	"errors"
	"sync"
	"time"
)

// Status is the lifecycle state of a quiz attempt.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusReviewing  Status = "reviewing"
)

// Trigger identifies what caused a submission.
type Trigger string

const (
	TriggerManual Trigger = "manual"
	TriggerAuto   Trigger = "auto"
)

var (
	ErrNotStartable     = errors.New("session cannot be started in its current state")
	ErrAlreadySubmitted = errors.New("session already submitted")
	ErrNotInProgress    = errors.New("session is not in progress")
)

// Question is a single-choice question presented during an attempt.
type Question struct {
	Text         string
	Options      []string
	CorrectIndex int
}

// Result captures the outcome of a submitted attempt. Score is kept at
// full precision; rounding is a presentation concern.
type Result struct {
	Score          float64
	CorrectAnswers int
	TotalQuestions int
	Answers        map[int]int
	SubmittedAt    time.Time
	Trigger        Trigger
}

// PersistFunc is the external submit callback. The session moves to
// StatusSubmitted before it is invoked and a failure does not roll the
// transition back; callers that need stricter guarantees must handle
// the returned error themselves.
type PersistFunc func(result Result) error

// Session drives one quiz attempt: answer bookkeeping, the countdown
// clock, and an exactly-once submission. It is independent of any
// transport or rendering layer and safe for concurrent use.
type Session struct {
	mu        sync.Mutex
	questions []Question
	answers   map[int]int
	status    Status
	timeLimit time.Duration
	clock     *Clock
	persist   PersistFunc
	result    *Result
	now       func() time.Time
}

// NewSession builds an unstarted attempt. A timeLimit of zero means the
// attempt is untimed.
func NewSession(questions []Question, timeLimit time.Duration, persist PersistFunc) *Session {
	return &Session{
		questions: questions,
		answers:   make(map[int]int),
		status:    StatusNotStarted,
		timeLimit: timeLimit,
		persist:   persist,
		now:       time.Now,
	}
}

// NewReviewSession builds a permanently read-only session around an
// existing result. No clock is ever attached and answers are frozen.
func NewReviewSession(questions []Question, answers map[int]int, score float64, submittedAt time.Time) *Session {
	frozen := make(map[int]int, len(answers))
	for k, v := range answers {
		frozen[k] = v
	}
	return &Session{
		questions: questions,
		answers:   frozen,
		status:    StatusReviewing,
		result: &Result{
			Score:          score,
			TotalQuestions: len(questions),
			Answers:        frozen,
			SubmittedAt:    submittedAt,
		},
		now: time.Now,
	}
}

// Start moves the session to InProgress and, when a time limit is set,
// attaches a countdown whose expiry auto-submits the attempt. onTick
// may be nil.
func (s *Session) Start(onTick func(remaining time.Duration)) error {
	s.mu.Lock()
	if s.status != StatusNotStarted {
		s.mu.Unlock()
		return ErrNotStartable
	}
	s.status = StatusInProgress

	var clock *Clock
	if s.timeLimit > 0 {
		clock = NewClock(onTick, func() {
			// Expiry re-enters the session asynchronously; Submit
			// resolves the race against a concurrent manual submit.
			s.Submit(TriggerAuto) //nolint:errcheck // auto-submit has no retry path
		})
		s.clock = clock
	}
	s.mu.Unlock()

	if clock != nil {
		clock.Start(s.timeLimit)
	}
	return nil
}

// RecordAnswer stores the selected option for a question, overwriting
// any earlier choice. Outside InProgress, or with an out-of-range
// index, the call is silently ignored; late and duplicate writes are
// expected and are not errors.
func (s *Session) RecordAnswer(questionIndex, optionIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusInProgress {
		return
	}
	if questionIndex < 0 || questionIndex >= len(s.questions) {
		return
	}
	if optionIndex < 0 || optionIndex >= len(s.questions[questionIndex].Options) {
		return
	}
	s.answers[questionIndex] = optionIndex
}

// Submit performs the exactly-once transition to Submitted and invokes
// the persist callback. When a manual call and a clock expiry land in
// the same window, the first to take the lock wins and the second gets
// the already-computed result back without a second persist. Submitting
// a session that never entered InProgress returns ErrNotInProgress.
func (s *Session) Submit(trigger Trigger) (*Result, error) {
	s.mu.Lock()
	if s.status == StatusSubmitted {
		result := s.result
		s.mu.Unlock()
		return result, nil
	}
	if s.status != StatusInProgress {
		s.mu.Unlock()
		return nil, ErrNotInProgress
	}

	s.status = StatusSubmitted
	if s.clock != nil {
		s.clock.Cancel()
		s.clock = nil
	}

	result := s.scoreLocked(trigger)
	s.result = &result
	persist := s.persist
	s.mu.Unlock()

	if persist != nil {
		if err := persist(result); err != nil {
			// Optimistic transition: the session stays Submitted even
			// though nothing was stored. Callers surface the error.
			return &result, err
		}
	}
	return &result, nil
}

// scoreLocked computes correct/total*10 over the recorded answers.
// Unanswered questions never match. Caller holds s.mu.
func (s *Session) scoreLocked(trigger Trigger) Result {
	correct := 0
	for i, q := range s.questions {
		if selected, ok := s.answers[i]; ok && selected == q.CorrectIndex {
			correct++
		}
	}

	score := 0.0
	if len(s.questions) > 0 {
		score = float64(correct) / float64(len(s.questions)) * 10
	}

	answers := make(map[int]int, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	return Result{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(s.questions),
		Answers:        answers,
		SubmittedAt:    s.now(),
		Trigger:        trigger,
	}
}

// Dispose releases the clock without submitting. Safe to call in any
// state and more than once; the timer handle never outlives the
// session.
func (s *Session) Dispose() {
	s.mu.Lock()
	clock := s.clock
	s.clock = nil
	s.mu.Unlock()

	if clock != nil {
		clock.Cancel()
	}
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Answers returns a copy of the recorded answers.
func (s *Session) Answers() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = v
	}
	return out
}

// AnsweredCount reports how many questions have a recorded answer,
// letting callers decide whether to ask for confirmation before a
// manual submit.
func (s *Session) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// QuestionCount reports the number of questions in the attempt.
func (s *Session) QuestionCount() int {
	return len(s.questions)
}

// Result returns the submission outcome, or nil while the attempt is
// still open.
func (s *Session) Result() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetNow overrides the session's time source. Test hook, mirrors the
// injected-clock pattern used across the storage layer.
func (s *Session) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}
