package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"edu_manage_backend/internal/model"
	"edu_manage_backend/internal/quiz"
	"edu_manage_backend/internal/repository"
	"edu_manage_backend/internal/store"
	"edu_manage_backend/internal/util"
	"edu_manage_backend/pkg/logger"
	"edu_manage_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo   *repository.QuizRepository
	CourseRepo *repository.CourseRepository
	Results    *store.ResultStore

	mu       sync.Mutex
	sessions map[string]*quiz.Session
}

func NewQuizService(quizRepo *repository.QuizRepository, courseRepo *repository.CourseRepository, results *store.ResultStore) *QuizService {
	return &QuizService{
		QuizRepo:   quizRepo,
		CourseRepo: courseRepo,
		Results:    results,
		sessions:   make(map[string]*quiz.Session),
	}
}

func sessionKey(quizID, userID, courseID uint) string {
	return fmt.Sprintf("%d:%d:%d", courseID, quizID, userID)
}

type QuestionInput struct {
	Text         string   `json:"text" binding:"required"`
	Options      []string `json:"options" binding:"required"`
	CorrectIndex int      `json:"correctIndex"`
}

type QuizInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	TimeLimit   string          `json:"timeLimit"`
	PassScore   float64         `json:"passScore"`
	Questions   []QuestionInput `json:"questions"`
}

func validateQuestions(inputs []QuestionInput) ([]model.QuizQuestion, error) {
	questions := make([]model.QuizQuestion, 0, len(inputs))
	for _, q := range inputs {
		if len(q.Options) < 2 {
			return nil, util.ErrQuestionNeedsOptions
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return nil, util.ErrCorrectIndexInvalid
		}
		questions = append(questions, model.QuizQuestion{
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		})
	}
	return questions, nil
}

func (s *QuizService) Create(courseID uint, claims *util.Claims, input QuizInput) (*model.Quiz, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if claims.Role != model.Admin && course.TutorID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}

	if _, err := util.ParseClockDuration(input.TimeLimit); err != nil {
		return nil, err
	}
	questions, err := validateQuestions(input.Questions)
	if err != nil {
		return nil, err
	}

	q := &model.Quiz{
		CourseID:    courseID,
		Title:       input.Title,
		Description: input.Description,
		TimeLimit:   input.TimeLimit,
		PassScore:   input.PassScore,
	}
	if q.PassScore == 0 {
		q.PassScore = 5
	}
	if err := s.QuizRepo.Create(q, questions); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuizService) Update(quizID uint, claims *util.Claims, input QuizInput) (*model.Quiz, error) {
	q, err := s.getOwned(quizID, claims)
	if err != nil {
		return nil, err
	}

	if _, err := util.ParseClockDuration(input.TimeLimit); err != nil {
		return nil, err
	}
	questions, err := validateQuestions(input.Questions)
	if err != nil {
		return nil, err
	}

	q.Title = input.Title
	q.Description = input.Description
	q.TimeLimit = input.TimeLimit
	if input.PassScore > 0 {
		q.PassScore = input.PassScore
	}
	if err := s.QuizRepo.Update(q); err != nil {
		return nil, err
	}
	if len(questions) > 0 {
		if err := s.QuizRepo.ReplaceQuestions(quizID, questions); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (s *QuizService) Delete(quizID uint, claims *util.Claims) error {
	if _, err := s.getOwned(quizID, claims); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

func (s *QuizService) SetPublished(quizID uint, claims *util.Claims, published bool) error {
	if _, err := s.getOwned(quizID, claims); err != nil {
		return err
	}
	return s.QuizRepo.SetPublished(quizID, published)
}

func (s *QuizService) GetByID(quizID uint) (*model.Quiz, error) {
	q, err := s.QuizRepo.FindByID(quizID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotFound
	}
	return q, err
}

// ListForCourse hides unpublished quizzes from students.
func (s *QuizService) ListForCourse(courseID uint, claims *util.Claims) ([]model.Quiz, error) {
	quizzes, err := s.QuizRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if claims.Role != model.Student {
		return quizzes, nil
	}
	published := quizzes[:0]
	for _, q := range quizzes {
		if q.IsPublished {
			published = append(published, q)
		}
	}
	return published, nil
}

func (s *QuizService) Questions(quizID uint, claims *util.Claims) ([]model.QuizQuestion, error) {
	q, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	questions, err := s.QuizRepo.FindQuestions(quizID)
	if err != nil {
		return nil, err
	}
	if claims.Role == model.Student {
		if !q.IsPublished {
			return nil, util.ErrQuizNotPublished
		}
		// students never see the answer key
		for i := range questions {
			questions[i].CorrectIndex = -1
		}
	}
	return questions, nil
}

// SessionState is the live view of an attempt returned to the student.
type SessionState struct {
	Status        quiz.Status `json:"status"`
	QuestionCount int         `json:"questionCount"`
	AnsweredCount int         `json:"answeredCount"`
	Answers       map[int]int `json:"answers"`
	TimeLimit     string      `json:"timeLimit"`
}

// StartAttempt opens (or resumes) the one live session a student may
// hold for a quiz. A quiz that was already submitted cannot be started
// again; callers get the stored result through GetResult instead.
func (s *QuizService) StartAttempt(ctx context.Context, quizID uint, claims *util.Claims) (*SessionState, error) {
	q, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if !q.IsPublished {
		return nil, util.ErrQuizNotPublished
	}
	enrolled, err := s.CourseRepo.IsEnrolled(q.CourseID, claims.UserID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrPermissionDenied
	}

	if _, err := s.QuizRepo.FindResult(quizID, claims.UserID, q.CourseID); err == nil {
		return nil, util.ErrQuizAlreadyTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := sessionKey(quizID, claims.UserID, q.CourseID)
	if existing, ok := s.sessions[key]; ok && existing.Status() == quiz.StatusInProgress {
		return s.sessionState(existing, q), nil
	}

	questions, err := s.QuizRepo.FindQuestions(quizID)
	if err != nil {
		return nil, err
	}
	engineQuestions := make([]quiz.Question, len(questions))
	for i, mq := range questions {
		engineQuestions[i] = quiz.Question{
			Text:         mq.Text,
			Options:      mq.Options,
			CorrectIndex: mq.CorrectIndex,
		}
	}

	limit, err := util.ParseClockDuration(q.TimeLimit)
	if err != nil {
		return nil, err
	}

	userID := claims.UserID
	courseID := q.CourseID
	session := quiz.NewSession(engineQuestions, limit, func(result quiz.Result) error {
		return s.persistResult(quizID, userID, courseID, result)
	})
	if err := session.Start(nil); err != nil {
		return nil, err
	}
	s.sessions[key] = session
	return s.sessionState(session, q), nil
}

// persistResult is the session's submit callback. It runs off the
// request path for auto submissions, so it carries its own context.
func (s *QuizService) persistResult(quizID, userID, courseID uint, result quiz.Result) error {
	monitoring.QuizSubmissionCounter.WithLabelValues(string(result.Trigger)).Inc()

	// Auto submissions fire from the clock goroutine; drop the session
	// from the live map here so it does not linger until Abandon.
	if result.Trigger == quiz.TriggerAuto {
		go func() {
			s.mu.Lock()
			delete(s.sessions, sessionKey(quizID, userID, courseID))
			s.mu.Unlock()
		}()
	}

	record := &model.QuizResult{
		QuizID:       quizID,
		UserID:       userID,
		CourseID:     courseID,
		Score:        result.Score,
		CorrectCount: result.CorrectAnswers,
		TotalCount:   result.TotalQuestions,
		Answers:      result.Answers,
		Trigger:      string(result.Trigger),
		SubmittedAt:  result.SubmittedAt,
	}
	if err := s.QuizRepo.SaveResult(record); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cacheKey := store.QuizResultKey{QuizID: quizID, UserID: userID, CourseID: courseID}
	err := s.Results.Save(ctx, cacheKey, store.QuizResultRecord{
		Score:       result.Score,
		Answers:     result.Answers,
		SubmittedAt: result.SubmittedAt,
	})
	if err != nil {
		// cache miss on next read falls through to the database
		logger.Log.Warn("quiz result cache write failed",
			zap.Uint("quiz_id", quizID),
			zap.Uint("user_id", userID),
			zap.Error(err))
	}
	return nil
}

func (s *QuizService) RecordAnswer(quizID uint, claims *util.Claims, questionIndex, optionIndex int) (*SessionState, error) {
	session, q, err := s.liveSession(quizID, claims)
	if err != nil {
		return nil, err
	}
	session.RecordAnswer(questionIndex, optionIndex)
	return s.sessionState(session, q), nil
}

type SubmitOutcome struct {
	Score          float64     `json:"score"`
	CorrectAnswers int         `json:"correctAnswers"`
	TotalQuestions int         `json:"totalQuestions"`
	Answers        map[int]int `json:"answers"`
	SubmittedAt    time.Time   `json:"submittedAt"`
	Trigger        string      `json:"trigger"`
	Passed         bool        `json:"passed"`
}

func (s *QuizService) Submit(quizID uint, claims *util.Claims) (*SubmitOutcome, error) {
	session, q, err := s.liveSession(quizID, claims)
	if err != nil {
		return nil, err
	}

	result, err := session.Submit(quiz.TriggerManual)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionKey(quizID, claims.UserID, q.CourseID))
	s.mu.Unlock()

	return outcome(result, q.PassScore), nil
}

// Abandon drops a live attempt without scoring it.
func (s *QuizService) Abandon(quizID uint, claims *util.Claims) error {
	q, err := s.GetByID(quizID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionKey(quizID, claims.UserID, q.CourseID)
	session, ok := s.sessions[key]
	if !ok {
		return util.ErrQuizNotStarted
	}
	session.Dispose()
	delete(s.sessions, key)
	return nil
}

// GetResult reads a submitted attempt, preferring the Redis cache and
// falling back to the database.
func (s *QuizService) GetResult(ctx context.Context, quizID, userID uint) (*SubmitOutcome, error) {
	q, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}

	cacheKey := store.QuizResultKey{QuizID: quizID, UserID: userID, CourseID: q.CourseID}
	if cached, err := s.Results.Load(ctx, cacheKey); err == nil && cached != nil {
		return &SubmitOutcome{
			Score:       cached.Score,
			Answers:     cached.Answers,
			SubmittedAt: cached.SubmittedAt,
			Passed:      cached.Score >= q.PassScore,
		}, nil
	}

	record, err := s.QuizRepo.FindResult(quizID, userID, q.CourseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotStarted
	}
	if err != nil {
		return nil, err
	}
	return &SubmitOutcome{
		Score:          record.Score,
		CorrectAnswers: record.CorrectCount,
		TotalQuestions: record.TotalCount,
		Answers:        record.Answers,
		SubmittedAt:    record.SubmittedAt,
		Trigger:        record.Trigger,
		Passed:         record.Score >= q.PassScore,
	}, nil
}

// ReviewQuestion pairs a question, its answer key and the student's
// choice for post-submission review.
type ReviewQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correctIndex"`
	SelectedIndex *int     `json:"selectedIndex"`
}

type ReviewView struct {
	Score       float64          `json:"score"`
	SubmittedAt time.Time        `json:"submittedAt"`
	Passed      bool             `json:"passed"`
	Questions   []ReviewQuestion `json:"questions"`
}

// ReviewAttempt opens a read-only view of a submitted attempt, answer
// key included. Only available once a result exists.
func (s *QuizService) ReviewAttempt(quizID, userID uint) (*ReviewView, error) {
	q, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}

	record, err := s.QuizRepo.FindResult(quizID, userID, q.CourseID)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrQuizNotStarted
	}
	if err != nil {
		return nil, err
	}

	questions, err := s.QuizRepo.FindQuestions(quizID)
	if err != nil {
		return nil, err
	}
	engineQuestions := make([]quiz.Question, len(questions))
	for i, mq := range questions {
		engineQuestions[i] = quiz.Question{
			Text:         mq.Text,
			Options:      mq.Options,
			CorrectIndex: mq.CorrectIndex,
		}
	}

	session := quiz.NewReviewSession(engineQuestions, record.Answers, record.Score, record.SubmittedAt)
	answers := session.Answers()

	view := &ReviewView{
		Score:       record.Score,
		SubmittedAt: record.SubmittedAt,
		Passed:      record.Score >= q.PassScore,
		Questions:   make([]ReviewQuestion, len(engineQuestions)),
	}
	for i, eq := range engineQuestions {
		rq := ReviewQuestion{
			Text:         eq.Text,
			Options:      eq.Options,
			CorrectIndex: eq.CorrectIndex,
		}
		if selected, ok := answers[i]; ok {
			chosen := selected
			rq.SelectedIndex = &chosen
		}
		view.Questions[i] = rq
	}
	return view, nil
}

func (s *QuizService) ResultsForQuiz(quizID uint, claims *util.Claims) ([]model.QuizResult, error) {
	if _, err := s.getOwned(quizID, claims); err != nil {
		return nil, err
	}
	return s.QuizRepo.FindResultsByQuiz(quizID)
}

func (s *QuizService) liveSession(quizID uint, claims *util.Claims) (*quiz.Session, *model.Quiz, error) {
	q, err := s.GetByID(quizID)
	if err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionKey(quizID, claims.UserID, q.CourseID)]
	if !ok {
		return nil, nil, util.ErrQuizNotStarted
	}
	return session, q, nil
}

func (s *QuizService) getOwned(quizID uint, claims *util.Claims) (*model.Quiz, error) {
	q, err := s.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	course, err := s.CourseRepo.FindByID(q.CourseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if claims.Role != model.Admin && course.TutorID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}
	return q, nil
}

func (s *QuizService) sessionState(session *quiz.Session, q *model.Quiz) *SessionState {
	return &SessionState{
		Status:        session.Status(),
		QuestionCount: session.QuestionCount(),
		AnsweredCount: session.AnsweredCount(),
		Answers:       session.Answers(),
		TimeLimit:     q.TimeLimit,
	}
}

func outcome(result *quiz.Result, passScore float64) *SubmitOutcome {
	return &SubmitOutcome{
		Score:          result.Score,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
		Answers:        result.Answers,
		SubmittedAt:    result.SubmittedAt,
		Trigger:        string(result.Trigger),
		Passed:         result.Score >= passScore,
	}
}
