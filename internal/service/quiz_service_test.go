package service

import (
	"context"
	"testing"

	"edu_manage_backend/internal/model"
	"edu_manage_backend/internal/quiz"
	"edu_manage_backend/internal/repository"
	"edu_manage_backend/internal/store"
	"edu_manage_backend/internal/util"
	"edu_manage_backend/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestQuizService(t *testing.T) (*QuizService, *repository.CourseRepository) {
	t.Helper()
	logger.InitTestLogger()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&model.Course{}, &model.Enrollment{},
		&model.Quiz{}, &model.QuizQuestion{}, &model.QuizResult{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	courseRepo := repository.NewCourseRepository(db)
	svc := NewQuizService(
		repository.NewQuizRepository(db),
		courseRepo,
		store.NewResultStore(store.NewMemoryKV()),
	)
	return svc, courseRepo
}

func studentClaims(userID uint) *util.Claims {
	return &util.Claims{UserID: userID, Role: model.Student}
}

func seedQuiz(t *testing.T, svc *QuizService, courses *repository.CourseRepository, timeLimit string) *model.Quiz {
	t.Helper()
	course := &model.Course{Code: "CS1-" + t.Name(), Name: "Course", TutorID: 1}
	if err := courses.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	if err := courses.Enroll(course.ID, 7); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	tutor := &util.Claims{UserID: 1, Role: model.Tutor}
	q, err := svc.Create(course.ID, tutor, QuizInput{
		Title:     "Unit 1",
		TimeLimit: timeLimit,
		PassScore: 5,
		Questions: []QuestionInput{
			{Text: "1+1?", Options: []string{"1", "2"}, CorrectIndex: 1},
			{Text: "2+2?", Options: []string{"4", "5"}, CorrectIndex: 0},
			{Text: "3+3?", Options: []string{"5", "6"}, CorrectIndex: 1},
			{Text: "4+4?", Options: []string{"8", "9"}, CorrectIndex: 0},
		},
	})
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if err := svc.SetPublished(q.ID, tutor, true); err != nil {
		t.Fatalf("publish: %v", err)
	}
	return q
}

func TestQuizAttemptFlow(t *testing.T) {
	svc, courses := newTestQuizService(t)
	q := seedQuiz(t, svc, courses, "")
	claims := studentClaims(7)

	state, err := svc.StartAttempt(context.Background(), q.ID, claims)
	if err != nil {
		t.Fatalf("start attempt: %v", err)
	}
	if state.Status != quiz.StatusInProgress {
		t.Fatalf("status %q, want in_progress", state.Status)
	}
	if state.QuestionCount != 4 {
		t.Fatalf("question count %d, want 4", state.QuestionCount)
	}

	// three of four correct
	if _, err := svc.RecordAnswer(q.ID, claims, 0, 1); err != nil {
		t.Fatalf("answer 0: %v", err)
	}
	if _, err := svc.RecordAnswer(q.ID, claims, 1, 0); err != nil {
		t.Fatalf("answer 1: %v", err)
	}
	if _, err := svc.RecordAnswer(q.ID, claims, 2, 0); err != nil {
		t.Fatalf("answer 2: %v", err)
	}
	state, err = svc.RecordAnswer(q.ID, claims, 3, 0)
	if err != nil {
		t.Fatalf("answer 3: %v", err)
	}
	if state.AnsweredCount != 4 {
		t.Fatalf("answered count %d, want 4", state.AnsweredCount)
	}

	outcome, err := svc.Submit(q.ID, claims)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Score != 7.5 {
		t.Fatalf("score %v, want 7.5", outcome.Score)
	}
	if outcome.Trigger != string(quiz.TriggerManual) {
		t.Fatalf("trigger %q, want manual", outcome.Trigger)
	}
	if !outcome.Passed {
		t.Fatal("7.5 against pass score 5 should pass")
	}

	// result readable afterwards, without a live session
	got, err := svc.GetResult(context.Background(), q.ID, claims.UserID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if got.Score != 7.5 {
		t.Fatalf("stored score %v, want 7.5", got.Score)
	}
}

func TestStartAttemptRejectedAfterSubmission(t *testing.T) {
	svc, courses := newTestQuizService(t)
	q := seedQuiz(t, svc, courses, "")
	claims := studentClaims(7)

	if _, err := svc.StartAttempt(context.Background(), q.ID, claims); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.Submit(q.ID, claims); err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err := svc.StartAttempt(context.Background(), q.ID, claims)
	if err != util.ErrQuizAlreadyTaken {
		t.Fatalf("want ErrQuizAlreadyTaken, got %v", err)
	}
}

func TestStartAttemptRequiresPublishedQuiz(t *testing.T) {
	svc, courses := newTestQuizService(t)
	q := seedQuiz(t, svc, courses, "")
	tutor := &util.Claims{UserID: 1, Role: model.Tutor}
	if err := svc.SetPublished(q.ID, tutor, false); err != nil {
		t.Fatalf("unpublish: %v", err)
	}

	_, err := svc.StartAttempt(context.Background(), q.ID, studentClaims(7))
	if err != util.ErrQuizNotPublished {
		t.Fatalf("want ErrQuizNotPublished, got %v", err)
	}
}

func TestStartAttemptRequiresEnrollment(t *testing.T) {
	svc, courses := newTestQuizService(t)
	q := seedQuiz(t, svc, courses, "")

	_, err := svc.StartAttempt(context.Background(), q.ID, studentClaims(99))
	if err != util.ErrPermissionDenied {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
}

func TestQuestionsHideAnswerKeyFromStudents(t *testing.T) {
	svc, courses := newTestQuizService(t)
	q := seedQuiz(t, svc, courses, "")

	questions, err := svc.Questions(q.ID, studentClaims(7))
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	for i, question := range questions {
		if question.CorrectIndex != -1 {
			t.Fatalf("question %d leaks the answer key: %d", i, question.CorrectIndex)
		}
	}

	tutorView, err := svc.Questions(q.ID, &util.Claims{UserID: 1, Role: model.Tutor})
	if err != nil {
		t.Fatalf("tutor questions: %v", err)
	}
	if tutorView[0].CorrectIndex != 1 {
		t.Fatalf("tutor should see the answer key, got %d", tutorView[0].CorrectIndex)
	}
}

func TestCreateRejectsBadQuestions(t *testing.T) {
	svc, courses := newTestQuizService(t)
	course := &model.Course{Code: "CS2-" + t.Name(), Name: "Course", TutorID: 1}
	if err := courses.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	tutor := &util.Claims{UserID: 1, Role: model.Tutor}

	_, err := svc.Create(course.ID, tutor, QuizInput{
		Title:     "Bad",
		Questions: []QuestionInput{{Text: "q", Options: []string{"only one"}, CorrectIndex: 0}},
	})
	if err != util.ErrQuestionNeedsOptions {
		t.Fatalf("want ErrQuestionNeedsOptions, got %v", err)
	}

	_, err = svc.Create(course.ID, tutor, QuizInput{
		Title:     "Bad",
		Questions: []QuestionInput{{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 2}},
	})
	if err != util.ErrCorrectIndexInvalid {
		t.Fatalf("want ErrCorrectIndexInvalid, got %v", err)
	}

	_, err = svc.Create(course.ID, tutor, QuizInput{Title: "Bad", TimeLimit: "oops"})
	if err != util.ErrInvalidTimeLimit {
		t.Fatalf("want ErrInvalidTimeLimit, got %v", err)
	}
}

func TestReviewAttemptExposesAnswerKey(t *testing.T) {
	svc, courses := newTestQuizService(t)
	q := seedQuiz(t, svc, courses, "")
	claims := studentClaims(7)

	if _, err := svc.StartAttempt(context.Background(), q.ID, claims); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.RecordAnswer(q.ID, claims, 0, 1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	if _, err := svc.Submit(q.ID, claims); err != nil {
		t.Fatalf("submit: %v", err)
	}

	view, err := svc.ReviewAttempt(q.ID, claims.UserID)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(view.Questions) != 4 {
		t.Fatalf("want 4 questions, got %d", len(view.Questions))
	}
	if view.Questions[0].CorrectIndex != 1 {
		t.Fatalf("review must include the answer key, got %d", view.Questions[0].CorrectIndex)
	}
	if view.Questions[0].SelectedIndex == nil || *view.Questions[0].SelectedIndex != 1 {
		t.Fatalf("review lost the student's choice: %+v", view.Questions[0])
	}
	if view.Questions[1].SelectedIndex != nil {
		t.Fatal("unanswered question should have nil selection")
	}
}

func TestReviewBeforeSubmitRejected(t *testing.T) {
	svc, courses := newTestQuizService(t)
	q := seedQuiz(t, svc, courses, "")

	_, err := svc.ReviewAttempt(q.ID, 7)
	if err != util.ErrQuizNotStarted {
		t.Fatalf("want ErrQuizNotStarted, got %v", err)
	}
}
