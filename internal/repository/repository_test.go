package repository

import (
	"testing"
	"time"

	"edu_manage_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&model.Course{},
		&model.Enrollment{},
		&model.Quiz{},
		&model.QuizQuestion{},
		&model.QuizResult{},
		&model.Assignment{},
		&model.AssignmentSubmission{},
		&model.CourseGrade{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSaveSubmissionOverwrites(t *testing.T) {
	db := openTestDB(t)
	repo := NewAssignmentRepository(db)

	deadline := time.Now().Add(24 * time.Hour)
	assignment := &model.Assignment{CourseID: 1, Title: "Essay", Deadline: deadline}
	if err := repo.Create(assignment); err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	first := &model.AssignmentSubmission{
		AssignmentID: assignment.ID,
		UserID:       7,
		FileKey:      "uploads/essay-v1.pdf",
		FileName:     "essay-v1.pdf",
		SubmittedAt:  time.Now(),
	}
	if err := repo.SaveSubmission(first); err != nil {
		t.Fatalf("first submission: %v", err)
	}

	second := &model.AssignmentSubmission{
		AssignmentID: assignment.ID,
		UserID:       7,
		FileKey:      "uploads/essay-v2.pdf",
		FileName:     "essay-v2.pdf",
		SubmittedAt:  time.Now(),
	}
	if err := repo.SaveSubmission(second); err != nil {
		t.Fatalf("resubmission: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmission created a new row: id %d != %d", second.ID, first.ID)
	}

	subs, err := repo.FindSubmissionsByAssignment(assignment.ID)
	if err != nil {
		t.Fatalf("list submissions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("want exactly one submission row, got %d", len(subs))
	}
	if subs[0].FileKey != "uploads/essay-v2.pdf" {
		t.Fatalf("submission not overwritten: file key %q", subs[0].FileKey)
	}
}

func TestSaveResultRejectsDuplicate(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuizRepository(db)

	quiz := &model.Quiz{CourseID: 2, Title: "Unit 1", IsPublished: true}
	questions := []model.QuizQuestion{
		{Text: "2+2?", Options: []string{"3", "4"}, CorrectIndex: 1},
	}
	if err := repo.Create(quiz, questions); err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	result := &model.QuizResult{
		QuizID: quiz.ID, UserID: 5, CourseID: 2,
		Score: 10, CorrectCount: 1, TotalCount: 1,
		Answers: map[int]int{0: 1}, Trigger: "manual", SubmittedAt: time.Now(),
	}
	if err := repo.SaveResult(result); err != nil {
		t.Fatalf("first result: %v", err)
	}

	dup := &model.QuizResult{
		QuizID: quiz.ID, UserID: 5, CourseID: 2,
		Score: 0, TotalCount: 1, SubmittedAt: time.Now(),
	}
	if err := repo.SaveResult(dup); err == nil {
		t.Fatal("duplicate result insert succeeded, want unique index violation")
	}

	got, err := repo.FindResult(quiz.ID, 5, 2)
	if err != nil {
		t.Fatalf("find result: %v", err)
	}
	if got.Score != 10 {
		t.Fatalf("stored score changed: got %v", got.Score)
	}
}

func TestReplaceQuestionsKeepsOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuizRepository(db)

	quiz := &model.Quiz{CourseID: 1, Title: "Ordering"}
	initial := []model.QuizQuestion{
		{Text: "old A", Options: []string{"x", "y"}, CorrectIndex: 0},
		{Text: "old B", Options: []string{"x", "y"}, CorrectIndex: 1},
	}
	if err := repo.Create(quiz, initial); err != nil {
		t.Fatalf("create quiz: %v", err)
	}

	replacement := []model.QuizQuestion{
		{Text: "new C", Options: []string{"x", "y"}, CorrectIndex: 0},
		{Text: "new A", Options: []string{"x", "y"}, CorrectIndex: 1},
		{Text: "new B", Options: []string{"x", "y"}, CorrectIndex: 0},
	}
	if err := repo.ReplaceQuestions(quiz.ID, replacement); err != nil {
		t.Fatalf("replace questions: %v", err)
	}

	questions, err := repo.FindQuestions(quiz.ID)
	if err != nil {
		t.Fatalf("find questions: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("want 3 questions, got %d", len(questions))
	}
	for i, want := range []string{"new C", "new A", "new B"} {
		if questions[i].Text != want {
			t.Fatalf("question %d out of order: got %q want %q", i, questions[i].Text, want)
		}
	}
}

func TestGradeUpsertMergesComponents(t *testing.T) {
	db := openTestDB(t)
	repo := NewGradeRepository(db)

	quizGrade := 8.0
	first := &model.CourseGrade{CourseID: 3, UserID: 9, QuizGrade: &quizGrade}
	if err := repo.Upsert(first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	finalGrade := 6.5
	second := &model.CourseGrade{CourseID: 3, UserID: 9, FinalGrade: &finalGrade}
	if err := repo.Upsert(second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := repo.Find(3, 9)
	if err != nil {
		t.Fatalf("find grade: %v", err)
	}
	if got.QuizGrade == nil || *got.QuizGrade != 8.0 {
		t.Fatalf("quiz grade lost on merge: %+v", got)
	}
	if got.FinalGrade == nil || *got.FinalGrade != 6.5 {
		t.Fatalf("final grade not recorded: %+v", got)
	}
	if got.MidtermGrade != nil {
		t.Fatalf("midterm grade should stay unset, got %v", *got.MidtermGrade)
	}
}

func TestEnrollIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	repo := NewCourseRepository(db)

	course := &model.Course{Code: "CS101", Name: "Intro"}
	if err := repo.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	if err := repo.Enroll(course.ID, 4); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := repo.Enroll(course.ID, 4); err != nil {
		t.Fatalf("second enroll: %v", err)
	}

	enrolled, err := repo.IsEnrolled(course.ID, 4)
	if err != nil {
		t.Fatalf("check enrollment: %v", err)
	}
	if !enrolled {
		t.Fatal("student should be enrolled")
	}
}
