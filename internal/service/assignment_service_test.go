package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"edu_manage_backend/internal/config"
	"edu_manage_backend/internal/model"
	"edu_manage_backend/internal/repository"
	"edu_manage_backend/internal/store"
	"edu_manage_backend/internal/util"
	"edu_manage_backend/pkg/logger"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestAssignmentService(t *testing.T) (*AssignmentService, *repository.CourseRepository) {
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
		&model.Assignment{}, &model.AssignmentSubmission{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	storage := &StorageService{Provider: &LocalStorageProvider{
		Config: &config.StorageConfig{LocalPath: t.TempDir()},
	}}
	courseRepo := repository.NewCourseRepository(db)
	svc := NewAssignmentService(
		repository.NewAssignmentRepository(db),
		courseRepo,
		storage,
		store.NewSubmissionStore(store.NewMemoryKV()),
	)
	return svc, courseRepo
}

func seedAssignment(t *testing.T, svc *AssignmentService, courses *repository.CourseRepository, deadline time.Time) *model.Assignment {
	t.Helper()
	course := &model.Course{Code: "CS1-" + t.Name(), Name: "Course", TutorID: 1}
	if err := courses.Create(course); err != nil {
		t.Fatalf("create course: %v", err)
	}
	if err := courses.Enroll(course.ID, 7); err != nil {
		t.Fatalf("enroll: %v", err)
	}

	assignment := &model.Assignment{CourseID: course.ID, Title: "Essay", Deadline: deadline}
	if err := svc.AssignmentRepo.Create(assignment); err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	return assignment
}

func TestSubmitBeforeDeadlineIsOnTime(t *testing.T) {
	svc, courses := newTestAssignmentService(t)
	assignment := seedAssignment(t, svc, courses, time.Now().Add(time.Hour))

	sub, err := svc.Submit(context.Background(), assignment.ID, 7, "essay.pdf", strings.NewReader("body"), 4, "application/pdf")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if sub.Late {
		t.Fatal("on-time submission marked late")
	}
}

func TestSubmitRejectsUnacceptedFormat(t *testing.T) {
	svc, courses := newTestAssignmentService(t)
	assignment := seedAssignment(t, svc, courses, time.Now().Add(time.Hour))
	assignment.AcceptedFormat = "pdf, docx"
	if err := svc.AssignmentRepo.Update(assignment); err != nil {
		t.Fatalf("update: %v", err)
	}

	_, err := svc.Submit(context.Background(), assignment.ID, 7, "essay.png", strings.NewReader("body"), 4, "image/png")
	if err != util.ErrBadFileFormat {
		t.Fatalf("want ErrBadFileFormat, got %v", err)
	}

	if _, err := svc.Submit(context.Background(), assignment.ID, 7, "Essay.PDF", strings.NewReader("body"), 4, "application/pdf"); err != nil {
		t.Fatalf("pdf submit: %v", err)
	}
}

func TestFirstSubmitAfterDeadlineRejected(t *testing.T) {
	svc, courses := newTestAssignmentService(t)
	assignment := seedAssignment(t, svc, courses, time.Now().Add(-time.Hour))

	_, err := svc.Submit(context.Background(), assignment.ID, 7, "essay.pdf", strings.NewReader("body"), 4, "application/pdf")
	if err != util.ErrDeadlinePassed {
		t.Fatalf("want ErrDeadlinePassed, got %v", err)
	}
}

func TestResubmitAfterDeadlineAllowedButLate(t *testing.T) {
	svc, courses := newTestAssignmentService(t)
	deadline := time.Now().Add(time.Hour)
	assignment := seedAssignment(t, svc, courses, deadline)

	if _, err := svc.Submit(context.Background(), assignment.ID, 7, "v1.pdf", strings.NewReader("v1"), 2, "application/pdf"); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	// move the service clock past the deadline
	svc.now = func() time.Time { return deadline.Add(time.Minute) }

	sub, err := svc.Submit(context.Background(), assignment.ID, 7, "v2.pdf", strings.NewReader("v2"), 2, "application/pdf")
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if !sub.Late {
		t.Fatal("post-deadline resubmission must be marked late")
	}
	if sub.FileName != "v2.pdf" {
		t.Fatalf("resubmission did not overwrite: %q", sub.FileName)
	}

	subs, err := svc.AssignmentRepo.FindSubmissionsByAssignment(assignment.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("want one submission row, got %d", len(subs))
	}
}

func TestSubmitExactlyAtDeadlineIsOnTime(t *testing.T) {
	svc, courses := newTestAssignmentService(t)
	deadline := time.Now().Add(time.Hour).Truncate(time.Second)
	assignment := seedAssignment(t, svc, courses, deadline)

	svc.now = func() time.Time { return deadline }

	sub, err := svc.Submit(context.Background(), assignment.ID, 7, "essay.pdf", strings.NewReader("body"), 4, "application/pdf")
	if err != nil {
		t.Fatalf("submit at deadline: %v", err)
	}
	if sub.Late {
		t.Fatal("submission exactly at the deadline is on time")
	}
}

func TestSubmitRequiresEnrollment(t *testing.T) {
	svc, courses := newTestAssignmentService(t)
	assignment := seedAssignment(t, svc, courses, time.Now().Add(time.Hour))

	_, err := svc.Submit(context.Background(), assignment.ID, 99, "essay.pdf", strings.NewReader("body"), 4, "application/pdf")
	if err != util.ErrPermissionDenied {
		t.Fatalf("want ErrPermissionDenied, got %v", err)
	}
}
