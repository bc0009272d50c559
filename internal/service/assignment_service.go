package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"edu_manage_backend/internal/grading"
	"edu_manage_backend/internal/model"
	"edu_manage_backend/internal/repository"
	"edu_manage_backend/internal/store"
	"edu_manage_backend/internal/util"
	"edu_manage_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	CourseRepo     *repository.CourseRepository
	Storage        *StorageService
	Submissions    *store.SubmissionStore

	now func() time.Time
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, courseRepo *repository.CourseRepository, storage *StorageService, submissions *store.SubmissionStore) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		CourseRepo:     courseRepo,
		Storage:        storage,
		Submissions:    submissions,
		now:            time.Now,
	}
}

type AssignmentInput struct {
	Title          string    `json:"title" binding:"required"`
	Instructions   string    `json:"instructions"`
	Deadline       time.Time `json:"deadline" binding:"required"`
	MaxScore       float64   `json:"maxScore"`
	AcceptedFormat string    `json:"acceptedFormat"`
}

func (s *AssignmentService) Create(courseID uint, claims *util.Claims, input AssignmentInput) (*model.Assignment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if claims.Role != model.Admin && course.TutorID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}

	assignment := &model.Assignment{
		CourseID:       courseID,
		Title:          input.Title,
		Instructions:   input.Instructions,
		Deadline:       input.Deadline,
		MaxScore:       input.MaxScore,
		AcceptedFormat: input.AcceptedFormat,
	}
	if assignment.MaxScore == 0 {
		assignment.MaxScore = 10
	}
	if err := s.AssignmentRepo.Create(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) GetByID(id uint) (*model.Assignment, error) {
	assignment, err := s.AssignmentRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrAssignmentNotFound
	}
	return assignment, err
}

func (s *AssignmentService) ListForCourse(courseID uint) ([]model.Assignment, error) {
	return s.AssignmentRepo.FindByCourse(courseID)
}

func (s *AssignmentService) Update(id uint, claims *util.Claims, input AssignmentInput) (*model.Assignment, error) {
	assignment, err := s.getOwned(id, claims)
	if err != nil {
		return nil, err
	}

	assignment.Title = input.Title
	assignment.Instructions = input.Instructions
	assignment.Deadline = input.Deadline
	assignment.AcceptedFormat = input.AcceptedFormat
	if input.MaxScore > 0 {
		assignment.MaxScore = input.MaxScore
	}
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(id uint, claims *util.Claims) error {
	if _, err := s.getOwned(id, claims); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(id)
}

// AttachInstructionsFile stores a tutor-provided handout alongside the
// assignment.
func (s *AssignmentService) AttachInstructionsFile(ctx context.Context, id uint, claims *util.Claims, fileName string, reader io.Reader, size int64, contentType string) (*model.Assignment, error) {
	assignment, err := s.getOwned(id, claims)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("assignments/%d/handout/%s%s", id, uuid.New().String(), filepath.Ext(fileName))
	if _, err := s.Storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, err
	}

	assignment.AttachmentKey = key
	assignment.AttachmentName = fileName
	if err := s.AssignmentRepo.Update(assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

// SubmissionStatus tells a student whether an upload would be accepted
// right now.
type SubmissionStatus struct {
	Allowed    bool                        `json:"allowed"`
	Late       bool                        `json:"late"`
	Submission *model.AssignmentSubmission `json:"submission,omitempty"`
}

func (s *AssignmentService) Status(id uint, userID uint) (*SubmissionStatus, error) {
	assignment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing, err := s.AssignmentRepo.FindSubmission(id, userID)
	if err == gorm.ErrRecordNotFound {
		existing = nil
	} else if err != nil {
		return nil, err
	}

	decision := grading.EvaluateSubmission(assignment.Deadline, s.now(), existing != nil)
	return &SubmissionStatus{
		Allowed:    decision.Allowed,
		Late:       decision.Late,
		Submission: existing,
	}, nil
}

// Submit uploads a student's file and records the submission. A first
// submission is rejected after the deadline; a student who already
// submitted on time may resubmit past it, with the attempt marked
// late. Resubmission overwrites the previous file reference.
func (s *AssignmentService) Submit(ctx context.Context, id uint, userID uint, fileName string, reader io.Reader, size int64, contentType string) (*model.AssignmentSubmission, error) {
	if fileName == "" || reader == nil {
		return nil, util.ErrNoFileSelected
	}

	assignment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !formatAccepted(assignment.AcceptedFormat, fileName) {
		return nil, util.ErrBadFileFormat
	}
	enrolled, err := s.CourseRepo.IsEnrolled(assignment.CourseID, userID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrPermissionDenied
	}

	existing, err := s.AssignmentRepo.FindSubmission(id, userID)
	if err == gorm.ErrRecordNotFound {
		existing = nil
	} else if err != nil {
		return nil, err
	}

	submittedAt := s.now()
	decision := grading.EvaluateSubmission(assignment.Deadline, submittedAt, existing != nil)
	if !decision.Allowed {
		return nil, util.ErrDeadlinePassed
	}

	key := fmt.Sprintf("assignments/%d/submissions/%d/%s%s", id, userID, uuid.New().String(), filepath.Ext(fileName))
	if _, err := s.Storage.Upload(ctx, key, reader, size, contentType); err != nil {
		return nil, err
	}

	sub := &model.AssignmentSubmission{
		AssignmentID: id,
		UserID:       userID,
		FileKey:      key,
		FileName:     fileName,
		Late:         decision.Late,
		SubmittedAt:  submittedAt,
	}
	if err := s.AssignmentRepo.SaveSubmission(sub); err != nil {
		return nil, err
	}

	if existing != nil && existing.FileKey != "" && existing.FileKey != key {
		if err := s.Storage.Delete(ctx, existing.FileKey); err != nil {
			logger.Log.Warn("stale submission file not removed",
				zap.String("file_key", existing.FileKey),
				zap.Error(err))
		}
	}

	cacheKey := store.SubmissionKey{AssignmentID: id, UserID: userID}
	err = s.Submissions.Save(ctx, cacheKey, store.SubmissionRecord{
		FileKey:     sub.FileKey,
		FileName:    sub.FileName,
		SubmittedAt: sub.SubmittedAt,
		Late:        sub.Late,
	})
	if err != nil {
		logger.Log.Warn("submission cache write failed",
			zap.Uint("assignment_id", id),
			zap.Uint("user_id", userID),
			zap.Error(err))
	}

	return sub, nil
}

func (s *AssignmentService) ListSubmissions(id uint, claims *util.Claims) ([]model.AssignmentSubmission, error) {
	if _, err := s.getOwned(id, claims); err != nil {
		return nil, err
	}
	return s.AssignmentRepo.FindSubmissionsByAssignment(id)
}

func (s *AssignmentService) getOwned(id uint, claims *util.Claims) (*model.Assignment, error) {
	assignment, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	course, err := s.CourseRepo.FindByID(assignment.CourseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if claims.Role != model.Admin && course.TutorID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}
	return assignment, nil
}

// formatAccepted checks a file name against the assignment's accepted
// format list, a comma-separated set of extensions like "pdf,docx".
// An empty list accepts anything.
func formatAccepted(accepted, fileName string) bool {
	accepted = strings.TrimSpace(accepted)
	if accepted == "" {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	for _, want := range strings.Split(accepted, ",") {
		want = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(want), ".")))
		if want != "" && want == ext {
			return true
		}
	}
	return false
}
