package service

import (
	"edu_manage_backend/internal/grading"
	"edu_manage_backend/internal/model"
	"edu_manage_backend/internal/repository"
	"edu_manage_backend/internal/util"

	"gorm.io/gorm"
)

type GradeService struct {
	GradeRepo  *repository.GradeRepository
	CourseRepo *repository.CourseRepository
}

func NewGradeService(gradeRepo *repository.GradeRepository, courseRepo *repository.CourseRepository) *GradeService {
	return &GradeService{
		GradeRepo:  gradeRepo,
		CourseRepo: courseRepo,
	}
}

type GradeInput struct {
	QuizGrade       *float64 `json:"quizGrade"`
	MidtermGrade    *float64 `json:"midtermGrade"`
	AssignmentGrade *float64 `json:"assignmentGrade"`
	FinalGrade      *float64 `json:"finalGrade"`
}

// GradeView is the student-facing grade sheet. Composite is nil until
// the final exam grade exists; components alone never produce one.
type GradeView struct {
	CourseID        uint     `json:"courseId"`
	UserID          uint     `json:"userId"`
	QuizGrade       *float64 `json:"quizGrade"`
	MidtermGrade    *float64 `json:"midtermGrade"`
	AssignmentGrade *float64 `json:"assignmentGrade"`
	FinalGrade      *float64 `json:"finalGrade"`
	Composite       *float64 `json:"composite"`
}

func validGrade(g *float64) bool {
	return g == nil || (*g >= 0 && *g <= 10)
}

// Record writes the given components for a student; nil components are
// left untouched. Grades live on a 0-10 scale.
func (s *GradeService) Record(courseID, userID uint, claims *util.Claims, input GradeInput) (*GradeView, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if claims.Role != model.Admin && course.TutorID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}

	for _, g := range []*float64{input.QuizGrade, input.MidtermGrade, input.AssignmentGrade, input.FinalGrade} {
		if !validGrade(g) {
			return nil, util.ErrGradeOutOfRange
		}
	}

	grade := &model.CourseGrade{
		CourseID:        courseID,
		UserID:          userID,
		QuizGrade:       input.QuizGrade,
		MidtermGrade:    input.MidtermGrade,
		AssignmentGrade: input.AssignmentGrade,
		FinalGrade:      input.FinalGrade,
	}
	if err := s.GradeRepo.Upsert(grade); err != nil {
		return nil, err
	}
	return view(grade), nil
}

func (s *GradeService) ForStudent(courseID, userID uint) (*GradeView, error) {
	grade, err := s.GradeRepo.Find(courseID, userID)
	if err == gorm.ErrRecordNotFound {
		// an empty sheet, not an error
		return view(&model.CourseGrade{CourseID: courseID, UserID: userID}), nil
	}
	if err != nil {
		return nil, err
	}
	return view(grade), nil
}

func (s *GradeService) ForCourse(courseID uint, claims *util.Claims) ([]GradeView, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		return nil, util.ErrCourseNotFound
	}
	if claims.Role != model.Admin && course.TutorID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}

	grades, err := s.GradeRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	views := make([]GradeView, len(grades))
	for i := range grades {
		views[i] = *view(&grades[i])
	}
	return views, nil
}

func (s *GradeService) ForUser(userID uint) ([]GradeView, error) {
	grades, err := s.GradeRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	views := make([]GradeView, len(grades))
	for i := range grades {
		views[i] = *view(&grades[i])
	}
	return views, nil
}

func view(grade *model.CourseGrade) *GradeView {
	composite := grading.Aggregate(grading.Components{
		Quiz:       grade.QuizGrade,
		Midterm:    grade.MidtermGrade,
		Assignment: grade.AssignmentGrade,
		Final:      grade.FinalGrade,
	})
	return &GradeView{
		CourseID:        grade.CourseID,
		UserID:          grade.UserID,
		QuizGrade:       grade.QuizGrade,
		MidtermGrade:    grade.MidtermGrade,
		AssignmentGrade: grade.AssignmentGrade,
		FinalGrade:      grade.FinalGrade,
		Composite:       composite,
	}
}
