package service

import (
	"edu_manage_backend/internal/model"
	"edu_manage_backend/internal/repository"
	"edu_manage_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	UserRepo   *repository.UserRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, userRepo *repository.UserRepository) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		UserRepo:   userRepo,
	}
}

type CourseInput struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Semester    string `json:"semester"`
}

func (s *CourseService) Create(tutorID uint, input CourseInput) (*model.Course, error) {
	course := &model.Course{
		Code:        input.Code,
		Name:        input.Name,
		Description: input.Description,
		Semester:    input.Semester,
		TutorID:     tutorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetByID(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err == gorm.ErrRecordNotFound {
		return nil, util.ErrCourseNotFound
	}
	return course, err
}

func (s *CourseService) List(page, pageSize int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.CourseRepo.List((page-1)*pageSize, pageSize)
}

func (s *CourseService) Update(id uint, claims *util.Claims, input CourseInput) (*model.Course, error) {
	course, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(course, claims); err != nil {
		return nil, err
	}

	course.Code = input.Code
	course.Name = input.Name
	course.Description = input.Description
	course.Semester = input.Semester
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(id uint, claims *util.Claims) error {
	course, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.requireOwnership(course, claims); err != nil {
		return err
	}
	return s.CourseRepo.Delete(id)
}

func (s *CourseService) Enroll(courseID, userID uint) error {
	if _, err := s.GetByID(courseID); err != nil {
		return err
	}
	return s.CourseRepo.Enroll(courseID, userID)
}

func (s *CourseService) Unenroll(courseID, userID uint) error {
	return s.CourseRepo.Unenroll(courseID, userID)
}

func (s *CourseService) CoursesForStudent(userID uint) ([]model.Course, error) {
	return s.CourseRepo.FindEnrolledCourses(userID)
}

func (s *CourseService) CoursesForTutor(tutorID uint) ([]model.Course, error) {
	return s.CourseRepo.FindByTutor(tutorID)
}

func (s *CourseService) Students(courseID uint) ([]model.User, error) {
	if _, err := s.GetByID(courseID); err != nil {
		return nil, err
	}
	return s.CourseRepo.FindEnrolledStudents(courseID)
}

// requireOwnership lets the owning tutor and admins through.
func (s *CourseService) requireOwnership(course *model.Course, claims *util.Claims) error {
	if claims.Role == model.Admin {
		return nil
	}
	if course.TutorID != claims.UserID {
		return util.ErrPermissionDenied
	}
	return nil
}
