package repository

import (
	"edu_manage_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) FindByCode(code string) (*model.Course, error) {
	var course model.Course
	err := r.DB.Where("code = ?", code).First(&course).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

func (r *CourseRepository) List(offset, limit int) ([]model.Course, int64, error) {
	var courses []model.Course
	var total int64

	if err := r.DB.Model(&model.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) FindByTutor(tutorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("tutor_id = ?", tutorID).Order("id ASC").Find(&courses).Error
	return courses, err
}

// Enroll is idempotent: enrolling an already enrolled student leaves
// the existing row untouched.
func (r *CourseRepository) Enroll(courseID, userID uint) error {
	var existing model.Enrollment
	err := r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.DB.Create(&model.Enrollment{CourseID: courseID, UserID: userID}).Error
}

func (r *CourseRepository) Unenroll(courseID, userID uint) error {
	return r.DB.Where("course_id = ? AND user_id = ?", courseID, userID).
		Delete(&model.Enrollment{}).Error
}

func (r *CourseRepository) IsEnrolled(courseID, userID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) FindEnrolledCourses(userID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id AND enrollments.deleted_at IS NULL").
		Where("enrollments.user_id = ?", userID).
		Order("courses.id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindEnrolledStudents(courseID uint) ([]model.User, error) {
	var users []model.User
	err := r.DB.
		Joins("JOIN enrollments ON enrollments.user_id = users.id AND enrollments.deleted_at IS NULL").
		Where("enrollments.course_id = ?", courseID).
		Order("users.id ASC").
		Find(&users).Error
	return users, err
}
