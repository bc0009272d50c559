package repository

import (
	"edu_manage_backend/internal/model"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) Find(courseID, userID uint) (*model.CourseGrade, error) {
	var grade model.CourseGrade
	err := r.DB.
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&grade).Error
	return &grade, err
}

func (r *GradeRepository) FindByCourse(courseID uint) ([]model.CourseGrade, error) {
	var grades []model.CourseGrade
	err := r.DB.Where("course_id = ?", courseID).Order("user_id ASC").Find(&grades).Error
	return grades, err
}

func (r *GradeRepository) FindByUser(userID uint) ([]model.CourseGrade, error) {
	var grades []model.CourseGrade
	err := r.DB.Where("user_id = ?", userID).Order("course_id ASC").Find(&grades).Error
	return grades, err
}

// Upsert creates the grade row on first write and merges non-nil
// components into it afterwards. A nil component in the update means
// "leave as is", never "clear".
func (r *GradeRepository) Upsert(grade *model.CourseGrade) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.CourseGrade
		err := tx.Where("course_id = ? AND user_id = ?", grade.CourseID, grade.UserID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(grade).Error
		}
		if err != nil {
			return err
		}

		if grade.QuizGrade != nil {
			existing.QuizGrade = grade.QuizGrade
		}
		if grade.MidtermGrade != nil {
			existing.MidtermGrade = grade.MidtermGrade
		}
		if grade.AssignmentGrade != nil {
			existing.AssignmentGrade = grade.AssignmentGrade
		}
		if grade.FinalGrade != nil {
			existing.FinalGrade = grade.FinalGrade
		}
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*grade = existing
		return nil
	})
}
