package repository

import (
	"edu_manage_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(assignment *model.Assignment) error {
	return r.DB.Create(assignment).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.DB.First(&assignment, id).Error
	return &assignment, err
}

func (r *AssignmentRepository) FindByCourse(courseID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.Where("course_id = ?", courseID).Order("deadline ASC").Find(&assignments).Error
	return assignments, err
}

func (r *AssignmentRepository) Update(assignment *model.Assignment) error {
	return r.DB.Save(assignment).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("assignment_id = ?", id).Delete(&model.AssignmentSubmission{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Assignment{}, id).Error
	})
}

// SaveSubmission upserts the student's submission. A resubmission
// overwrites the previous file reference in place; there is never more
// than one row per (assignment, user).
func (r *AssignmentRepository) SaveSubmission(sub *model.AssignmentSubmission) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.AssignmentSubmission
		err := tx.Where("assignment_id = ? AND user_id = ?", sub.AssignmentID, sub.UserID).
			First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			return tx.Create(sub).Error
		}
		if err != nil {
			return err
		}

		existing.FileKey = sub.FileKey
		existing.FileName = sub.FileName
		existing.Late = sub.Late
		existing.SubmittedAt = sub.SubmittedAt
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*sub = existing
		return nil
	})
}

func (r *AssignmentRepository) FindSubmission(assignmentID, userID uint) (*model.AssignmentSubmission, error) {
	var sub model.AssignmentSubmission
	err := r.DB.
		Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		First(&sub).Error
	return &sub, err
}

func (r *AssignmentRepository) FindSubmissionsByAssignment(assignmentID uint) ([]model.AssignmentSubmission, error) {
	var subs []model.AssignmentSubmission
	err := r.DB.Where("assignment_id = ?", assignmentID).Order("submitted_at ASC").Find(&subs).Error
	return subs, err
}
