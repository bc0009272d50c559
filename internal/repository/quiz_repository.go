package repository

import (
	"edu_manage_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(quiz).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].QuizID = quiz.ID
			questions[i].Order = i
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) FindByCourse(courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("course_id = ?", courseID).Order("id ASC").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

// ReplaceQuestions swaps the question set of a quiz in one transaction.
// Edits replace wholesale so question order stays authoritative.
func (r *QuizRepository) ReplaceQuestions(quizID uint, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].ID = 0
			questions[i].QuizID = quizID
			questions[i].Order = i
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *QuizRepository) FindQuestions(quizID uint) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).Order("question_order ASC").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Quiz{}, id).Error
	})
}

func (r *QuizRepository) SetPublished(id uint, published bool) error {
	return r.DB.Model(&model.Quiz{}).
		Where("id = ?", id).
		Update("is_published", published).
		Error
}

// SaveResult records a submitted attempt. The unique index on
// (quiz, user, course) makes a duplicate submit fail instead of
// silently replacing the first score.
func (r *QuizRepository) SaveResult(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

func (r *QuizRepository) FindResult(quizID, userID, courseID uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.
		Where("quiz_id = ? AND user_id = ? AND course_id = ?", quizID, userID, courseID).
		First(&result).Error
	return &result, err
}

func (r *QuizRepository) FindResultsByQuiz(quizID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("quiz_id = ?", quizID).Order("submitted_at ASC").Find(&results).Error
	return results, err
}

func (r *QuizRepository) FindResultsByUser(userID, courseID uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("submitted_at ASC").
		Find(&results).Error
	return results, err
}
