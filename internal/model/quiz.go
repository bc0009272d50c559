package model

import "time"

// Quiz is a timed multiple-choice test attached to a course. TimeLimit
// keeps the source format ("HH:mm:ss" or "mm:ss"); an empty or zero
// value means the quiz is untimed.
type Quiz struct {
	BaseModel
	CourseID    uint    `gorm:"index" json:"courseId"`
	Title       string  `gorm:"size:200;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	TimeLimit   string  `gorm:"size:10" json:"timeLimit"`
	PassScore   float64 `gorm:"default:5" json:"passScore"`
	IsPublished bool    `gorm:"default:false" json:"isPublished"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion is a single-choice question. Options keeps its authored
// order; CorrectIndex must address a valid option.
type QuizQuestion struct {
	BaseModel
	QuizID       uint     `gorm:"index" json:"quizId"`
	Text         string   `gorm:"type:text;not null" json:"text"`
	Options      []string `gorm:"serializer:json;type:json" json:"options"`
	CorrectIndex int      `gorm:"not null" json:"correctIndex"`
	Order        int      `gorm:"column:question_order;default:0" json:"order"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// QuizResult stores one user's submitted attempt. Score keeps full
// precision; display rounding is a client concern. At most one result
// exists per (quiz, user, course).
type QuizResult struct {
	BaseModel
	QuizID       uint        `gorm:"index:idx_result_quiz_user_course,unique" json:"quizId"`
	UserID       uint        `gorm:"index:idx_result_quiz_user_course,unique" json:"userId"`
	CourseID     uint        `gorm:"index:idx_result_quiz_user_course,unique" json:"courseId"`
	Score        float64     `gorm:"not null" json:"score"`
	CorrectCount int         `gorm:"not null" json:"correctCount"`
	TotalCount   int         `gorm:"not null" json:"totalCount"`
	Answers      map[int]int `gorm:"serializer:json;type:json" json:"answers"`
	Trigger      string      `gorm:"size:10" json:"trigger"`
	SubmittedAt  time.Time   `json:"submittedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
