package model

// CourseGrade carries the per-category grades of one student in one
// course. Components are nullable until a tutor records them; each is
// on a 0-10 scale. The composite is never stored, it is derived on
// read.
type CourseGrade struct {
	BaseModel
	CourseID        uint     `gorm:"index:idx_grade_course_user,unique" json:"courseId"`
	UserID          uint     `gorm:"index:idx_grade_course_user,unique" json:"userId"`
	QuizGrade       *float64 `json:"quizGrade"`
	MidtermGrade    *float64 `json:"midtermGrade"`
	AssignmentGrade *float64 `json:"assignmentGrade"`
	FinalGrade      *float64 `json:"finalGrade"`
}

func (CourseGrade) TableName() string {
	return "course_grades"
}
