package model

// Course groups the quizzes, assignments and grades of one class.
type Course struct {
	BaseModel
	Code        string `gorm:"size:20;uniqueIndex;not null" json:"code"`
	Name        string `gorm:"size:200;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	Semester    string `gorm:"size:20" json:"semester"`
	TutorID     uint   `gorm:"index" json:"tutorId"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment links a student to a course.
type Enrollment struct {
	BaseModel
	CourseID uint `gorm:"index:idx_enrollment_course_user,unique" json:"courseId"`
	UserID   uint `gorm:"index:idx_enrollment_course_user,unique" json:"userId"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
