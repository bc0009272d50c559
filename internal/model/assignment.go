package model

import "time"

// Assignment is a file-submission task with a hard deadline.
type Assignment struct {
	BaseModel
	CourseID       uint      `gorm:"index" json:"courseId"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	Instructions   string    `gorm:"type:text" json:"instructions"`
	Deadline       time.Time `gorm:"not null" json:"deadline"`
	MaxScore       float64   `gorm:"default:10" json:"maxScore"`
	AcceptedFormat string    `gorm:"size:100" json:"acceptedFormat"`
	AttachmentKey  string    `gorm:"size:255" json:"attachmentKey"`
	AttachmentName string    `gorm:"size:255" json:"attachmentName"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// AssignmentSubmission is the single current submission of a student
// for an assignment. Resubmission overwrites the row, it never appends
// a second one.
type AssignmentSubmission struct {
	BaseModel
	AssignmentID uint      `gorm:"index:idx_submission_assignment_user,unique" json:"assignmentId"`
	UserID       uint      `gorm:"index:idx_submission_assignment_user,unique" json:"userId"`
	FileKey      string    `gorm:"size:255;not null" json:"fileKey"`
	FileName     string    `gorm:"size:255;not null" json:"fileName"`
	Late         bool      `gorm:"default:false" json:"late"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

func (AssignmentSubmission) TableName() string {
	return "assignment_submissions"
}
