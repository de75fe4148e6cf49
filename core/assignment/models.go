package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/tmbureta/academia/core"
)

// SubmissionStatus tracks the lifecycle of a student's answer.
type SubmissionStatus string

const (
	SubmissionPending   SubmissionStatus = "pending"
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionGraded    SubmissionStatus = "graded"
)

// Assignment is a task a professor hands out for a subject.
type Assignment struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SubjectID   string    `json:"subject_id"`
	ProfessorID string    `json:"professor_id"`
	DueDate     string    `json:"due_date"` // YYYY-MM-DD
	TotalPoints float64   `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// Submission is one student's answer to an assignment.
type Submission struct {
	ID           string           `json:"id"`
	AssignmentID string           `json:"assignment_id"`
	StudentID    string           `json:"student_id"`
	Content      string           `json:"content"`
	FileURL      string           `json:"file_url,omitempty"`
	SubmittedAt  time.Time        `json:"submitted_at"` // UTC
	Status       SubmissionStatus `json:"status"`
	Grade        null.Float64     `json:"grade,omitempty"`
	Feedback     string           `json:"feedback,omitempty"`
}

type NewAssignment struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	SubjectID   string  `json:"subject_id" validate:"required"`
	DueDate     string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	TotalPoints float64 `json:"total_points" validate:"required,gt=0"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	return validate.Struct(na)
}

type NewSubmission struct {
	AssignmentID string `json:"assignment_id" validate:"required"`
	Content      string `json:"content" validate:"required"`
	FileURL      string `json:"file_url" validate:"omitempty,url"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

// GradeSubmission carries a professor's assessment of a submission.
type GradeSubmission struct {
	Grade    float64 `json:"grade" validate:"gte=0"`
	Feedback string  `json:"feedback"`
}

func (gs *GradeSubmission) Validate(validate *validator.Validate) error {
	return validate.Struct(gs)
}
