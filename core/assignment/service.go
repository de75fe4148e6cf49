package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tmbureta/academia/core"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadySubmitted   = errors.New("assignment already submitted")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id string) (Assignment, error)
		FilterAssignments(ctx context.Context, subjectID string) ([]Assignment, error)
		DeleteAssignmentsByID(ctx context.Context, ids ...string) error

		CreateSubmission(ctx context.Context, s Submission) (Submission, error)
		GetSubmissionByID(ctx context.Context, id string) (Submission, error)
		FilterSubmissions(ctx context.Context, assignmentID, studentID string) ([]Submission, error)
		UpdateSubmission(ctx context.Context, s Submission) (Submission, error)
	}

	Service interface {
		Create(ctx context.Context, professorID string, na NewAssignment) (Assignment, error)
		GetByID(ctx context.Context, id string) (Assignment, error)
		Query(ctx context.Context, subjectID string) ([]Assignment, error)
		Delete(ctx context.Context, ids ...string) error

		// Submit records a student's answer; one submission per
		// (assignment, student).
		Submit(ctx context.Context, studentID string, ns NewSubmission) (Submission, error)
		Grade(ctx context.Context, submissionID string, gs GradeSubmission) (Submission, error)
		QuerySubmissions(ctx context.Context, assignmentID, studentID string) ([]Submission, error)
	}

	service struct {
		repo     Repository
		notifier core.Notifier
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, notifier core.Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (svc *service) Create(ctx context.Context, professorID string, na NewAssignment) (Assignment, error) {
	return svc.repo.CreateAssignment(ctx, Assignment{
		ID:          uuid.New().String(),
		Title:       na.Title,
		Description: na.Description,
		SubjectID:   na.SubjectID,
		ProfessorID: professorID,
		DueDate:     na.DueDate,
		TotalPoints: na.TotalPoints,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignmentByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, subjectID string) ([]Assignment, error) {
	return svc.repo.FilterAssignments(ctx, subjectID)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAssignmentsByID(ctx, ids...)
}

func (svc *service) Submit(ctx context.Context, studentID string, ns NewSubmission) (Submission, error) {
	if _, err := svc.repo.GetAssignmentByID(ctx, ns.AssignmentID); err != nil {
		return Submission{}, err
	}

	existing, err := svc.repo.FilterSubmissions(ctx, ns.AssignmentID, studentID)
	if err != nil {
		return Submission{}, err
	}
	if len(existing) > 0 {
		return Submission{}, core.NewValidationError(ErrAlreadySubmitted)
	}

	return svc.repo.CreateSubmission(ctx, Submission{
		ID:           uuid.New().String(),
		AssignmentID: ns.AssignmentID,
		StudentID:    studentID,
		Content:      ns.Content,
		FileURL:      ns.FileURL,
		SubmittedAt:  time.Now().UTC(),
		Status:       SubmissionSubmitted,
	})
}

func (svc *service) Grade(ctx context.Context, submissionID string, gs GradeSubmission) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return Submission{}, err
	}

	sub.Grade = null.Float64From(gs.Grade)
	sub.Feedback = gs.Feedback
	sub.Status = SubmissionGraded

	sub, err = svc.repo.UpdateSubmission(ctx, sub)
	if err != nil {
		return Submission{}, err
	}

	if svc.notifier != nil {
		_ = svc.notifier.Notify(
			ctx, sub.StudentID,
			"Atividade Corrigida",
			"Sua atividade foi corrigida e a nota está disponível.",
			"/student/assignments",
		)
	}
	return sub, nil
}

func (svc *service) QuerySubmissions(ctx context.Context, assignmentID, studentID string) ([]Submission, error) {
	return svc.repo.FilterSubmissions(ctx, assignmentID, studentID)
}
