package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core/assignment"
)

type assignmentRepository struct {
	assignments docTable
	submissions docTable
}

var _ assignment.Repository = (*assignmentRepository)(nil)

func NewAssignmentRepository(db *sql.DB) assignment.Repository {
	return &assignmentRepository{
		assignments: newDocTable(db, "assignments"),
		submissions: newDocTable(db, "submissions"),
	}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	if err := repo.assignments.insert(ctx, a.ID, a); err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	var a assignment.Assignment
	if err := repo.assignments.get(ctx, id, &a); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return a, nil
}

func (repo *assignmentRepository) FilterAssignments(ctx context.Context, subjectID string) ([]assignment.Assignment, error) {
	docs, err := repo.assignments.list(ctx, "subject_id", subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}

	assignments := make([]assignment.Assignment, 0, len(docs))
	for _, raw := range docs {
		var a assignment.Assignment
		if err = json.Unmarshal(raw, &a); err != nil {
			return nil, errors.Wrap(err, "unmarshaling assignment document")
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.assignments.delete(ctx, ids...), "deleting assignments")
}

func (repo *assignmentRepository) CreateSubmission(ctx context.Context, s assignment.Submission) (assignment.Submission, error) {
	if err := repo.submissions.insert(ctx, s.ID, s); err != nil {
		return assignment.Submission{}, errors.Wrap(err, "creating submission")
	}
	return s, nil
}

func (repo *assignmentRepository) GetSubmissionByID(ctx context.Context, id string) (assignment.Submission, error) {
	var s assignment.Submission
	if err := repo.submissions.get(ctx, id, &s); err != nil {
		if err == sql.ErrNoRows {
			return assignment.Submission{}, assignment.ErrSubmissionNotFound
		}
		return assignment.Submission{}, errors.Wrap(err, "getting submission")
	}
	return s, nil
}

func (repo *assignmentRepository) FilterSubmissions(ctx context.Context, assignmentID, studentID string) ([]assignment.Submission, error) {
	field, value := "assignment_id", assignmentID
	if assignmentID == "" {
		field, value = "student_id", studentID
	}

	docs, err := repo.submissions.list(ctx, field, value)
	if err != nil {
		return nil, errors.Wrap(err, "querying submissions")
	}

	subs := make([]assignment.Submission, 0, len(docs))
	for _, raw := range docs {
		var s assignment.Submission
		if err = json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(err, "unmarshaling submission document")
		}
		if assignmentID != "" && s.AssignmentID != assignmentID {
			continue
		}
		if studentID != "" && s.StudentID != studentID {
			continue
		}
		subs = append(subs, s)
	}
	return subs, nil
}

func (repo *assignmentRepository) UpdateSubmission(ctx context.Context, s assignment.Submission) (assignment.Submission, error) {
	if err := repo.submissions.upsert(ctx, s.ID, s); err != nil {
		return assignment.Submission{}, errors.Wrap(err, "updating submission")
	}
	return s, nil
}
