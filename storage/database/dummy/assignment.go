package dummydb

import (
	"context"
	"sort"

	"github.com/tmbureta/academia/core/assignment"
)

type assignmentRepository struct {
	assignments *table
	submissions *table
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *DB) assignment.Repository {
	return &assignmentRepository{assignments: db.assignment, submissions: db.submission}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	repo.assignments.Lock()
	defer repo.assignments.Unlock()

	repo.assignments.docs[a.ID] = &a
	return a, nil
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id string) (assignment.Assignment, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()

	if doc, ok := repo.assignments.docs[id]; ok {
		return *(doc.(*assignment.Assignment)), nil
	}
	return assignment.Assignment{}, assignment.ErrNotFound
}

func (repo *assignmentRepository) FilterAssignments(ctx context.Context, subjectID string) ([]assignment.Assignment, error) {
	repo.assignments.RLock()
	defer repo.assignments.RUnlock()

	var assignments []assignment.Assignment
	for _, a := range repo.assignments.assignments() {
		if subjectID == "" || a.SubjectID == subjectID {
			assignments = append(assignments, a)
		}
	}
	sort.Slice(assignments, func(i, j int) bool { return assignments[i].ID < assignments[j].ID })
	return assignments, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ctx context.Context, ids ...string) error {
	repo.assignments.Lock()
	defer repo.assignments.Unlock()

	for _, id := range ids {
		delete(repo.assignments.docs, id)
	}
	return nil
}

func (repo *assignmentRepository) CreateSubmission(ctx context.Context, s assignment.Submission) (assignment.Submission, error) {
	repo.submissions.Lock()
	defer repo.submissions.Unlock()

	repo.submissions.docs[s.ID] = &s
	return s, nil
}

func (repo *assignmentRepository) GetSubmissionByID(ctx context.Context, id string) (assignment.Submission, error) {
	repo.submissions.RLock()
	defer repo.submissions.RUnlock()

	if doc, ok := repo.submissions.docs[id]; ok {
		return *(doc.(*assignment.Submission)), nil
	}
	return assignment.Submission{}, assignment.ErrSubmissionNotFound
}

func (repo *assignmentRepository) FilterSubmissions(ctx context.Context, assignmentID, studentID string) ([]assignment.Submission, error) {
	repo.submissions.RLock()
	defer repo.submissions.RUnlock()

	var subs []assignment.Submission
	for _, s := range repo.submissions.submissions() {
		if assignmentID != "" && s.AssignmentID != assignmentID {
			continue
		}
		if studentID != "" && s.StudentID != studentID {
			continue
		}
		subs = append(subs, s)
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].ID < subs[j].ID })
	return subs, nil
}

func (repo *assignmentRepository) UpdateSubmission(ctx context.Context, s assignment.Submission) (assignment.Submission, error) {
	repo.submissions.Lock()
	defer repo.submissions.Unlock()

	if _, ok := repo.submissions.docs[s.ID]; !ok {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	repo.submissions.docs[s.ID] = &s
	return s, nil
}
