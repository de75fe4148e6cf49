package grade

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"
)

// Status is the stored verdict on a Grade. EmCurso is the placeholder used
// when a grade sheet exists but the averaging rule has not run yet.
type Status string

const (
	StatusAprovado  Status = "Aprovado"
	StatusReprovado Status = "Reprovado"
	StatusEmCurso   Status = "Em Curso"
)

// PassingAverage is the minimum final average for approval.
const PassingAverage = 7.0

// Grade is one student's record for one subject. At most one Grade exists per
// (student, subject) pair; the ID is the natural key derived from both.
type Grade struct {
	ID           string       `json:"id"`
	StudentID    string       `json:"student_id"`
	SubjectID    string       `json:"subject_id"`
	N1           null.Float64 `json:"n1,omitempty"`
	N2           null.Float64 `json:"n2,omitempty"`
	Work         null.Float64 `json:"work,omitempty"`
	Recovery     null.Float64 `json:"recovery,omitempty"`
	FinalAverage float64      `json:"final_average"`
	Status       Status       `json:"status"`
	Published    bool         `json:"published"`
	UpdatedAt    time.Time    `json:"updated_at"` // UTC
}

// NaturalKey builds the Grade ID for a (student, subject) pair.
func NaturalKey(studentID, subjectID string) string {
	return studentID + "_" + subjectID
}

// ScoreUpdate carries the component scores being entered for one student.
// A null field leaves "absent" intact; scores outside [0,10] are accepted
// as-is, matching the legacy entry screens which never validated ranges.
type ScoreUpdate struct {
	N1       null.Float64 `json:"n1"`
	N2       null.Float64 `json:"n2"`
	Work     null.Float64 `json:"work"`
	Recovery null.Float64 `json:"recovery"`
}

func (su *ScoreUpdate) Validate(validate *validator.Validate) error {
	return validate.Struct(su)
}

type QueryFilter struct {
	StudentID     string `query:"student_id"`
	SubjectID     string `query:"subject_id"`
	PublishedOnly bool   `query:"-"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.SubjectID == "" && !qf.PublishedOnly
}

// Match reports whether g satisfies all set filter fields (AND semantics).
func (qf *QueryFilter) Match(g Grade) bool {
	if qf.StudentID != "" && g.StudentID != qf.StudentID {
		return false
	}
	if qf.SubjectID != "" && g.SubjectID != qf.SubjectID {
		return false
	}
	if qf.PublishedOnly && !g.Published {
		return false
	}
	return true
}
