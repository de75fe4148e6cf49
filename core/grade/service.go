package grade

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/subject"
	"github.com/tmbureta/academia/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("grade not found")
)

type (
	Repository interface {
		// UpsertGrade writes the whole grade document keyed by its natural key.
		UpsertGrade(ctx context.Context, g Grade) (Grade, error)
		GetGradeByID(ctx context.Context, id string) (Grade, error)
		// FilterGrades applies AND operation on available QueryFilter fields.
		FilterGrades(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Grade, error)
	}

	Service interface {
		// Record enters scores for a (student, subject) pair, creating the
		// grade sheet on first entry and recomputing the average either way.
		Record(ctx context.Context, studentID, subjectID string, su ScoreUpdate) (Grade, error)
		GetByID(ctx context.Context, id string) (Grade, error)
		Query(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Grade, error)
		SetPublished(ctx context.Context, id string, published bool) (Grade, error)
	}

	service struct {
		repo     Repository
		usrSvc   user.Service
		subjSvc  subject.Service
		mailSvc  core.EmailService
		notifier core.Notifier
		conf     *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	usrSvc user.Service,
	subjSvc subject.Service,
	mailSvc core.EmailService,
	notifier core.Notifier,
	conf *core.Config,
) Service {
	return &service{
		repo:     repo,
		usrSvc:   usrSvc,
		subjSvc:  subjSvc,
		mailSvc:  mailSvc,
		notifier: notifier,
		conf:     conf,
	}
}

func (svc *service) Record(ctx context.Context, studentID, subjectID string, su ScoreUpdate) (Grade, error) {
	id := NaturalKey(studentID, subjectID)

	g, err := svc.repo.GetGradeByID(ctx, id)
	if err != nil {
		if errors.Cause(err) != ErrNotFound {
			return Grade{}, err
		}
		// first entry for this pair
		g = Grade{
			ID:        id,
			StudentID: studentID,
			SubjectID: subjectID,
			Status:    StatusEmCurso,
			Published: true,
		}
	}

	if su.N1.Valid {
		g.N1 = su.N1
	}
	if su.N2.Valid {
		g.N2 = su.N2
	}
	if su.Work.Valid {
		g.Work = su.Work
	}
	if su.Recovery.Valid {
		g.Recovery = su.Recovery
	}

	g.Recompute()
	g.UpdatedAt = time.Now().UTC()

	return svc.repo.UpsertGrade(ctx, g)
}

func (svc *service) GetByID(ctx context.Context, id string) (Grade, error) {
	return svc.repo.GetGradeByID(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]Grade, error) {
	return svc.repo.FilterGrades(ctx, filter, orderings...)
}

func (svc *service) SetPublished(ctx context.Context, id string, published bool) (Grade, error) {
	g, err := svc.repo.GetGradeByID(ctx, id)
	if err != nil {
		return Grade{}, err
	}

	wasPublished := g.Published
	g.Published = published
	g.UpdatedAt = time.Now().UTC()

	g, err = svc.repo.UpsertGrade(ctx, g)
	if err != nil {
		return Grade{}, err
	}

	if published && !wasPublished {
		svc.notifyPublished(ctx, g)
	}
	return g, nil
}

func (svc *service) notifyPublished(ctx context.Context, g Grade) {
	if svc.notifier != nil {
		_ = svc.notifier.Notify(
			ctx, g.StudentID,
			"Notas Publicadas",
			"Novas notas disponíveis no boletim.",
			"/student",
		)
	}
	if svc.mailSvc == nil || svc.usrSvc == nil {
		return
	}
	student, err := svc.usrSvc.GetByID(ctx, g.StudentID)
	if err != nil || student.Email == "" {
		return
	}
	subjectName := g.SubjectID
	if svc.subjSvc != nil {
		if subj, err := svc.subjSvc.GetByID(ctx, g.SubjectID); err == nil {
			subjectName = subj.Name
		}
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:      "Notas publicadas",
		TemplateName: "grade_published",
		TemplateData: struct {
			StudentName  string
			SubjectName  string
			FinalAverage float64
			Status       Status
		}{student.Name, subjectName, g.FinalAverage, g.Status},
	})
}
