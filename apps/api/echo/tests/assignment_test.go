package tests

import (
	"net/http"
	"testing"

	"github.com/tmbureta/academia/core/assignment"
)

func Test_assignmentApi_create(t *testing.T) {
	subj := createSubject(t, "Estatística", "EST-101")
	lecturer := createProfessor(t, "Aldo Pena", "aldopena", subj.ID)
	outsider := createProfessor(t, "Bia Rocha", "biarocha", "another-subject")
	student := createStudent(t, "Caio Lima", "caiolima")

	body := marchallObj(t, assignment.NewAssignment{
		Title:       "Lista 1",
		Description: "Exercícios de probabilidade.",
		SubjectID:   subj.ID,
		DueDate:     "2026-04-10",
		TotalPoints: 10,
	})

	t.Run("students cannot create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/assignments", getToken(t, student), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("only the lecturer may hand out work", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/assignments", getToken(t, outsider), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("lecturer creates", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/assignments", getToken(t, lecturer), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got assignment.Assignment
		decodeBody(t, rec, &got)
		if got.ProfessorID != lecturer.ID {
			t.Errorf("professor = %v; want %v", got.ProfessorID, lecturer.ID)
		}
		if got.TotalPoints != 10 {
			t.Errorf("total points = %v; want 10", got.TotalPoints)
		}
	})
}

func Test_assignmentApi_submissionLifecycle(t *testing.T) {
	subj := createSubject(t, "Física I", "FIS-101")
	lecturer := createProfessor(t, "Davi Melgo", "davimelgo", subj.ID)
	student := createStudent(t, "Enzo Reale", "enzoreale")

	req, rec := newAuthRequest(http.MethodPost, "/v1/assignments", getToken(t, lecturer), marchallObj(t, assignment.NewAssignment{
		Title:       "Relatório de Laboratório",
		Description: "Experimento de queda livre.",
		SubjectID:   subj.ID,
		DueDate:     "2026-04-20",
		TotalPoints: 10,
	}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var asg assignment.Assignment
	decodeBody(t, rec, &asg)

	submitBody := marchallObj(t, assignment.NewSubmission{Content: "Segue o relatório em anexo."})
	var sub assignment.Submission

	t.Run("professors cannot submit", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/"+asg.ID+"/submissions", getToken(t, lecturer), submitBody)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/nope/submissions", getToken(t, student), submitBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; want 404", rec.Code)
		}
	})

	t.Run("student submits once", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/"+asg.ID+"/submissions", getToken(t, student), submitBody)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		decodeBody(t, rec, &sub)
		if sub.Status != assignment.SubmissionSubmitted {
			t.Errorf("status = %v; want submitted", sub.Status)
		}
		if sub.Grade.Valid {
			t.Error("grade set before correction")
		}

		// a second attempt is rejected
		req, rec = newAuthRequest(http.MethodPost, "/v1/assignments/"+asg.ID+"/submissions", getToken(t, student), submitBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("resubmission code = %v; want 400", rec.Code)
		}
	})

	t.Run("professor grades and the student hears about it", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPut, "/v1/assignments/submissions/"+sub.ID+"/grade", getToken(t, lecturer), marchallObj(t, assignment.GradeSubmission{
			Grade:    8.5,
			Feedback: "Boa análise dos dados.",
		}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got assignment.Submission
		decodeBody(t, rec, &got)
		if got.Status != assignment.SubmissionGraded {
			t.Errorf("status = %v; want graded", got.Status)
		}
		if !got.Grade.Valid || got.Grade.Float64 != 8.5 {
			t.Errorf("grade = %v; want 8.5", got.Grade)
		}
		if got.Feedback != "Boa análise dos dados." {
			t.Errorf("feedback = %q", got.Feedback)
		}

		if _, ok := findNotification(t, student.ID, "Atividade Corrigida"); !ok {
			t.Error("student was not notified of the correction")
		}
	})

	t.Run("grading an unknown submission", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPut, "/v1/assignments/submissions/nope/grade", getToken(t, lecturer), marchallObj(t, assignment.GradeSubmission{Grade: 5}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; want 404", rec.Code)
		}
	})

	t.Run("student lists their submissions", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodGet, "/v1/assignments/submissions/mine", getToken(t, student))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var subs []assignment.Submission
		decodeBody(t, rec, &subs)
		if len(subs) != 1 || subs[0].ID != sub.ID {
			t.Errorf("submissions = %+v; want just %v", subs, sub.ID)
		}
	})

	t.Run("professor lists by assignment", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodGet, "/v1/assignments/"+asg.ID+"/submissions", getToken(t, lecturer))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var subs []assignment.Submission
		decodeBody(t, rec, &subs)
		if len(subs) != 1 {
			t.Errorf("submissions = %d; want 1", len(subs))
		}
	})
}

func Test_assignmentApi_destroy(t *testing.T) {
	subj := createSubject(t, "Química", "QUI-101")
	owner := createProfessor(t, "Tiago Tito", "tiagotito", subj.ID)
	rival := createProfessor(t, "Gema Viana", "gemaviana", subj.ID)

	create := func() assignment.Assignment {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/v1/assignments", getToken(t, owner), marchallObj(t, assignment.NewAssignment{
			Title:       "Titulação",
			Description: "Prática de ácido-base.",
			SubjectID:   subj.ID,
			DueDate:     "2026-05-01",
			TotalPoints: 5,
		}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var a assignment.Assignment
		decodeBody(t, rec, &a)
		return a
	}

	t.Run("another professor cannot delete it", func(t *testing.T) {
		a := create()
		req, rec := newAuthRequest(http.MethodDelete, "/v1/assignments/"+a.ID, getToken(t, rival))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("the owner can", func(t *testing.T) {
		a := create()
		req, rec := newAuthRequest(http.MethodDelete, "/v1/assignments/"+a.ID, getToken(t, owner))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/assignments/"+a.ID, getToken(t, owner))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; want 404 after delete", rec.Code)
		}
	})
}
