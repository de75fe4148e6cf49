package tests

import (
	"net/http"
	"testing"

	"github.com/tmbureta/academia/core/agenda"
	"github.com/tmbureta/academia/core/user"
)

func Test_agendaApi_create(t *testing.T) {
	professor := createProfessor(t, "Ulisses Fontes", "ulissesfontes")
	student := createStudent(t, "Vania Prata", "vaniaprata")

	t.Run("students cannot schedule", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/agenda/events", getToken(t, student), marchallObj(t, agenda.NewEvent{
			Title: "Prova Final", Date: "2026-06-20", Type: agenda.TypeProva,
		}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("defaults to the whole institution", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/agenda/events", getToken(t, professor), marchallObj(t, agenda.NewEvent{
			Title: "Semana Acadêmica", Date: "2026-06-01", Type: agenda.TypeEvento,
		}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got agenda.Event
		decodeBody(t, rec, &got)
		if got.TargetType != agenda.TargetGlobal {
			t.Errorf("target type = %v; want GLOBAL", got.TargetType)
		}
	})

	t.Run("targeted events need a target id", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/agenda/events", getToken(t, professor), marchallObj(t, agenda.NewEvent{
			Title: "Prova N1", Date: "2026-06-10", Type: agenda.TypeProva, TargetType: agenda.TargetClass,
		}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want 400", rec.Code)
		}
	})

	t.Run("unknown type is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/agenda/events", getToken(t, professor), marchallObj(t, agenda.NewEvent{
			Title: "Churrasco", Date: "2026-06-12", Type: "Confraternização",
		}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want 400", rec.Code)
		}
	})
}

func Test_agendaApi_query(t *testing.T) {
	admin := createUser(t, "Wanda Teles", "wandateles", "wandateles@academia.test", []string{user.RoleAdmin}, true)
	classmate := assignClass(t, createStudent(t, "Xavier Dutra", "xavierdutra"), "course-ag-1", "class-ag-1")
	outsider := assignClass(t, createStudent(t, "Yara Franca", "yarafranca"), "course-ag-1", "class-ag-2")

	post := func(ne agenda.NewEvent) agenda.Event {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/v1/agenda/events", getToken(t, admin), marchallObj(t, ne))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var e agenda.Event
		decodeBody(t, rec, &e)
		return e
	}

	holiday := post(agenda.NewEvent{Title: "Feriado Municipal", Date: "2026-07-09", Type: agenda.TypeFeriado})
	classExam := post(agenda.NewEvent{
		Title: "Prova de Recuperação", Date: "2026-07-01", Type: agenda.TypeProva,
		TargetType: agenda.TargetClass, TargetID: "class-ag-1",
	})

	fetch := func(usr user.User) []agenda.Event {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/agenda/events", getToken(t, usr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var events []agenda.Event
		decodeBody(t, rec, &events)
		return events
	}

	indexOf := func(events []agenda.Event, id string) int {
		for i, e := range events {
			if e.ID == id {
				return i
			}
		}
		return -1
	}

	t.Run("class member sees both, in date order", func(t *testing.T) {
		events := fetch(classmate)
		hi, ci := indexOf(events, holiday.ID), indexOf(events, classExam.ID)
		if hi < 0 || ci < 0 {
			t.Fatalf("events missing from the calendar: holiday %d, exam %d", hi, ci)
		}
		if ci > hi { // 2026-07-01 comes before 2026-07-09
			t.Errorf("calendar out of order: exam at %d, holiday at %d", ci, hi)
		}
	})

	t.Run("other classes do not see the exam", func(t *testing.T) {
		events := fetch(outsider)
		if indexOf(events, classExam.ID) >= 0 {
			t.Error("class event leaked outside the class")
		}
		if indexOf(events, holiday.ID) < 0 {
			t.Error("global event missing")
		}
	})

	t.Run("admins see everything", func(t *testing.T) {
		events := fetch(admin)
		if indexOf(events, classExam.ID) < 0 || indexOf(events, holiday.ID) < 0 {
			t.Error("admin calendar incomplete")
		}
	})
}

func Test_agendaApi_destroy(t *testing.T) {
	admin := createUser(t, "Zilda Matos", "zildamatos", "zildamatos@academia.test", []string{user.RoleAdmin}, true)
	professor := createProfessor(t, "Abel Cunha", "abelcunha")

	req, rec := newAuthRequest(http.MethodPost, "/v1/agenda/events", getToken(t, professor), marchallObj(t, agenda.NewEvent{
		Title: "Aula Inaugural", Date: "2026-08-03", Type: agenda.TypeAula,
	}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var e agenda.Event
	decodeBody(t, rec, &e)

	t.Run("professors cannot remove entries", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodDelete, "/v1/agenda/events/"+e.ID, getToken(t, professor))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("admins can", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodDelete, "/v1/agenda/events/"+e.ID, getToken(t, admin))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/agenda/events", getToken(t, admin))
		app.ServeHTTP(rec, req)
		var all []agenda.Event
		decodeBody(t, rec, &all)
		for _, ev := range all {
			if ev.ID == e.ID {
				t.Error("event still on the calendar after delete")
			}
		}
	})
}
