package tests

import (
	"net/http"
	"testing"

	"github.com/tmbureta/academia/core/support"
	"github.com/tmbureta/academia/core/user"
)

func Test_supportApi_open(t *testing.T) {
	admin := createUser(t, "Nadia Cruz", "nadiacruz", "nadiacruz@academia.test", []string{user.RoleAdmin}, true)
	student := createStudent(t, "Otto Senna", "ottosenna")

	body := marchallObj(t, support.NewTicket{
		Sector:      support.SectorFinanceiro,
		Subject:     "Boleto duplicado",
		Description: "Recebi duas cobranças da mesma mensalidade.",
	})

	t.Run("requires a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/support/tickets", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("unknown sector is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/support/tickets", getToken(t, student), marchallObj(t, support.NewTicket{
			Sector:      "Zeladoria",
			Subject:     "Lâmpada queimada",
			Description: "Sala 12.",
		}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"sector": "invalid sector"}),
		}, rec)
	})

	t.Run("student opens a ticket", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/support/tickets", getToken(t, student), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var tkt support.Ticket
		decodeBody(t, rec, &tkt)
		if tkt.Status != support.StatusAberto {
			t.Errorf("status = %v; want Aberto", tkt.Status)
		}
		if tkt.StudentID != student.ID {
			t.Errorf("owner = %v; want %v", tkt.StudentID, student.ID)
		}
		if len(tkt.History) != 1 {
			t.Fatalf("history = %d entries; want 1", len(tkt.History))
		}
		if entry := tkt.History[0]; entry.Action != "Ticket Criado" || entry.AuthorName != student.Name {
			t.Errorf("history entry = %+v", entry)
		}

		notif, ok := findNotification(t, admin.ID, "Novo Chamado")
		if !ok {
			t.Fatal("admin was not notified")
		}
		if want := student.Name + " abriu um chamado: Boleto duplicado"; notif.Message != want {
			t.Errorf("message = %q; want %q", notif.Message, want)
		}
		if notif.Link != "/admin/support" {
			t.Errorf("link = %q", notif.Link)
		}
	})
}

func Test_supportApi_query(t *testing.T) {
	secretary := createUser(t, "Paula Rios", "paularios", "paularios@academia.test", []string{user.RoleSecretary}, true)
	student := createStudent(t, "Quirino Sol", "quirinosol")
	other := createStudent(t, "Rosa Neves", "rosaneves")

	open := func(usr user.User, subject string) support.Ticket {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/v1/support/tickets", getToken(t, usr), marchallObj(t, support.NewTicket{
			Sector:      support.SectorSecretaria,
			Subject:     subject,
			Description: "Detalhes no balcão.",
		}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var tkt support.Ticket
		decodeBody(t, rec, &tkt)
		return tkt
	}

	mine := open(student, "Histórico escolar")
	theirs := open(other, "Troca de turma")

	list := func(usr user.User) map[string]bool {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/support/tickets", getToken(t, usr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var tickets []support.Ticket
		decodeBody(t, rec, &tickets)
		ids := make(map[string]bool, len(tickets))
		for _, tkt := range tickets {
			ids[tkt.ID] = true
		}
		return ids
	}

	t.Run("students see only their own", func(t *testing.T) {
		ids := list(student)
		if !ids[mine.ID] {
			t.Error("own ticket missing")
		}
		if ids[theirs.ID] {
			t.Error("another student's ticket leaked")
		}
	})

	t.Run("staff sees all of them", func(t *testing.T) {
		ids := list(secretary)
		if !ids[mine.ID] || !ids[theirs.ID] {
			t.Errorf("staff listing incomplete: %v", ids)
		}
	})
}

func Test_supportApi_setStatus(t *testing.T) {
	admin := createUser(t, "Savio Luz", "savioluz", "savioluz@academia.test", []string{user.RoleAdmin}, true)
	student := createStudent(t, "Tania Maia", "taniamaia")

	req, rec := newAuthRequest(http.MethodPost, "/v1/support/tickets", getToken(t, student), marchallObj(t, support.NewTicket{
		Sector:      support.SectorTI,
		Subject:     "Acesso ao portal",
		Description: "Senha não funciona no laboratório.",
	}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var tkt support.Ticket
	decodeBody(t, rec, &tkt)

	t.Run("students cannot decide", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPut, "/v1/support/tickets/"+tkt.ID+"/status", getToken(t, student), marchallObj(t, support.StatusChange{Status: support.StatusResolvido}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("unknown ticket", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPut, "/v1/support/tickets/nope/status", getToken(t, admin), marchallObj(t, support.StatusChange{Status: support.StatusEmAnalise}))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; want 404", rec.Code)
		}
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPut, "/v1/support/tickets/"+tkt.ID+"/status", getToken(t, admin), marchallObj(t, support.StatusChange{Status: "Perdido"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "invalid status"}),
		}, rec)
	})

	t.Run("admin moves it along with a remark", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPut, "/v1/support/tickets/"+tkt.ID+"/status", getToken(t, admin), marchallObj(t, support.StatusChange{
			Status:  support.StatusEmAnalise,
			Comment: "Encaminhado ao laboratório.",
		}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got support.Ticket
		decodeBody(t, rec, &got)
		if got.Status != support.StatusEmAnalise {
			t.Errorf("status = %v; want Em Análise", got.Status)
		}
		if len(got.History) != 2 {
			t.Fatalf("history = %d entries; want 2", len(got.History))
		}
		entry := got.History[1]
		if want := "Status alterado para Em Análise. Obs: Encaminhado ao laboratório."; entry.Action != want {
			t.Errorf("action = %q; want %q", entry.Action, want)
		}
		if entry.AuthorName != admin.Name {
			t.Errorf("author = %q; want %q", entry.AuthorName, admin.Name)
		}

		notif, ok := findNotification(t, student.ID, "Atualização de Chamado")
		if !ok {
			t.Fatal("ticket owner was not notified")
		}
		if want := `Seu chamado "Acesso ao portal" mudou para Em Análise.`; notif.Message != want {
			t.Errorf("message = %q; want %q", notif.Message, want)
		}
		if notif.Link != "/student/support" {
			t.Errorf("link = %q", notif.Link)
		}
	})

	t.Run("a plain transition has no remark", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPut, "/v1/support/tickets/"+tkt.ID+"/status", getToken(t, admin), marchallObj(t, support.StatusChange{Status: support.StatusResolvido}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got support.Ticket
		decodeBody(t, rec, &got)
		if len(got.History) != 3 {
			t.Fatalf("history = %d entries; want 3", len(got.History))
		}
		if want := "Status alterado para Resolvido."; got.History[2].Action != want {
			t.Errorf("action = %q; want %q", got.History[2].Action, want)
		}
	})
}
