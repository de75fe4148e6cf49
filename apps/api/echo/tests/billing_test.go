package tests

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/tmbureta/academia/core/billing"
	"github.com/tmbureta/academia/core/user"
	emailsvc "github.com/tmbureta/academia/services/email"
)

func Test_billingApi_create(t *testing.T) {
	finance := createUser(t, "Tesouraria", "tesouraria1", "tesouraria1@academia.test", []string{user.RoleFinance}, true)
	student := createStudent(t, "Gina Dias", "ginadias")

	due := time.Now().AddDate(0, 1, 0)
	newRec := billing.NewRecord{
		StudentID:   student.ID,
		Description: "Mensalidade Setembro",
		Amount:      500,
		Discount:    50,
		DueDate:     due,
		Category:    "Mensalidade",
	}

	tests := []httpTest{
		{
			name: "Auth required", body: marchallObj(t, newRec),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Finance required", token: getToken(t, student), body: marchallObj(t, newRec),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Finance creates record", token: getToken(t, finance), body: marchallObj(t, newRec),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/billing", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if tt.wantCode == http.StatusCreated {
				var got billing.FinancialRecord
				decodeBody(t, rec, &got)
				if got.Status != billing.StatusPendente {
					t.Errorf("status = %v; want %v", got.Status, billing.StatusPendente)
				}
				if got.Balance != 450 {
					t.Errorf("balance = %v; want 450", got.Balance)
				}
				if got.PaidAt.Valid {
					t.Error("paidAt should not be set on open records")
				}
			}
		})
	}
}

func Test_billingApi_addPayment(t *testing.T) {
	finance := createUser(t, "Tesouraria", "tesouraria2", "tesouraria2@academia.test", []string{user.RoleFinance}, true)
	student := createStudent(t, "Hugo Leme", "hugoleme")
	rec := createRecord(t, student.ID, 400, 0, time.Now().AddDate(0, 1, 0))
	financeToken := getToken(t, finance)

	payment := func(amount float64) []byte {
		return marchallObj(t, billing.NewPayment{Amount: amount, Method: billing.MethodPIX})
	}
	path := "/v1/billing/" + rec.ID + "/payments"

	t.Run("partial payment", func(t *testing.T) {
		emailsvc.ClearSentMessages()

		req, rr := newAuthRequest(http.MethodPost, path, financeToken, payment(150))
		app.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rr.Code, rr.Body.String())
		}
		var got billing.FinancialRecord
		decodeBody(t, rr, &got)
		if got.Status != billing.StatusParcial {
			t.Errorf("status = %v; want %v", got.Status, billing.StatusParcial)
		}
		if got.Balance != 250 {
			t.Errorf("balance = %v; want 250", got.Balance)
		}
		if len(got.Payments) != 1 {
			t.Errorf("payments = %d; want 1", len(got.Payments))
		}
		if len(emailsvc.SentMessages) != 1 || emailsvc.SentMessages[0].TemplateName != "billing_receipt" {
			t.Errorf("expected one billing_receipt email; got %v", emailsvc.SentMessages)
		}
	})

	t.Run("overpayment rejected", func(t *testing.T) {
		req, rr := newAuthRequest(http.MethodPost, path, financeToken, payment(300))
		app.ServeHTTP(rr, req)

		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"amount": fmt.Sprintf("payment must be between R$ 0.01 and R$ %.2f", 250.0),
			}),
		}
		checkCodeAndData(t, tt, rr)

		// no state change
		got, err := billSvc.GetByID(req.Context(), rec.ID)
		if err != nil {
			t.Fatalf("GetByID(): %v", err)
		}
		if got.Balance != 250 || len(got.Payments) != 1 {
			t.Errorf("record mutated by rejected payment: balance = %v, payments = %d", got.Balance, len(got.Payments))
		}
	})

	t.Run("settling payment", func(t *testing.T) {
		req, rr := newAuthRequest(http.MethodPost, path, financeToken, payment(250))
		app.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rr.Code, rr.Body.String())
		}
		var got billing.FinancialRecord
		decodeBody(t, rr, &got)
		if got.Status != billing.StatusPago {
			t.Errorf("status = %v; want %v", got.Status, billing.StatusPago)
		}
		if got.Balance != 0 {
			t.Errorf("balance = %v; want 0", got.Balance)
		}
		if !got.PaidAt.Valid {
			t.Error("paidAt should be set once fully paid")
		}
	})

	t.Run("payment notifies the student", func(t *testing.T) {
		notifs, err := annSvc.UserNotifications(context.Background(), student.ID)
		if err != nil {
			t.Fatalf("UserNotifications(): %v", err)
		}
		var found bool
		for _, n := range notifs {
			if n.Title == "Pagamento Registrado" {
				found = true
			}
		}
		if !found {
			t.Error("expected a payment notification for the student")
		}
	})
}

func Test_billingApi_repeatedPayments(t *testing.T) {
	finance := createUser(t, "Tesouraria", "tesouraria5", "tesouraria5@academia.test", []string{user.RoleFinance}, true)
	student := createStudent(t, "Mara Luz", "maraluz")
	rec := createRecord(t, student.ID, 500, 0, time.Now().AddDate(0, 1, 0))

	body := marchallObj(t, billing.NewPayment{Amount: 100, Method: billing.MethodDinheiro})
	path := "/v1/billing/" + rec.ID + "/payments"
	token := getToken(t, finance)

	// each call is a distinct payment event, even with identical amounts
	for i := 0; i < 2; i++ {
		req, rr := newAuthRequest(http.MethodPost, path, token, body)
		app.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("payment %d: code = %v; body %s", i+1, rr.Code, rr.Body.String())
		}
	}

	got, err := billSvc.GetByID(context.Background(), rec.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if len(got.Payments) != 2 {
		t.Errorf("payments = %d; want 2", len(got.Payments))
	}
	if got.Balance != 300 {
		t.Errorf("balance = %v; want 300", got.Balance)
	}
}

func Test_billingApi_markPaid(t *testing.T) {
	finance := createUser(t, "Tesouraria", "tesouraria3", "tesouraria3@academia.test", []string{user.RoleFinance}, true)
	student := createStudent(t, "Iris Melo", "irismelo")
	rec := createRecord(t, student.ID, 400, 0, time.Now().AddDate(0, 1, 0))

	req, rr := newAuthRequest(http.MethodPost, "/v1/billing/"+rec.ID+"/mark-paid", getToken(t, finance))
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rr.Code, rr.Body.String())
	}
	var got billing.FinancialRecord
	decodeBody(t, rr, &got)
	if got.Status != billing.StatusPago {
		t.Errorf("status = %v; want %v", got.Status, billing.StatusPago)
	}
	if !got.PaidAt.Valid {
		t.Error("paidAt should be set")
	}
	// the override flips status only; the ledger keeps the open balance
	if got.Balance != 400 {
		t.Errorf("balance = %v; want 400", got.Balance)
	}
	if len(got.Payments) != 0 {
		t.Errorf("payments = %d; want 0", len(got.Payments))
	}
}

func Test_billingApi_mine(t *testing.T) {
	studentA := createStudent(t, "Joel Pinto", "joelpinto")
	studentB := createStudent(t, "Kaue Braz", "kauebraz")
	recA := createRecord(t, studentA.ID, 300, 0, time.Now().AddDate(0, 1, 0))
	createRecord(t, studentB.ID, 700, 0, time.Now().AddDate(0, 1, 0))

	req, rr := newAuthRequest(http.MethodGet, "/v1/billing/mine", getToken(t, studentA))
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rr.Code, rr.Body.String())
	}
	var got []billing.FinancialRecord
	decodeBody(t, rr, &got)
	if len(got) != 1 || got[0].ID != recA.ID {
		t.Errorf("mine = %v; want just %q", got, recA.ID)
	}

	t.Run("query endpoint stays staff-only", func(t *testing.T) {
		req, rr := newAuthRequest(http.MethodGet, "/v1/billing", getToken(t, studentA))
		app.ServeHTTP(rr, req)
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}
		checkCodeAndData(t, tt, rr)
	})
}

func Test_billingApi_methods(t *testing.T) {
	student := createStudent(t, "Noel Reis", "noelreis")

	req, rr := newAuthRequest(http.MethodGet, "/v1/billing/methods", getToken(t, student))
	app.ServeHTTP(rr, req)

	tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, billing.AllMethods)}
	checkCodeAndData(t, tt, rr)
}

func Test_billingApi_studentSummary(t *testing.T) {
	finance := createUser(t, "Tesouraria", "tesouraria4", "tesouraria4@academia.test", []string{user.RoleFinance}, true)
	student := createStudent(t, "Lia Prado", "liaprado")

	paid := createRecord(t, student.ID, 200, 0, time.Now().AddDate(0, 1, 0))
	if _, err := billSvc.MarkPaid(context.Background(), paid.ID); err != nil {
		t.Fatalf("MarkPaid(): %v", err)
	}
	createRecord(t, student.ID, 350, 0, time.Now().AddDate(0, 1, 0)) // stays Pendente

	req, rr := newAuthRequest(http.MethodGet, "/v1/billing/summary/"+student.ID, getToken(t, finance))
	app.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("code = %v; body %s", rr.Code, rr.Body.String())
	}
	var got billing.Summary
	decodeBody(t, rr, &got)
	if got.TotalPaid != 200 {
		t.Errorf("totalPaid = %v; want 200", got.TotalPaid)
	}
	if got.TotalPending != 350 {
		t.Errorf("totalPending = %v; want 350", got.TotalPending)
	}
}
