package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"pagesmith/internal/models"
	"pagesmith/internal/session"
	"pagesmith/internal/store"
)

func newTestAuth(t *testing.T) (*Auth, *fakeUsers, *fakeLedger) {
	t.Helper()
	users := newFakeUsers()
	ledger := &fakeLedger{}
	return NewAuth(newSessionStore(t), users, ledger, 10), users, ledger
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// Register
// --------------------------------------------------------------------------

func TestRegister_ValidData_CreatesAccountWithCredits(t *testing.T) {
	a, users, ledger := newTestAuth(t)

	rr := httptest.NewRecorder()
	a.Register(rr, jsonRequest(t, http.MethodPost, "/api/auth/register", credentials{
		Email:       "  ana@example.com ",
		Password:    "correct horse",
		DisplayName: "Ana",
	}))

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body)
	}
	var got account
	decodeBody(t, rr, &got)
	if got.Email != "ana@example.com" || got.Credits != 10 || got.DisplayName != "Ana" {
		t.Errorf("account = %+v", got)
	}
	if sessionCookie(rr) == nil {
		t.Error("no session cookie set")
	}
	if u, _ := users.FindByEmail("ana@example.com"); u == nil {
		t.Error("user not stored")
	}
	if len(ledger.events) != 1 || ledger.events[0].Delta != 10 || ledger.events[0].Reason != store.ReasonSignup {
		t.Errorf("ledger = %+v", ledger.events)
	}
}

func TestRegister_InvalidInput_Returns400(t *testing.T) {
	tests := []struct {
		name string
		in   credentials
		want string
	}{
		{name: "missing email", in: credentials{Password: "longenough"}, want: "Email is required"},
		{name: "bad email", in: credentials{Email: "not-an-email", Password: "longenough"}, want: "valid address"},
		{name: "short password", in: credentials{Email: "a@example.com", Password: "short"}, want: "at least 8"},
		{name: "long password", in: credentials{Email: "a@example.com", Password: strings.Repeat("x", 73)}, want: "too long"},
		{name: "long name", in: credentials{Email: "a@example.com", Password: "longenough", DisplayName: strings.Repeat("n", 101)}, want: "Display name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _ := newTestAuth(t)
			rr := httptest.NewRecorder()
			a.Register(rr, jsonRequest(t, http.MethodPost, "/api/auth/register", tt.in))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if msg := errorOf(t, rr); !strings.Contains(msg, tt.want) {
				t.Errorf("error = %q, want it to contain %q", msg, tt.want)
			}
		})
	}
}

func TestRegister_DuplicateEmail_Returns409(t *testing.T) {
	a, users, _ := newTestAuth(t)
	if _, err := users.Create("ana@example.com", "correct horse", "", 0); err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	a.Register(rr, jsonRequest(t, http.MethodPost, "/api/auth/register", credentials{
		Email: "ana@example.com", Password: "another pass",
	}))

	if rr.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rr.Code)
	}
}

func TestRegister_EmptyBody_Returns400(t *testing.T) {
	a, _, _ := newTestAuth(t)
	rr := httptest.NewRecorder()
	a.Register(rr, jsonRequest(t, http.MethodPost, "/api/auth/register", nil))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rr.Code)
	}
	if msg := errorOf(t, rr); msg != "request body is empty" {
		t.Errorf("error = %q", msg)
	}
}

// --------------------------------------------------------------------------
// Login / Logout / Me
// --------------------------------------------------------------------------

func TestLogin(t *testing.T) {
	a, users, _ := newTestAuth(t)
	if _, err := users.Create("ana@example.com", "correct horse", "Ana", 3); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{name: "valid", email: "ana@example.com", password: "correct horse", want: http.StatusOK},
		{name: "wrong password", email: "ana@example.com", password: "wrong horse", want: http.StatusUnauthorized},
		{name: "unknown user", email: "bob@example.com", password: "correct horse", want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			a.Login(rr, jsonRequest(t, http.MethodPost, "/api/auth/login", credentials{Email: tt.email, Password: tt.password}))

			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
			if got := sessionCookie(rr) != nil; got != (tt.want == http.StatusOK) {
				t.Errorf("session cookie set = %v", got)
			}
		})
	}
}

func TestLogin_StoreError_Returns500(t *testing.T) {
	a, users, _ := newTestAuth(t)
	users.err = errBoom

	rr := httptest.NewRecorder()
	a.Login(rr, jsonRequest(t, http.MethodPost, "/api/auth/login", credentials{Email: "a@example.com", Password: "x"}))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	a, _, _ := newTestAuth(t)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "stale-session"})

	rr := httptest.NewRecorder()
	a.Logout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rr.Code)
	}
	c := sessionCookie(rr)
	if c == nil || c.MaxAge >= 0 {
		t.Errorf("cookie = %+v, want an expired session cookie", c)
	}
}

func TestMe(t *testing.T) {
	a, users, _ := newTestAuth(t)
	u, err := users.Create("ana@example.com", "correct horse", "Ana", 7)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("existing user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		a.Me(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/me", nil), u.ID))

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		var got account
		decodeBody(t, rr, &got)
		if got.ID != u.ID.String() || got.Credits != 7 {
			t.Errorf("account = %+v", got)
		}
	})

	t.Run("deleted user", func(t *testing.T) {
		rr := httptest.NewRecorder()
		a.Me(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/me", nil), uuid.New()))

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})
}

func TestCredits_ListsOwnEvents(t *testing.T) {
	a, users, ledger := newTestAuth(t)
	u, _ := users.Create("ana@example.com", "correct horse", "Ana", 10)
	_ = ledger.Record(&models.CreditEvent{UserID: u.ID, Delta: 10, Reason: store.ReasonSignup})
	_ = ledger.Record(&models.CreditEvent{UserID: uuid.New(), Delta: 5, Reason: store.ReasonGrant})

	rr := httptest.NewRecorder()
	a.Credits(rr, asUser(httptest.NewRequest(http.MethodGet, "/api/me/credits", nil), u.ID))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var events []map[string]any
	decodeBody(t, rr, &events)
	if len(events) != 1 || events[0]["reason"] != store.ReasonSignup {
		t.Errorf("events = %v", events)
	}
}
