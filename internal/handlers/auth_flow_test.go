// auth_flow_test.go contains handler integration tests for the Auth
// handler methods: Login, TwoFASetup, TwoFAVerify, Me, and Logout.
// Tests exercise real database and Valkey connections; they are skipped
// when those services are unavailable.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"rigworks/internal/models"
	"rigworks/internal/session"
)

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	cleanUsers(t, env.DB, "login-bad@test.local")

	body := `{"email":"login-bad@test.local","password":"nope"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	env.Auth.Login(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid email or password") {
		t.Errorf("body: got %s", rec.Body.String())
	}
}

func TestLogin_CustomerFullyLoggedIn(t *testing.T) {
	env := newTestEnv(t)
	email := "customer-login@test.local"
	cleanUsers(t, env.DB, email)
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	if _, err := env.UserStore.Create(email, "secret123", "Customer", models.RoleCustomer); err != nil {
		t.Fatalf("create user: %v", err)
	}

	body := `{"email":"` + email + `","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	env.Auth.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Email          string `json:"email"`
		Role           string `json:"role"`
		Requires2FA    bool   `json:"requires_2fa"`
		Needs2FAEnroll bool   `json:"needs_2fa_enroll"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Requires2FA {
		t.Error("customers must not be asked for 2FA")
	}
	if resp.Needs2FAEnroll {
		t.Error("customers never enroll in 2FA")
	}

	// A session cookie must be set and already fully authenticated.
	cookies := rec.Result().Cookies()
	var sessionCookie *http.Cookie
	for _, c := range cookies {
		if c.Name == session.CookieName {
			sessionCookie = c
		}
	}
	if sessionCookie == nil {
		t.Fatal("expected a session cookie")
	}

	getReq := httptest.NewRequest(http.MethodGet, "/", nil)
	getReq.AddCookie(sessionCookie)
	data, err := env.Sessions.Get(getReq.Context(), getReq)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if data == nil {
		t.Fatal("session not found in Valkey")
	}
	if !data.TwoFADone {
		t.Error("customer session should have TwoFADone=true at password login")
	}
}

func TestLogin_BackOfficeGetsHalfOpenSession(t *testing.T) {
	env := newTestEnv(t)
	email := "staff-login@test.local"
	cleanUsers(t, env.DB, email)
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	if _, err := env.UserStore.Create(email, "secret123", "Staff", models.RoleStaff); err != nil {
		t.Fatalf("create user: %v", err)
	}

	body := `{"email":"` + email + `","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	env.Auth.Login(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Requires2FA    bool `json:"requires_2fa"`
		Needs2FAEnroll bool `json:"needs_2fa_enroll"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Requires2FA {
		t.Error("back-office logins must require 2FA")
	}
	if !resp.Needs2FAEnroll {
		t.Error("fresh staff account should need 2FA enrollment")
	}
}

func TestTwoFASetupAndVerify(t *testing.T) {
	env := newTestEnv(t)
	email := "staff-2fa@test.local"
	cleanUsers(t, env.DB, email)
	t.Cleanup(func() { cleanUsers(t, env.DB, email) })

	user, err := env.UserStore.Create(email, "secret123", "Staff", models.RoleStaff)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	// Setup: returns a secret and a QR code.
	sess := testSession(user.ID, email, models.RoleStaff, false)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/2fa/setup", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Auth.TwoFASetup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("setup status: got %d: %s", rec.Code, rec.Body.String())
	}
	var setup struct {
		Secret string `json:"secret"`
		QRCode string `json:"qr_code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&setup); err != nil {
		t.Fatalf("decode setup: %v", err)
	}
	if setup.Secret == "" || setup.QRCode == "" {
		t.Fatal("expected secret and QR code in setup response")
	}

	// Verify with a wrong code first.
	badReq := httptest.NewRequest(http.MethodPost, "/api/auth/2fa/verify", strings.NewReader(`{"code":"000000"}`))
	badReq = badReq.WithContext(ctxWithSession(badReq.Context(), sess))
	badRec := httptest.NewRecorder()
	env.Auth.TwoFAVerify(badRec, badReq)
	if badRec.Code != http.StatusUnauthorized {
		t.Errorf("bad code status: got %d, want 401", badRec.Code)
	}

	// Verify with a valid code. The verify handler updates the session in
	// Valkey, so the request needs a real session cookie.
	sessionID, err := env.Sessions.Create(req.Context(), httptest.NewRecorder(), sess)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	code, err := totp.GenerateCode(setup.Secret, time.Now())
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	okReq := httptest.NewRequest(http.MethodPost, "/api/auth/2fa/verify", strings.NewReader(`{"code":"`+code+`"}`))
	okReq.AddCookie(&http.Cookie{Name: session.CookieName, Value: sessionID})
	okReq = okReq.WithContext(ctxWithSession(okReq.Context(), sess))
	okRec := httptest.NewRecorder()
	env.Auth.TwoFAVerify(okRec, okReq)

	if okRec.Code != http.StatusOK {
		t.Fatalf("verify status: got %d: %s", okRec.Code, okRec.Body.String())
	}

	// TOTP must now be enabled on the account.
	updated, err := env.UserStore.FindByID(user.ID)
	if err != nil || updated == nil {
		t.Fatalf("reload user: %v", err)
	}
	if !updated.TOTPEnabled {
		t.Error("expected TOTP enabled after first successful verify")
	}
}

func TestMe_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	env.Auth.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestMe_ReturnsSessionIdentity(t *testing.T) {
	env := newTestEnv(t)

	sess := testSession(uuid.New(), "me@test.local", models.RoleAdmin, true)
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(ctxWithSession(req.Context(), sess))
	rec := httptest.NewRecorder()

	env.Auth.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var resp struct {
		Email     string `json:"email"`
		Role      string `json:"role"`
		TwoFADone bool   `json:"two_fa_done"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Email != "me@test.local" || resp.Role != "admin" || !resp.TwoFADone {
		t.Errorf("unexpected identity: %+v", resp)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	env.Auth.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.MaxAge >= 0 {
			t.Error("expected session cookie to be expired")
		}
	}
}
