// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"rigworks/internal/middleware"
	"rigworks/internal/session"
	"rigworks/internal/store"
)

// totpIssuer is the issuer label shown in authenticator apps.
const totpIssuer = "RigWorks"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse tells the front end where to take the user next.
type loginResponse struct {
	Email          string `json:"email"`
	DisplayName    string `json:"display_name"`
	Role           string `json:"role"`
	Requires2FA    bool   `json:"requires_2fa"`
	Needs2FAEnroll bool   `json:"needs_2fa_enroll"`
}

// Login checks credentials and opens a session. Back-office users get a
// half-open session (TwoFADone=false) until they pass the TOTP step;
// customers are fully logged in immediately.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByEmail(req.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeErrorMsg(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	// Customers skip TOTP; back-office users must complete it.
	twoFADone := !user.IsBackOffice()

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
		TwoFADone:   twoFADone,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Email:          user.Email,
		DisplayName:    user.DisplayName,
		Role:           string(user.Role),
		Requires2FA:    user.IsBackOffice(),
		Needs2FAEnroll: user.Needs2FASetup(),
	})
}

// twoFASetupResponse carries the enrollment QR code and secret.
type twoFASetupResponse struct {
	Secret string `json:"secret"`
	QRCode string `json:"qr_code"` // base64-encoded PNG
}

// TwoFASetup generates a TOTP secret for the logged-in back-office user
// and returns the otpauth QR code for authenticator apps. Calling it
// again before verification regenerates the secret.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || !sess.IsBackOffice() {
		writeErrorMsg(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// A user with TOTP already enabled re-enrolls through the admin
	// reset flow, not by hitting setup directly.
	if user.TOTPEnabled {
		writeErrorMsg(w, http.StatusConflict, "two-factor authentication is already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := a.userStore.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	qrPNG, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, twoFASetupResponse{
		Secret: key.Secret(),
		QRCode: base64.StdEncoding.EncodeToString(qrPNG),
	})
}

// twoFAVerifyRequest is the POST /auth/2fa/verify body.
type twoFAVerifyRequest struct {
	Code string `json:"code"`
}

// TwoFAVerify validates the TOTP code and completes authentication.
// On first-time setup a valid code also enables TOTP on the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeErrorMsg(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req twoFAVerifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := a.userStore.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if user.TOTPSecret == nil {
		writeErrorMsg(w, http.StatusConflict, "two-factor authentication is not set up")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeErrorMsg(w, http.StatusUnauthorized, "invalid code")
		return
	}

	// First valid code after setup enables TOTP on the account.
	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

// meResponse describes the current session for the front end.
type meResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	TwoFADone   bool   `json:"two_fa_done"`
}

// Me returns the logged-in user's identity, or 401 without a session.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		writeErrorMsg(w, http.StatusUnauthorized, "authentication required")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		Email:       sess.Email,
		DisplayName: sess.DisplayName,
		Role:        string(sess.Role),
		TwoFADone:   sess.TwoFADone,
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	writeJSON(w, http.StatusOK, map[string]bool{"logged_out": true})
}
