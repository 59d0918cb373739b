// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"

	"rigworks/internal/middleware"
	"rigworks/internal/models"
	"rigworks/internal/store"
	"rigworks/internal/tree"
)

const minPasswordLen = 8

// Users groups the admin-only user management endpoints. Staff accounts
// cannot reach these; the router guards them with the admin middleware.
type Users struct {
	userStore *store.UserStore
}

func NewUsers(userStore *store.UserStore) *Users {
	return &Users{userStore: userStore}
}

// List serves all user accounts.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List()
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, users, nil)
}

type createUserRequest struct {
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	DisplayName string      `json:"displayName"`
	Role        models.Role `json:"role"`
}

func validRole(role models.Role) bool {
	switch role {
	case models.RoleAdmin, models.RoleStaff, models.RoleCustomer:
		return true
	}
	return false
}

// Create adds a new user account. Back-office accounts start without
// 2FA; they enroll on their first login.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validateEmail(req.Email); err != nil {
		writeError(w, err)
		return
	}
	if len(req.Password) < minPasswordLen {
		writeError(w, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, tree.ErrValidation))
		return
	}
	if err := validateName(req.DisplayName); err != nil {
		writeError(w, err)
		return
	}
	if !validRole(req.Role) {
		writeError(w, fmt.Errorf("invalid role: %w", tree.ErrValidation))
		return
	}

	existing, err := h.userStore.FindByEmail(req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if existing != nil {
		writeError(w, fmt.Errorf("email already in use: %w", tree.ErrConflict))
		return
	}

	user, err := h.userStore.Create(req.Email, req.Password, req.DisplayName, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// ResetTOTP clears a user's 2FA enrollment so they can re-enroll, for
// example after losing their authenticator device.
func (h *Users) ResetTOTP(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	user, err := h.userStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeErrorMsg(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userStore.ResetTOTP(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}

// Delete removes a user account. Admins cannot delete themselves, which
// keeps at least one working admin login around.
func (h *Users) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.UserID == id {
		writeError(w, fmt.Errorf("cannot delete your own account: %w", tree.ErrConflict))
		return
	}

	user, err := h.userStore.FindByID(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeErrorMsg(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userStore.Delete(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
