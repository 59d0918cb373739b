// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the RigWorks API.
// Handlers are grouped by concern (auth, catalog, admin entities) and
// receive their dependencies through the handler struct. Every response
// body is JSON; the React front end is the only consumer.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"rigworks/internal/tree"
)

// maxBodyBytes caps JSON request bodies. Image uploads have their own limit.
const maxBodyBytes = 1 << 20 // 1 MiB

// Meta carries pagination metadata on list responses.
type Meta struct {
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

// envelope is the standard shape for list responses.
type envelope struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// writeJSON serializes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// writeList writes a data+meta envelope.
func writeList(w http.ResponseWriter, data any, meta *Meta) {
	writeJSON(w, http.StatusOK, envelope{Data: data, Meta: meta})
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// writeErrorMsg writes an explicit error message with the given status.
func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeError maps a service error onto an HTTP status. Not-found,
// validation, illegal-move, and conflict errors carry their message to
// the client; anything else is logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tree.ErrNotFound):
		writeErrorMsg(w, http.StatusNotFound, err.Error())
	case errors.Is(err, tree.ErrValidation), errors.Is(err, tree.ErrInvalidMove):
		writeErrorMsg(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, tree.ErrConflict):
		writeErrorMsg(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeErrorMsg(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON request body into dst with a size cap.
// Returns false after writing a 400 if the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pagination reads page and limit query params with sane bounds.
func pagination(r *http.Request) (page, limit int) {
	page = queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit = queryInt(r, "limit", 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return page, limit
}

// queryInt parses an integer query parameter, falling back on absence or garbage.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	var n int
	for _, c := range raw {
		if c < '0' || c > '9' {
			return fallback
		}
		n = n*10 + int(c-'0')
		if n > 1_000_000 {
			return fallback
		}
	}
	return n
}

// totalPages computes the page count for a total and limit.
func totalPages(total, limit int) int {
	if total == 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
