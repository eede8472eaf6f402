// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pagesmith/internal/middleware"
	"pagesmith/internal/models"
	"pagesmith/internal/session"
	"pagesmith/internal/store"
)

// Auth groups the account endpoints.
type Auth struct {
	sessions      *session.Store
	users         UserRepo
	ledger        Ledger
	signupCredits int
}

// NewAuth creates a new Auth handler group. New accounts start with
// signupCredits credits.
func NewAuth(sessions *session.Store, users UserRepo, ledger Ledger, signupCredits int) *Auth {
	return &Auth{
		sessions:      sessions,
		users:         users,
		ledger:        ledger,
		signupCredits: signupCredits,
	}
}

type credentials struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// account is the JSON view of the signed-in user.
type account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Credits     int    `json:"credits"`
}

func accountOf(u *models.User) account {
	return account{ID: u.ID.String(), Email: u.Email, DisplayName: u.DisplayName, Credits: u.Credits}
}

// Register creates an account and signs it in.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if msg := validateRegistration(in.Email, in.Password, in.DisplayName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	user, err := a.users.Create(in.Email, in.Password, in.DisplayName, a.signupCredits)
	if errors.Is(err, store.ErrDuplicateEmail) {
		writeError(w, http.StatusConflict, "An account with this email already exists.")
		return
	}
	if err != nil {
		slog.Error("register failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not create the account.")
		return
	}

	if a.signupCredits > 0 {
		event := &models.CreditEvent{UserID: user.ID, Delta: a.signupCredits, Reason: store.ReasonSignup}
		if err := a.ledger.Record(event); err != nil {
			slog.Error("failed to record signup credits", "error", err, "user_id", user.ID)
		}
	}

	if !a.startSession(w, r, user) {
		return
	}
	slog.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, accountOf(user))
}

// Login verifies credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.users.FindByEmail(in.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user == nil || !a.users.CheckPassword(user, in.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid email or password.")
		return
	}

	if !a.startSession(w, r, user) {
		return
	}
	writeJSON(w, http.StatusOK, accountOf(user))
}

// Logout ends the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the signed-in account with its current balance.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user, err := a.users.FindByID(middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		slog.Error("load account failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if user == nil {
		// The account was deleted under a live session.
		if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
			slog.Warn("session destroy failed", "error", err)
		}
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, accountOf(user))
}

// Credits lists the signed-in user's recent credit events.
func (a *Auth) Credits(w http.ResponseWriter, r *http.Request) {
	events, err := a.ledger.ListByUser(middleware.UserIDFromCtx(r.Context()), 50)
	if err != nil {
		slog.Error("list credit events failed", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}
	if events == nil {
		events = []models.CreditEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (a *Auth) startSession(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Could not start a session.")
		return false
	}
	return true
}
