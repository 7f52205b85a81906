// Package httpapi is the boundary adapter: it maps the core operations onto
// the HTTP routes and status codes of the original ECOmmute server.
// Parameters arrive in the query string, as the original clients send them.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/avolkova/ecommute/internal/common"
	"github.com/avolkova/ecommute/internal/logging"
	"github.com/avolkova/ecommute/internal/server/services"
)

type Handler struct {
	logger    logging.Logger
	users     *services.UserService
	emissions *services.EmissionService
}

func NewHandler(logger logging.Logger, users *services.UserService, emissions *services.EmissionService) *Handler {
	return &Handler{logger: logger, users: users, emissions: emissions}
}

// Register handles POST /signup.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	pass := r.URL.Query().Get("pass")
	if user == "" || pass == "" {
		jsonError(w, http.StatusBadRequest, "Username and Password Required")
		return
	}

	err := h.users.Register(r.Context(), user, pass)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			jsonError(w, http.StatusConflict, "Username already taken")
			return
		}
		h.logger.Error(r.Context(), "registration failed", "user", user, "error", err)
		jsonError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.logger.Info(r.Context(), "registered", "user", user)
	jsonOK(w, map[string]string{"message": "Successfully registered"})
}

// Login handles GET /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	pass := r.URL.Query().Get("pass")
	if user == "" || pass == "" {
		jsonError(w, http.StatusBadRequest, "Username and Password Required")
		return
	}

	token, err := h.users.Login(r.Context(), user, pass)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			jsonError(w, http.StatusUnauthorized, "Username or password incorrect")
			return
		}
		h.logger.Error(r.Context(), "login failed", "user", user, "error", err)
		jsonError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	jsonOK(w, map[string]string{
		"message": "Successfully logged in",
		"token":   token,
	})
}

// DeleteAccount handles DELETE /signup.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	pass := r.URL.Query().Get("pass")
	if user == "" || pass == "" {
		jsonError(w, http.StatusBadRequest, "Username and Password Required")
		return
	}

	err := h.users.Delete(r.Context(), user, pass)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			jsonError(w, http.StatusUnauthorized, "Username or password incorrect, deletion denied")
			return
		}
		h.logger.Error(r.Context(), "deletion failed", "user", user, "error", err)
		jsonError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.logger.Info(r.Context(), "account deleted", "user", user)
	jsonOK(w, map[string]string{"message": "Successfully deleted " + user})
}

// ChangePassword handles PUT /signup.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	oldPass := r.URL.Query().Get("oldpass")
	newPass := r.URL.Query().Get("newpass")
	if user == "" || oldPass == "" || newPass == "" {
		jsonError(w, http.StatusBadRequest, "Username and Passwords Required")
		return
	}

	err := h.users.ChangePassword(r.Context(), user, oldPass, newPass)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			jsonError(w, http.StatusUnauthorized, "Username or password incorrect, change of password denied")
			return
		}
		h.logger.Error(r.Context(), "password change failed", "user", user, "error", err)
		jsonError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	jsonOK(w, map[string]string{"message": "Successfully changed password of " + user})
}

// TrackEmission handles POST /trackEmissions.
func (h *Handler) TrackEmission(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	distanceStr := r.URL.Query().Get("distance")
	mode := r.URL.Query().Get("mode")
	if user == "" || distanceStr == "" {
		jsonError(w, http.StatusBadRequest, "Username and Distance Required")
		return
	}

	distance, err := strconv.ParseInt(distanceStr, 10, 64)
	if err != nil || distance < 0 {
		jsonError(w, http.StatusBadRequest, "Distance must be a non-negative number")
		return
	}

	entry, err := h.emissions.Track(r.Context(), user, distance, mode)
	if err != nil {
		h.logger.Error(r.Context(), "emission logging failed", "user", user, "error", err)
		jsonError(w, http.StatusInternalServerError, "Unable to log emission")
		return
	}

	jsonOK(w, map[string]any{
		"message": "Emission for " + user + " successfully logged",
		"entry":   entry,
	})
}

// UserEmissions handles GET /trackEmissions.
func (h *Handler) UserEmissions(w http.ResponseWriter, r *http.Request) {
	user := r.URL.Query().Get("user")
	if user == "" {
		jsonError(w, http.StatusBadRequest, "Username Required")
		return
	}

	entries, err := h.emissions.UserEmissions(r.Context(), user)
	if err != nil {
		h.logger.Error(r.Context(), "loading emissions failed", "user", user, "error", err)
		jsonError(w, http.StatusInternalServerError, "Unable to load emissions")
		return
	}

	jsonOK(w, entries)
}

// Leaderboard handles GET /getLeaderboard.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	standings, err := h.emissions.Leaderboard(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "loading leaderboard failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "Unable to load all emissions")
		return
	}

	jsonOK(w, standings)
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
