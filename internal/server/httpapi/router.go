package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avolkova/ecommute/internal/logging"
	"github.com/avolkova/ecommute/internal/server/services"
)

// NewRouter builds the HTTP routing table of the original server:
//
//	POST   /signup          register
//	DELETE /signup          delete account
//	PUT    /signup          change password
//	GET    /login           login
//	POST   /trackEmissions  log an emission
//	GET    /trackEmissions  list a user's emissions
//	GET    /getLeaderboard  ranked cumulative totals
//
// Unmatched methods on known routes answer 405, everything else 404.
func NewRouter(logger logging.Logger, users *services.UserService, emissions *services.EmissionService) http.Handler {
	h := NewHandler(logger, users, emissions)

	r := chi.NewRouter()
	r.Use(requestLogger(logger))

	r.Route("/signup", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Delete("/", h.DeleteAccount)
		r.Put("/", h.ChangePassword)
	})
	r.Get("/login", h.Login)
	r.Route("/trackEmissions", func(r chi.Router) {
		r.Post("/", h.TrackEmission)
		r.Get("/", h.UserEmissions)
	})
	r.Get("/getLeaderboard", h.Leaderboard)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not found: "+r.URL.Path, http.StatusNotFound)
	})

	return r
}
