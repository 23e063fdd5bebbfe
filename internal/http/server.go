package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"learnhub/api/internal/auth"
	"learnhub/api/internal/config"
	"learnhub/api/internal/model"
	"learnhub/api/internal/repository"
)

type Server struct {
	cfg   config.Config
	store *repository.Store
}

func NewServer(cfg config.Config, store *repository.Store) *Server {
	return &Server{cfg: cfg, store: store}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.With(s.authMiddleware, s.requireRoles(model.RoleAdmin)).Get("/users", s.handleListUsers)
			r.With(s.authMiddleware, s.requireRoles(model.RoleAdmin)).Delete("/users/{userID}", s.handleDeleteUser)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.handleListTickets)
			r.Post("/", s.handleCreateTicket)
			r.Put("/{ticketID}", s.handleUpdateTicket)
			r.Delete("/{ticketID}", s.handleDeleteTicket)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.handleListCourses)
			r.Post("/", s.handleCreateCourse)
			r.Get("/{courseID}", s.handleGetCourse)
			r.Put("/{courseID}", s.handleUpdateCourse)
			r.Delete("/{courseID}", s.handleDeleteCourse)
		})

		r.Route("/students", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.handleListStudents)
			r.Post("/", s.handleCreateStudent)
			r.Get("/{studentID}", s.handleGetStudent)
			r.Put("/{studentID}", s.handleUpdateStudent)
			r.Delete("/{studentID}", s.handleDeleteStudent)
		})

		r.Route("/instructors", func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Get("/", s.handleListInstructors)
			r.Post("/", s.handleCreateInstructor)
			r.Get("/{instructorID}", s.handleGetInstructor)
			r.Put("/{instructorID}", s.handleUpdateInstructor)
			r.Delete("/{instructorID}", s.handleDeleteInstructor)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route_not_found")
	})

	return r
}

// Auth

type claimsKey struct{}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing_token")
			return
		}

		claims, err := auth.ParseToken(s.cfg.JWTSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRoles gates a route to a fixed allow-list of roles. It must run
// after authMiddleware; a missing identity is treated as forbidden.
func (s *Server) requireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := claimsFromContext(r.Context())
			if claims == nil || !roleAllowed(claims.Role, roles) {
				writeError(w, http.StatusForbidden, "insufficient_role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func roleAllowed(role model.Role, allowed []model.Role) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

func isAdmin(claims *auth.Claims) bool {
	return claims != nil && claims.Role == model.RoleAdmin
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
