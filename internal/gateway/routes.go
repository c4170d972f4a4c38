// Package gateway wires the chi router, middleware, and REST handlers
// over the in-process auth and marks services.
package gateway

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"marksportal/internal/auth"
	"marksportal/internal/gateway/handlers"
	"marksportal/internal/gateway/util"
	"marksportal/internal/marks"
	"marksportal/internal/shared"
)

// SetupRoutes configures the chi router, middleware, and route handlers.
func SetupRoutes(authSvc *auth.Service, marksSvc *marks.Service, corsCfg shared.CORSConfig) *chi.Mux {
	r := chi.NewRouter()

	// 1. Global Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsCfg.AllowedOrigins,
		AllowedMethods:   corsCfg.AllowedMethods,
		AllowedHeaders:   corsCfg.AllowedHeaders,
		AllowCredentials: corsCfg.AllowCredentials,
		MaxAge:           corsCfg.MaxAge,
	}))

	// 2. Initialize Handlers
	authHandler := &handlers.AuthHandler{Auth: authSvc}
	marksHandler := &handlers.MarksHandler{Marks: marksSvc}

	// 3. Define Routes (grouped by prefix)
	r.Route("/api", func(r chi.Router) {

		// --- Public Routes ---
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/register", authHandler.Register)

		// --- Protected Routes (Require Valid Token) ---
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(authSvc))

			// Identity & directory
			r.Post("/auth/register-student", authHandler.RegisterStudent)
			r.Get("/auth/users", authHandler.ListUsers)
			r.Get("/auth/students", authHandler.ListStudents)
			r.Get("/auth/my-students/{faculty_id}", authHandler.ListOwnedStudents)

			r.Route("/marks", func(r chi.Router) {
				// Faculty
				r.Post("/add", marksHandler.UpsertMarks)
				r.Get("/faculty-stats/{course}/{faculty_id}", marksHandler.GetFacultyCourseStats)

				// Student or owning faculty
				r.Get("/student/{id}", marksHandler.GetStudentMarks)

				r.Get("/stats/{course}", marksHandler.GetCourseStats)
			})
		})
	})

	return r
}

// AuthMiddleware verifies the bearer token and injects the caller
// identity into the request context. Handlers and services receive the
// identity explicitly; nothing below the middleware reads it from
// ambient state.
func AuthMiddleware(authSvc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := util.ExtractToken(r)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
				return
			}

			ident, err := authSvc.ParseToken(tokenStr)
			if err != nil {
				util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(handlers.WithIdentity(r.Context(), ident)))
		})
	}
}
