package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marksportal/internal/auth"
	"marksportal/internal/gateway/util"
	"marksportal/internal/shared"
)

// AuthHandler exposes the identity and registration operations.
type AuthHandler struct {
	Auth *auth.Service
}

// RESTLoginRequest mirrors the expected JSON input for /auth/login
type RESTLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// RESTRegisterRequest mirrors the expected JSON input for /auth/register
type RESTRegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
}

// RESTRegisterStudentRequest mirrors the expected JSON input for /auth/register-student
type RESTRegisterStudentRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FacultyID string `json:"faculty_id"`
}

// identityContextKey is the typed context key the auth middleware uses
// to hand the caller identity to handlers.
type identityContextKey struct{}

// WithIdentity returns a context carrying the verified caller identity.
func WithIdentity(ctx context.Context, ident shared.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromRequest retrieves the identity placed by the auth
// middleware. ok is false on unauthenticated routes.
func IdentityFromRequest(r *http.Request) (shared.Identity, bool) {
	ident, ok := r.Context().Value(identityContextKey{}).(shared.Identity)
	return ident, ok
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req RESTLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Auth.Login(r.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    result.User,
		"token":   result.Token,
		"message": "login successful",
	})
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RESTRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Auth.Register(r.Context(), req.Name, req.Email, req.Password, req.Role, req.Department)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	token, err := h.Auth.GenerateToken(user)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
		"token":   token,
		"message": "user registered successfully",
	})
}

// RegisterStudent handles POST /auth/register-student (faculty only).
// The owning faculty is always the caller; a faculty cannot register
// students under someone else's id.
func (h *AuthHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromRequest(r)
	if !ok || ident.Role != shared.RoleFaculty {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only faculty can register students")
		return
	}

	var req RESTRegisterStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.FacultyID != "" && req.FacultyID != ident.ID {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Cannot register students for another faculty")
		return
	}

	student, err := h.Auth.RegisterStudent(r.Context(), ident.ID, req.Name, req.Email, req.Password)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"student": student,
		"message": "student registered successfully",
	})
}

// ListUsers handles GET /auth/users
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Auth.ListUsers(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, users)
}

// ListStudents handles GET /auth/students
func (h *AuthHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.Auth.ListStudents(r.Context())
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, students)
}

// ListOwnedStudents handles GET /auth/my-students/{faculty_id}.
// The caller may only list their own students.
func (h *AuthHandler) ListOwnedStudents(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromRequest(r)
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	facultyID := chi.URLParam(r, "faculty_id")
	if facultyID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "faculty_id is required")
		return
	}

	if ident.ID != facultyID {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Cannot access other faculty's students")
		return
	}

	students, err := h.Auth.ListOwnedStudents(r.Context(), facultyID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, students)
}
