package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marksportal/internal/gateway/util"
	"marksportal/internal/marks"
	"marksportal/internal/shared"
)

// MarksHandler exposes the marks recording and statistics operations.
type MarksHandler struct {
	Marks *marks.Service
}

// RESTUpsertMarksRequest mirrors the JSON input for POST /marks/add
type RESTUpsertMarksRequest struct {
	StudentEmail string  `json:"studentEmail"`
	Course       string  `json:"course"`
	Marks        float64 `json:"marks"`
	Grade        string  `json:"grade"`
}

// UpsertMarks handles POST /marks/add (faculty only).
func (h *MarksHandler) UpsertMarks(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromRequest(r)
	if !ok || ident.Role != shared.RoleFaculty {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only faculty can record marks")
		return
	}

	var req RESTUpsertMarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Marks.Upsert(r.Context(), req.StudentEmail, req.Course, req.Marks, req.Grade)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	message := "marks added successfully"
	if result.WasUpdate {
		message = "marks updated successfully"
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"data":       result.Record,
		"was_update": result.WasUpdate,
		"message":    message,
	})
}

// GetStudentMarks handles GET /marks/student/{id}. The service scopes
// visibility to the student themself or the owning faculty.
func (h *MarksHandler) GetStudentMarks(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromRequest(r)
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	studentID := chi.URLParam(r, "id")
	if studentID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "student id is required")
		return
	}

	records, err := h.Marks.StudentMarks(r.Context(), ident, studentID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, records)
}

// GetCourseStats handles GET /marks/stats/{course}.
func (h *MarksHandler) GetCourseStats(w http.ResponseWriter, r *http.Request) {
	course := chi.URLParam(r, "course")
	if course == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course is required")
		return
	}

	stats, err := h.Marks.CourseStats(r.Context(), course)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, stats)
}

// GetFacultyCourseStats handles GET /marks/faculty-stats/{course}/{faculty_id}.
func (h *MarksHandler) GetFacultyCourseStats(w http.ResponseWriter, r *http.Request) {
	ident, ok := IdentityFromRequest(r)
	if !ok {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	course := chi.URLParam(r, "course")
	facultyID := chi.URLParam(r, "faculty_id")
	if course == "" || facultyID == "" {
		util.WriteJSONError(w, http.StatusBadRequest, "course and faculty_id are required")
		return
	}

	stats, err := h.Marks.FacultyCourseStats(r.Context(), ident, facultyID, course)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, stats)
}
