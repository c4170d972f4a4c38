package marks

import "marksportal/internal/shared"

// Access-scoping decisions are pure functions over the caller identity
// and already-fetched records. They never touch the stores.

// CanViewStudentMarks reports whether the caller may read the student's
// marks: the student themself, or the faculty that owns the student.
func CanViewStudentMarks(ident shared.Identity, student shared.User) bool {
	if ident.Role == shared.RoleStudent {
		return ident.ID == student.ID
	}
	if ident.Role == shared.RoleFaculty {
		return student.FacultyID == ident.ID
	}
	return false
}

// CanViewFacultyStats reports whether the caller may read stats scoped
// to the requested faculty. This is an identity-equality check, not a
// role check: faculty never see another faculty's course statistics.
func CanViewFacultyStats(ident shared.Identity, requestedFacultyID string) bool {
	return ident.ID == requestedFacultyID
}
