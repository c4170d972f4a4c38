// ============================================================================
// internal/shared/models.go
// Shared data models and structs for MongoDB documents
// ============================================================================

package shared

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ============================================================================
// User Models
// ============================================================================

// User represents a user account (faculty or student).
//
// The role decides which of the conditional fields is set: a student
// always carries the owning faculty's id, a faculty always carries a
// department. Use NewStudentUser / NewFacultyUser so documents never
// enter the store with the wrong combination.
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`       // student, faculty
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`

	// Student-specific: id of the owning faculty, fixed at registration.
	FacultyID string `bson:"faculty_id,omitempty" json:"faculty_id,omitempty"`

	// Faculty-specific
	Department string `bson:"department,omitempty" json:"department,omitempty"`
}

// NewStudentUser builds a student owned by the given faculty.
func NewStudentUser(name, email, passwordHash, facultyID string) User {
	return User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         RoleStudent,
		FacultyID:    facultyID,
		CreatedAt:    time.Now().UTC(),
	}
}

// NewFacultyUser builds a faculty member in the given department.
func NewFacultyUser(name, email, passwordHash, department string) User {
	return User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		Role:         RoleFaculty,
		Department:   strings.TrimSpace(department),
		CreatedAt:    time.Now().UTC(),
	}
}

// IsStudent reports whether the user holds the student role.
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsFaculty reports whether the user holds the faculty role.
func (u *User) IsFaculty() bool { return u.Role == RoleFaculty }

// Identity is the verified caller identity attached to every authorized
// request. It is established by the auth middleware and passed
// explicitly into service operations; the core never reads the caller
// from ambient state.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ============================================================================
// Marks Models
// ============================================================================

// MarksRecord is one student's result in one course. At most one record
// exists per (student_id, course) pair; repeated grading overwrites
// score and grade in place.
type MarksRecord struct {
	ID        string    `bson:"_id" json:"id"`
	StudentID string    `bson:"student_id" json:"student_id"`
	Course    string    `bson:"course" json:"course"`
	Score     float64   `bson:"score" json:"score"` // 0-100 inclusive
	Grade     string    `bson:"grade" json:"grade"` // S, A, B, C, D, F
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// CourseStats holds the aggregate view of one course's records.
type CourseStats struct {
	Average        float64        `json:"avg"`
	GradeHistogram map[string]int `json:"grades"`
}

// FacultyCourseStats extends CourseStats with participation counts over
// the faculty's owned students. TotalStudents and StudentsWithMarks may
// differ: not every owned student need have a record for the course yet.
type FacultyCourseStats struct {
	CourseStats
	TotalStudents     int `json:"total_students"`
	StudentsWithMarks int `json:"students_with_marks"`
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// User roles
	RoleStudent = "student"
	RoleFaculty = "faculty"

	// Grade bands, best to worst
	GradeS = "S"
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeF = "F"

	// Score bounds
	MinScore = 0
	MaxScore = 100
)

// GradeBands lists the six grade symbols in rank order (S highest).
var GradeBands = []string{GradeS, GradeA, GradeB, GradeC, GradeD, GradeF}

// IsValidGrade checks if grade is one of the six grade bands.
func IsValidGrade(grade string) bool {
	for _, g := range GradeBands {
		if grade == g {
			return true
		}
	}
	return false
}

// IsValidRole checks if a user role is valid.
func IsValidRole(role string) bool {
	return role == RoleStudent || role == RoleFaculty
}

// IsValidScore checks that a score is within the 0-100 inclusive range.
func IsValidScore(score float64) bool {
	return score >= MinScore && score <= MaxScore
}

// NormalizeEmail lowercases and trims an email address. Emails are
// stored normalized so the unique index doubles as a case-insensitive
// uniqueness check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
