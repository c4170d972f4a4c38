// Package store is the persistence layer: narrow interfaces over the
// users and marks collections, with MongoDB implementations for the
// service and an in-memory implementation for tests and tooling.
//
// Uniqueness (user email; marks (student_id, course) pair) is enforced
// by the store itself, never by application-level check-then-act.
package store

import (
	"context"
	"errors"

	"marksportal/internal/shared"
)

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicate indicates a write violated a uniqueness constraint.
	ErrDuplicate = errors.New("store: duplicate key")
)

// Users is the identity store. It exclusively owns User records.
type Users interface {
	// Create inserts a new user. Returns ErrDuplicate if the email is
	// already taken by any account, regardless of role.
	Create(ctx context.Context, user shared.User) error

	GetByID(ctx context.Context, id string) (shared.User, error)

	// GetByEmail looks up a user by normalized email.
	GetByEmail(ctx context.Context, email string) (shared.User, error)

	// ListStudentsByFaculty returns every student owned by the faculty.
	ListStudentsByFaculty(ctx context.Context, facultyID string) ([]shared.User, error)

	// ListStudents returns all students.
	ListStudents(ctx context.Context) ([]shared.User, error)

	// ListAll returns every user record.
	ListAll(ctx context.Context) ([]shared.User, error)
}

// Marks is the marks store. It exclusively owns MarksRecord documents,
// each weakly referencing a User by id.
type Marks interface {
	// Upsert atomically inserts or overwrites the record for the
	// (StudentID, Course) pair of rec. Score and grade are taken from
	// rec; identity fields of an existing record are preserved. The
	// returned record reflects the stored state, and wasUpdate is true
	// when an existing record was overwritten.
	Upsert(ctx context.Context, rec shared.MarksRecord) (shared.MarksRecord, bool, error)

	ListByStudent(ctx context.Context, studentID string) ([]shared.MarksRecord, error)

	ListByCourse(ctx context.Context, course string) ([]shared.MarksRecord, error)

	// ListByCourseAndStudents returns the course's records restricted
	// to the given student ids.
	ListByCourseAndStudents(ctx context.Context, course string, studentIDs []string) ([]shared.MarksRecord, error)
}
