// Package marks is the core of the portal: the access-scoping filter,
// the marks upsert engine, and the aggregation engine over (student,
// course) -> (score, grade) records.
package marks

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marksportal/internal/shared"
	"marksportal/internal/store"
)

// Service implements marks recording, scoped retrieval, and statistics.
type Service struct {
	users store.Users
	marks store.Marks
}

// NewService creates a new marks Service instance.
func NewService(users store.Users, marks store.Marks) *Service {
	return &Service{users: users, marks: marks}
}

// UpsertResult reports the stored record and whether an existing record
// was overwritten.
type UpsertResult struct {
	Record    shared.MarksRecord `json:"data"`
	WasUpdate bool               `json:"was_update"`
}

// Upsert records or amends a student's score for a course as a single
// idempotent-by-key operation: after the call exactly one record exists
// for the (student, course) pair, holding the latest values.
//
// Grade and score are independently supplied and independently trusted;
// no consistency between the two is enforced. The course is an opaque
// code with no catalog to validate against.
func (s *Service) Upsert(ctx context.Context, studentEmail, course string, score float64, grade string) (UpsertResult, error) {
	if studentEmail == "" || strings.TrimSpace(course) == "" {
		return UpsertResult{}, status.Error(codes.InvalidArgument, "student email and course are required")
	}
	if !shared.IsValidScore(score) {
		return UpsertResult{}, status.Error(codes.InvalidArgument, "score must be between 0 and 100")
	}
	if !shared.IsValidGrade(grade) {
		return UpsertResult{}, status.Error(codes.InvalidArgument, "grade must be one of: S, A, B, C, D, F")
	}

	student, err := s.users.GetByEmail(ctx, studentEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return UpsertResult{}, status.Error(codes.NotFound, "student not found")
		}
		return UpsertResult{}, status.Error(codes.Internal, "failed to look up student")
	}
	if !student.IsStudent() {
		return UpsertResult{}, status.Error(codes.NotFound, "student not found")
	}

	rec := shared.MarksRecord{
		StudentID: student.ID,
		Course:    strings.TrimSpace(course),
		Score:     score,
		Grade:     grade,
	}

	stored, wasUpdate, err := s.marks.Upsert(ctx, rec)
	if err != nil {
		return UpsertResult{}, status.Error(codes.Internal, "failed to save marks")
	}

	return UpsertResult{Record: stored, WasUpdate: wasUpdate}, nil
}

// StudentMarks returns every record of the given student, provided the
// caller is the student themself or the owning faculty.
func (s *Service) StudentMarks(ctx context.Context, ident shared.Identity, studentID string) ([]shared.MarksRecord, error) {
	if studentID == "" {
		return nil, status.Error(codes.InvalidArgument, "student id is required")
	}

	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, status.Error(codes.NotFound, "student not found")
		}
		return nil, status.Error(codes.Internal, "failed to look up student")
	}
	if !student.IsStudent() {
		return nil, status.Error(codes.NotFound, "student not found")
	}

	if !CanViewStudentMarks(ident, student) {
		return nil, status.Error(codes.PermissionDenied, "access denied: cannot view this student's marks")
	}

	records, err := s.marks.ListByStudent(ctx, student.ID)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to fetch marks")
	}
	return records, nil
}
