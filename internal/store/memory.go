package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"marksportal/internal/shared"
)

// MemoryUsers is a mutex-guarded in-memory Users implementation. It
// honors the same uniqueness constraints as the Mongo store and backs
// the service tests.
type MemoryUsers struct {
	mu      sync.Mutex
	byID    map[string]shared.User
	byEmail map[string]string // normalized email -> id
}

// NewMemoryUsers creates an empty in-memory user store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    make(map[string]shared.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryUsers) Create(_ context.Context, user shared.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := shared.NormalizeEmail(user.Email)
	if _, exists := s.byEmail[email]; exists {
		return ErrDuplicate
	}
	s.byID[user.ID] = user
	s.byEmail[email] = user.ID
	return nil
}

func (s *MemoryUsers) GetByID(_ context.Context, id string) (shared.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return shared.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemoryUsers) GetByEmail(_ context.Context, email string) (shared.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[shared.NormalizeEmail(email)]
	if !ok {
		return shared.User{}, ErrNotFound
	}
	return s.byID[id], nil
}

func (s *MemoryUsers) ListStudentsByFaculty(_ context.Context, facultyID string) ([]shared.User, error) {
	return s.filter(func(u shared.User) bool {
		return u.Role == shared.RoleStudent && u.FacultyID == facultyID
	}), nil
}

func (s *MemoryUsers) ListStudents(_ context.Context) ([]shared.User, error) {
	return s.filter(func(u shared.User) bool { return u.Role == shared.RoleStudent }), nil
}

func (s *MemoryUsers) ListAll(_ context.Context) ([]shared.User, error) {
	return s.filter(func(shared.User) bool { return true }), nil
}

func (s *MemoryUsers) filter(keep func(shared.User) bool) []shared.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users []shared.User
	for _, u := range s.byID {
		if keep(u) {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}

// MemoryMarks is a mutex-guarded in-memory Marks implementation. The
// lock makes Upsert atomic per (student, course) pair, matching the
// guarantee the Mongo unique index provides.
type MemoryMarks struct {
	mu      sync.Mutex
	records map[markKey]shared.MarksRecord
}

type markKey struct {
	studentID string
	course    string
}

// NewMemoryMarks creates an empty in-memory marks store.
func NewMemoryMarks() *MemoryMarks {
	return &MemoryMarks{records: make(map[markKey]shared.MarksRecord)}
}

func (s *MemoryMarks) Upsert(_ context.Context, rec shared.MarksRecord) (shared.MarksRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := markKey{studentID: rec.StudentID, course: rec.Course}
	now := time.Now().UTC()

	if existing, ok := s.records[key]; ok {
		existing.Score = rec.Score
		existing.Grade = rec.Grade
		existing.UpdatedAt = now
		s.records[key] = existing
		return existing, true, nil
	}

	stored := shared.MarksRecord{
		ID:        uuid.NewString(),
		StudentID: rec.StudentID,
		Course:    rec.Course,
		Score:     rec.Score,
		Grade:     rec.Grade,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.records[key] = stored
	return stored, false, nil
}

func (s *MemoryMarks) ListByStudent(_ context.Context, studentID string) ([]shared.MarksRecord, error) {
	return s.filter(func(r shared.MarksRecord) bool { return r.StudentID == studentID }), nil
}

func (s *MemoryMarks) ListByCourse(_ context.Context, course string) ([]shared.MarksRecord, error) {
	return s.filter(func(r shared.MarksRecord) bool { return r.Course == course }), nil
}

func (s *MemoryMarks) ListByCourseAndStudents(_ context.Context, course string, studentIDs []string) ([]shared.MarksRecord, error) {
	ids := make(map[string]bool, len(studentIDs))
	for _, id := range studentIDs {
		ids[id] = true
	}
	return s.filter(func(r shared.MarksRecord) bool {
		return r.Course == course && ids[r.StudentID]
	}), nil
}

func (s *MemoryMarks) filter(keep func(shared.MarksRecord) bool) []shared.MarksRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []shared.MarksRecord
	for _, r := range s.records {
		if keep(r) {
			records = append(records, r)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Course != records[j].Course {
			return records[i].Course < records[j].Course
		}
		return records[i].StudentID < records[j].StudentID
	})
	return records
}
