package marks

import (
	"context"

	"github.com/montanaflynn/stats"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marksportal/internal/shared"
)

// ComputeStats computes descriptive statistics over a record set: the
// arithmetic mean of scores rounded to 2 decimal places, and a count
// per grade band. The empty set is a defined case, not an error: the
// average is 0 and every band counts 0. All six band keys are always
// present. Output is exactly reproducible for a fixed record set.
func ComputeStats(records []shared.MarksRecord) shared.CourseStats {
	histogram := make(map[string]int, len(shared.GradeBands))
	for _, band := range shared.GradeBands {
		histogram[band] = 0
	}

	result := shared.CourseStats{Average: 0, GradeHistogram: histogram}
	if len(records) == 0 {
		return result
	}

	scores := make([]float64, 0, len(records))
	for _, rec := range records {
		scores = append(scores, rec.Score)
		histogram[rec.Grade]++
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return result
	}
	rounded, err := stats.Round(mean, 2)
	if err != nil {
		return result
	}
	result.Average = rounded
	return result
}

// CourseStats aggregates every record of the course, regardless of
// owning faculty.
func (s *Service) CourseStats(ctx context.Context, course string) (shared.CourseStats, error) {
	if course == "" {
		return shared.CourseStats{}, status.Error(codes.InvalidArgument, "course is required")
	}

	records, err := s.marks.ListByCourse(ctx, course)
	if err != nil {
		return shared.CourseStats{}, status.Error(codes.Internal, "failed to fetch course marks")
	}
	return ComputeStats(records), nil
}

// FacultyCourseStats aggregates the course's records restricted to the
// faculty's owned students, and reports how many of those students have
// a record for the course at all. Only the faculty themself may request
// their stats.
func (s *Service) FacultyCourseStats(ctx context.Context, ident shared.Identity, facultyID, course string) (shared.FacultyCourseStats, error) {
	if facultyID == "" || course == "" {
		return shared.FacultyCourseStats{}, status.Error(codes.InvalidArgument, "course and faculty id are required")
	}

	if !CanViewFacultyStats(ident, facultyID) {
		return shared.FacultyCourseStats{}, status.Error(codes.PermissionDenied, "access denied: cannot view another faculty's statistics")
	}

	students, err := s.users.ListStudentsByFaculty(ctx, facultyID)
	if err != nil {
		return shared.FacultyCourseStats{}, status.Error(codes.Internal, "failed to list students")
	}

	studentIDs := make([]string, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.ID)
	}

	records, err := s.marks.ListByCourseAndStudents(ctx, course, studentIDs)
	if err != nil {
		return shared.FacultyCourseStats{}, status.Error(codes.Internal, "failed to fetch course marks")
	}

	return shared.FacultyCourseStats{
		CourseStats:       ComputeStats(records),
		TotalStudents:     len(students),
		StudentsWithMarks: len(records),
	}, nil
}
