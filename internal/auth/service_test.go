package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marksportal/internal/shared"
	"marksportal/internal/store"
)

func testSecurity() shared.SecurityConfig {
	return shared.SecurityConfig{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		BCryptCost:         4, // minimum cost keeps the tests fast
	}
}

func newTestAuth(t *testing.T) (*Service, *store.MemoryUsers) {
	t.Helper()
	users := store.NewMemoryUsers()
	return NewService(users, testSecurity()), users
}

func TestRegister_Faculty(t *testing.T) {
	svc, _ := newTestAuth(t)

	user, err := svc.Register(context.Background(), "Prof One", "Prof@X.com", "secret", shared.RoleFaculty, "CS")
	require.NoError(t, err)

	assert.Equal(t, shared.RoleFaculty, user.Role)
	assert.Equal(t, "prof@x.com", user.Email, "email stored normalized")
	assert.Equal(t, "CS", user.Department)
	assert.Empty(t, user.FacultyID)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	cases := []struct {
		name       string
		userName   string
		email      string
		password   string
		role       string
		department string
	}{
		{"missing name", "", "a@x.com", "pw", shared.RoleStudent, ""},
		{"missing password", "A", "a@x.com", "", shared.RoleStudent, ""},
		{"bad role", "A", "a@x.com", "pw", "admin", ""},
		{"faculty without department", "A", "a@x.com", "pw", shared.RoleFaculty, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.userName, tc.email, tc.password, tc.role, tc.department)
			require.Error(t, err)
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Prof One", "same@x.com", "pw", shared.RoleFaculty, "CS")
	require.NoError(t, err)

	// Duplicate check is case-insensitive and crosses roles.
	_, err = svc.Register(ctx, "Student One", "SAME@x.com", "pw", shared.RoleStudent, "")
	require.Error(t, err)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestRegisterStudent(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	faculty, err := svc.Register(ctx, "Prof One", "prof@x.com", "pw", shared.RoleFaculty, "CS")
	require.NoError(t, err)

	student, err := svc.RegisterStudent(ctx, faculty.ID, "Student One", "stud@x.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, shared.RoleStudent, student.Role)
	assert.Equal(t, faculty.ID, student.FacultyID)

	owned, err := svc.ListOwnedStudents(ctx, faculty.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, student.ID, owned[0].ID)
}

func TestRegisterStudent_InvalidFaculty(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.RegisterStudent(ctx, "missing-id", "Student One", "stud@x.com", "pw")
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRegisterStudent_TargetMustBeFaculty(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	faculty, err := svc.Register(ctx, "Prof One", "prof@x.com", "pw", shared.RoleFaculty, "CS")
	require.NoError(t, err)
	student, err := svc.RegisterStudent(ctx, faculty.ID, "Student One", "stud@x.com", "pw")
	require.NoError(t, err)

	// A student id is not a valid owner.
	_, err = svc.RegisterStudent(ctx, student.ID, "Student Two", "stud2@x.com", "pw")
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestRegisterStudent_DuplicateEmailAcrossRoles(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	faculty, err := svc.Register(ctx, "Prof One", "prof@x.com", "pw", shared.RoleFaculty, "CS")
	require.NoError(t, err)

	// Registering a student with an email already used by a faculty
	// account must conflict.
	_, err = svc.RegisterStudent(ctx, faculty.ID, "Imposter", "prof@x.com", "pw")
	require.Error(t, err)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Prof One", "prof@x.com", "secret", shared.RoleFaculty, "CS")
	require.NoError(t, err)

	result, err := svc.Login(ctx, "prof@x.com", "secret", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "prof@x.com", result.User.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Prof One", "prof@x.com", "secret", shared.RoleFaculty, "CS")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "prof@x.com", "wrong", "")
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestLogin_UnknownEmailSameMessageAsWrongPassword(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Prof One", "prof@x.com", "secret", shared.RoleFaculty, "CS")
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, "ghost@x.com", "secret", "")
	_, wrongErr := svc.Login(ctx, "prof@x.com", "bad", "")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, status.Convert(unknownErr).Message(), status.Convert(wrongErr).Message(),
		"login failures must not reveal which accounts exist")
}

func TestLogin_RoleMismatch(t *testing.T) {
	svc, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Prof One", "prof@x.com", "secret", shared.RoleFaculty, "CS")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "prof@x.com", "secret", shared.RoleStudent)
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newTestAuth(t)

	user := shared.NewFacultyUser("Prof One", "prof@x.com", "hash", "CS")
	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	ident, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, ident.ID)
	assert.Equal(t, user.Email, ident.Email)
	assert.Equal(t, shared.RoleFaculty, ident.Role)
}

func TestParseToken_Invalid(t *testing.T) {
	svc, _ := newTestAuth(t)

	_, err := svc.ParseToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	// Token signed with a different secret is rejected.
	other := NewService(store.NewMemoryUsers(), shared.SecurityConfig{
		JWTSecret: "other-secret", JWTExpirationHours: 1, BCryptCost: 4,
	})
	token, err := other.GenerateToken(shared.NewFacultyUser("P", "p@x.com", "h", "CS"))
	require.NoError(t, err)

	_, err = svc.ParseToken(token)
	require.Error(t, err)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
