package shared

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidGrade(t *testing.T) {
	for _, band := range GradeBands {
		assert.True(t, IsValidGrade(band))
	}
	assert.False(t, IsValidGrade("E"))
	assert.False(t, IsValidGrade("s"), "grades are uppercase only")
	assert.False(t, IsValidGrade(""))
}

func TestIsValidScore(t *testing.T) {
	assert.True(t, IsValidScore(0))
	assert.True(t, IsValidScore(100))
	assert.True(t, IsValidScore(67.5))
	assert.False(t, IsValidScore(-0.1))
	assert.False(t, IsValidScore(100.1))
}

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole(RoleFaculty))
	assert.True(t, IsValidRole(RoleStudent))
	assert.False(t, IsValidRole("admin"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeEmail("  A@X.Com "))
}

func TestNewStudentUser(t *testing.T) {
	u := NewStudentUser(" John Doe ", "John@X.com", "hash", "faculty-1")

	assert.Equal(t, RoleStudent, u.Role)
	assert.Equal(t, "John Doe", u.Name)
	assert.Equal(t, "john@x.com", u.Email)
	assert.Equal(t, "faculty-1", u.FacultyID)
	assert.Empty(t, u.Department)
	assert.True(t, u.IsStudent())
	assert.False(t, u.IsFaculty())
	assert.NotEmpty(t, u.ID)
}

func TestNewFacultyUser(t *testing.T) {
	u := NewFacultyUser("Prof", "prof@x.com", "hash", " CS ")

	assert.Equal(t, RoleFaculty, u.Role)
	assert.Equal(t, "CS", u.Department)
	assert.Empty(t, u.FacultyID)
	assert.True(t, u.IsFaculty())
}

func TestUser_PasswordHashNeverMarshaled(t *testing.T) {
	u := NewFacultyUser("Prof", "prof@x.com", "super-secret-hash", "CS")

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "super-secret-hash")
	assert.NotContains(t, string(data), "password")
}
