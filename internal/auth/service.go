// Package auth is the identity side of the marks portal: registration
// of faculty and student accounts, credential verification, and JWT
// issue/verify. The faculty->student ownership edge is fixed at student
// registration and never reassigned.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marksportal/internal/shared"
	"marksportal/internal/store"
)

// Service implements registration, login, and the faculty student
// directory. All failures surface as gRPC status errors so the gateway
// can map them onto HTTP without inspecting messages.
type Service struct {
	users    store.Users
	security shared.SecurityConfig
}

// CustomClaims for JWT
type CustomClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// NewService creates a new auth Service instance.
func NewService(users store.Users, security shared.SecurityConfig) *Service {
	return &Service{users: users, security: security}
}

// LoginResult bundles the authenticated user and their session token.
type LoginResult struct {
	User  shared.User `json:"user"`
	Token string      `json:"token"`
}

// Login verifies credentials and issues a JWT. An optional expected
// role cross-checks the account (the login form is role-specific).
// Unknown email and wrong password yield the same message so the
// response does not reveal which accounts exist.
func (s *Service) Login(ctx context.Context, email, password, expectedRole string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, status.Error(codes.InvalidArgument, "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, status.Error(codes.Unauthenticated, "invalid email or password")
		}
		return LoginResult{}, status.Error(codes.Internal, "failed to look up account")
	}

	if expectedRole != "" && user.Role != expectedRole {
		return LoginResult{}, status.Error(codes.Unauthenticated, "invalid credentials for this role")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, status.Error(codes.Unauthenticated, "invalid email or password")
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return LoginResult{}, status.Error(codes.Internal, "failed to generate token")
	}

	return LoginResult{User: user, Token: token}, nil
}

// Register creates a self-serve faculty or student account. Department
// is required for faculty. Self-registered students have no owning
// faculty yet; faculty-registered students go through RegisterStudent.
func (s *Service) Register(ctx context.Context, name, email, password, role, department string) (shared.User, error) {
	if strings.TrimSpace(name) == "" || email == "" || password == "" || role == "" {
		return shared.User{}, status.Error(codes.InvalidArgument, "name, email, password, and role are required")
	}
	if !shared.IsValidRole(role) {
		return shared.User{}, status.Error(codes.InvalidArgument, "role must be either 'faculty' or 'student'")
	}
	if role == shared.RoleFaculty && strings.TrimSpace(department) == "" {
		return shared.User{}, status.Error(codes.InvalidArgument, "department is required for faculty")
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return shared.User{}, err
	}

	var user shared.User
	if role == shared.RoleFaculty {
		user = shared.NewFacultyUser(name, email, hash, department)
	} else {
		user = shared.NewStudentUser(name, email, hash, "")
	}

	if err := s.createUser(ctx, user); err != nil {
		return shared.User{}, err
	}
	return user, nil
}

// RegisterStudent creates a student owned by the given faculty. The
// ownership edge is immutable after this call.
func (s *Service) RegisterStudent(ctx context.Context, facultyID, name, email, password string) (shared.User, error) {
	if strings.TrimSpace(name) == "" || email == "" || password == "" || facultyID == "" {
		return shared.User{}, status.Error(codes.InvalidArgument, "name, email, password, and faculty id are required")
	}

	faculty, err := s.users.GetByID(ctx, facultyID)
	if err != nil || !faculty.IsFaculty() {
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return shared.User{}, status.Error(codes.Internal, "failed to look up faculty")
		}
		return shared.User{}, status.Error(codes.NotFound, "invalid faculty id")
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return shared.User{}, err
	}

	student := shared.NewStudentUser(name, email, hash, faculty.ID)
	if err := s.createUser(ctx, student); err != nil {
		return shared.User{}, err
	}
	return student, nil
}

// ListOwnedStudents returns the students registered under the faculty.
// No cross-faculty visibility: callers must be scoped to their own id
// before reaching this query (the gateway enforces it).
func (s *Service) ListOwnedStudents(ctx context.Context, facultyID string) ([]shared.User, error) {
	students, err := s.users.ListStudentsByFaculty(ctx, facultyID)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to list students")
	}
	return students, nil
}

// ListStudents returns every student account.
func (s *Service) ListStudents(ctx context.Context) ([]shared.User, error) {
	students, err := s.users.ListStudents(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to list students")
	}
	return students, nil
}

// ListUsers returns every user account.
func (s *Service) ListUsers(ctx context.Context) ([]shared.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to list users")
	}
	return users, nil
}

// createUser inserts via the store, translating the unique-email
// constraint violation. The store-level index, not a prior existence
// check, is what closes the duplicate registration race.
func (s *Service) createUser(ctx context.Context, user shared.User) error {
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return status.Error(codes.AlreadyExists, "user with this email already exists")
		}
		return status.Error(codes.Internal, "failed to create user")
	}
	return nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.security.BCryptCost)
	if err != nil {
		return "", status.Error(codes.Internal, "failed to process password")
	}
	return string(hash), nil
}

// ============================================================================
// Token Helpers
// ============================================================================

// GenerateToken creates a signed JWT carrying the user's identity.
func (s *Service) GenerateToken(user shared.User) (string, error) {
	expirationTime := time.Now().Add(time.Duration(s.security.JWTExpirationHours) * time.Hour)

	claims := CustomClaims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "marks-portal",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.security.JWTSecret))
}

// ParseToken validates the JWT signature and expiry and returns the
// caller identity encoded in the claims.
func (s *Service) ParseToken(tokenString string) (shared.Identity, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.security.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return shared.Identity{}, status.Error(codes.Unauthenticated, "invalid or expired token")
	}

	return shared.Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
