package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"citysync-be/apperrors"
	"citysync-be/models"
	"citysync-be/repositories"
	authUtils "citysync-be/utils"
)

// Account roles.
const (
	RoleCitizen  = "citizen"
	RoleEmployee = "employee"
)

const defaultDepartment = "general"

// RegisterInput carries the fields of a registration request. Email and
// phone are optional; at least one must be set. Department only applies to
// employees.
type RegisterInput struct {
	Name       string
	Email      string
	Phone      string
	Password   string
	Role       string
	Department string
}

// LoginInput identifies an account by email or phone within a role. For
// employees a department, when given, must match as well.
type LoginInput struct {
	Email      string
	Phone      string
	Password   string
	Role       string
	Department string
}

// Account is the role-neutral view of a citizen or employee returned by the
// auth operations. Password material never leaves the service.
type Account struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Role       string    `json:"role"`
	Department string    `json:"department,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AuthService registers accounts and verifies credentials.
type AuthService struct {
	users     repositories.UserRepository
	employees repositories.EmployeeRepository
	logger    *slog.Logger
}

func NewAuthService(users repositories.UserRepository, employees repositories.EmployeeRepository, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, employees: employees, logger: logger}
}

// Register creates a citizen or employee account with a hashed password.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*Account, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	if input.Name == "" {
		return nil, apperrors.ValidationFailed("name", "is required")
	}
	if len(input.Password) < 6 {
		return nil, apperrors.ValidationFailed("password", "must be at least 6 characters")
	}
	if input.Email == "" && input.Phone == "" {
		return nil, apperrors.ValidationFailed("identifier", "email or phone is required")
	}

	switch input.Role {
	case RoleCitizen:
		user := models.User{
			Name:      input.Name,
			Email:     optional(input.Email),
			Phone:     optional(input.Phone),
			Password:  input.Password,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := user.HashPassword(); err != nil {
			return nil, apperrors.Internal(err)
		}
		if err := s.users.Create(ctx, &user); err != nil {
			return nil, err
		}
		s.logger.Info("citizen registered", "id", user.ID.Hex())
		return &Account{
			ID:        user.ID.Hex(),
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
			Role:      RoleCitizen,
			CreatedAt: user.CreatedAt,
		}, nil

	case RoleEmployee:
		department := strings.TrimSpace(input.Department)
		if department == "" {
			department = defaultDepartment
		}
		employee := models.Employee{
			Name:       input.Name,
			Email:      optional(input.Email),
			Phone:      optional(input.Phone),
			Password:   input.Password,
			Department: department,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		if err := employee.HashPassword(); err != nil {
			return nil, apperrors.Internal(err)
		}
		if err := s.employees.Create(ctx, &employee); err != nil {
			return nil, err
		}
		s.logger.Info("employee registered", "id", employee.ID.Hex(), "department", employee.Department)
		return &Account{
			ID:         employee.ID.Hex(),
			Name:       employee.Name,
			Email:      employee.Email,
			Phone:      employee.Phone,
			Role:       RoleEmployee,
			Department: employee.Department,
			CreatedAt:  employee.CreatedAt,
		}, nil

	default:
		return nil, apperrors.ValidationFailed("role", "must be citizen or employee")
	}
}

// Login verifies credentials within a role and returns a session token. A
// missing account and a wrong password produce the same error so callers
// cannot probe which identifiers exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (string, *Account, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Phone = strings.TrimSpace(input.Phone)

	if input.Email == "" && input.Phone == "" {
		return "", nil, apperrors.ValidationFailed("identifier", "email or phone is required")
	}

	switch input.Role {
	case RoleCitizen:
		user, err := s.users.FindByIdentifier(ctx, input.Email, input.Phone)
		if err != nil {
			return "", nil, loginError(err)
		}
		if !user.ComparePassword(input.Password) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		token, err := authUtils.GenerateToken(user.ID.Hex(), RoleCitizen)
		if err != nil {
			s.logger.Error("token generation failed", "error", err)
			return "", nil, apperrors.Internal(err)
		}
		return token, &Account{
			ID:        user.ID.Hex(),
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
			Role:      RoleCitizen,
			CreatedAt: user.CreatedAt,
		}, nil

	case RoleEmployee:
		employee, err := s.employees.FindByIdentifier(ctx, input.Email, input.Phone, strings.TrimSpace(input.Department))
		if err != nil {
			return "", nil, loginError(err)
		}
		if !employee.ComparePassword(input.Password) {
			return "", nil, apperrors.ErrInvalidCredentials
		}
		token, err := authUtils.GenerateToken(employee.ID.Hex(), RoleEmployee)
		if err != nil {
			s.logger.Error("token generation failed", "error", err)
			return "", nil, apperrors.Internal(err)
		}
		return token, &Account{
			ID:         employee.ID.Hex(),
			Name:       employee.Name,
			Email:      employee.Email,
			Phone:      employee.Phone,
			Role:       RoleEmployee,
			Department: employee.Department,
			CreatedAt:  employee.CreatedAt,
		}, nil

	default:
		return "", nil, apperrors.ValidationFailed("role", "must be citizen or employee")
	}
}

// GetAccount resolves an authenticated id/role pair back to its account.
func (s *AuthService) GetAccount(ctx context.Context, id, role string) (*Account, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	switch role {
	case RoleCitizen:
		user, err := s.users.FindByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		return &Account{
			ID:        user.ID.Hex(),
			Name:      user.Name,
			Email:     user.Email,
			Phone:     user.Phone,
			Role:      RoleCitizen,
			CreatedAt: user.CreatedAt,
		}, nil
	case RoleEmployee:
		employee, err := s.employees.FindByID(ctx, objectID)
		if err != nil {
			return nil, err
		}
		return &Account{
			ID:         employee.ID.Hex(),
			Name:       employee.Name,
			Email:      employee.Email,
			Phone:      employee.Phone,
			Role:       RoleEmployee,
			Department: employee.Department,
			CreatedAt:  employee.CreatedAt,
		}, nil
	default:
		return nil, apperrors.ErrInvalidToken
	}
}

// loginError collapses lookup failures into InvalidCredentials; anything
// other than a missing account passes through.
func loginError(err error) error {
	if apperrors.IsCode(err, "NOT_FOUND") {
		return apperrors.ErrInvalidCredentials
	}
	return err
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
