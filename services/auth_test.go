package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"citysync-be/apperrors"
	"citysync-be/repositories"
)

func newAuthService() *AuthService {
	return NewAuthService(
		repositories.NewMemoryUserRepository(),
		repositories.NewMemoryEmployeeRepository(),
		testLogger(),
	)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	service := newAuthService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@x.com", Password: "pw1234", Role: RoleCitizen,
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), RegisterInput{
		Name: "Another Ana", Email: "ana@x.com", Password: "pw5678", Role: RoleCitizen,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateIdentifier)
}

func TestRegisterSparseUniqueness(t *testing.T) {
	service := newAuthService()

	// two accounts with no email at all are fine as long as phones differ
	_, err := service.Register(context.Background(), RegisterInput{
		Name: "A", Phone: "111", Password: "pw1234", Role: RoleCitizen,
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), RegisterInput{
		Name: "B", Phone: "222", Password: "pw1234", Role: RoleCitizen,
	})
	require.NoError(t, err)

	_, err = service.Register(context.Background(), RegisterInput{
		Name: "C", Phone: "111", Password: "pw1234", Role: RoleCitizen,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateIdentifier)
}

func TestRegisterValidation(t *testing.T) {
	service := newAuthService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "Ana", Password: "pw1234", Role: RoleCitizen,
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "needs email or phone")

	_, err = service.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@x.com", Password: "pw", Role: RoleCitizen,
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "short password")

	_, err = service.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@x.com", Password: "pw1234", Role: "mayor",
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "unknown role")
}

func TestRegisterNeverStoresPlaintext(t *testing.T) {
	users := repositories.NewMemoryUserRepository()
	service := NewAuthService(users, repositories.NewMemoryEmployeeRepository(), testLogger())

	account, err := service.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@x.com", Password: "pw1234", Role: RoleCitizen,
	})
	require.NoError(t, err)

	stored, err := users.FindByIdentifier(context.Background(), "ana@x.com", "")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1234", stored.Password)
	assert.True(t, stored.ComparePassword("pw1234"))
	assert.Equal(t, account.ID, stored.ID.Hex())
}

func TestLoginWrongPasswordAndMissingAccountLookAlike(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service := newAuthService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@x.com", Password: "pw1234", Role: RoleCitizen,
	})
	require.NoError(t, err)

	_, _, wrongPassword := service.Login(context.Background(), LoginInput{
		Email: "ana@x.com", Password: "nope", Role: RoleCitizen,
	})
	_, _, missingAccount := service.Login(context.Background(), LoginInput{
		Email: "ghost@x.com", Password: "pw1234", Role: RoleCitizen,
	})

	assert.ErrorIs(t, wrongPassword, apperrors.ErrInvalidCredentials)
	assert.ErrorIs(t, missingAccount, apperrors.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), missingAccount.Error())
}

func TestLoginByPhone(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service := newAuthService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "Ana", Phone: "555-0101", Password: "pw1234", Role: RoleCitizen,
	})
	require.NoError(t, err)

	token, account, err := service.Login(context.Background(), LoginInput{
		Phone: "555-0101", Password: "pw1234", Role: RoleCitizen,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, RoleCitizen, account.Role)
}

func TestEmployeeLoginScopedToDepartment(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service := newAuthService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "Raj", Email: "raj@city.gov", Password: "pw1234",
		Role: RoleEmployee, Department: "water",
	})
	require.NoError(t, err)

	// wrong department fails the same way as wrong credentials
	_, _, err = service.Login(context.Background(), LoginInput{
		Email: "raj@city.gov", Password: "pw1234", Role: RoleEmployee, Department: "road",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	token, account, err := service.Login(context.Background(), LoginInput{
		Email: "raj@city.gov", Password: "pw1234", Role: RoleEmployee, Department: "water",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "water", account.Department)

	// department omitted still matches
	_, _, err = service.Login(context.Background(), LoginInput{
		Email: "raj@city.gov", Password: "pw1234", Role: RoleEmployee,
	})
	assert.NoError(t, err)
}

func TestRolesDoNotCrossAuthenticate(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	service := newAuthService()

	_, err := service.Register(context.Background(), RegisterInput{
		Name: "Ana", Email: "ana@x.com", Password: "pw1234", Role: RoleCitizen,
	})
	require.NoError(t, err)

	_, _, err = service.Login(context.Background(), LoginInput{
		Email: "ana@x.com", Password: "pw1234", Role: RoleEmployee,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}
