package service

import (
	"context"
	"errors"
	"testing"

	"skillarena/internal/common"
	"skillarena/internal/common/security"
	"skillarena/internal/domain/model"
	"skillarena/internal/platform/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSignup() SignupRequest {
	return SignupRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "Secret123",
		ConfirmPassword: "Secret123",
		Role:            "FREELANCER",
		Terms:           true,
	}
}

func newAuthService(t *testing.T) (*AuthService, *fakeUserRepo, *fakePublisher) {
	t.Helper()
	users := newFakeUserRepo()
	pub := &fakePublisher{}
	return NewAuthService(users, 4, pub, logging.Discard()), users, pub
}

func fieldsOf(t *testing.T, err error) map[string][]string {
	t.Helper()
	var vErr *common.ValidationError
	require.True(t, errors.As(err, &vErr), "expected a validation error, got %v", err)
	out := map[string][]string{}
	for _, f := range vErr.Fields {
		out[f.Field] = append(out[f.Field], f.Message)
	}
	return out
}

func TestValidateSignup_Valid(t *testing.T) {
	assert.NoError(t, ValidateSignup(validSignup()))
}

func TestValidateSignup_ReportsEveryField(t *testing.T) {
	err := ValidateSignup(SignupRequest{
		Name:            "A",
		Email:           "not-an-email",
		Password:        "abc12",
		ConfirmPassword: "abc",
		Role:            "ADMIN",
		Terms:           false,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "confirmPassword")
	assert.Contains(t, fields, "role")
	assert.Contains(t, fields, "terms")
	assert.ElementsMatch(t, []string{
		"Password must be at least 6 characters",
		"Password must contain at least one uppercase letter",
	}, fields["password"])
}

func TestValidateSignup_PasswordMismatch(t *testing.T) {
	req := validSignup()
	req.ConfirmPassword = "Secret124"
	fields := fieldsOf(t, ValidateSignup(req))
	assert.Equal(t, []string{"Passwords don't match"}, fields["confirmPassword"])
	assert.Len(t, fields, 1)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, validEmail("ada@example.com"))
	assert.False(t, validEmail("Ada <ada@example.com>"))
	assert.False(t, validEmail("ada@localhost"))
	assert.False(t, validEmail("ada@example."))
	assert.False(t, validEmail(""))
}

func TestSignup_CreatesUserWithoutHash(t *testing.T) {
	svc, users, _ := newAuthService(t)

	u, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, model.RoleFreelancer, u.Role)
	assert.Empty(t, u.HashedPassword)

	stored, err := users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", stored.HashedPassword)
	assert.True(t, security.CheckPasswordHash("Secret123", stored.HashedPassword))
}

func TestSignup_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), validSignup())
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestSignup_RaceLostOnInsertIsConflict(t *testing.T) {
	svc, users, _ := newAuthService(t)
	users.createErr = common.Errorf("duplicate: %w", common.ErrConflict)

	_, err := svc.Signup(context.Background(), validSignup())
	assert.True(t, errors.Is(err, common.ErrConflict))
}

func TestSignup_StoreFailureIsUpstream(t *testing.T) {
	svc, users, _ := newAuthService(t)
	users.findErr = errors.New("connection reset")

	_, err := svc.Signup(context.Background(), validSignup())
	assert.True(t, errors.Is(err, common.ErrUpstream))
}

func TestSignup_InvalidDoesNotTouchStore(t *testing.T) {
	svc, users, _ := newAuthService(t)
	req := validSignup()
	req.Password, req.ConfirmPassword = "abc12", "abc12"

	_, err := svc.Signup(context.Background(), req)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Empty(t, users.byID)
}

func TestAuthenticate(t *testing.T) {
	svc, _, pub := newAuthService(t)
	created, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	u, err := svc.Authenticate(context.Background(), "ada@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	assert.Empty(t, u.HashedPassword)
	require.Len(t, pub.events, 1)
	assert.Equal(t, ActivityLogin, pub.events[0].Type)
	assert.Equal(t, created.ID, pub.events[0].UserID)
}

func TestAuthenticate_FailuresLookTheSame(t *testing.T) {
	svc, _, pub := newAuthService(t)
	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)

	cases := map[string][2]string{
		"wrong password":    {"ada@example.com", "Secret124"},
		"unknown email":     {"bob@example.com", "Secret123"},
		"malformed email":   {"ada", "Secret123"},
		"short password":    {"ada@example.com", "abc"},
		"empty credentials": {"", ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			u, err := svc.Authenticate(context.Background(), c[0], c[1])
			assert.Nil(t, u)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.True(t, errors.Is(err, common.ErrUnauthorized))
		})
	}
	assert.Empty(t, pub.events)
}

func TestAuthenticate_StoreFailureIsNotAuthFailure(t *testing.T) {
	svc, users, _ := newAuthService(t)
	users.findErr = errors.New("db down")

	_, err := svc.Authenticate(context.Background(), "ada@example.com", "Secret123")
	assert.True(t, errors.Is(err, common.ErrUpstream))
	assert.False(t, errors.Is(err, common.ErrUnauthorized))
}

func TestAuthenticate_PublishFailureIsIgnored(t *testing.T) {
	svc, _, pub := newAuthService(t)
	_, err := svc.Signup(context.Background(), validSignup())
	require.NoError(t, err)
	pub.err = errors.New("redis down")

	_, err = svc.Authenticate(context.Background(), "ada@example.com", "Secret123")
	assert.NoError(t, err)
}
