package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserRepo) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	if u != nil {
		u.ID = 99
	}
	return args.Error(0)
}

func (m *mockUserRepo) Upsert(ctx context.Context, u *User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, sector string) ([]User, error) {
	args := m.Called(ctx, sector)
	return args.Get(0).([]User), args.Error(1)
}

type mockJWTService struct {
	mock.Mock
}

func (m *mockJWTService) GenerateToken(userID int64, role, sector string) (string, error) {
	args := m.Called(userID, role, sector)
	return args.String(0), args.Error(1)
}

func (m *mockJWTService) TTL() time.Duration { return time.Hour }

func userWithPassword(t *testing.T, password string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	return &User{
		ID:           5,
		Email:        "ana@tradestars.com",
		PasswordHash: hash,
		Name:         "Ana",
		Sector:       "TEI",
		Role:         RoleEmployee,
		Active:       true,
	}
}

func TestService_Login_Success(t *testing.T) {
	users := new(mockUserRepo)
	jwtSvc := new(mockJWTService)
	users.On("GetByEmail", mock.Anything, "ana@tradestars.com").Return(userWithPassword(t, "segredo123"), nil)
	jwtSvc.On("GenerateToken", int64(5), "colaborador", "TEI").Return("signed-token", nil)

	res, err := NewService(users, jwtSvc).Login(context.Background(), LoginRequest{
		Email:    "ana@tradestars.com",
		Password: "segredo123",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", res.Token)
	assert.Equal(t, int64(5), res.User.ID)
	assert.True(t, res.ExpiresAt.After(time.Now()))
	jwtSvc.AssertExpectations(t)
}

func TestService_Login_WrongPassword(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "ana@tradestars.com").Return(userWithPassword(t, "segredo123"), nil)

	_, err := NewService(users, new(mockJWTService)).Login(context.Background(), LoginRequest{
		Email:    "ana@tradestars.com",
		Password: "nope",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "ghost@tradestars.com").Return(nil, ErrUserNotFound)

	_, err := NewService(users, new(mockJWTService)).Login(context.Background(), LoginRequest{
		Email:    "ghost@tradestars.com",
		Password: "x",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Login_Inactive(t *testing.T) {
	u := userWithPassword(t, "segredo123")
	u.Active = false
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, u.Email).Return(u, nil)

	_, err := NewService(users, new(mockJWTService)).Login(context.Background(), LoginRequest{
		Email:    u.Email,
		Password: "segredo123",
	})

	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestService_CreateUser_DuplicateEmail(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "ana@tradestars.com").Return(&User{ID: 1}, nil)

	_, err := NewService(users, new(mockJWTService)).CreateUser(context.Background(), CreateUserRequest{
		Email:    "ana@tradestars.com",
		Password: "segredo123",
		Name:     "Ana",
		Sector:   "TEI",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestService_CreateUser_DefaultsRoleAndHashes(t *testing.T) {
	users := new(mockUserRepo)
	users.On("GetByEmail", mock.Anything, "bia@tradestars.com").Return(nil, ErrUserNotFound)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)

	u, err := NewService(users, new(mockJWTService)).CreateUser(context.Background(), CreateUserRequest{
		Email:    "bia@tradestars.com",
		Password: "segredo123",
		Name:     "Bia",
		Sector:   "RH",
	})

	require.NoError(t, err)
	assert.Equal(t, RoleEmployee, u.Role)
	assert.True(t, u.Active)
	assert.NoError(t, CheckPassword("segredo123", u.PasswordHash))
}
