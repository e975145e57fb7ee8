package auth

import (
	"context"
	"errors"
	"log"
	"time"
)

type tokenIssuer interface {
	GenerateToken(userID int64, role, sector string) (string, error)
	TTL() time.Duration
}

// Service contains all business logic for authentication
type Service struct {
	users UserRepository
	jwt   tokenIssuer
}

func NewService(users UserRepository, jwt tokenIssuer) *Service {
	return &Service{users: users, jwt: jwt}
}

// Login checks credentials and issues an access token. Unknown emails and bad
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(req.Password, user.PasswordHash); err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			log.Printf("auth_password_check_failed user_id=%d err=%v", user.ID, err)
		}
		return nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, ErrAccountInactive
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role), user.Sector)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwt.TTL()).UTC(),
		User:      user,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RoleEmployee
	}

	u := &User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Sector:       req.Sector,
		Role:         role,
		Position:     req.Position,
		Active:       true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, sector string) ([]User, error) {
	return s.users.List(ctx, sector)
}
