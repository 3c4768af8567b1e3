package identity

import (
	"context"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/auth"
)

type Service struct {
	users Repository
	jwt   auth.JWTConfig
}

func NewService(users Repository, jwt auth.JWTConfig) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates an account with a bcrypt-hashed password. Duplicate
// emails surface as a conflict from the repository.
func (s *Service) Register(ctx context.Context, email, password, role string) (*User, error) {
	role, err := ParseRole(role)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	u := &User{Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login verifies credentials and issues a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", nil, apperr.Unauthorized("invalid credentials")
		}
		return "", nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		return "", nil, apperr.Unauthorized("invalid credentials")
	}

	token, err := auth.IssueToken(s.jwt, u.ID, u.Role)
	if err != nil {
		return "", nil, apperr.Internal("issue token", err)
	}
	return token, u, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}
