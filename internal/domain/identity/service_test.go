package identity

import (
	"context"
	"testing"
	"time"

	"github.com/clinichq/clinic-server/internal/platform/apperr"
	"github.com/clinichq/clinic-server/internal/platform/auth"
)

type mockUserRepo struct {
	users  map[int64]*User
	nextID int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*User), nextID: 1}
}

func (m *mockUserRepo) Create(ctx context.Context, u *User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("email is already registered")
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user")
}

func newTestService() *Service {
	return NewService(newMockUserRepo(), auth.JWTConfig{
		Secret: []byte("test-secret"),
		Issuer: "clinic-server",
		Expiry: time.Hour,
	})
}

func TestRegister(t *testing.T) {
	svc := newTestService()
	u, err := svc.Register(context.Background(), "ana@clinic.test", "password1", RoleDoctor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected assigned id")
	}
	if u.PasswordHash == "password1" {
		t.Error("password must be hashed")
	}
}

func TestRegister_InvalidRole(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), "ana@clinic.test", "password1", "superuser")
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
	if !apperr.IsInvalid(err) {
		t.Errorf("expected invalid kind, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Register(context.Background(), "ana@clinic.test", "password1", RolePatient); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Register(context.Background(), "ana@clinic.test", "password2", RolePatient)
	if !apperr.IsConflict(err) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Register(context.Background(), "ana@clinic.test", "password1", RoleNurse); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	token, u, err := svc.Login(context.Background(), "ana@clinic.test", "password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("expected a token")
	}
	if u.Role != RoleNurse {
		t.Errorf("role = %q, want nurse", u.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService()
	if _, err := svc.Register(context.Background(), "ana@clinic.test", "password1", RoleNurse); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "ana@clinic.test", "wrong")
	if err == nil {
		t.Fatal("expected error for wrong password")
	}
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestLogin_UnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.Login(context.Background(), "ghost@clinic.test", "whatever")
	if apperr.KindOf(err) != apperr.KindUnauthorized {
		t.Errorf("expected unauthorized, got %v", err)
	}
}
