package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/server/auth"
	"github.com/myumkm/myumkm/internal/server/config"
	"github.com/myumkm/myumkm/internal/server/models"
)

type memRepo struct {
	byID    map[string]*models.User
	byEmail map[string]*models.User
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]*models.User{}, byEmail: map[string]*models.User{}}
}

func (r *memRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	stored := *user
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored
	result := stored
	return &result, nil
}

func (r *memRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *u
	return &result, nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	result := *u
	return &result, nil
}

func (r *memRepo) List(ctx context.Context) ([]models.User, error) {
	result := make([]models.User, 0, len(r.byID))
	for _, u := range r.byID {
		result = append(result, *u)
	}
	return result, nil
}

func newTestService() (*Service, *memRepo) {
	repo := newMemRepo()
	cfg := &config.Config{SecretKey: "test-secret"}
	return NewService(repo, cfg), repo
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService()

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"short name", "ab", "a@example.com", "secret1"},
		{"long name", strings.Repeat("x", 101), "a@example.com", "secret1"},
		{"bad email", "Budi Santoso", "not-an-email", "secret1"},
		{"short password", "Budi Santoso", "a@example.com", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			if !errors.Is(err, common.ErrorValidation) {
				t.Fatalf("want common.ErrorValidation, got %v", err)
			}
		})
	}
}

func TestRegister_Success(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Register(context.Background(), "  Budi Santoso  ", " Budi@Example.COM ", "rahasia1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if !strings.HasPrefix(u.ID, "user_") {
		t.Errorf("id not generated: %q", u.ID)
	}
	if u.Name != "Budi Santoso" {
		t.Errorf("name not trimmed: %q", u.Name)
	}
	if u.Email != "budi@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if len(u.PasswordHash) == 0 || string(u.PasswordHash) == "rahasia1" {
		t.Errorf("password not hashed")
	}
}

func TestRegister_Duplicate(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), "Budi Santoso", "budi@example.com", "rahasia1"); err != nil {
		t.Fatalf("first Register error: %v", err)
	}
	_, err := svc.Register(context.Background(), "Budi Kedua", "BUDI@example.com", "rahasia2")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	svc, _ := newTestService()

	u, err := svc.Register(context.Background(), "Budi Santoso", "budi@example.com", "rahasia1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	result, err := svc.Login(context.Background(), "Budi@Example.com", "rahasia1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if result.User.ID != u.ID {
		t.Errorf("want user %q, got %q", u.ID, result.User.ID)
	}

	claims, err := auth.VerifyToken(result.Token, []byte("test-secret"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != u.ID || claims.Email != "budi@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestLogin_Unauthorized(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), "Budi Santoso", "budi@example.com", "rahasia1"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// Unknown email and wrong password look the same to the caller.
	if _, err := svc.Login(context.Background(), "ghost@example.com", "rahasia1"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Errorf("unknown email: want common.ErrorUnauthorized, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "budi@example.com", "salah-total"); !errors.Is(err, common.ErrorUnauthorized) {
		t.Errorf("wrong password: want common.ErrorUnauthorized, got %v", err)
	}
}
