package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/myumkm/myumkm/internal/common"
	"github.com/myumkm/myumkm/internal/server/auth"
	"github.com/myumkm/myumkm/internal/server/config"
	"github.com/myumkm/myumkm/internal/server/models"
)

const bcryptCost = 12

// LoginResult carries the freshly issued credential together with the
// identity it was issued for.
type LoginResult struct {
	Token string
	User  *models.User
}

type Service struct {
	repo      Repository
	jwtSecret []byte
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: []byte(cfg.SecretKey),
	}
}

// normalizeEmail lowercases and trims an email the same way at every
// boundary so uniqueness and lookups agree.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	if n < 3 || n > 100 {
		return fmt.Errorf("%w: name must be 3-100 characters", common.ErrorValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email format", common.ErrorValidation)
	}
	if len(password) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", common.ErrorValidation)
	}
	return nil
}

// Register creates a new identity. The email is stored normalized; a
// duplicate (case-insensitive) yields common.ErrorAlreadyExists.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {

	email = normalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	suffix, err := common.MakeRandHexString(6)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{
		ID:           "user_" + suffix,
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
	}

	user, err = s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the password against the stored hash and issues a signed
// token. Unknown email and wrong password are indistinguishable to the
// caller: both return common.ErrorUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {

	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, user.Email, user.Name, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{Token: token, User: user}, nil
}

// GetByID returns the identity for an already verified subject id.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// List returns all identities, newest first, without credential material.
func (s *Service) List(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.ErrorInternal
	}

	result := make([]models.PublicUser, 0, len(users))
	for i := range users {
		result = append(result, users[i].Public())
	}
	return result, nil
}
