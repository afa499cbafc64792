// Package account manages pokerpal user accounts: email/password signup and
// login, Discord-linked accounts, and the session tokens handed to clients.
package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/susu3304/pokerpal/internal/db"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

var (
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserStore is the persistence needed by Service. *db.DB satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash, displayName string) (*db.User, error)
	UserByEmail(ctx context.Context, email string) (*db.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	UpsertDiscordUser(ctx context.Context, discordID, displayName string) (*db.User, error)
}

type Service struct {
	users      UserStore
	bcryptCost int
}

func NewService(users UserStore) *Service {
	return &Service{users: users, bcryptCost: bcrypt.DefaultCost}
}

// NormalizeEmail trims and lower-cases an address and checks its syntax.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Signup creates an email/password account. The display name defaults to the
// local part of the address.
func (s *Service) Signup(ctx context.Context, email, password, displayName string) (*db.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = email[:strings.Index(email, "@")]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.CreateUser(ctx, email, string(hash), displayName)
}

// Login checks the credentials. Unknown emails and wrong passwords produce
// the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*db.User, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginDiscord returns the account linked to a Discord user, creating it on
// first login.
func (s *Service) LoginDiscord(ctx context.Context, discordID, displayName string) (*db.User, error) {
	if discordID == "" {
		return nil, errors.New("missing discord user id")
	}
	return s.users.UpsertDiscordUser(ctx, discordID, displayName)
}

func (s *Service) User(ctx context.Context, id uuid.UUID) (*db.User, error) {
	return s.users.UserByID(ctx, id)
}
