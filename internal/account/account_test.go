package account

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susu3304/pokerpal/internal/db"
	"golang.org/x/crypto/bcrypt"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*db.User)}
}

func (m *memUsers) CreateUser(ctx context.Context, email, passwordHash, displayName string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return nil, db.ErrEmailTaken
		}
	}
	u := &db.User{ID: uuid.New(), Email: email, PasswordHash: passwordHash, DisplayName: displayName, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u, nil
}

func (m *memUsers) UserByEmail(ctx context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, db.ErrNotFound
}

func (m *memUsers) UserByID(ctx context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, db.ErrNotFound
}

func (m *memUsers) UpsertDiscordUser(ctx context.Context, discordID, displayName string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.DiscordID == discordID {
			u.DisplayName = displayName
			return u, nil
		}
	}
	u := &db.User{ID: uuid.New(), DiscordID: discordID, DisplayName: displayName, CreatedAt: time.Now()}
	m.users[u.ID] = u
	return u, nil
}

func newTestService() *Service {
	s := NewService(newMemUsers())
	s.bcryptCost = bcrypt.MinCost
	return s
}

func TestSignupAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	user, err := s.Signup(ctx, "  Alice@Example.com ", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice", user.DisplayName)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	got, err := s.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = s.Login(ctx, "alice@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Signup(ctx, "alice@example.com", "another1", "Alice")
	assert.ErrorIs(t, err, db.ErrEmailTaken)
}

func TestSignupValidation(t *testing.T) {
	s := newTestService()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{name: "missing at sign", email: "alice.example.com", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "display name form", email: "Alice <alice@example.com>", password: "secret1", wantErr: ErrInvalidEmail},
		{name: "short password", email: "alice@example.com", password: "12345", wantErr: ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Signup(context.Background(), tt.email, tt.password, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoginDiscordReusesLinkedAccount(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	first, err := s.LoginDiscord(ctx, "1234", "alice")
	require.NoError(t, err)
	second, err := s.LoginDiscord(ctx, "1234", "Alice W")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alice W", second.DisplayName)

	_, err = s.LoginDiscord(ctx, "", "nobody")
	assert.Error(t, err)
}

func TestIssuerRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	user := &db.User{ID: uuid.New(), Email: "alice@example.com", DisplayName: "alice"}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "alice", claims.DisplayName)

	id, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestIssuerRejectsBadTokens(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	user := &db.User{ID: uuid.New()}

	other := NewIssuer("other-secret", time.Hour)
	foreign, err := other.Issue(user)
	require.NoError(t, err)
	_, err = issuer.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewIssuer("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue(user)
	require.NoError(t, err)
	_, err = issuer.Parse(stale)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("invalid.token.here")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
