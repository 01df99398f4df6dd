package users

import (
	"testing"
	"time"

	"github.com/aristath/tradejournal/internal/domain"
	testutil "github.com/aristath/tradejournal/internal/testing"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) (*Service, *TokenIssuer) {
	t.Helper()
	db := testutil.NewMemoryDB(t)
	issuer := NewTokenIssuer("test-secret", 30*time.Minute)
	svc := NewService(NewRepository(db, zerolog.Nop()), issuer, zerolog.Nop())
	svc.SetHashCost(bcrypt.MinCost)
	return svc, issuer
}

func TestService_RegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)

	user, err := svc.Register(RegisterInput{Username: " alice ", Email: "Alice@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "correct horse", user.HashedPassword)

	token, err := svc.Login("alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)

	session, err := svc.Resolve(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, "alice", session.Username)
	assert.NotEmpty(t, session.TokenID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	// Username also works as identifier
	_, err = svc.Login("alice", "correct horse")
	require.NoError(t, err)
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Login("alice@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_RegisterRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice2", Email: "ALICE@example.com", Password: "correct horse"})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
	assert.Contains(t, err.Error(), "Email already registered")

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@example.com", Password: "correct horse"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Username already taken")
}

func TestRegisterInput_Validate(t *testing.T) {
	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing username", RegisterInput{Email: "a@example.com", Password: "12345678"}},
		{"username with space", RegisterInput{Username: "a b", Email: "a@example.com", Password: "12345678"}},
		{"bad email", RegisterInput{Username: "a", Email: "not-an-email", Password: "12345678"}},
		{"email with display name", RegisterInput{Username: "a", Email: "A <a@example.com>", Password: "12345678"}},
		{"short password", RegisterInput{Username: "a", Email: "a@example.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, domain.IsValidation(tt.in.Validate()))
		})
	}

	assert.NoError(t, RegisterInput{Username: "a", Email: "a@example.com", Password: "12345678"}.Validate())
}

func TestService_ResolveRejectsBadTokens(t *testing.T) {
	svc, issuer := newTestService(t)
	user, err := svc.Register(RegisterInput{Username: "alice", Email: "alice@example.com", Password: "correct horse"})
	require.NoError(t, err)

	// Expired
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := issuer.Issue(user)
	require.NoError(t, err)
	issuer.now = time.Now
	_, err = svc.Resolve(expired)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Signed with another secret
	foreign, _, err := NewTokenIssuer("other-secret", time.Hour).Issue(user)
	require.NoError(t, err)
	_, err = svc.Resolve(foreign)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Unknown user
	ghost, _, err := issuer.Issue(&User{ID: 999, Username: "ghost"})
	require.NoError(t, err)
	_, err = svc.Resolve(ghost)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Wrong algorithm
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Resolve(none)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Resolve("garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestTokenIssuer_Claims(t *testing.T) {
	issuer := NewTokenIssuer("s", time.Minute)
	signed, claims, err := issuer.Issue(&User{ID: 42, Username: "bob"})
	require.NoError(t, err)

	parsed, userID, err := issuer.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "bob", parsed.Username)
	assert.Equal(t, claims.ID, parsed.ID)
	assert.Len(t, parsed.ID, 36)

	other, _, err := issuer.Issue(&User{ID: 42})
	require.NoError(t, err)
	assert.NotEqual(t, signed, other)
}
