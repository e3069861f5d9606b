package auth

import (
	"testing"
	"time"

	"chamaai_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Segura#2024")
	require.NoError(t, err)
	assert.NotEqual(t, "Segura#2024", hash)
	assert.True(t, CheckPasswordHash("Segura#2024", hash))
	assert.False(t, CheckPasswordHash("segura#2024", hash))
}

func TestToken_RoundTrip(t *testing.T) {
	token, exp, err := GenerateToken("secret", time.Hour, "user-1", "prestador", "sess-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "prestador", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
}

func TestToken_Rejects(t *testing.T) {
	token, _, err := GenerateToken("secret", time.Hour, "user-1", "cliente", "sess-1")
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := GenerateToken("secret", -time.Minute, "user-1", "cliente", "sess-1")
	require.NoError(t, err)
	_, err = ParseToken("secret", expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseToken("secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// без sid токен не принимаем
	noSid := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "user-1"})
	signed, err := noSid.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseToken("secret", signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1", SessionID: "s"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken("secret", unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRedirectFor(t *testing.T) {
	assert.Equal(t, "/painel-prestador", RedirectFor(models.UserTypeProvider))
	assert.Equal(t, "/dashboard", RedirectFor(models.UserTypeClient))
	assert.True(t, IsProviderRole("prestador"))
	assert.False(t, IsProviderRole("cliente"))
}
