package pkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, method jwt.SigningMethod, expires time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(method, Claims{
		UserID: "42",
		Email:  "ada@example.com",
		Role:   "user",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	valid := signToken(t, "secret", jwt.SigningMethodHS256, time.Now().Add(time.Hour))

	claims, err := ValidateToken(valid, "secret")
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", signToken(t, "secret", jwt.SigningMethodHS256, time.Now().Add(-time.Hour)), "secret"},
		{"wrong algorithm", signToken(t, "secret", jwt.SigningMethodHS512, time.Now().Add(time.Hour)), "secret"},
		{"garbage", "not.a.token", "secret"},
		{"no secret", valid, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
