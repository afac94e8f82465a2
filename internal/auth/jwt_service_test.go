package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamereviews/internal/model"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "GameReviewsAPI"
	testAudience = "GameReviewsClient"
)

func newTestJWTService() *JWTService {
	return NewJWTService(testSecret, testIssuer, testAudience, time.Hour)
}

func testUser() *model.User {
	return &model.User{ID: "3f2504e0-4f89-11d3-9a0c-0305e82c3301", Username: "alice", Role: model.RoleUser}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "3f2504e0-4f89-11d3-9a0c-0305e82c3301", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Equal(t, jwt.ClaimStrings{testAudience}, claims.Audience)
	assert.NotEmpty(t, claims.ID)

	p := claims.Principal()
	assert.Equal(t, 280591469, p.UserID)
	assert.False(t, p.IsAdmin())
	assert.WithinDuration(t, time.Now().Add(time.Hour), p.ExpiresAt, 5*time.Second)
}

func TestJWTService_DefaultExpiry(t *testing.T) {
	svc := NewJWTService(testSecret, testIssuer, testAudience, 0)
	assert.Equal(t, DefaultTokenExpiry, svc.Expiry())
}

func TestJWTService_Rejects(t *testing.T) {
	issuer := newTestJWTService()
	token, err := issuer.GenerateToken(testUser())
	require.NoError(t, err)

	tests := []struct {
		name      string
		validator *JWTService
		token     string
	}{
		{"wrong secret", NewJWTService("other-secret", testIssuer, testAudience, time.Hour), token},
		{"wrong issuer", NewJWTService(testSecret, "someone-else", testAudience, time.Hour), token},
		{"wrong audience", NewJWTService(testSecret, testIssuer, "other-client", time.Hour), token},
		{"garbage", issuer, "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.validator.ValidateToken(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestJWTService_ExpiredWithoutSkew(t *testing.T) {
	svc := newTestJWTService()
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(testUser())
	require.NoError(t, err)

	// One second past expiry is already rejected.
	svc.now = func() time.Time { return issuedAt.Add(time.Hour + time.Second) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return issuedAt.Add(time.Hour - time.Second) }
	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)
}

func TestJWTService_RejectsForeignClaims(t *testing.T) {
	svc := newTestJWTService()

	sign := func(claims *Claims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return s
	}
	registered := func(subject string) jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	_, err := svc.ValidateToken(sign(&Claims{Username: "x", Role: model.RoleUser, RegisteredClaims: registered("")}))
	assert.ErrorIs(t, err, ErrInvalidToken, "missing subject")

	_, err = svc.ValidateToken(sign(&Claims{Username: "x", Role: "Root", RegisteredClaims: registered("abc")}))
	assert.ErrorIs(t, err, ErrInvalidToken, "unknown role")

	noExpiry := registered("abc")
	noExpiry.ExpiresAt = nil
	_, err = svc.ValidateToken(sign(&Claims{Username: "x", Role: model.RoleUser, RegisteredClaims: noExpiry}))
	assert.ErrorIs(t, err, ErrInvalidToken, "missing exp")
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{
		Username: "alice",
		Role:     model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "abc",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
