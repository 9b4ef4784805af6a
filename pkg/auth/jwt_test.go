package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(JWTConfig{
		Secret:     "test-secret-key-for-unit-tests",
		Issuer:     "underwriting-test",
		Expiration: 15 * time.Minute,
	})
	require.NoError(t, err)
	return svc
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken("reviewer-7", []string{RoleUnderwriter})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "reviewer-7", claims.ReviewerID)
	assert.Equal(t, "reviewer-7", claims.Subject)
	assert.True(t, claims.HasRole(RoleUnderwriter))
	assert.False(t, claims.HasRole(RoleAdmin))
}

func TestValidateToken_Expired(t *testing.T) {
	svc, err := NewJWTService(JWTConfig{Secret: "s", Issuer: "underwriting-test", Expiration: -time.Minute})
	require.NoError(t, err)

	token, err := svc.GenerateToken("reviewer-7", nil)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	issuer, err := NewJWTService(JWTConfig{Secret: "s", Issuer: "someone-else", Expiration: time.Minute})
	require.NoError(t, err)
	validator, err := NewJWTService(JWTConfig{Secret: "s", Issuer: "underwriting-test"})
	require.NoError(t, err)

	token, err := issuer.GenerateToken("reviewer-7", nil)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresKeyMaterial(t *testing.T) {
	_, err := NewJWTService(JWTConfig{Issuer: "x"})
	assert.Error(t, err)
}

func TestValidationOnlyMode_RS256(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	svc, err := NewJWTService(JWTConfig{PublicKeyPEM: string(pubPEM), Issuer: "gateway"})
	require.NoError(t, err)

	_, err = svc.GenerateToken("reviewer-7", nil)
	assert.Error(t, err)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "gateway", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		ReviewerID:       "reviewer-9",
	}).SignedString(key)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "reviewer-9", claims.ReviewerID)
}

func TestUnaryAuthInterceptor(t *testing.T) {
	svc := newTestJWTService(t)
	const update = "/underwriting.v1.UnderwritingService/UpdateDecision"
	interceptor := UnaryAuthInterceptor(svc,
		[]string{"/grpc.health.v1.Health/Check"},
		map[string][]string{update: {RoleUnderwriter, RoleAdmin}},
	)
	ok := func(ctx context.Context, _ interface{}) (interface{}, error) {
		_, found := ClaimsFromContext(ctx)
		return found, nil
	}
	withToken := func(t *testing.T, roles ...string) context.Context {
		token, err := svc.GenerateToken("reviewer-7", roles)
		require.NoError(t, err)
		return metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))
	}

	t.Run("skipped method needs no token", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}, ok)
		assert.NoError(t, err)
	})

	t.Run("missing metadata is unauthenticated", func(t *testing.T) {
		_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: update}, ok)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("role guard rejects reviewer", func(t *testing.T) {
		_, err := interceptor(withToken(t, RoleReviewer), nil, &grpc.UnaryServerInfo{FullMethod: update}, ok)
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("underwriter passes and claims reach the handler", func(t *testing.T) {
		found, err := interceptor(withToken(t, RoleUnderwriter), nil, &grpc.UnaryServerInfo{FullMethod: update}, ok)
		require.NoError(t, err)
		assert.Equal(t, true, found)
	})
}
