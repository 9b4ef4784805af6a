package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	// Secret is the HMAC-SHA256 key, used when no public key is configured.
	Secret string
	// PublicKeyPEM is a PEM-encoded RSA public key for validating RS256 tokens.
	PublicKeyPEM string

	Issuer     string
	Expiration time.Duration
}

// JWTService validates tokens issued by the platform gateway. With an HMAC
// secret it can also mint tokens, which tooling and tests rely on.
type JWTService struct {
	config    JWTConfig
	publicKey *rsa.PublicKey
}

// NewJWTService creates a JWTService. A public key takes precedence over a secret.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	svc := &JWTService{config: cfg}

	switch {
	case cfg.PublicKeyPEM != "":
		pubKey, err := jwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
		}
		svc.publicKey = pubKey
	case cfg.Secret != "":
	default:
		return nil, errors.New("jwt configuration requires PublicKeyPEM or Secret")
	}

	return svc, nil
}

// GenerateToken signs an HS256 token for the given reviewer.
func (s *JWTService) GenerateToken(reviewerID string, roles []string) (string, error) {
	if s.publicKey != nil {
		return "", errors.New("cannot generate token: service is in validation-only mode")
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   reviewerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		ReviewerID: reviewerID,
		Roles:      roles,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and validates a JWT token string.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func (s *JWTService) keyFunc(token *jwt.Token) (interface{}, error) {
	if s.publicKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v (expected RS256)", token.Header["alg"])
		}
		return s.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return []byte(s.config.Secret), nil
}

// LoadKeyFromFile reads a PEM-encoded key from a file path.
func LoadKeyFromFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file %q: %w", path, err)
	}
	return data, nil
}
