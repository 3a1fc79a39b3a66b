package auth

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ShipIM/database-refactoring/internal/config"
	"github.com/ShipIM/database-refactoring/internal/platform/logger"
)

const minSecretLength = 32

// registeredClaims are the claim names owned by the token service.
var registeredClaims = []string{"sub", "iat", "exp", "jti", "nbf", "iss", "aud"}

// hmacJWTService is an implementation of TokenService using HMAC-SHA256 signing.
type hmacJWTService struct {
	signingKey    []byte
	tokenLifetime time.Duration
	timeFunc      func() time.Time // Injectable for testing
	clockSkew     time.Duration    // Allowed time difference when checking expiry
}

// Ensure hmacJWTService implements TokenService interface
var _ TokenService = (*hmacJWTService)(nil)

// NewJWTService creates a new token service using HMAC-SHA256 signing.
func NewJWTService(cfg config.AuthConfig) (TokenService, error) {
	return newHMACJWTService(cfg.JWTSecret, cfg.TokenLifetime(), time.Now)
}

func newHMACJWTService(secret string, lifetime time.Duration, now func() time.Time) (*hmacJWTService, error) {
	if len(secret) < minSecretLength {
		return nil, ErrWeakSecret
	}
	if lifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", lifetime)
	}

	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      now,
		clockSkew:     30 * time.Second,
	}, nil
}

// Issue creates a signed HS256 token for subject.
func (s *hmacJWTService) Issue(ctx context.Context, subject string, extra map[string]any) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := jwt.MapClaims{}
	maps.Copy(claims, extra)
	for _, name := range registeredClaims {
		delete(claims, name)
	}
	claims["sub"] = subject
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.tokenLifetime))
	claims["jti"] = uuid.New().String()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign token with HMAC-SHA256: %w", err)
	}

	return signedToken, nil
}

// Verify parses and validates a token issued by Issue.
func (s *hmacJWTService) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithLeeway(s.clockSkew),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, ErrUnsupportedAlgorithm
			}
			return s.signingKey, nil
		},
		parserOpts...)
	if err != nil {
		classified := classify(err)
		log.Debug("token verification failed",
			"reason", classified.Error(),
			"error", err)
		return nil, classified
	}

	result, err := claimsFrom(claims)
	if err != nil {
		log.Debug("token verification failed: invalid claims", "error", err)
		return nil, err
	}

	log.Debug("token verified",
		"token_id", result.ID,
		"expiry", result.ExpiresAt)

	return result, nil
}

// classify maps a parser error to exactly one verification failure.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnsupportedAlgorithm):
		return ErrUnsupportedAlgorithm
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		// alg names no registered signing method
		return ErrUnsupportedAlgorithm
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	default:
		return ErrMalformedToken
	}
}

func claimsFrom(claims jwt.MapClaims) (*Claims, error) {
	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, ErrMalformedToken
	}
	issuedAt, err := claims.GetIssuedAt()
	if err != nil || issuedAt == nil {
		return nil, ErrMalformedToken
	}
	expiresAt, err := claims.GetExpirationTime()
	if err != nil || expiresAt == nil {
		return nil, ErrMalformedToken
	}
	id, _ := claims["jti"].(string)

	extra := maps.Clone(map[string]any(claims))
	for _, name := range registeredClaims {
		delete(extra, name)
	}
	if len(extra) == 0 {
		extra = nil
	}

	return &Claims{
		Subject:   subject,
		IssuedAt:  issuedAt.Time,
		ExpiresAt: expiresAt.Time,
		ID:        id,
		Extra:     extra,
	}, nil
}
