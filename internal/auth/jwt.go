package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leadpilot/leads-api/internal/config"
	"github.com/leadpilot/leads-api/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims are the custom claims embedded in session tokens
// The token is self-contained: role and password-change state are read
// from the token for its whole lifetime, not re-checked per request
type Claims struct {
	UserID             uuid.UUID       `json:"id"`
	Username           string          `json:"username"`
	DisplayName        string          `json:"displayName"`
	Role               domain.UserRole `json:"role"`
	MustChangePassword bool            `json:"mustChangePassword"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL(),
	}
}

// IssueToken creates a signed token embedding the user's identity
func (s *TokenService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:             user.ID,
		Username:           user.Username,
		DisplayName:        user.DisplayName,
		Role:               user.Role,
		MustChangePassword: user.MustChangePassword,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken validates a token and returns the embedded user context
func (s *TokenService) VerifyToken(tokenString string) (*UserContext, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &UserContext{
		UserID:             claims.UserID,
		Username:           claims.Username,
		DisplayName:        claims.DisplayName,
		Role:               claims.Role,
		MustChangePassword: claims.MustChangePassword,
	}, nil
}
