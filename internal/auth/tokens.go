package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"astra/telemetry-backend/internal/common"
	"astra/telemetry-backend/internal/constants"
	gormModels "astra/telemetry-backend/internal/models/gorm"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "astra-telemetry"

var (
	ErrInvalidToken = errors.New("token is invalid or expired")
	ErrWrongType    = errors.New("token has the wrong type")
	ErrRevoked      = errors.New("token has been revoked")
)

// TokenClaims is the JWT payload for both access and refresh tokens.
type TokenClaims struct {
	TokenType constants.TokenType `json:"token_type"`
	Role      constants.Role      `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a numeric user id.
func (c *TokenClaims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return uint(id), nil
}

// TokenPair is what login hands back.
type TokenPair struct {
	Access  string
	Refresh string
}

// TokenService issues and verifies HS256 tokens. Revoked refresh tokens are
// remembered in the cache by jti until they would have expired anyway.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	blacklist  common.CacheInterface
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration, blacklist common.CacheInterface) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		blacklist:  blacklist,
		now:        time.Now,
	}
}

func (s *TokenService) issue(user gormModels.User, typ constants.TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &TokenClaims{
		TokenType: typ,
		Role:      user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

// IssuePair creates a fresh access/refresh pair for user.
func (s *TokenService) IssuePair(user gormModels.User) (TokenPair, error) {
	access, err := s.issue(user, constants.TokenTypeAccess, s.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.issue(user, constants.TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *TokenService) IssueAccess(user gormModels.User) (string, error) {
	return s.issue(user, constants.TokenTypeAccess, s.accessTTL)
}

// Parse verifies signature, expiry and type, and rejects revoked tokens.
func (s *TokenService) Parse(tokenString string, want constants.TokenType) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.ID == "" || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		return nil, ErrWrongType
	}
	if s.IsRevoked(claims.ID) {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke blacklists the token's jti for the rest of its lifetime.
func (s *TokenService) Revoke(claims *TokenClaims) {
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return
	}
	s.blacklist.Set(string(constants.CachePrefixBlacklist)+claims.ID, "revoked", ttl)
}

func (s *TokenService) IsRevoked(jti string) bool {
	_, found := s.blacklist.Get(string(constants.CachePrefixBlacklist) + jti)
	return found
}
