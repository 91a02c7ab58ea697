package services

import (
	"context"
	cryptorand "crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/ruralpay/webbank/internal/config"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/argon2"
)

var ErrTokenRevoked = errors.New("token has been revoked")

// PasswordStore looks up the stored password (plaintext or argon2 hash) of a customer.
type PasswordStore interface {
	GetPassword(ctx context.Context, customerID string) (string, error)
}

type AuthService struct {
	store PasswordStore
	redis *redis.Client
	cfg   config.AuthConfig
	now   func() time.Time
}

func NewAuthService(store PasswordStore, redisClient *redis.Client, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		store: store,
		redis: redisClient,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Authenticate reports whether attempt matches the customer's stored password.
// Unknown customers and lookup failures are treated as a mismatch.
func (s *AuthService) Authenticate(ctx context.Context, customerID, attempt string) bool {
	stored, err := s.store.GetPassword(ctx, customerID)
	if err != nil {
		logrus.WithField("customer_id", customerID).Debugf("[AUTH] password lookup failed: %v", err)
		return false
	}
	return s.VerifyPassword(attempt, stored)
}

// hashPrefix marks a stored password as an argon2id hash. Anything without
// it is compared as a legacy plaintext password.
const hashPrefix = "$argon2id$"

// HashPassword returns "$argon2id$base64(salt)$base64(hash)".
func (s *AuthService) HashPassword(password string) (string, error) {
	salt := make([]byte, s.cfg.Argon2.SaltLength)
	if _, err := cryptorand.Read(salt); err != nil {
		return "", err
	}

	hash := s.deriveKey(password, salt)
	return fmt.Sprintf("%s%s$%s", hashPrefix, base64.StdEncoding.EncodeToString(salt), base64.StdEncoding.EncodeToString(hash)), nil
}

// VerifyPassword accepts both argon2 hashes and legacy plaintext passwords.
func (s *AuthService) VerifyPassword(password, stored string) bool {
	if salt, hash, ok := splitHash(stored); ok {
		return subtle.ConstantTimeCompare(hash, s.deriveKey(password, salt)) == 1
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

func (s *AuthService) deriveKey(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt,
		s.cfg.Argon2.Time,
		s.cfg.Argon2.Memory,
		s.cfg.Argon2.Threads,
		s.cfg.Argon2.KeyLength)
}

func splitHash(stored string) ([]byte, []byte, bool) {
	encoded, ok := strings.CutPrefix(stored, hashPrefix)
	if !ok {
		return nil, nil, false
	}

	parts := strings.Split(encoded, "$")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, false
	}

	salt, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, false
	}

	hash, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, false
	}
	return salt, hash, true
}

func (s *AuthService) GenerateToken(customerID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"customer_id": customerID,
		"iat":         now.Unix(),
		"exp":         now.Add(s.cfg.TokenTTL).Unix(),
	})

	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// ValidateToken checks the signature, expiry and revocation list and
// returns the customer the token was issued to.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", jwt.ErrTokenInvalidClaims
	}
	customerID, ok := claims["customer_id"].(string)
	if !ok || customerID == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	if s.redis != nil {
		n, err := s.redis.Exists(ctx, revocationKey(tokenString)).Result()
		if err != nil {
			return "", fmt.Errorf("failed to check token revocation: %w", err)
		}
		if n > 0 {
			return "", ErrTokenRevoked
		}
	}

	return customerID, nil
}

// RevokeToken blacklists the token until it would have expired anyway.
// Without Redis, revocation is skipped.
func (s *AuthService) RevokeToken(ctx context.Context, tokenString string) error {
	if s.redis == nil {
		logrus.Warn("[AUTH] Redis unavailable, token not blacklisted")
		return nil
	}

	if err := s.redis.Set(ctx, revocationKey(tokenString), "1", s.cfg.TokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func revocationKey(token string) string {
	return fmt.Sprintf("blacklist:%s", token)
}
