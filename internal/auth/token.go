package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TokenTTL is how long a bearer token stays valid after issue.
const TokenTTL = 7 * 24 * time.Hour

const tokenBytes = 24

// ErrInvalidToken is returned when a token is unknown or expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenStore issues and validates opaque bearer tokens backed by the
// auth_tokens table, with an optional Redis read-through cache keyed
// token:<value>. The cache only ever holds tokens the database
// confirmed; rdb may be nil.
type TokenStore struct {
	db  *sql.DB
	rdb *redis.Client
	log *zap.Logger
}

func NewTokenStore(db *sql.DB, rdb *redis.Client, log *zap.Logger) *TokenStore {
	return &TokenStore{db: db, rdb: rdb, log: log}
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Issue creates a token for the user.
func (s *TokenStore) Issue(ctx context.Context, userID string) (string, error) {
	tok, err := newToken()
	if err != nil {
		return "", err
	}
	exp := time.Now().Add(TokenTTL)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, user_id, exp_at) VALUES ($1, $2, $3)`,
		tok, userID, exp)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	s.cacheSet(ctx, tok, userID, time.Until(exp))
	return tok, nil
}

// Validate resolves a token to a user id. Expired tokens are deleted
// on sight.
func (s *TokenStore) Validate(ctx context.Context, tok string) (string, error) {
	if tok == "" {
		return "", ErrInvalidToken
	}
	if uid := s.cacheGet(ctx, tok); uid != "" {
		return uid, nil
	}

	var userID string
	var expAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, exp_at FROM auth_tokens WHERE token = $1`, tok).
		Scan(&userID, &expAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("validate token: %w", err)
	}
	if time.Now().After(expAt) {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = $1`, tok); err != nil {
			s.log.Warn("expired token cleanup failed", zap.Error(err))
		}
		return "", ErrInvalidToken
	}
	s.cacheSet(ctx, tok, userID, time.Until(expAt))
	return userID, nil
}

// Revoke deletes a token along with the session state keyed by it.
func (s *TokenStore) Revoke(ctx context.Context, tok string) error {
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, "token:"+tok, "base:"+tok).Err(); err != nil {
			s.log.Warn("token cache delete failed", zap.Error(err))
		}
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = $1`, tok)
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// RevokeAllForUser deletes every token of a user, used when the user
// is removed.
func (s *TokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (s *TokenStore) cacheGet(ctx context.Context, tok string) string {
	if s.rdb == nil {
		return ""
	}
	val, err := s.rdb.Get(ctx, "token:"+tok).Result()
	if err == redis.Nil {
		return ""
	}
	if err != nil {
		s.log.Warn("token cache get failed", zap.Error(err))
		return ""
	}
	return val
}

func (s *TokenStore) cacheSet(ctx context.Context, tok, userID string, ttl time.Duration) {
	if s.rdb == nil || ttl <= 0 {
		return
	}
	if err := s.rdb.Set(ctx, "token:"+tok, userID, ttl).Err(); err != nil {
		s.log.Warn("token cache set failed", zap.Error(err))
	}
}
