package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// localRevocations holds revoked token hashes when Redis is not configured.
var (
	localRevocations   = map[string]time.Time{}
	localRevocationsMu sync.Mutex
)

// RevokeToken denylists the token hash until the token would have expired.
func RevokeToken(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	hash := HashToken(token)

	if client := GetAuthCacheClient(); client != nil {
		if err := client.Set(ctx, RevokedTokenPrefix+hash, "1", ttl).Err(); err != nil {
			GetLogger().Error("Failed to revoke token", zap.Error(err))
			return err
		}
		return nil
	}

	localRevocationsMu.Lock()
	defer localRevocationsMu.Unlock()
	now := time.Now()
	for h, exp := range localRevocations {
		if now.After(exp) {
			delete(localRevocations, h)
		}
	}
	localRevocations[hash] = expiresAt
	return nil
}

// IsTokenRevoked reports whether the token was logged out. Redis errors are
// treated as not revoked.
func IsTokenRevoked(ctx context.Context, token string) bool {
	hash := HashToken(token)

	if client := GetAuthCacheClient(); client != nil {
		n, err := client.Exists(ctx, RevokedTokenPrefix+hash).Result()
		if err != nil {
			GetLogger().Warn("Revocation lookup failed", zap.Error(err))
			return false
		}
		return n > 0
	}

	localRevocationsMu.Lock()
	defer localRevocationsMu.Unlock()
	exp, ok := localRevocations[hash]
	return ok && time.Now().Before(exp)
}
