package redis

import (
	"context"
	"fmt"
)

// KeyChecker is the part of Client the blacklist needs.
type KeyChecker interface {
	Exists(ctx context.Context, rawKey string) (bool, error)
}

// TokenBlacklist reads the revoked-token keys "<prefix>:<jti>" that the user
// module writes on logout.
type TokenBlacklist struct {
	keys   KeyChecker
	prefix string
}

// NewTokenBlacklist creates a blacklist reader.
func NewTokenBlacklist(keys KeyChecker, prefix string) *TokenBlacklist {
	return &TokenBlacklist{keys: keys, prefix: prefix}
}

// IsBlacklisted reports whether tokenID has been revoked.
func (tb *TokenBlacklist) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	revoked, err := tb.keys.Exists(ctx, tb.prefix+":"+tokenID)
	if err != nil {
		return false, fmt.Errorf("blacklist check for %s failed: %w", tokenID, err)
	}
	return revoked, nil
}
