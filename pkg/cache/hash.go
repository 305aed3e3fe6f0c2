package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// hashKey builds a cache key of the form prefix:sha256(parts...).
// Parts are JSON-encoded, so any comparable option struct works.
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the full hex SHA-256 of data. Used to derive the config
// hash that scopes all artifact keys of one pack.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashJSON marshals v and returns its Hash. The error from Marshal is
// deliberately swallowed: cache keys only need to be stable, and every
// value passed here is a plain data struct.
func HashJSON(v any) string {
	data, _ := json.Marshal(v)
	return Hash(data)
}
