package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// HashKey generates MD5 hash of a key, used for filesystem-safe names.
func HashKey(key string) string {
	hasher := md5.New()
	hasher.Write([]byte(key))
	return hex.EncodeToString(hasher.Sum(nil))
}

// BuildPattern creates a prefix pattern for key matching.
func BuildPattern(prefix string) string {
	return fmt.Sprintf("%s*", prefix)
}
