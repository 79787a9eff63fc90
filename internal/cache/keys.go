package cache

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// keyNamespace prefixes every cache key so a shared Redis instance can
// host multiple services.
const keyNamespace = "yatube:"

// HashKey builds a fixed-length cache key from arbitrary parts.
func HashKey(parts ...string) string {
	sum := md5.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) namespaceKey(key string) string {
	return keyNamespace + key
}
