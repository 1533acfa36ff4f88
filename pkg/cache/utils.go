package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// GenerateKey creates a cache key with prefix and ID.
func GenerateKey(prefix string, id string) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}

// PayloadKey derives a deterministic cache key from a request payload
// so identical analysis requests hit the same entry.
func PayloadKey(prefix string, payload interface{}) string {
	data, err := json.Marshal(payload)
	if err != nil {
		return GenerateKey(prefix, "raw")
	}
	sum := sha256.Sum256(data)
	return GenerateKey(prefix, hex.EncodeToString(sum[:16]))
}
