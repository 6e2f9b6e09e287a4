package domain

import (
	"crypto/md5"
	"encoding/hex"
)

// HashURL produces the stable hash used for URL deduplication across runs.
func HashURL(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}
