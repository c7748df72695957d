package helpers

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// RandomTokenString generates random hex token
func RandomTokenString(n int) (string, error) {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// NowUnix returns the current time in unix seconds
func NowUnix() int64 {
	return time.Now().UTC().Unix()
}
