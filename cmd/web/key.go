package main

import (
	"crypto/rand"
	"encoding/hex"
)

// ephemeralKey signs cookies for the lifetime of the process only.
func ephemeralKey() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "insecure-dev-key-please-set-YEOYOOCHAE_COOKIE_SECRET"
	}
	return hex.EncodeToString(b)
}
