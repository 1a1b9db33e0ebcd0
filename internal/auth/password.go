package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2Iterations is the work factor for new password hashes. Stored
// per user so it can be raised without invalidating old hashes.
const PBKDF2Iterations = 200_000

const saltBytes = 16

// HashPassword derives a PBKDF2-HMAC-SHA256 hash with a fresh random
// salt. Both the hash and salt are hex encoded.
func HashPassword(password string) (hashHex, saltHex string, err error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("salt: %w", err)
	}
	dk := pbkdf2.Key([]byte(password), salt, PBKDF2Iterations, sha256.Size, sha256.New)
	return hex.EncodeToString(dk), hex.EncodeToString(salt), nil
}

// VerifyPassword re-derives the hash for the stored salt and iteration
// count and compares in constant time.
func VerifyPassword(password, hashHex, saltHex string, iterations int) bool {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	want, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}
	if iterations <= 0 {
		iterations = PBKDF2Iterations
	}
	got := pbkdf2.Key([]byte(password), salt, iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
