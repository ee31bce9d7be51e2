// Package password provides one-way password hashing and verification on top
// of bcrypt. The cost is fixed for the whole service so stored hashes stay
// comparable across deployments.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Cost is the bcrypt work factor used for all new hashes.
const Cost = 10

// Hash derives a salted bcrypt hash from a plaintext password. The plaintext
// is never logged or returned.
func Hash(plaintext string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), Cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return hash, nil
}

// Verify reports whether plaintext matches the stored hash. The comparison is
// constant-time inside bcrypt. A malformed stored hash yields false rather
// than an error so callers cannot distinguish "bad hash" from "wrong
// password".
func Verify(plaintext string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(plaintext)) == nil
}
