// Copyright (c) 2026 Lexora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for admin passwords.
const PasswordCost = 10

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// BurnPasswordCheck runs one bcrypt comparison against a fixed hash and
// discards the result. Login calls it for unknown accounts so that
// "no such email" costs about as long as "wrong password".
func BurnPasswordCheck(plainTextPassword string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("lexora-timing-equaliser"), PasswordCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plainTextPassword))
}
