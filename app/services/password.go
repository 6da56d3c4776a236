package services

import (
	"golang.org/x/crypto/bcrypt"
)

// hashPassword generates a bcrypt hash of the given password.
func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// checkPasswordHash verifies if the given password matches the bcrypt hash.
func checkPasswordHash(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
