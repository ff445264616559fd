package utils

import "golang.org/x/crypto/bcrypt"

// SeedBcryptCost is used when creating the admin account from cmd/seed.
const SeedBcryptCost = 12

// HashPassword returns the bcrypt hash of the password at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares the bcrypt hashed password with its possible plaintext equivalent.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
