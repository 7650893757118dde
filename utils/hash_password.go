package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword generates a bcrypt hash for the given password. Empty
// passwords are hashable; policy on what is acceptable lives with the
// caller.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword reports whether password matches the stored bcrypt
// hash. bcrypt's comparison does not leak which byte differs.
func ComparePassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
