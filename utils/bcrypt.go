package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt silently truncates input past 72 bytes, so longer passwords are
// rejected before hashing.
const maxPasswordBytes = 72

// HashPassword hashes a plaintext password for storage.
func HashPassword(plain string) (string, error) {
	if len(plain) > maxPasswordBytes {
		return "", NewFieldValidationError(map[string]string{"password": "must be at most 72 bytes"})
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword reports whether plain matches the stored hash.
func ComparePassword(hashed string, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
