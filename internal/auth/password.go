package auth

import "golang.org/x/crypto/bcrypt"

// bcrypt only reads the first 72 bytes of its input. Truncate explicitly so
// hashing and verification always agree on what was digested.
const maxPasswordBytes = 72

func truncatePassword(plain string) []byte {
	b := []byte(plain)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword digests a plaintext password with a per-call random salt at the
// given cost.
func HashPassword(plain string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncatePassword(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a stored digest against a plaintext candidate.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), truncatePassword(plain))
}
