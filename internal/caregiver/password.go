package caregiver

import (
	"crypto/rand"
	"math/big"
)

const passwordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789!@#$%"

// generatePassword builds a random initial credential. Ambiguous characters
// (0/O, 1/l/I) are excluded from the alphabet.
func generatePassword(length int) (string, error) {
	if length < 12 {
		length = 12
	}

	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
