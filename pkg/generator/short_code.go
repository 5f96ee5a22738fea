package generator

import (
	"crypto/rand"
	"math/big"
)

const (
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultLength = 7
)

var alphabetSize = big.NewInt(int64(len(base62Chars)))

func GenerateShortCode() (string, error) {
	return GenerateShortCodeN(DefaultLength)
}

// GenerateShortCodeN returns n random base62 characters drawn from crypto/rand.
func GenerateShortCodeN(n int) (string, error) {
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b[i] = base62Chars[idx.Int64()]
	}

	return string(b), nil
}
