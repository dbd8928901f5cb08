package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateResetCode returns a 6-digit one-time code from a CSPRNG.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
