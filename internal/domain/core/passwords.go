package core

import (
	"crypto/rand"
	"math/big"
)

const tempPasswordLength = 12

// Alphabet excludes easily confused characters (0/O, 1/l/I).
const tempPasswordAlphabet = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateTempPassword produces a random temporary password for newly
// created or reset logins. Users are forced to change it on first sign-in.
func GenerateTempPassword() (string, error) {
	buf := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
