package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

// Uppercase letters and digits only, so codes survive being read
// aloud or typed on a phone.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewAccessCode returns a random access code of n characters.
func NewAccessCode(n int) string {
	var sb strings.Builder
	sb.Grow(n)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// Fallback keeps codes usable if crypto/rand is unavailable.
			sb.WriteByte(codeAlphabet[int(time.Now().UnixNano())%len(codeAlphabet)])
			continue
		}
		sb.WriteByte(codeAlphabet[idx.Int64()])
	}
	return sb.String()
}
