package wheel

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// CodePrefix is the fixed prefix of every redemption code. Merchants type
// codes by hand, so the format is preserved bit-exact: WD- followed by six
// uppercase alphanumerics, e.g. WD-7K2QZX.
const CodePrefix = "WD-"

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// NewCode produces a fresh redemption code. The 36^6 space makes collisions
// rare but not impossible; the issuance transaction owns uniqueness and calls
// this again on a collision.
func NewCode() (string, error) {
	var sb strings.Builder
	sb.WriteString(CodePrefix)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to draw random code character: %w", err)
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// NormalizeCode prepares a typed or scanned code for lookup: surrounding
// whitespace is dropped and casing is folded to uppercase.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
