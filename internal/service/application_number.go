package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	applicationNumberPrefix = "BAP"
	applicationCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	applicationCodeLength   = 5
)

// generateApplicationNumber returns BAP-<year>-<5 random A-Z0-9 chars>.
// Uniqueness is not checked; the record id is the real key.
func generateApplicationNumber(year int, random io.Reader) (string, error) {
	if random == nil {
		random = rand.Reader
	}
	limit := big.NewInt(int64(len(applicationCodeAlphabet)))
	var b strings.Builder
	b.Grow(applicationCodeLength)
	for i := 0; i < applicationCodeLength; i++ {
		n, err := rand.Int(random, limit)
		if err != nil {
			return "", fmt.Errorf("generate application code: %w", err)
		}
		b.WriteByte(applicationCodeAlphabet[n.Int64()])
	}
	return fmt.Sprintf("%s-%d-%s", applicationNumberPrefix, year, b.String()), nil
}
