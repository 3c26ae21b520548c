package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// Validity is the fixed window during which a reset code may be redeemed.
const Validity = 15 * time.Minute

// Generate returns a uniformly random 6-digit reset code and its expiry
// timestamp. Codes are drawn from [100000, 999999] so the first digit is
// never zero. The caller is responsible for persisting both values.
func Generate() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate reset code: %w", err)
	}
	code := fmt.Sprintf("%d", n.Int64()+100000)
	return code, time.Now().UTC().Add(Validity), nil
}
