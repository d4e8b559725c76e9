package utils

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
)

// BdaIDPrefix is the prefix of the human-readable member identifier
const BdaIDPrefix = "BDA"

const assetIDCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// FormatBdaID renders a sequence number as a zero-padded BDA id.
// FormatBdaID(7) == "BDA0007"; suffixes beyond 9999 grow without truncation.
func FormatBdaID(seq int64) string {
	return fmt.Sprintf("%s%04d", BdaIDPrefix, seq)
}

// ParseBdaID extracts the numeric suffix from a BDA id
func ParseBdaID(bdaID string) (int64, error) {
	if !strings.HasPrefix(bdaID, BdaIDPrefix) {
		return 0, fmt.Errorf("invalid BDA id: %s", bdaID)
	}
	seq, err := strconv.ParseInt(bdaID[len(BdaIDPrefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid BDA id: %s", bdaID)
	}
	return seq, nil
}

// IsBdaID reports whether s looks like a BDA id rather than an ObjectID hex
func IsBdaID(s string) bool {
	_, err := ParseBdaID(s)
	return err == nil
}

// GenerateAssetID generates a 4-character uppercase alphanumeric short code
// for an asset purchase. Not globally unique; the record id carries
// uniqueness, this code is the human-facing reference.
func GenerateAssetID() (string, error) {
	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, b := range randomBytes {
		sb.WriteByte(assetIDCharset[int(b)%len(assetIDCharset)])
	}
	return sb.String(), nil
}

// CalculateReferralBonus computes the commission credited to a referrer:
// a percentage of the referred amount
func CalculateReferralBonus(amount, referralPercentage float64) float64 {
	return amount * referralPercentage / 100
}
