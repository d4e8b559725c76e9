package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatBdaID(t *testing.T) {
	require.Equal(t, "BDA0001", FormatBdaID(1))
	require.Equal(t, "BDA0042", FormatBdaID(42))
	require.Equal(t, "BDA9999", FormatBdaID(9999))
	// Sequences beyond four digits keep growing, ids stay unique
	require.Equal(t, "BDA10000", FormatBdaID(10000))
}

func TestParseBdaIDRoundTrip(t *testing.T) {
	for _, seq := range []int64{1, 7, 123, 9999, 10000} {
		parsed, err := ParseBdaID(FormatBdaID(seq))
		require.NoError(t, err)
		require.Equal(t, seq, parsed)
	}
}

func TestParseBdaIDRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "BDA", "BDAXYZ", "XYZ0001", "0001"} {
		_, err := ParseBdaID(in)
		require.Error(t, err, "input %q", in)
	}
}

func TestIsBdaID(t *testing.T) {
	require.True(t, IsBdaID("BDA0001"))
	require.True(t, IsBdaID("BDA12345"))
	require.False(t, IsBdaID("bda0001"))
	require.False(t, IsBdaID("64f1c0a9e13db31a2c9f0b77"))
	require.False(t, IsBdaID(""))
}

func TestGenerateAssetID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := GenerateAssetID()
		require.NoError(t, err)
		require.Len(t, id, 4)
		for _, r := range id {
			require.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'), "unexpected rune %q in %q", r, id)
		}
		seen[id] = true
	}
	// 50 draws from a 36^4 space should essentially never collide completely
	require.Greater(t, len(seen), 1)
}

func TestCalculateReferralBonus(t *testing.T) {
	require.Equal(t, 25000.0, CalculateReferralBonus(500000, 5))
	require.Equal(t, 0.0, CalculateReferralBonus(500000, 0))
	require.Equal(t, 100000.0, CalculateReferralBonus(1000000, 10))
}
