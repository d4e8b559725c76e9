package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  John.Doe@Example.COM ")
	require.NoError(t, err)
	require.Equal(t, "john.doe@example.com", email)

	for _, in := range []string{"", "not-an-email", "missing@tld", "@example.com"} {
		_, err := SanitizeEmail(in)
		require.Error(t, err, "input %q", in)
	}
}

func TestSanitizePhone(t *testing.T) {
	phone, err := SanitizePhone("+91 98765 43210")
	require.NoError(t, err)
	require.Equal(t, "+919876543210", phone)

	phone, err = SanitizePhone("9876543210")
	require.NoError(t, err)
	require.Equal(t, "+9876543210", phone)

	// Empty is allowed, phone is optional
	phone, err = SanitizePhone("   ")
	require.NoError(t, err)
	require.Equal(t, "", phone)

	_, err = SanitizePhone("12345")
	require.Error(t, err)
}

func TestSanitizeInputEscapesMarkup(t *testing.T) {
	out := SanitizeInput("hello <script>alert(1)</script> world")
	require.NotContains(t, out, "<script>")

	out = SanitizeInput("  padded\tvalue ")
	require.Equal(t, "paddedvalue", out)
}

func TestValidateFile(t *testing.T) {
	require.NoError(t, ValidateFile("photo.jpg", 1024))
	require.NoError(t, ValidateFile("photo.PNG", 1024))
	require.Error(t, ValidateFile("document.pdf", 1024))
	require.Error(t, ValidateFile("photo.jpg", 10*1024*1024))
}
