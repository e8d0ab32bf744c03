package common

import (
	"crypto/rand"
	"encoding/hex"
)

// IsHexOfLen reports whether str is exactly n hex characters (either case).
func IsHexOfLen(str string, n int) bool {
	if len(str) != n {
		return false
	}
	_, err := hex.DecodeString(str)
	return err == nil
}

func RandBytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Read(b)
	if err != nil {
		return nil
	}
	return b
}

// RandHex returns 2*n random hex characters.
func RandHex(n int) string {
	return hex.EncodeToString(RandBytes(n))
}

// Shorten shortens a string so that both sides have n characters and
// the rest is replaced with "..."
func Shorten(str string, n int) string {
	if len(str) <= n*2 {
		return str
	}
	return str[:n] + "..." + str[len(str)-n:]
}
