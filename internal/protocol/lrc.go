package protocol

import "strings"

// LRC computes the single-byte longitudinal redundancy check used by the
// FCU protocol: the two's complement of the byte sum, so that all covered
// bytes plus the checksum sum to zero modulo 256.
func LRC(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return byte((0xFF - int(sum) + 1) % 256)
}

// VerifyLRC recomputes the checksum over data and compares it against the
// claimed two-hex-digit representation, case-insensitively.
func VerifyLRC(data []byte, claimed string) bool {
	if len(claimed) != 2 {
		return false
	}
	return hexByte(LRC(data)) == strings.ToUpper(claimed)
}

const hexDigits = "0123456789ABCDEF"

// hexByte formats b as two uppercase hex digits.
func hexByte(b byte) string {
	return string([]byte{hexDigits[b>>4], hexDigits[b&0x0F]})
}
