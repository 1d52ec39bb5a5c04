package protocol

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// NormalizeAddress canonicalizes a device address: separators stripped,
// uppercase, exactly twelve hex characters. A malformed address is a
// programming error, not untrusted input, so it is reported to the caller.
func NormalizeAddress(addr string) (string, error) {
	cleaned := strings.NewReplacer(":", "", "-", "").Replace(strings.ToUpper(strings.TrimSpace(addr)))
	if len(cleaned) != addressEnd {
		return "", fmt.Errorf("protocol: device address %q must be 12 hex characters", addr)
	}
	if _, err := hex.DecodeString(cleaned); err != nil {
		return "", fmt.Errorf("protocol: device address %q is not hexadecimal", addr)
	}
	return cleaned, nil
}

// BuildFrame constructs a complete outbound frame.
//
// Layout: normalized address + two reserved zero bytes + function +
// start-register + register-count + little-endian byte count + data, with
// the LRC over that exact byte sequence appended and the whole result
// wrapped in brace delimiters.
//
// The byte-count field is always derived from len(dataHex)/2, never
// supplied by the caller, so the frame stays self-consistent with its
// checksum.
func BuildFrame(addr string, function, startReg, regCount byte, dataHex string) (string, error) {
	mac, err := NormalizeAddress(addr)
	if err != nil {
		return "", err
	}
	if len(dataHex)%2 != 0 {
		return "", fmt.Errorf("protocol: data segment %q has odd hex length", dataHex)
	}
	data := strings.ToUpper(dataHex)
	if _, err := hex.DecodeString(data); err != nil {
		return "", fmt.Errorf("protocol: data segment %q is not hexadecimal", dataHex)
	}

	byteCount := len(data) / 2
	body := fmt.Sprintf("%s0000%02X%02X%02X%02X%02X%s",
		mac, function, startReg, regCount,
		byteCount%256, byteCount/256, data)

	covered, err := hex.DecodeString(body)
	if err != nil {
		return "", fmt.Errorf("protocol: building frame body: %w", err)
	}

	return fmt.Sprintf("%c%s%s%c", FrameOpen, body, hexByte(LRC(covered)), FrameClose), nil
}

// BuildWriteCommand constructs a write frame setting a single register to
// the given value. This is the only frame shape the controller emits.
func BuildWriteCommand(addr string, register, value byte) (string, error) {
	return BuildFrame(addr, FunctionWrite, register, SingleRegister, hexByte(value))
}
