package protocol

import (
	"encoding/hex"
	"testing"
)

func TestLRC(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{name: "empty", data: nil, want: 0x00},
		{name: "single zero byte", data: []byte{0x00}, want: 0x00},
		{name: "single byte", data: []byte{0x01}, want: 0xFF},
		{name: "sum wraps modulo 256", data: []byte{0xFF, 0x02}, want: 0xFF},
		{name: "sum of 0x80 twice", data: []byte{0x80, 0x80}, want: 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LRC(tt.data); got != tt.want {
				t.Errorf("LRC(% x) = 0x%02x, want 0x%02x", tt.data, got, tt.want)
			}
		})
	}
}

// Valid frames sum to zero modulo 256 once the checksum byte is included.
func TestLRCSumsToZero(t *testing.T) {
	samples := [][]byte{
		{0x60, 0x01, 0x94, 0x65, 0x7C, 0x39},
		{0x00},
		{0xFF, 0xFF, 0xFF},
		{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0},
	}

	for _, data := range samples {
		sum := LRC(data)
		var total byte
		for _, b := range data {
			total += b
		}
		if total+sum != 0 {
			t.Errorf("LRC(% x) = 0x%02x, covered bytes plus checksum sum to 0x%02x", data, sum, total+sum)
		}
	}
}

func TestVerifyLRC(t *testing.T) {
	covered, err := hex.DecodeString("600194657C390000010201010001")
	if err != nil {
		t.Fatalf("decode covered bytes: %v", err)
	}

	tests := []struct {
		name    string
		claimed string
		want    bool
	}{
		{name: "uppercase match", claimed: "EB", want: true},
		{name: "lowercase match", claimed: "eb", want: true},
		{name: "wrong value", claimed: "EC", want: false},
		{name: "too short", claimed: "E", want: false},
		{name: "too long", claimed: "EB0", want: false},
		{name: "empty", claimed: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerifyLRC(covered, tt.claimed); got != tt.want {
				t.Errorf("VerifyLRC(covered, %q) = %v, want %v", tt.claimed, got, tt.want)
			}
		})
	}
}

// Round-trip property: verify accepts whatever LRC computed.
func TestVerifyLRCRoundTrip(t *testing.T) {
	data := make([]byte, 0, 64)
	for i := 0; i < 64; i++ {
		data = append(data, byte(i*37))
		if !VerifyLRC(data, hexByte(LRC(data))) {
			t.Fatalf("round trip failed for %d-byte sequence % x", len(data), data)
		}
	}
}
