package protocol

import (
	"testing"
)

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		want    string
		wantErr bool
	}{
		{name: "already normalized", addr: "600194657C39", want: "600194657C39"},
		{name: "lowercase", addr: "600194657c39", want: "600194657C39"},
		{name: "colon separators", addr: "60:01:94:65:7c:39", want: "600194657C39"},
		{name: "dash separators", addr: "60-01-94-65-7C-39", want: "600194657C39"},
		{name: "surrounding whitespace", addr: " 600194657C39 ", want: "600194657C39"},
		{name: "too short", addr: "600194657C", wantErr: true},
		{name: "too long", addr: "600194657C3900", wantErr: true},
		{name: "not hex", addr: "600194657CZZ", wantErr: true},
		{name: "empty", addr: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAddress(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeAddress(%q) error = %v, wantErr %v", tt.addr, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("NormalizeAddress(%q) = %s, want %s", tt.addr, got, tt.want)
			}
		})
	}
}

func TestBuildWriteCommand(t *testing.T) {
	tests := []struct {
		name     string
		register byte
		value    byte
		want     string
	}{
		// Reference payloads recomputed by hand from the frame layout.
		{name: "set temperature 21.5C", register: RegSetTemp, value: 0x2B, want: "{600194657C39000001050101002BBE}"},
		{name: "power on", register: RegPower, value: 0x01, want: "{600194657C390000010201010001EB}"},
		{name: "mode cool", register: RegMode, value: 0x01, want: "{600194657C390000010801010001E5}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildWriteCommand("600194657C39", tt.register, tt.value)
			if err != nil {
				t.Fatalf("BuildWriteCommand() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildWriteCommand() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBuildFrameNormalizesAddress(t *testing.T) {
	got, err := BuildWriteCommand("60:01:94:65:7c:39", RegPower, 0x00)
	if err != nil {
		t.Fatalf("BuildWriteCommand() error = %v", err)
	}

	frame, err := Decode(got)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if frame.Address != "600194657C39" {
		t.Errorf("address = %s, want 600194657C39", frame.Address)
	}
}

func TestBuildFrameRejectsCallerErrors(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		dataHex string
	}{
		{name: "malformed address", addr: "not-a-mac", dataHex: "01"},
		{name: "odd data length", addr: "600194657C39", dataHex: "012"},
		{name: "non-hex data", addr: "600194657C39", dataHex: "ZZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildFrame(tt.addr, FunctionWrite, RegPower, SingleRegister, tt.dataHex); err == nil {
				t.Error("BuildFrame() error = nil, want caller error")
			}
		})
	}
}

// Built frames must decode back to the register/value pair they were built
// from, and their derived byte count must match the data segment.
func TestBuildDecodeRoundTrip(t *testing.T) {
	registers := []byte{RegPower, RegFanSpeed, RegSetTemp, RegSwing, RegMode}
	values := []byte{0x00, 0x01, 0x0A, 0x2B, 0xFF}

	for _, reg := range registers {
		for _, val := range values {
			payload, err := BuildWriteCommand("600194657C39", reg, val)
			if err != nil {
				t.Fatalf("BuildWriteCommand(0x%02x, 0x%02x) error = %v", reg, val, err)
			}

			frame, err := Decode(payload)
			if err != nil {
				t.Fatalf("Decode(%s) error = %v", payload, err)
			}

			gotReg, gotVal, ok := frame.WriteCommand()
			if !ok {
				t.Fatalf("WriteCommand() not recognized for %s", payload)
			}
			if gotReg != reg || gotVal != val {
				t.Errorf("round trip = (0x%02x, 0x%02x), want (0x%02x, 0x%02x)", gotReg, gotVal, reg, val)
			}
			if frame.ByteCount != 1 {
				t.Errorf("byte count = %d, want 1", frame.ByteCount)
			}
		}
	}
}
