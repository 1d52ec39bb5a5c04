package protocol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Frame delimiters and layout constants. Positions are hex-character
// indexes into the stripped frame text; one byte is two hex characters.
const (
	FrameOpen  = '{'
	FrameClose = '}'

	// MinFrameLen is the minimum stripped frame length in hex characters:
	// address(12) + reserved(4) + function(2) + start-reg(2) + reg-count(2)
	// + byte-count(4) + checksum(2), with at least two characters of data.
	MinFrameLen = 30

	addressEnd   = 12
	functionPos  = 16
	startRegPos  = 18
	regCountPos  = 20
	byteCountPos = 22
	dataPos      = 26
)

// Register addresses accepted by the write function.
const (
	RegPower       = 0x02
	RegFanSpeed    = 0x04
	RegSetTemp     = 0x05
	RegSwing       = 0x07
	RegMode        = 0x08
	FunctionWrite  = 0x01
	SingleRegister = 0x01
)

// Decode errors. Both indicate the payload must be discarded; a checksum
// mismatch is the only one worth surfacing, since it means a structurally
// valid frame was corrupted in transit.
var (
	ErrMalformedFrame   = errors.New("protocol: malformed frame")
	ErrChecksumMismatch = errors.New("protocol: checksum mismatch")
)

// Frame is one decoded protocol transaction. It is constructed transiently
// per message and never mutated after Decode returns it.
type Frame struct {
	Address       string // Normalized 12-hex-character device address
	Function      byte   // Function code (0x01 = write)
	StartRegister byte   // First register targeted by the frame
	RegisterCount byte   // Number of registers covered
	ByteCount     int    // Data segment length in bytes (little-endian field)
	Data          []byte // Data segment
	Checksum      byte   // Trailing LRC as received
	Raw           string // Stripped frame text for diagnostics
}

// Snapshot holds the telemetry registers extracted from a broadcast frame's
// data segment. It is only ever produced from a frame whose checksum has
// already verified; all fields are present together or not at all.
type Snapshot struct {
	Power    byte    // 0 = off, 1 = on
	FanSpeed byte    // Raw fan-speed code
	SetTemp  float64 // Target temperature, °C (wire value is half degrees)
	Sweep    byte    // Raw sweep/swing code
	Mode     byte    // Raw mode code
	RoomTemp float64 // Room temperature, °C (wire value is tenths)
}

// Data segment byte offsets for the telemetry snapshot.
const (
	snapPower    = 2
	snapFanSpeed = 4
	snapSetTemp  = 5
	snapSweep    = 7
	snapMode     = 8
	snapRoomLow  = 9
	snapRoomHigh = 10
)

// snapshotMinData is the smallest data segment a snapshot can be read from.
const snapshotMinData = snapRoomHigh + 1

// Decode parses a hex-text payload into a Frame.
//
// The payload must be wrapped in brace delimiters and, once stripped, be at
// least MinFrameLen hex characters. The byte-count field (little-endian, two
// bytes) determines the data segment extent; the checksum covers every byte
// from the device address through the end of the data segment and is
// compared against the two hex characters that follow it.
//
// Decoding is best-effort against untrusted transport input: any structural
// defect yields ErrMalformedFrame and a failed integrity check yields
// ErrChecksumMismatch. No partial frame is ever returned.
func Decode(payload string) (*Frame, error) {
	if len(payload) < 2 || payload[0] != FrameOpen || payload[len(payload)-1] != FrameClose {
		return nil, ErrMalformedFrame
	}
	raw := payload[1 : len(payload)-1]
	if len(raw) < MinFrameLen {
		return nil, ErrMalformedFrame
	}

	header, err := hex.DecodeString(raw[:dataPos])
	if err != nil {
		return nil, ErrMalformedFrame
	}

	// Byte-count field: first byte low, second byte high.
	byteCount := int(header[11]) + 256*int(header[12])
	dataEnd := dataPos + 2*byteCount
	if dataEnd+2 > len(raw) {
		return nil, ErrMalformedFrame
	}

	data, err := hex.DecodeString(raw[dataPos:dataEnd])
	if err != nil {
		return nil, ErrMalformedFrame
	}

	covered := make([]byte, 0, len(header)+len(data))
	covered = append(covered, header...)
	covered = append(covered, data...)
	claimed := raw[dataEnd : dataEnd+2]
	if !VerifyLRC(covered, claimed) {
		return nil, ErrChecksumMismatch
	}

	return &Frame{
		Address:       strings.ToUpper(raw[:addressEnd]),
		Function:      header[functionPos/2],
		StartRegister: header[startRegPos/2],
		RegisterCount: header[regCountPos/2],
		ByteCount:     byteCount,
		Data:          data,
		Checksum:      LRC(covered),
		Raw:           raw,
	}, nil
}

// Snapshot extracts the telemetry registers from the frame's data segment.
// It returns false when the data segment is too short to hold the full
// register block, so callers never observe a partially populated snapshot.
func (f *Frame) Snapshot() (*Snapshot, bool) {
	if len(f.Data) < snapshotMinData {
		return nil, false
	}
	return &Snapshot{
		Power:    f.Data[snapPower],
		FanSpeed: f.Data[snapFanSpeed],
		SetTemp:  float64(f.Data[snapSetTemp]) / 2.0,
		Sweep:    f.Data[snapSweep],
		Mode:     f.Data[snapMode],
		RoomTemp: (256*float64(f.Data[snapRoomHigh]) + float64(f.Data[snapRoomLow])) / 10.0,
	}, true
}

// WriteCommand reports the register/value pair carried by a single-register
// write frame. It returns false for any other frame shape.
func (f *Frame) WriteCommand() (register, value byte, ok bool) {
	if f.Function != FunctionWrite || f.RegisterCount != SingleRegister || len(f.Data) != 1 {
		return 0, 0, false
	}
	return f.StartRegister, f.Data[0], true
}

// String returns a debug representation of the frame.
func (f *Frame) String() string {
	return fmt.Sprintf("Frame{addr=%s, fn=0x%02x, reg=0x%02x, count=%d, data=%d bytes}",
		f.Address, f.Function, f.StartRegister, f.RegisterCount, len(f.Data))
}
