package climate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yipfcu/fcubridge/internal/protocol"
)

// HVACMode is the high-level operating mode of a fan coil unit.
type HVACMode string

const (
	ModeOff     HVACMode = "off"
	ModeCool    HVACMode = "cool"
	ModeDry     HVACMode = "dry"
	ModeFanOnly HVACMode = "fan_only"
)

// Target temperature bounds in °C, enforced on user intents. The device
// encodes temperatures in half-degree units.
const (
	MinTemp = 16.0
	MaxTemp = 30.0
)

// Defaults used before the first telemetry frame arrives.
const (
	DefaultTargetTemp  = 25.0
	DefaultCurrentTemp = 27.0
	DefaultFanMode     = FanAuto
	DefaultSwingMode   = SwingSweepOn
)

// Named fan and swing modes.
const (
	FanAuto      = "AUTO"
	SwingAuto    = "AUTO"
	SwingSweepOn = "SWEEP ON"
)

// FanModes lists the fan modes exposed to users, in display order.
var FanModes = []string{"3", "4", "5", "6", "7", FanAuto}

// SwingModes lists the swing modes exposed to users, in display order.
var SwingModes = []string{SwingSweepOn, "1", "2", "3", "4", "5", SwingAuto}

// fanSpeedNames maps fan-speed register codes to display names.
var fanSpeedNames = map[byte]string{
	3: "3", 4: "4", 5: "5", 6: "6", 7: "7",
	10: FanAuto, 255: FanAuto,
}

// swingNames maps sweep register codes to display names.
var swingNames = map[byte]string{
	0: SwingSweepOn, 1: "1", 2: "2", 3: "3", 4: "4", 5: "5",
	8: SwingAuto, 255: SwingAuto,
}

// modeByCode maps mode register codes to HVAC modes. A code outside this
// map resolves to ModeOff even when the power register reads on; the device
// reported a mode this build does not know, and off is the conservative
// reading. Flagged for review rather than changed.
var modeByCode = map[byte]HVACMode{
	0: ModeFanOnly,
	1: ModeCool,
	2: ModeDry,
}

// modeCodes is the write-side inverse of modeByCode.
var modeCodes = map[HVACMode]byte{
	ModeFanOnly: 0,
	ModeCool:    1,
	ModeDry:     2,
}

// State is the domain-level view of one fan coil unit. Each device
// controller owns exactly one State; nothing is shared across devices.
type State struct {
	Mode        HVACMode `json:"mode"`
	TargetTemp  float64  `json:"target_temp"`  // °C, 0.5 step, within [MinTemp, MaxTemp]
	CurrentTemp float64  `json:"current_temp"` // °C, room temperature
	FanMode     string   `json:"fan_mode"`
	SwingMode   string   `json:"swing_mode"`
}

// NewState returns the state assumed before any telemetry has been seen.
func NewState() State {
	return State{
		Mode:        ModeOff,
		TargetTemp:  DefaultTargetTemp,
		CurrentTemp: DefaultCurrentTemp,
		FanMode:     DefaultFanMode,
		SwingMode:   DefaultSwingMode,
	}
}

// ApplySnapshot overwrites the state with the contents of a verified
// telemetry snapshot. Telemetry always wins over optimistic local updates.
func (s *State) ApplySnapshot(snap *protocol.Snapshot) {
	if snap == nil {
		return
	}
	if snap.Power == 1 {
		mode, ok := modeByCode[snap.Mode]
		if !ok {
			mode = ModeOff
		}
		s.Mode = mode
	} else {
		s.Mode = ModeOff
	}
	s.TargetTemp = snap.SetTemp
	s.CurrentTemp = snap.RoomTemp
	s.FanMode = FanModeName(snap.FanSpeed)
	s.SwingMode = SwingModeName(snap.Sweep)
}

// FanModeName resolves a fan-speed register code to its display name.
// Unmapped codes fall back to the code's decimal string.
func FanModeName(code byte) string {
	if name, ok := fanSpeedNames[code]; ok {
		return name
	}
	return strconv.Itoa(int(code))
}

// SwingModeName resolves a sweep register code to its display name.
// Unmapped codes fall back to the code's decimal string.
func SwingModeName(code byte) string {
	if name, ok := swingNames[code]; ok {
		return name
	}
	return strconv.Itoa(int(code))
}

// FanModeCode converts a user-supplied fan mode to its register value.
// "AUTO" (case-insensitive) maps to 0x0A; anything else must be an
// integer-parseable string. An unparsable value is a caller error and no
// command may be sent for it.
func FanModeCode(name string) (byte, error) {
	if strings.EqualFold(name, FanAuto) {
		return 0x0A, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(name))
	if err != nil || n < 0 || n > 0xFF {
		return 0, fmt.Errorf("climate: fan mode %q is neither AUTO nor a register value", name)
	}
	return byte(n), nil
}

// SwingModeCode converts a user-supplied swing mode to its register value.
// Names match case-insensitively; anything unrecognized defaults to
// SWEEP ON, mirroring the lenient fallback used on the inbound side.
func SwingModeCode(name string) byte {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case SwingAuto:
		return 8
	default:
		return 0 // SWEEP ON
	}
}

// ModeCode converts an HVAC mode to its register value. ModeOff has no
// register encoding — turning off is a power write, not a mode write.
func ModeCode(m HVACMode) (byte, bool) {
	code, ok := modeCodes[m]
	return code, ok
}

// ParseHVACMode parses a user-supplied mode name.
func ParseHVACMode(name string) (HVACMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(ModeOff):
		return ModeOff, nil
	case string(ModeCool):
		return ModeCool, nil
	case string(ModeDry):
		return ModeDry, nil
	case string(ModeFanOnly), "fan-only", "fanonly", "fan":
		return ModeFanOnly, nil
	default:
		return "", fmt.Errorf("climate: unknown hvac mode %q", name)
	}
}
