package climate

import (
	"testing"

	"github.com/yipfcu/fcubridge/internal/protocol"
)

func TestApplySnapshot(t *testing.T) {
	tests := []struct {
		name string
		snap protocol.Snapshot
		want State
	}{
		{
			name: "powered on cooling",
			snap: protocol.Snapshot{Power: 1, Mode: 1, FanSpeed: 6, Sweep: 0, SetTemp: 20.0, RoomTemp: 30.0},
			want: State{Mode: ModeCool, TargetTemp: 20.0, CurrentTemp: 30.0, FanMode: "6", SwingMode: SwingSweepOn},
		},
		{
			name: "powered on dry",
			snap: protocol.Snapshot{Power: 1, Mode: 2, FanSpeed: 10, Sweep: 8, SetTemp: 24.5, RoomTemp: 26.3},
			want: State{Mode: ModeDry, TargetTemp: 24.5, CurrentTemp: 26.3, FanMode: FanAuto, SwingMode: SwingAuto},
		},
		{
			name: "powered on fan only",
			snap: protocol.Snapshot{Power: 1, Mode: 0, FanSpeed: 255, Sweep: 255, SetTemp: 22.0, RoomTemp: 25.0},
			want: State{Mode: ModeFanOnly, TargetTemp: 22.0, CurrentTemp: 25.0, FanMode: FanAuto, SwingMode: SwingAuto},
		},
		{
			// Power wins over the mode register.
			name: "powered off ignores mode",
			snap: protocol.Snapshot{Power: 0, Mode: 1, FanSpeed: 3, Sweep: 1, SetTemp: 18.0, RoomTemp: 29.9},
			want: State{Mode: ModeOff, TargetTemp: 18.0, CurrentTemp: 29.9, FanMode: "3", SwingMode: "1"},
		},
		{
			// Device reports on with a mode code this build does not know:
			// conservative off, not a guess.
			name: "powered on with unrecognized mode",
			snap: protocol.Snapshot{Power: 1, Mode: 9, FanSpeed: 4, Sweep: 2, SetTemp: 21.0, RoomTemp: 27.1},
			want: State{Mode: ModeOff, TargetTemp: 21.0, CurrentTemp: 27.1, FanMode: "4", SwingMode: "2"},
		},
		{
			// Unmapped fan and sweep codes stay visible as decimal strings.
			name: "unrecognized fan and sweep codes",
			snap: protocol.Snapshot{Power: 1, Mode: 1, FanSpeed: 42, Sweep: 12, SetTemp: 19.5, RoomTemp: 24.0},
			want: State{Mode: ModeCool, TargetTemp: 19.5, CurrentTemp: 24.0, FanMode: "42", SwingMode: "12"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.ApplySnapshot(&tt.snap)
			if s != tt.want {
				t.Errorf("ApplySnapshot() = %+v, want %+v", s, tt.want)
			}
		})
	}
}

func TestApplySnapshotNil(t *testing.T) {
	s := NewState()
	before := s
	s.ApplySnapshot(nil)
	if s != before {
		t.Errorf("ApplySnapshot(nil) changed state to %+v", s)
	}
}

// Fan mode "AUTO" and fan-speed code 255 normalize to the same display name.
func TestFanAutoAliases(t *testing.T) {
	if FanModeName(10) != FanModeName(255) {
		t.Errorf("codes 10 and 255 map to %q and %q, want identical", FanModeName(10), FanModeName(255))
	}
	code, err := FanModeCode("auto")
	if err != nil {
		t.Fatalf("FanModeCode(auto) error = %v", err)
	}
	if code != 0x0A {
		t.Errorf("FanModeCode(auto) = 0x%02x, want 0x0A", code)
	}
	if FanModeName(255) != FanAuto {
		t.Errorf("FanModeName(255) = %q, want %q", FanModeName(255), FanAuto)
	}
}

func TestFanModeCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    byte
		wantErr bool
	}{
		{name: "AUTO uppercase", input: "AUTO", want: 0x0A},
		{name: "auto lowercase", input: "auto", want: 0x0A},
		{name: "numeric speed", input: "6", want: 0x06},
		{name: "numeric with spaces", input: " 7 ", want: 0x07},
		{name: "unparsable", input: "medium", wantErr: true},
		{name: "negative", input: "-1", wantErr: true},
		{name: "out of byte range", input: "300", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FanModeCode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FanModeCode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("FanModeCode(%q) = 0x%02x, want 0x%02x", tt.input, got, tt.want)
			}
		})
	}
}

func TestSwingModeCode(t *testing.T) {
	tests := []struct {
		input string
		want  byte
	}{
		{input: "SWEEP ON", want: 0},
		{input: "sweep on", want: 0},
		{input: "1", want: 1},
		{input: "5", want: 5},
		{input: "AUTO", want: 8},
		{input: "auto", want: 8},
		// Unrecognized names default to SWEEP ON, matching inbound leniency.
		{input: "sideways", want: 0},
		{input: "", want: 0},
	}

	for _, tt := range tests {
		if got := SwingModeCode(tt.input); got != tt.want {
			t.Errorf("SwingModeCode(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestParseHVACMode(t *testing.T) {
	tests := []struct {
		input   string
		want    HVACMode
		wantErr bool
	}{
		{input: "off", want: ModeOff},
		{input: "COOL", want: ModeCool},
		{input: "dry", want: ModeDry},
		{input: "fan_only", want: ModeFanOnly},
		{input: "fan-only", want: ModeFanOnly},
		{input: "fan", want: ModeFanOnly},
		{input: "heat", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseHVACMode(tt.input)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseHVACMode(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseHVACMode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestModeCode(t *testing.T) {
	for mode, want := range map[HVACMode]byte{ModeFanOnly: 0, ModeCool: 1, ModeDry: 2} {
		code, ok := ModeCode(mode)
		if !ok || code != want {
			t.Errorf("ModeCode(%q) = (0x%02x, %v), want (0x%02x, true)", mode, code, ok, want)
		}
	}
	if _, ok := ModeCode(ModeOff); ok {
		t.Error("ModeCode(off) = ok, want no register encoding")
	}
}
