// Package climate translates raw FCU register values into the domain-level
// climate state and back.
//
// The protocol's fan-speed, swing and mode registers carry small closed
// enumerations. Known codes map to fixed display names; an unmapped code is
// never an error — it falls back to the code's decimal string so the value
// stays visible even when unrecognized. The one exception is the mode
// register: a device that reports power on with an unknown mode code is
// treated as off rather than guessed.
package climate
