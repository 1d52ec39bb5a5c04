// Package protocol implements the FCU hex-text frame protocol.
//
// Fan coil units broadcast their register state and accept single-register
// write commands as hex-encoded ASCII frames wrapped in brace delimiters:
//
//	{<addr 12><reserved 4><function 2><start-reg 2><reg-count 2><byte-count 4 LE><data><lrc 2>}
//
// All counts above are hex characters; two hex characters encode one byte.
// The trailing LRC is a longitudinal redundancy check computed over every
// byte from the device address through the end of the data segment, chosen
// so that all covered bytes plus the checksum sum to zero modulo 256.
//
// # Decoding
//
// Decode validates the delimiters, the minimum frame length and the LRC
// before any field is extracted. Transport input is untrusted: malformed
// frames yield ErrMalformedFrame and frames that fail the integrity check
// yield ErrChecksumMismatch, never a panic or a partial result. A verified
// broadcast frame exposes its telemetry registers through Frame.Snapshot.
//
// # Encoding
//
// BuildWriteCommand constructs a single-register write frame for a device.
// The byte-count field is always derived from the data segment so the frame
// is self-consistent with its checksum. Built frames decode symmetrically,
// which the tests use to round-trip commands through the codec.
//
// All functions are stateless and safe for concurrent use.
package protocol
