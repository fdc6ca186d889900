// Package protocol owns the display command wire contract.
//
// Ownership boundary:
// - opcode table and fixed command lengths
// - command value types (one struct per opcode)
// - byte-exact decode/encode of a single command buffer
//
// Wire layout: byte 0 is the opcode, followed by the payload. Coordinates and
// dimensions are int16 little-endian; the trailing RGB565 color is uint16
// big-endian. Every buffer carries exactly one command and must match the
// opcode's fixed length.
package protocol
