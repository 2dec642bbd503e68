// The cursor package provides a bounds-checked little-endian reader over an
// in-memory byte buffer.
//
// A Cursor owns an explicit read offset, which can be saved with Tell and
// restored with Seek. Because the whole buffer is resident, any previously
// observed offset is always a valid seek target, which makes the cursor
// suitable for speculative parsing with rollback.
package cursor

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Cursor reads fixed-width little-endian values from a byte buffer.
type Cursor struct {
	data []byte
	off  int
}

// New returns a Cursor positioned at the start of data. The cursor does not
// copy data; the caller must not mutate it while parsing.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Len returns the total length of the underlying buffer.
func (c *Cursor) Len() int {
	return len(c.data)
}

// Tell returns the current read offset.
func (c *Cursor) Tell() int {
	return c.off
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.off
}

// Seek moves the read offset to an absolute position. Offsets outside
// [0, Len] are rejected.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.data) {
		return SeekError(off)
	}
	c.off = off
	return nil
}

// need verifies that n more bytes can be read at the current offset.
func (c *Cursor) need(n int) error {
	if c.off+n > len(c.data) {
		return TruncError{Offset: c.off, Want: n, Have: len(c.data) - c.off}
	}
	return nil
}

// U8 reads one unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.data[c.off]
	c.off++
	return v, nil
}

// I8 reads one signed byte.
func (c *Cursor) I8() (int8, error) {
	v, err := c.U8()
	return int8(v), err
}

// U16 reads a little-endian uint16.
func (c *Cursor) U16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.data[c.off:])
	c.off += 2
	return v, nil
}

// I16 reads a little-endian int16.
func (c *Cursor) I16() (int16, error) {
	v, err := c.U16()
	return int16(v), err
}

// U32 reads a little-endian uint32.
func (c *Cursor) U32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.data[c.off:])
	c.off += 4
	return v, nil
}

// I32 reads a little-endian int32.
func (c *Cursor) I32() (int32, error) {
	v, err := c.U32()
	return int32(v), err
}

// F32 reads a little-endian IEEE 754 binary32 float.
func (c *Cursor) F32() (float32, error) {
	v, err := c.U32()
	return math.Float32frombits(v), err
}

// String reads a length-prefixed, 4-byte-padded string. The uint32 prefix is
// the byte count of the unpadded text; the payload then occupies the next
// multiple of four bytes, so ((L+3)/4)*4 bytes are consumed after the prefix.
// Trailing NUL bytes are stripped from the result.
func (c *Cursor) String() (string, error) {
	length, err := c.U32()
	if err != nil {
		return "", err
	}
	padded := (int(length) + 3) &^ 3
	if err := c.need(padded); err != nil {
		return "", err
	}
	raw := c.data[c.off : c.off+int(length)]
	c.off += padded
	return string(bytes.TrimRight(raw, "\x00")), nil
}
