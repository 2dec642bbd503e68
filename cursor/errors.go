package cursor

import "fmt"

// TruncError indicates that a fixed-width or length-prefixed read would pass
// the end of the buffer.
type TruncError struct {
	// Offset is the read offset at which the read was attempted.
	Offset int
	// Want is the number of bytes the read required.
	Want int
	// Have is the number of bytes that remained.
	Have int
}

func (err TruncError) Error() string {
	return fmt.Sprintf("unexpected end of buffer at offset %d: want %d bytes, have %d", err.Offset, err.Want, err.Have)
}

// SeekError indicates a seek to an offset outside the buffer.
type SeekError int

func (err SeekError) Error() string {
	return fmt.Sprintf("seek to invalid offset %d", int(err))
}
