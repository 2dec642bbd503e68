package costume

import (
	"fmt"
)

// BlockError indicates an error that occurred while decoding one block of
// the costume stream.
type BlockError struct {
	// Block names the block being decoded, using its JSON key.
	Block string
	// Offset is the byte offset at which the block began.
	Offset int

	Cause error
}

func (err BlockError) Error() string {
	return fmt.Sprintf("%s block at offset %d: %s", err.Block, err.Offset, err.Cause.Error())
}

func (err BlockError) Unwrap() error {
	return err.Cause
}

// CountError indicates a record count larger than the remaining buffer could
// possibly hold.
type CountError struct {
	// Offset is the byte offset of the count field.
	Offset int
	// Count is the decoded count.
	Count uint32
	// Remaining is the number of bytes that remained after the count.
	Remaining int
}

func (err CountError) Error() string {
	return fmt.Sprintf("implausible record count %d at offset %d: %d bytes remain", err.Count, err.Offset, err.Remaining)
}

// LayoutError indicates that the attachment/sheet-remap pair matched neither
// the modern attachments-first layout nor the legacy remaps-first layout.
type LayoutError struct {
	// AttachmentsFirst is the failure of the modern layout.
	AttachmentsFirst error
	// SheetsFirst is the failure of the legacy layout.
	SheetsFirst error
	// Offset is the byte offset at which the pair began.
	Offset int
}

func (err LayoutError) Error() string {
	return fmt.Sprintf("attachment/sheet-remap pair at offset %d matches neither known layout: attachments first: %s; sheet remaps first: %s",
		err.Offset, err.AttachmentsFirst.Error(), err.SheetsFirst.Error())
}

// Unwrap returns the failure of the legacy layout, the last one attempted.
func (err LayoutError) Unwrap() error {
	return err.SheetsFirst
}

// TrailingError indicates bytes left unconsumed after the last block. The
// stream is not self-describing, so an incomplete parse cannot be told apart
// from a corrupt file; any remainder is fatal.
type TrailingError struct {
	// Offset is the absolute offset of the first unconsumed byte.
	Offset int
}

func (err TrailingError) Error() string {
	return fmt.Sprintf("unparsed trailing bytes at offset %d", err.Offset)
}

// UnknownBlendError reports a blend override whose value is outside the known
// blend set. It is emitted as a warning; the raw value is preserved.
type UnknownBlendError struct {
	// Layer is the name of the overridden layer.
	Layer string
	// Value is the raw blend value.
	Value uint32
	// Offset is the byte offset of the value.
	Offset int
}

func (err UnknownBlendError) Error() string {
	return fmt.Sprintf("layer %q: unknown blend value %d at offset %d", err.Layer, err.Value, err.Offset)
}
