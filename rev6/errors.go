package rev6

import (
	"fmt"
)

// RecordError indicates an error that occurred while decoding a record of
// the container.
type RecordError struct {
	// Record names the kind of record being decoded.
	Record string
	// Index is the position of the record within its table.
	Index int
	// Offset is the byte offset at which the record began.
	Offset int

	Cause error
}

func (err RecordError) Error() string {
	return fmt.Sprintf("%s #%d at offset %d: %s", err.Record, err.Index, err.Offset, err.Cause.Error())
}

func (err RecordError) Unwrap() error {
	return err.Cause
}

// CountError indicates a record count larger than the remaining buffer could
// possibly hold.
type CountError struct {
	// Record names the kind of record being counted.
	Record string
	// Offset is the byte offset of the count field.
	Offset int
	// Count is the decoded count.
	Count uint32
	// Remaining is the number of bytes that remained after the count.
	Remaining int
}

func (err CountError) Error() string {
	return fmt.Sprintf("implausible %s count %d at offset %d: %d bytes remain", err.Record, err.Count, err.Offset, err.Remaining)
}

// UnknownBlendError reports a blend value not known by the codec. It is
// emitted as a warning; the decoder substitutes BlendAdditive and continues,
// so that unknown future blend modes never abort a load.
type UnknownBlendError struct {
	// Value is the raw blend value.
	Value uint32
	// Offset is the byte offset of the value.
	Offset int
}

func (err UnknownBlendError) Error() string {
	return fmt.Sprintf("unknown blend value %d at offset %d, defaulting to Additive", err.Value, err.Offset)
}
