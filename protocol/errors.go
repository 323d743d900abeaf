package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidReturnByte = errors.New("Invalid return byte")
	ErrInvalidByteSize   = errors.New("Invalid byte size")
	ErrUnsupportedType   = errors.New("Unsupported width and sign tag combination")
	ErrUnknownCommand    = errors.New("Unknown command could not be parsed")
	ErrUnknownDataType   = errors.New("Unknown data type")
)

// InvalidReturnByteError is returned when a framing byte in a response (the
// start delimiter, the echoed command id or the end delimiter) is not the one
// we expected. The stream is desynchronized afterwards.
type InvalidReturnByteError struct {
	Got      byte
	Expected byte
}

func (e *InvalidReturnByteError) Error() string {
	return fmt.Sprintf("Invalid return byte, 0x%02X expected 0x%02X", e.Got, e.Expected)
}

func (e *InvalidReturnByteError) Is(target error) bool {
	return target == ErrInvalidReturnByte
}

// InvalidByteSizeError is returned for a width other than 1, 2 or 4.
type InvalidByteSizeError struct {
	Size uint8
}

func (e *InvalidByteSizeError) Error() string {
	return fmt.Sprintf("Invalid byte size %d, only 1, 2, 4 supported", e.Size)
}

func (e *InvalidByteSizeError) Is(target error) bool {
	return target == ErrInvalidByteSize
}
