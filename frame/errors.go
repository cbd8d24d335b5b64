package frame

import "errors"

// ErrBufferTooShort indicates the supplied buffer is too short to hold the
// field or structure being read or written.
var ErrBufferTooShort = errors.New("frame: buffer too short")

// ErrIllFormed indicates the frame's control fields describe a combination
// that the format does not allow (e.g. an addressing mode reserved by the
// frame version in effect).
var ErrIllFormed = errors.New("frame: ill-formed frame control")

// ErrInvalidRepr indicates a Repr's fields fail validation and cannot be
// emitted onto the wire (e.g. a PAN ID compression flag inconsistent with
// the addressing fields present).
var ErrInvalidRepr = errors.New("frame: invalid representation")
