package ie

import "errors"

// ErrBufferTooShort indicates the supplied buffer is too short to hold the
// Information Element being read or written.
var ErrBufferTooShort = errors.New("ie: buffer too short")

// ErrNotMlme indicates an operation that only makes sense on an MLME
// Payload Information Element group was attempted on a Payload IE
// belonging to a different group.
var ErrNotMlme = errors.New("ie: not an MLME payload group")

const unknownFmt = "Unknown(%d)"
