package ie

import (
	"encoding/binary"
	"fmt"
)

const (
	nestedTypeBit = 0b1000_0000_0000_0000

	nestedShortMaskLength = 0b0000_0000_1111_1111
	nestedShortShiftSubID = 8
	nestedShortMaskSubID  = 0b0111_1111_0000_0000

	nestedLongMaskLength = 0b0000_0111_1111_1111
	nestedLongShiftSubID = 11
	nestedLongMaskSubID  = 0b0111_1000_0000_0000
)

// NestedSubIDShort identifies the content of a short-form Nested
// Information Element.
type NestedSubIDShort uint8

const (
	NestedSubIDShortTschSynchronization  NestedSubIDShort = 0x1a
	NestedSubIDShortTschSlotframeAndLink NestedSubIDShort = 0x1b
	NestedSubIDShortTschTimeslot         NestedSubIDShort = 0x1c
	NestedSubIDShortVendorSpecific       NestedSubIDShort = 0x40
	NestedSubIDShortSrm                  NestedSubIDShort = 0x46
)

func (id NestedSubIDShort) String() string {
	switch id {
	case NestedSubIDShortTschSynchronization:
		return "TschSynchronization"
	case NestedSubIDShortTschSlotframeAndLink:
		return "TschSlotframeAndLink"
	case NestedSubIDShortTschTimeslot:
		return "TschTimeslot"
	case NestedSubIDShortVendorSpecific:
		return "VendorSpecific"
	case NestedSubIDShortSrm:
		return "Srm"
	default:
		return fmt.Sprintf(unknownFmt, uint8(id))
	}
}

// NestedSubIDLong identifies the content of a long-form Nested
// Information Element.
type NestedSubIDLong uint8

const (
	NestedSubIDLongVendorSpecificNested NestedSubIDLong = 0x08
	NestedSubIDLongChannelHopping       NestedSubIDLong = 0x09
)

func (id NestedSubIDLong) String() string {
	switch id {
	case NestedSubIDLongVendorSpecificNested:
		return "VendorSpecificNested"
	case NestedSubIDLongChannelHopping:
		return "ChannelHopping"
	default:
		return fmt.Sprintf(unknownFmt, uint8(id))
	}
}

// NestedIE is a zero-copy view over a single Nested Information Element,
// carried inside an MLME Payload IE's content. Its header word is either
// the 8-bit-length/7-bit-sub-id short form or the 11-bit-length/4-bit-
// sub-id long form, distinguished by the type bit.
type NestedIE struct {
	buf []byte
}

// NewNestedIE returns a view over buf, which must hold the 2-octet header
// word plus the content the length field describes.
func NewNestedIE(buf []byte) (NestedIE, error) {
	if len(buf) < 2 {
		return NestedIE{}, ErrBufferTooShort
	}
	n := NestedIE{buf: buf}
	if len(buf) < 2+n.Len() {
		return NestedIE{}, ErrBufferTooShort
	}
	return n, nil
}

func (n NestedIE) raw() uint16 { return binary.LittleEndian.Uint16(n.buf[0:2]) }

// IsLong reports whether this Nested IE uses the long (11-bit length)
// form.
func (n NestedIE) IsLong() bool { return n.raw()&nestedTypeBit != 0 }

// IsShort reports whether this Nested IE uses the short (8-bit length)
// form.
func (n NestedIE) IsShort() bool { return !n.IsLong() }

// Len returns the content length in octets.
func (n NestedIE) Len() int {
	if n.IsLong() {
		return int(n.raw() & nestedLongMaskLength)
	}
	return int(n.raw() & nestedShortMaskLength)
}

// SubIDShort returns the short-form sub ID. Only meaningful when IsShort.
func (n NestedIE) SubIDShort() NestedSubIDShort {
	return NestedSubIDShort((n.raw() & nestedShortMaskSubID) >> nestedShortShiftSubID)
}

// SubIDLong returns the long-form sub ID. Only meaningful when IsLong.
func (n NestedIE) SubIDLong() NestedSubIDLong {
	return NestedSubIDLong((n.raw() & nestedLongMaskSubID) >> nestedLongShiftSubID)
}

// Content returns the Nested IE's content bytes.
func (n NestedIE) Content() []byte { return n.buf[2 : 2+n.Len()] }

// TotalLen returns the total on-wire size of this Nested IE.
func (n NestedIE) TotalLen() int { return 2 + n.Len() }

// NestedIEWriter is a mutable view over a Nested Information Element.
type NestedIEWriter struct {
	buf []byte
}

// NewNestedIEWriter returns a writer view over buf.
func NewNestedIEWriter(buf []byte) (NestedIEWriter, error) {
	if len(buf) < 2 {
		return NestedIEWriter{}, ErrBufferTooShort
	}
	return NestedIEWriter{buf: buf}, nil
}

func (n NestedIEWriter) raw() uint16     { return binary.LittleEndian.Uint16(n.buf[0:2]) }
func (n NestedIEWriter) setRaw(v uint16) { binary.LittleEndian.PutUint16(n.buf[0:2], v) }

// SetShort lays out a short-form Nested IE header with the given sub ID
// and content length.
func (n NestedIEWriter) SetShort(id NestedSubIDShort, length int) {
	v := uint16(length)&nestedShortMaskLength | (uint16(id)<<nestedShortShiftSubID)&nestedShortMaskSubID
	n.setRaw(v)
}

// SetLong lays out a long-form Nested IE header with the given sub ID and
// content length.
func (n NestedIEWriter) SetLong(id NestedSubIDLong, length int) {
	v := nestedTypeBit | uint16(length)&nestedLongMaskLength | (uint16(id)<<nestedLongShiftSubID)&nestedLongMaskSubID
	n.setRaw(v)
}

// Content returns the mutable content area.
func (n NestedIEWriter) Content() []byte { return n.buf[2:] }

// NestedIEIterator walks a sequence of Nested Information Elements packed
// inside an MLME Payload IE's content. It is fused: once a parse failure
// or the end of data is reached, it stays terminated, matching the silent
// truncation behavior of the element list it walks.
type NestedIEIterator struct {
	data       []byte
	offset     int
	terminated bool
	cur        NestedIE
}

// NewNestedIEIterator returns an iterator over the Nested Information
// Elements stored in data.
func NewNestedIEIterator(data []byte) *NestedIEIterator {
	return &NestedIEIterator{data: data}
}

// Next advances the iterator.
func (it *NestedIEIterator) Next() bool {
	if it.terminated {
		return false
	}
	if it.offset >= len(it.data) {
		it.terminated = true
		return false
	}
	nie, err := NewNestedIE(it.data[it.offset:])
	if err != nil {
		it.terminated = true
		return false
	}
	it.cur = nie
	it.offset += nie.TotalLen()
	if it.offset >= len(it.data) {
		it.terminated = true
	}
	return true
}

// Current returns the Nested IE yielded by the most recent call to Next.
func (it *NestedIEIterator) Current() NestedIE { return it.cur }
