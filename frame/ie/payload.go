package ie

import (
	"encoding/binary"
	"fmt"
)

const (
	payloadMaskLength  = 0b0000_0111_1111_1111
	payloadShiftGroup  = 11
	payloadMaskGroup   = 0b0111_1000_0000_0000
)

// PayloadGroupID identifies a Payload Information Element's content group.
type PayloadGroupID uint8

const (
	PayloadGroupESDU      PayloadGroupID = 0x0
	PayloadGroupMLME      PayloadGroupID = 0x1
	PayloadGroupVendor    PayloadGroupID = 0x2
	PayloadGroupPayloadTermination PayloadGroupID = 0xf
)

func (g PayloadGroupID) String() string {
	switch g {
	case PayloadGroupESDU:
		return "ESDU"
	case PayloadGroupMLME:
		return "MLME"
	case PayloadGroupVendor:
		return "VendorSpecific"
	case PayloadGroupPayloadTermination:
		return "PayloadTermination"
	default:
		return fmt.Sprintf(unknownFmt, uint8(g))
	}
}

// IsTermination reports whether g marks the end of the Payload IE list.
func (g PayloadGroupID) IsTermination() bool { return g == PayloadGroupPayloadTermination }

// PayloadIE is a zero-copy view over a single Payload Information Element.
type PayloadIE struct {
	buf []byte
}

// NewPayloadIE returns a view over buf, which must hold the 2-octet
// header word plus the content the length field describes.
func NewPayloadIE(buf []byte) (PayloadIE, error) {
	if len(buf) < 2 {
		return PayloadIE{}, ErrBufferTooShort
	}
	p := PayloadIE{buf: buf}
	if len(buf) < 2+p.Len() {
		return PayloadIE{}, ErrBufferTooShort
	}
	return p, nil
}

func (p PayloadIE) raw() uint16 { return binary.LittleEndian.Uint16(p.buf[0:2]) }

// Len returns the content length in octets.
func (p PayloadIE) Len() int { return int(p.raw() & payloadMaskLength) }

// GroupID returns the Payload Group ID.
func (p PayloadIE) GroupID() PayloadGroupID {
	return PayloadGroupID((p.raw() & payloadMaskGroup) >> payloadShiftGroup)
}

// Content returns the Payload IE's content bytes.
func (p PayloadIE) Content() []byte { return p.buf[2 : 2+p.Len()] }

// TotalLen returns the total on-wire size of this Payload IE.
func (p PayloadIE) TotalLen() int { return 2 + p.Len() }

// NestedIEs returns an iterator over this Payload IE's content interpreted
// as a sequence of Nested Information Elements. Nesting is only defined
// for the MLME group; calling this on any other group is a precondition
// violation, reported rather than silently allowed.
func (p PayloadIE) NestedIEs() (*NestedIEIterator, error) {
	if p.GroupID() != PayloadGroupMLME {
		return nil, ErrNotMlme
	}
	return NewNestedIEIterator(p.Content()), nil
}

// PayloadIEWriter is a mutable view over a Payload Information Element.
type PayloadIEWriter struct {
	buf []byte
}

// NewPayloadIEWriter returns a writer view over buf.
func NewPayloadIEWriter(buf []byte) (PayloadIEWriter, error) {
	if len(buf) < 2 {
		return PayloadIEWriter{}, ErrBufferTooShort
	}
	return PayloadIEWriter{buf: buf}, nil
}

func (p PayloadIEWriter) raw() uint16 { return binary.LittleEndian.Uint16(p.buf[0:2]) }

func (p PayloadIEWriter) setRaw(v uint16) { binary.LittleEndian.PutUint16(p.buf[0:2], v) }

// SetLength sets the content length field.
func (p PayloadIEWriter) SetLength(n int) {
	v := p.raw()&^uint16(payloadMaskLength) | uint16(n)&payloadMaskLength
	p.setRaw(v)
}

// SetGroupID sets the Payload Group ID field and the type bit that marks
// this word as a Payload IE rather than a Header IE.
func (p PayloadIEWriter) SetGroupID(g PayloadGroupID) {
	const typeBit = 0b1000_0000_0000_0000
	v := p.raw()&^uint16(payloadMaskGroup) | (uint16(g)<<payloadShiftGroup)&payloadMaskGroup | typeBit
	p.setRaw(v)
}

// Content returns the mutable content area.
func (p PayloadIEWriter) Content() []byte { return p.buf[2:] }

// PayloadIEIterator walks a sequence of Payload Information Elements. Once
// terminated, it always returns false from Next.
type PayloadIEIterator struct {
	data       []byte
	offset     int
	terminated bool
	cur        PayloadIE
}

// NewPayloadIEIterator returns an iterator over the Payload Information
// Elements stored in data.
func NewPayloadIEIterator(data []byte) *PayloadIEIterator {
	return &PayloadIEIterator{data: data}
}

// Next advances the iterator.
func (it *PayloadIEIterator) Next() bool {
	if it.terminated {
		return false
	}
	pie, err := NewPayloadIE(it.data[it.offset:])
	if err != nil {
		it.terminated = true
		return false
	}
	it.cur = pie
	it.terminated = pie.GroupID().IsTermination()
	it.offset += pie.TotalLen()
	if it.offset >= len(it.data) {
		it.terminated = true
	}
	return true
}

// Current returns the Payload IE yielded by the most recent call to Next.
func (it *PayloadIEIterator) Current() PayloadIE { return it.cur }

// Offset returns the offset of the next unread Payload IE.
func (it *PayloadIEIterator) Offset() int { return it.offset }
