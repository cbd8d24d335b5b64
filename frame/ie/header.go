package ie

import (
	"encoding/binary"
	"fmt"
)

const (
	headerMaskLength    = 0b0000_0000_0111_1111
	headerShiftID       = 7
	headerMaskID        = 0b0111_1111_1000_0000
	headerMaskType      = 0b1000_0000_0000_0000
)

// HeaderElementID identifies a Header Information Element's content type.
type HeaderElementID uint8

const (
	HeaderElementVendorSpecific                      HeaderElementID = 0x00
	HeaderElementCsl                                 HeaderElementID = 0x1a
	HeaderElementRit                                 HeaderElementID = 0x1b
	HeaderElementDsmePanDescriptor                   HeaderElementID = 0x1c
	HeaderElementRendezvousTime                      HeaderElementID = 0x1d
	HeaderElementTimeCorrection                      HeaderElementID = 0x1e
	HeaderElementExtendedDsmePanDescriptor           HeaderElementID = 0x21
	HeaderElementFragmentSequenceContextDescription  HeaderElementID = 0x22
	HeaderElementSimplifiedSuperframeSpecification   HeaderElementID = 0x23
	HeaderElementSimplifiedGtsSpecification          HeaderElementID = 0x24
	HeaderElementLecimCapabilities                   HeaderElementID = 0x25
	HeaderElementTrleDescriptor                      HeaderElementID = 0x26
	HeaderElementRccCapabilities                     HeaderElementID = 0x27
	HeaderElementRccnDescriptor                      HeaderElementID = 0x28
	HeaderElementGlobalTime                          HeaderElementID = 0x29
	HeaderElementDa                                  HeaderElementID = 0x2b
	HeaderElementHeaderTermination1                  HeaderElementID = 0x7e
	HeaderElementHeaderTermination2                  HeaderElementID = 0x7f
)

func (id HeaderElementID) String() string {
	switch id {
	case HeaderElementVendorSpecific:
		return "VendorSpecific"
	case HeaderElementCsl:
		return "Csl"
	case HeaderElementRit:
		return "Rit"
	case HeaderElementDsmePanDescriptor:
		return "DsmePanDescriptor"
	case HeaderElementRendezvousTime:
		return "RendezvousTime"
	case HeaderElementTimeCorrection:
		return "Time Correction"
	case HeaderElementExtendedDsmePanDescriptor:
		return "ExtendedDsmePanDescriptor"
	case HeaderElementFragmentSequenceContextDescription:
		return "FragmentSequenceContextDescription"
	case HeaderElementSimplifiedSuperframeSpecification:
		return "SimplifiedSuperframeSpecification"
	case HeaderElementSimplifiedGtsSpecification:
		return "SimplifiedGtsSpecification"
	case HeaderElementLecimCapabilities:
		return "LecimCapabilities"
	case HeaderElementTrleDescriptor:
		return "TrleDescriptor"
	case HeaderElementRccCapabilities:
		return "RccCapabilities"
	case HeaderElementRccnDescriptor:
		return "RccnDescriptor"
	case HeaderElementGlobalTime:
		return "GlobalTime"
	case HeaderElementDa:
		return "Da"
	case HeaderElementHeaderTermination1:
		return "HeaderTermination1"
	case HeaderElementHeaderTermination2:
		return "HeaderTermination2"
	default:
		return fmt.Sprintf(unknownFmt, uint8(id))
	}
}

// IsTermination reports whether id marks the end of the Header IE list
// (HT1: Payload IEs follow; HT2: the MAC payload follows directly).
func (id HeaderElementID) IsTermination() bool {
	return id == HeaderElementHeaderTermination1 || id == HeaderElementHeaderTermination2
}

// HeaderIE is a zero-copy view over a single Header Information Element.
type HeaderIE struct {
	buf []byte
}

// NewHeaderIE returns a view over buf, which must be at least 2 octets
// long (the Length/Element ID/Type word) plus the content the length
// field describes.
func NewHeaderIE(buf []byte) (HeaderIE, error) {
	if len(buf) < 2 {
		return HeaderIE{}, ErrBufferTooShort
	}
	h := HeaderIE{buf: buf}
	if len(buf) < 2+h.Len() {
		return HeaderIE{}, ErrBufferTooShort
	}
	return h, nil
}

func (h HeaderIE) raw() uint16 { return binary.LittleEndian.Uint16(h.buf[0:2]) }

// Len returns the content length in octets.
func (h HeaderIE) Len() int { return int(h.raw() & headerMaskLength) }

// ElementID returns the Header Element ID.
func (h HeaderIE) ElementID() HeaderElementID {
	return HeaderElementID((h.raw() & headerMaskID) >> headerShiftID)
}

// Content returns the Header IE's content bytes.
func (h HeaderIE) Content() []byte { return h.buf[2 : 2+h.Len()] }

// TotalLen returns the total on-wire size of this Header IE: the 2-octet
// header word plus its content.
func (h HeaderIE) TotalLen() int { return 2 + h.Len() }

// HeaderIEWriter is a mutable view over a Header Information Element.
type HeaderIEWriter struct {
	buf []byte
}

// NewHeaderIEWriter returns a writer view over buf.
func NewHeaderIEWriter(buf []byte) (HeaderIEWriter, error) {
	if len(buf) < 2 {
		return HeaderIEWriter{}, ErrBufferTooShort
	}
	return HeaderIEWriter{buf: buf}, nil
}

func (h HeaderIEWriter) raw() uint16 { return binary.LittleEndian.Uint16(h.buf[0:2]) }

func (h HeaderIEWriter) setRaw(v uint16) { binary.LittleEndian.PutUint16(h.buf[0:2], v) }

// SetLength sets the content length field.
func (h HeaderIEWriter) SetLength(n int) {
	v := h.raw()&^uint16(headerMaskLength) | uint16(n)&headerMaskLength
	h.setRaw(v)
}

// SetElementID sets the Header Element ID field.
func (h HeaderIEWriter) SetElementID(id HeaderElementID) {
	v := h.raw()&^uint16(headerMaskID) | (uint16(id)<<headerShiftID)&headerMaskID
	h.setRaw(v)
}

// Content returns the mutable content area. The caller is responsible for
// having sized buf to fit SetLength's value.
func (h HeaderIEWriter) Content() []byte { return h.buf[2:] }

// HeaderIEIterator walks a sequence of Header Information Elements. Once
// terminated (end of buffer, a parse failure, or a termination IE), it
// always returns false from Next — it is a fused iterator.
type HeaderIEIterator struct {
	data       []byte
	offset     int
	terminated bool
	cur        HeaderIE
}

// NewHeaderIEIterator returns an iterator over the Header Information
// Elements stored in data.
func NewHeaderIEIterator(data []byte) *HeaderIEIterator {
	return &HeaderIEIterator{data: data}
}

// Next advances the iterator. It reports false once the iterator is
// terminated.
func (it *HeaderIEIterator) Next() bool {
	if it.terminated {
		return false
	}
	ie, err := NewHeaderIE(it.data[it.offset:])
	if err != nil {
		it.terminated = true
		return false
	}
	it.cur = ie
	it.terminated = ie.ElementID().IsTermination()
	it.offset += ie.TotalLen()
	if it.offset >= len(it.data) {
		it.terminated = true
	}
	return true
}

// Current returns the Header IE yielded by the most recent call to Next.
func (it *HeaderIEIterator) Current() HeaderIE { return it.cur }

// Offset returns the offset of the next unread Header IE. Once the
// iterator is done, Offset returns the end of the Header IE list,
// including the termination IE.
func (it *HeaderIEIterator) Offset() int { return it.offset }
