package frame

import (
	"fmt"

	"github.com/dantte-lp/go154/frame/ie"
)

// Variant identifies which of the format's five frame shapes a Frame's
// control fields describe.
type Variant uint8

const (
	// VariantAck is a pre-2020 immediate acknowledgment: Frame Control
	// plus Sequence Number only, exactly 3 octets.
	VariantAck Variant = iota
	// VariantEnhancedAck is a 2020 Ack carrying addressing fields and
	// optionally Information Elements.
	VariantEnhancedAck
	// VariantBeacon is a pre-2020 Beacon, or a 2020 Beacon with no
	// Information Elements.
	VariantBeacon
	// VariantEnhancedBeacon is a 2020 Beacon carrying Information
	// Elements.
	VariantEnhancedBeacon
	// VariantData is a Data frame.
	VariantData
)

func (v Variant) String() string {
	switch v {
	case VariantAck:
		return "Ack"
	case VariantEnhancedAck:
		return "EnhancedAck"
	case VariantBeacon:
		return "Beacon"
	case VariantEnhancedBeacon:
		return "EnhancedBeacon"
	case VariantData:
		return "Data"
	default:
		return unknown(uint8(v))
	}
}

// Frame is a zero-copy, read-only view over a complete IEEE 802.15.4 MAC
// frame. Every accessor computes its offset from the Frame Control field
// and whatever fields precede it; nothing is cached or allocated.
type Frame struct {
	buf []byte
}

// maxFrameLength is the format's maximum on-wire frame size.
const maxFrameLength = 127

// NewFrame parses and validates buf as a complete IEEE 802.15.4 MAC frame.
// Only Ack, Beacon, and Data frame types are dispatched; Command,
// Multipurpose, and any reserved frame type are rejected here rather than
// silently treated as Data by Variant. Also rejected: an unrecognized
// frame version or addressing mode, a security-enabled frame (Auxiliary
// Security Header processing is out of scope), a frame longer than
// maxFrameLength, a legacy (pre-2020) Ack that is not exactly 3 octets,
// and a Sequence Number field that is required (suppression is 2020-only)
// but missing from buf.
func NewFrame(buf []byte) (Frame, error) {
	if len(buf) < 2 {
		return Frame{}, ErrBufferTooShort
	}
	if len(buf) > maxFrameLength {
		return Frame{}, ErrIllFormed
	}

	fc, err := NewFrameControl(buf)
	if err != nil {
		return Frame{}, err
	}
	if fc.SecurityEnabled() {
		return Frame{}, ErrIllFormed
	}
	if fc.FrameVersion() == FrameVersionUnknown {
		return Frame{}, ErrIllFormed
	}
	if fc.DstAddressingMode() == AddressingModeReserved || fc.SrcAddressingMode() == AddressingModeReserved {
		return Frame{}, ErrIllFormed
	}

	switch fc.FrameType() {
	case FrameTypeAck:
		if fc.FrameVersion() != FrameVersion2020 && len(buf) != 3 {
			return Frame{}, ErrIllFormed
		}
	case FrameTypeBeacon, FrameTypeData:
		// no additional shape constraint beyond the checks above
	default:
		return Frame{}, ErrIllFormed
	}

	if fc.SequenceNumberSuppression() {
		if fc.FrameVersion() != FrameVersion2020 {
			return Frame{}, ErrIllFormed
		}
	} else if len(buf) < seqNumOffset+1 {
		return Frame{}, ErrIllFormed
	}

	return Frame{buf: buf}, nil
}

// Control returns the Frame Control view.
func (f Frame) Control() FrameControl {
	fc, _ := NewFrameControl(f.buf)
	return fc
}

// Variant classifies the frame by its type, version, and IE presence.
// NewFrame only ever constructs frames whose type is Ack, Beacon, or Data,
// so the default case below is unreachable for any Frame obtained through
// it; Command, Multipurpose, and reserved frame types are rejected at
// construction rather than folded into VariantData here.
func (f Frame) Variant() Variant {
	fc := f.Control()
	switch fc.FrameType() {
	case FrameTypeAck:
		if fc.FrameVersion() == FrameVersion2020 {
			return VariantEnhancedAck
		}
		return VariantAck
	case FrameTypeBeacon:
		if fc.FrameVersion() == FrameVersion2020 && fc.IEsPresent() {
			return VariantEnhancedBeacon
		}
		return VariantBeacon
	case FrameTypeData:
		return VariantData
	default:
		return VariantData
	}
}

// seqNumOffset is always 2: the Sequence Number, when present, directly
// follows the 2-octet Frame Control field.
const seqNumOffset = 2

// SequenceNumber returns the Sequence Number field and whether it is
// present (2020 frames may suppress it).
func (f Frame) SequenceNumber() (uint8, bool) {
	fc := f.Control()
	if fc.SequenceNumberSuppression() {
		return 0, false
	}
	return f.buf[seqNumOffset], true
}

func (f Frame) addressingOffset() int {
	off := seqNumOffset
	if _, present := f.SequenceNumber(); present {
		off++
	}
	return off
}

// Addressing returns the Addressing Fields view.
func (f Frame) Addressing() (AddressingFields, error) {
	off := f.addressingOffset()
	if off > len(f.buf) {
		return AddressingFields{}, ErrBufferTooShort
	}
	return NewAddressingFields(f.buf[off:], f.Control())
}

func (f Frame) auxSecOffset() (int, error) {
	af, err := f.Addressing()
	if err != nil {
		return 0, err
	}
	return f.addressingOffset() + af.Len(), nil
}

// AuxiliarySecurityHeader returns the Auxiliary Security Header view and
// whether it is present, per the Security Enabled bit.
func (f Frame) AuxiliarySecurityHeader() (AuxiliarySecurityHeader, bool, error) {
	if !f.Control().SecurityEnabled() {
		return AuxiliarySecurityHeader{}, false, nil
	}
	off, err := f.auxSecOffset()
	if err != nil {
		return AuxiliarySecurityHeader{}, false, err
	}
	h, err := NewAuxiliarySecurityHeader(f.buf[off:])
	if err != nil {
		return AuxiliarySecurityHeader{}, false, err
	}
	return h, true, nil
}

func (f Frame) ieOffset() (int, error) {
	off, err := f.auxSecOffset()
	if err != nil {
		return 0, err
	}
	if h, present, err := f.AuxiliarySecurityHeader(); err != nil {
		return 0, err
	} else if present {
		off += h.Len()
	}
	return off, nil
}

// HeaderIEs returns an iterator over the frame's Header Information
// Elements. If the frame carries none, the iterator yields nothing.
func (f Frame) HeaderIEs() (*ie.HeaderIEIterator, error) {
	if !f.Control().IEsPresent() {
		return ie.NewHeaderIEIterator(nil), nil
	}
	off, err := f.ieOffset()
	if err != nil {
		return nil, err
	}
	return ie.NewHeaderIEIterator(f.buf[off:]), nil
}

// PayloadIEs returns an iterator over the frame's Payload Information
// Elements. Payload IEs are only present when a Header Information
// Element list ends with Header Termination 1.
func (f Frame) PayloadIEs() (*ie.PayloadIEIterator, error) {
	if !f.Control().IEsPresent() {
		return ie.NewPayloadIEIterator(nil), nil
	}
	off, err := f.ieOffset()
	if err != nil {
		return nil, err
	}
	hOff := off
	it := ie.NewHeaderIEIterator(f.buf[hOff:])
	sawHT1 := false
	for it.Next() {
		if it.Current().ElementID() == ie.HeaderElementHeaderTermination1 {
			sawHT1 = true
		}
	}
	if !sawHT1 {
		return ie.NewPayloadIEIterator(nil), nil
	}
	return ie.NewPayloadIEIterator(f.buf[hOff+it.Offset():]), nil
}

// Payload returns the frame's MAC payload: everything after the
// Information Elements (or after the Auxiliary Security Header, if no IEs
// are present), excluding any trailing Message Integrity Code.
func (f Frame) Payload() ([]byte, error) {
	if f.Variant() == VariantAck {
		// An immediate Ack is Frame Control plus Sequence Number only.
		return f.buf[len(f.buf):], nil
	}
	off, err := f.ieOffset()
	if err != nil {
		return nil, err
	}
	if f.Control().IEsPresent() {
		off = f.payloadOffsetAfterIEs()
	}

	end := len(f.buf)
	if h, present, _ := f.AuxiliarySecurityHeader(); present {
		end -= h.MICLength()
	}
	if off > end {
		return nil, ErrBufferTooShort
	}
	return f.buf[off:end], nil
}

func (f Frame) payloadOffsetAfterIEs() int {
	off, err := f.ieOffset()
	if err != nil {
		return len(f.buf)
	}
	hit := ie.NewHeaderIEIterator(f.buf[off:])
	sawHT1 := false
	for hit.Next() {
		if hit.Current().ElementID() == ie.HeaderElementHeaderTermination1 {
			sawHT1 = true
		}
	}
	off += hit.Offset()
	if !sawHT1 {
		return off
	}
	pit := ie.NewPayloadIEIterator(f.buf[off:])
	for pit.Next() {
	}
	return off + pit.Offset()
}

func (f Frame) String() string {
	return fmt.Sprintf("Frame{variant=%s type=%s version=%s}", f.Variant(), f.Control().FrameType(), f.Control().FrameVersion())
}
