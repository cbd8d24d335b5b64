package frame

import (
	"encoding/binary"
	"fmt"
)

// FrameType identifies the MAC frame type carried in the three low bits of
// the Frame Control field.
type FrameType uint8

const (
	FrameTypeBeacon FrameType = 0
	FrameTypeData   FrameType = 1
	FrameTypeAck    FrameType = 2
	FrameTypeCommand FrameType = 3
	// Values 4, 6 and 7 have no dedicated constant; String still names
	// every 3-bit value (4 as "Reserved").
	FrameTypeMultipurpose FrameType = 5
)

var frameTypeNames = [...]string{
	FrameTypeBeacon:       "Beacon",
	FrameTypeData:         "Data",
	FrameTypeAck:          "Ack",
	FrameTypeCommand:      "Command",
	4:                     "Reserved",
	FrameTypeMultipurpose: "Multipurpose",
	6:                     "Fragment",
	7:                     "Extended",
}

func (t FrameType) String() string {
	if int(t) < len(frameTypeNames) {
		return frameTypeNames[t]
	}
	return unknown(uint8(t))
}

// FrameVersion identifies which revision of the standard a frame's fields
// follow. 2020 introduces the 14-row addressing presence table and
// Information Elements; 2003/2006 share the older 4-rule table.
type FrameVersion uint8

const (
	FrameVersion2003 FrameVersion = 0
	FrameVersion2006 FrameVersion = 1
	FrameVersion2020 FrameVersion = 2
	FrameVersionUnknown FrameVersion = 3
)

func (v FrameVersion) String() string {
	switch v {
	case FrameVersion2003:
		return "2003"
	case FrameVersion2006:
		return "2006"
	case FrameVersion2020:
		return "2020"
	default:
		return unknown(uint8(v))
	}
}

// AddressingMode identifies the presence and width of a source or
// destination address.
type AddressingMode uint8

const (
	AddressingModeAbsent   AddressingMode = 0b00
	AddressingModeReserved AddressingMode = 0b01
	AddressingModeShort    AddressingMode = 0b10
	AddressingModeExtended AddressingMode = 0b11
)

// Size returns the on-wire width in octets of an address in this mode.
func (m AddressingMode) Size() int {
	switch m {
	case AddressingModeShort:
		return 2
	case AddressingModeExtended:
		return 8
	default:
		return 0
	}
}

func (m AddressingMode) String() string {
	switch m {
	case AddressingModeAbsent:
		return "Absent"
	case AddressingModeShort:
		return "Short"
	case AddressingModeExtended:
		return "Extended"
	default:
		return unknown(uint8(m))
	}
}

const unknownFmt = "Unknown(%d)"

func unknown(v uint8) string {
	return fmt.Sprintf(unknownFmt, v)
}

// bit masks and shifts within the little-endian 16-bit Frame Control field.
const (
	fcMaskFrameType               = 0b0000_0000_0000_0111
	fcMaskSecurityEnabled         = 0b0000_0000_0000_1000
	fcMaskFramePending            = 0b0000_0000_0001_0000
	fcMaskAckRequest              = 0b0000_0000_0010_0000
	fcMaskPanIDCompression        = 0b0000_0000_0100_0000
	fcMaskSeqNumberSuppression    = 0b0000_0001_0000_0000
	fcMaskIEsPresent              = 0b0000_0010_0000_0000
	fcShiftDstAddrMode            = 10
	fcMaskDstAddrMode             = 0b0000_1100_0000_0000
	fcShiftFrameVersion           = 12
	fcMaskFrameVersion            = 0b0011_0000_0000_0000
	fcShiftSrcAddrMode            = 14
	fcMaskSrcAddrMode             = 0b1100_0000_0000_0000
)

// FrameControl is a zero-copy view over the 2-octet Frame Control field of
// an IEEE 802.15.4 MAC frame. The underlying buffer must be little-endian
// as transmitted on the wire.
type FrameControl struct {
	buf []byte
}

// NewFrameControl returns a FrameControl view over buf, which must be at
// least 2 octets long.
func NewFrameControl(buf []byte) (FrameControl, error) {
	if len(buf) < 2 {
		return FrameControl{}, ErrBufferTooShort
	}
	return FrameControl{buf: buf}, nil
}

func (fc FrameControl) raw() uint16 {
	return binary.LittleEndian.Uint16(fc.buf[0:2])
}

// FrameType returns the frame's type field.
func (fc FrameControl) FrameType() FrameType {
	return FrameType(fc.raw() & fcMaskFrameType)
}

// SecurityEnabled reports whether the Auxiliary Security Header is present.
func (fc FrameControl) SecurityEnabled() bool {
	return fc.raw()&fcMaskSecurityEnabled != 0
}

// FramePending reports whether the sender has more data pending for the
// recipient.
func (fc FrameControl) FramePending() bool {
	return fc.raw()&fcMaskFramePending != 0
}

// AckRequest reports whether the sender requests an acknowledgment.
func (fc FrameControl) AckRequest() bool {
	return fc.raw()&fcMaskAckRequest != 0
}

// PanIDCompression reports whether PAN ID compression is in effect; its
// precise meaning depends on FrameVersion (see AddressPresence).
func (fc FrameControl) PanIDCompression() bool {
	return fc.raw()&fcMaskPanIDCompression != 0
}

// SequenceNumberSuppression reports whether the Sequence Number field is
// omitted (2020 only).
func (fc FrameControl) SequenceNumberSuppression() bool {
	return fc.raw()&fcMaskSeqNumberSuppression != 0
}

// IEsPresent reports whether Information Elements follow the addressing
// fields.
func (fc FrameControl) IEsPresent() bool {
	return fc.raw()&fcMaskIEsPresent != 0
}

// DstAddressingMode returns the destination addressing mode.
func (fc FrameControl) DstAddressingMode() AddressingMode {
	return AddressingMode((fc.raw() & fcMaskDstAddrMode) >> fcShiftDstAddrMode)
}

// SrcAddressingMode returns the source addressing mode.
func (fc FrameControl) SrcAddressingMode() AddressingMode {
	return AddressingMode((fc.raw() & fcMaskSrcAddrMode) >> fcShiftSrcAddrMode)
}

// FrameVersion returns the frame version field.
func (fc FrameControl) FrameVersion() FrameVersion {
	return FrameVersion((fc.raw() & fcMaskFrameVersion) >> fcShiftFrameVersion)
}

// FrameControlMut is a mutable view over the Frame Control field, used by
// Builder to assemble a frame in place.
type FrameControlMut struct {
	buf []byte
}

// NewFrameControlMut returns a mutable FrameControl view over buf, which
// must be at least 2 octets long.
func NewFrameControlMut(buf []byte) (FrameControlMut, error) {
	if len(buf) < 2 {
		return FrameControlMut{}, ErrBufferTooShort
	}
	return FrameControlMut{buf: buf}, nil
}

func (fc FrameControlMut) raw() uint16 {
	return binary.LittleEndian.Uint16(fc.buf[0:2])
}

func (fc FrameControlMut) setRaw(v uint16) {
	binary.LittleEndian.PutUint16(fc.buf[0:2], v)
}

func (fc FrameControlMut) setBits(mask uint16, set bool) {
	v := fc.raw()
	if set {
		v |= mask
	} else {
		v &^= mask
	}
	fc.setRaw(v)
}

// SetFrameType sets the frame's type field.
func (fc FrameControlMut) SetFrameType(t FrameType) {
	v := fc.raw()&^uint16(fcMaskFrameType) | uint16(t)&fcMaskFrameType
	fc.setRaw(v)
}

// SetSecurityEnabled sets or clears the security-enabled bit.
func (fc FrameControlMut) SetSecurityEnabled(b bool) { fc.setBits(fcMaskSecurityEnabled, b) }

// SetFramePending sets or clears the frame-pending bit.
func (fc FrameControlMut) SetFramePending(b bool) { fc.setBits(fcMaskFramePending, b) }

// SetAckRequest sets or clears the ack-request bit.
func (fc FrameControlMut) SetAckRequest(b bool) { fc.setBits(fcMaskAckRequest, b) }

// SetPanIDCompression sets or clears the PAN ID compression bit.
func (fc FrameControlMut) SetPanIDCompression(b bool) { fc.setBits(fcMaskPanIDCompression, b) }

// SetSequenceNumberSuppression sets or clears the sequence-number
// suppression bit.
func (fc FrameControlMut) SetSequenceNumberSuppression(b bool) {
	fc.setBits(fcMaskSeqNumberSuppression, b)
}

// SetIEsPresent sets or clears the Information-Elements-present bit.
func (fc FrameControlMut) SetIEsPresent(b bool) { fc.setBits(fcMaskIEsPresent, b) }

// SetDstAddressingMode sets the destination addressing mode.
func (fc FrameControlMut) SetDstAddressingMode(m AddressingMode) {
	v := fc.raw()&^uint16(fcMaskDstAddrMode) | (uint16(m)<<fcShiftDstAddrMode)&fcMaskDstAddrMode
	fc.setRaw(v)
}

// SetSrcAddressingMode sets the source addressing mode.
func (fc FrameControlMut) SetSrcAddressingMode(m AddressingMode) {
	v := fc.raw()&^uint16(fcMaskSrcAddrMode) | (uint16(m)<<fcShiftSrcAddrMode)&fcMaskSrcAddrMode
	fc.setRaw(v)
}

// SetFrameVersion sets the frame version field.
func (fc FrameControlMut) SetFrameVersion(ver FrameVersion) {
	v := fc.raw()&^uint16(fcMaskFrameVersion) | (uint16(ver)<<fcShiftFrameVersion)&fcMaskFrameVersion
	fc.setRaw(v)
}
