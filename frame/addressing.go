package frame

import "encoding/binary"

// Address holds a MAC address of either width, or no address at all.
// Extended (8 octet) and short (2 octet) addresses are stored in the byte
// order they are conventionally displayed in, not the little-endian wire
// order — readers reverse the wire bytes on the way in, writers reverse
// them again on the way out.
type Address struct {
	mode AddressingMode
	raw  [8]byte
}

// BroadcastAddress is the reserved short address 0xffff.
var BroadcastAddress = Address{mode: AddressingModeShort, raw: [8]byte{0xff, 0xff}}

// AddressFromBytes builds an Address of the given mode from wire-order
// bytes (least significant octet first, as found on the wire).
func AddressFromBytes(mode AddressingMode, wire []byte) Address {
	a := Address{mode: mode}
	n := mode.Size()
	for i := 0; i < n; i++ {
		a.raw[i] = wire[n-1-i]
	}
	return a
}

// Mode reports the addressing mode this address was built with.
func (a Address) Mode() AddressingMode { return a.mode }

// IsAbsent reports whether no address is present.
func (a Address) IsAbsent() bool { return a.mode == AddressingModeAbsent }

// Bytes returns the address in display order (most significant octet
// first). The slice aliases the Address's internal storage.
func (a Address) Bytes() []byte { return a.raw[:a.mode.Size()] }

// IsBroadcast reports whether this is the reserved short broadcast address.
func (a Address) IsBroadcast() bool {
	return a.mode == AddressingModeShort && a.raw[0] == 0xff && a.raw[1] == 0xff
}

// PutWire writes the address into dst in wire order (least significant
// octet first). dst must be at least a.Mode().Size() octets long.
func (a Address) PutWire(dst []byte) {
	n := a.mode.Size()
	for i := 0; i < n; i++ {
		dst[i] = a.raw[n-1-i]
	}
}

func (a Address) String() string {
	switch a.mode {
	case AddressingModeAbsent:
		return "absent"
	case AddressingModeShort:
		return hexPair(a.raw[0]) + ":" + hexPair(a.raw[1])
	case AddressingModeExtended:
		s := ""
		for i := 0; i < 8; i++ {
			if i > 0 {
				s += ":"
			}
			s += hexPair(a.raw[i])
		}
		return s
	default:
		return unknown(uint8(a.mode))
	}
}

func hexPair(b byte) string {
	const hexDigits = "0123456789abcdef"
	return string([]byte{hexDigits[b>>4], hexDigits[b&0xf]})
}

// AddressPresence reports whether the destination and source PAN ID fields
// are present on the wire, given the frame version, the two addressing
// modes, and the PAN ID Compression bit. 2003/2006 and 2020 use distinct
// presence tables, not a shared formula — paraphrasing either one breaks
// wire compatibility, so each is reproduced verbatim below rather than
// derived.
func AddressPresence(ver FrameVersion, dst, src AddressingMode, panIDCompression bool) (dstPanPresent, srcPanPresent bool) {
	if ver == FrameVersion2020 {
		return addressPresence2020(dst, src, panIDCompression)
	}
	return addressPresenceLegacy(dst, src, panIDCompression)
}

// addressPresenceLegacy is the 2003/2006 four-rule table. Order matters:
// a frame with both addresses absent matches the first rule (dst absent),
// not some combination of the first two.
func addressPresenceLegacy(dst, src AddressingMode, panIDCompression bool) (dstPanPresent, srcPanPresent bool) {
	switch {
	case dst == AddressingModeAbsent:
		return false, true
	case src == AddressingModeAbsent:
		return true, false
	case panIDCompression:
		return true, false
	default:
		return true, true
	}
}

// addressPresence2020 is the 2020 amendment's 14-row table, reproduced
// verbatim from the standard. Every combination of non-reserved addressing
// modes and PAN ID Compression is legal; none fall through.
func addressPresence2020(dst, src AddressingMode, panIDCompression bool) (dstPanPresent, srcPanPresent bool) {
	switch {
	case dst == AddressingModeAbsent && src == AddressingModeAbsent:
		return panIDCompression, false
	case src == AddressingModeAbsent:
		return !panIDCompression, false
	case dst == AddressingModeAbsent:
		return false, true
	case dst == AddressingModeExtended && src == AddressingModeExtended:
		return !panIDCompression, false
	case dst == AddressingModeShort || src == AddressingModeShort:
		return true, !panIDCompression
	default:
		return false, false
	}
}

// ValidateAddressing reports whether a combination of addressing modes and
// PAN ID compression is legal for the given frame version. 2003/2006
// reserves several combinations that the 2020 amendment's 14-row table
// makes legal.
func ValidateAddressing(ver FrameVersion, dst, src AddressingMode, panIDCompression bool) bool {
	if dst == AddressingModeReserved || src == AddressingModeReserved {
		return false
	}
	if ver == FrameVersion2020 {
		return true
	}

	dstPresent := dst != AddressingModeAbsent
	srcPresent := src != AddressingModeAbsent

	switch {
	case !dstPresent && !srcPresent:
		return !panIDCompression
	case dstPresent != srcPresent:
		return !panIDCompression || (dstPresent && srcPresent)
	default:
		return true
	}
}

// AddressingFields is a zero-copy view over the Addressing Fields of an
// IEEE 802.15.4 MAC frame: destination PAN ID, destination address, source
// PAN ID, and source address, in that wire order, whichever subset is
// present per AddressPresence.
type AddressingFields struct {
	buf []byte
	fc  FrameControl
}

// NewAddressingFields returns a view over the addressing fields that start
// at buf[0], sized according to fc.
func NewAddressingFields(buf []byte, fc FrameControl) (AddressingFields, error) {
	af := AddressingFields{buf: buf, fc: fc}
	if len(buf) < af.Len() {
		return AddressingFields{}, ErrBufferTooShort
	}
	return af, nil
}

// Len returns the total size in octets of the addressing fields this view
// describes.
func (af AddressingFields) Len() int {
	dstPan, srcPan := af.presence()
	n := 0
	if dstPan {
		n += 2
	}
	n += af.fc.DstAddressingMode().Size()
	if srcPan {
		n += 2
	}
	n += af.fc.SrcAddressingMode().Size()
	return n
}

func (af AddressingFields) presence() (dstPan, srcPan bool) {
	return AddressPresence(af.fc.FrameVersion(), af.fc.DstAddressingMode(), af.fc.SrcAddressingMode(), af.fc.PanIDCompression())
}

// DstPanID returns the destination PAN ID and whether it is present.
func (af AddressingFields) DstPanID() (uint16, bool) {
	dstPan, _ := af.presence()
	if !dstPan {
		return 0, false
	}
	return binary.LittleEndian.Uint16(af.buf[0:2]), true
}

// DstAddress returns the destination address.
func (af AddressingFields) DstAddress() Address {
	mode := af.fc.DstAddressingMode()
	if mode == AddressingModeAbsent {
		return Address{}
	}
	off := af.dstAddrOffset()
	return AddressFromBytes(mode, af.buf[off:off+mode.Size()])
}

func (af AddressingFields) dstAddrOffset() int {
	dstPan, _ := af.presence()
	if dstPan {
		return 2
	}
	return 0
}

// SrcPanID returns the source PAN ID and whether it is present.
func (af AddressingFields) SrcPanID() (uint16, bool) {
	_, srcPan := af.presence()
	if !srcPan {
		return 0, false
	}
	off := af.srcPanOffset()
	return binary.LittleEndian.Uint16(af.buf[off : off+2]), true
}

func (af AddressingFields) srcPanOffset() int {
	dstPan, _ := af.presence()
	off := 0
	if dstPan {
		off += 2
	}
	off += af.fc.DstAddressingMode().Size()
	return off
}

// SrcAddress returns the source address.
func (af AddressingFields) SrcAddress() Address {
	mode := af.fc.SrcAddressingMode()
	if mode == AddressingModeAbsent {
		return Address{}
	}
	_, srcPan := af.presence()
	off := af.srcPanOffset()
	if srcPan {
		off += 2
	}
	return AddressFromBytes(mode, af.buf[off:off+mode.Size()])
}
