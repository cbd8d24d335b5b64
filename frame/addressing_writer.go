package frame

import "encoding/binary"

// AddressingFieldsMut is a mutable view over the Addressing Fields, used by
// Builder to lay out destination/source PAN IDs and addresses according to
// the addressing modes already set in the Frame Control field.
type AddressingFieldsMut struct {
	buf []byte
	fc  FrameControl
}

// NewAddressingFieldsMut returns a writer view over buf sized per fc.
func NewAddressingFieldsMut(buf []byte, fc FrameControl) (AddressingFieldsMut, error) {
	af := AddressingFieldsMut{buf: buf, fc: fc}
	if len(buf) < af.readOnly().Len() {
		return AddressingFieldsMut{}, ErrBufferTooShort
	}
	return af, nil
}

func (af AddressingFieldsMut) readOnly() AddressingFields {
	return AddressingFields{buf: af.buf, fc: af.fc}
}

// SetDstPanID writes the destination PAN ID, if the current addressing
// modes and PAN ID compression bit call for one to be present.
func (af AddressingFieldsMut) SetDstPanID(id uint16) {
	if dstPan, _ := af.readOnly().presence(); dstPan {
		binary.LittleEndian.PutUint16(af.buf[0:2], id)
	}
}

// SetDstAddress writes the destination address in wire order.
func (af AddressingFieldsMut) SetDstAddress(a Address) {
	off := af.readOnly().dstAddrOffset()
	a.PutWire(af.buf[off:])
}

// SetSrcPanID writes the source PAN ID, if present.
func (af AddressingFieldsMut) SetSrcPanID(id uint16) {
	ro := af.readOnly()
	if _, srcPan := ro.presence(); srcPan {
		off := ro.srcPanOffset()
		binary.LittleEndian.PutUint16(af.buf[off:off+2], id)
	}
}

// SetSrcAddress writes the source address in wire order.
func (af AddressingFieldsMut) SetSrcAddress(a Address) {
	ro := af.readOnly()
	off := ro.srcPanOffset()
	if _, srcPan := ro.presence(); srcPan {
		off += 2
	}
	a.PutWire(af.buf[off:])
}
