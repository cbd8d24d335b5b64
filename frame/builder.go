package frame

// Builder assembles an IEEE 802.15.4 MAC frame into a caller-supplied
// buffer. Its setter methods return the Builder itself so calls can be
// chained; nothing is written to the buffer until Build is called.
type Builder struct {
	frameType                 FrameType
	frameVersion              FrameVersion
	securityEnabled           bool
	framePending              bool
	ackRequest                bool
	sequenceNumberSuppression bool
	sequenceNumber            uint8
	haveSequenceNumber        bool
	dstAddress                Address
	srcAddress                Address
	dstPanID                  uint16
	srcPanID                  uint16
	haveDstPanID              bool
	haveSrcPanID              bool
	headerIEs                 []HeaderIERepr
	payloadIEs                []PayloadIERepr
	payload                   []byte
}

// NewBuilder returns a Builder for a frame of the given type and version.
func NewBuilder(t FrameType, ver FrameVersion) *Builder {
	return &Builder{frameType: t, frameVersion: ver}
}

// SecurityEnabled sets the Security Enabled bit. The Auxiliary Security
// Header itself is not built by this package (it is recognized
// structurally only, never processed).
func (b *Builder) SecurityEnabled(v bool) *Builder { b.securityEnabled = v; return b }

// FramePending sets the Frame Pending bit.
func (b *Builder) FramePending(v bool) *Builder { b.framePending = v; return b }

// AckRequest sets the Ack Request bit.
func (b *Builder) AckRequest(v bool) *Builder { b.ackRequest = v; return b }

// SequenceNumber sets the Sequence Number field. Calling this clears
// sequence number suppression.
func (b *Builder) SequenceNumber(n uint8) *Builder {
	b.sequenceNumber = n
	b.haveSequenceNumber = true
	b.sequenceNumberSuppression = false
	return b
}

// SuppressSequenceNumber omits the Sequence Number field. Only legal for
// 2020 frames.
func (b *Builder) SuppressSequenceNumber() *Builder {
	b.sequenceNumberSuppression = true
	b.haveSequenceNumber = false
	return b
}

// DstAddress sets the destination address and its PAN ID.
func (b *Builder) DstAddress(a Address, panID uint16) *Builder {
	b.dstAddress = a
	b.dstPanID = panID
	b.haveDstPanID = true
	return b
}

// SrcAddress sets the source address and its PAN ID.
func (b *Builder) SrcAddress(a Address, panID uint16) *Builder {
	b.srcAddress = a
	b.srcPanID = panID
	b.haveSrcPanID = true
	return b
}

// AddHeaderIE appends a Header Information Element, up to an internal
// limit of 16; further calls are silently ignored, matching this format's
// convention of bounded inline sequences with silent truncation rather
// than an error for an unusually large IE list.
func (b *Builder) AddHeaderIE(r HeaderIERepr) *Builder {
	const maxHeaderIEs = 16
	if len(b.headerIEs) < maxHeaderIEs {
		b.headerIEs = append(b.headerIEs, r)
	}
	return b
}

// AddPayloadIE appends a Payload Information Element, up to the same
// internal limit and silent-truncation convention as AddHeaderIE.
func (b *Builder) AddPayloadIE(r PayloadIERepr) *Builder {
	const maxPayloadIEs = 16
	if len(b.payloadIEs) < maxPayloadIEs {
		b.payloadIEs = append(b.payloadIEs, r)
	}
	return b
}

// Payload sets the MAC payload.
func (b *Builder) Payload(p []byte) *Builder { b.payload = p; return b }

// informationElementsRepr builds the InformationElementsRepr this Builder
// will emit, deriving its termination markers from whether a raw payload
// follows (headerTerminations handles the rest).
func (b *Builder) informationElementsRepr() InformationElementsRepr {
	return InformationElementsRepr{HeaderIEs: b.headerIEs, PayloadIEs: b.payloadIEs}
}

func (b *Builder) iesPresent() bool {
	return len(b.headerIEs) > 0 || len(b.payloadIEs) > 0
}

// panIDCompression derives the PAN ID Compression bit: set when both
// addresses are present and share the same PAN ID, so the source PAN ID
// field can be omitted from the wire.
func (b *Builder) panIDCompression() bool {
	if b.dstAddress.IsAbsent() || b.srcAddress.IsAbsent() {
		return false
	}
	return b.dstPanID == b.srcPanID
}

func (b *Builder) controlRepr() FrameControlRepr {
	return FrameControlRepr{
		FrameType:                 b.frameType,
		SecurityEnabled:           b.securityEnabled,
		FramePending:              b.framePending,
		AckRequest:                b.ackRequest,
		PanIDCompression:          b.panIDCompression(),
		SequenceNumberSuppression: b.sequenceNumberSuppression,
		IEsPresent:                b.iesPresent(),
		DstAddressingMode:         b.dstAddress.Mode(),
		SrcAddressingMode:         b.srcAddress.Mode(),
		FrameVersion:              b.frameVersion,
	}
}

// Len returns the total on-wire size this Builder will emit.
func (b *Builder) Len() int {
	fcr := b.controlRepr()
	n := fcr.Len()
	if !b.sequenceNumberSuppression {
		n++
	}
	afr := AddressingFieldsRepr{DstPanID: b.dstPanID, DstAddress: b.dstAddress, SrcPanID: b.srcPanID, SrcAddress: b.srcAddress}
	n += afr.Len(fcr)
	n += b.informationElementsRepr().BufferLen(len(b.payload) > 0)
	n += len(b.payload)
	return n
}

// Build assembles the frame into buf, which must be at least Len() octets
// long, and returns the number of octets written.
func (b *Builder) Build(buf []byte) (int, error) {
	fcr := b.controlRepr()
	if err := fcr.Validate(); err != nil {
		return 0, err
	}
	if len(buf) < b.Len() {
		return 0, ErrBufferTooShort
	}

	off := 0
	if err := fcr.Emit(buf[off:]); err != nil {
		return 0, err
	}
	off += fcr.Len()

	if !b.sequenceNumberSuppression {
		buf[off] = b.sequenceNumber
		off++
	}

	fc, err := NewFrameControl(buf)
	if err != nil {
		return 0, err
	}
	afr := AddressingFieldsRepr{DstPanID: b.dstPanID, DstAddress: b.dstAddress, SrcPanID: b.srcPanID, SrcAddress: b.srcAddress}
	if err := afr.Emit(buf[off:], fc); err != nil {
		return 0, err
	}
	off += afr.Len(fcr)

	ier := b.informationElementsRepr()
	containsPayload := len(b.payload) > 0
	ieLen := ier.BufferLen(containsPayload)
	if err := ier.Emit(buf[off:off+ieLen], containsPayload); err != nil {
		return 0, err
	}
	off += ieLen

	off += copy(buf[off:], b.payload)
	return off, nil
}
