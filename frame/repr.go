package frame

import "github.com/dantte-lp/go154/frame/ie"

// FrameControlRepr is an owned, validated snapshot of a Frame Control
// field, ready to be emitted onto the wire.
type FrameControlRepr struct {
	FrameType                 FrameType
	SecurityEnabled           bool
	FramePending              bool
	AckRequest                bool
	PanIDCompression          bool
	SequenceNumberSuppression bool
	IEsPresent                bool
	DstAddressingMode         AddressingMode
	SrcAddressingMode         AddressingMode
	FrameVersion              FrameVersion
}

// Validate reports whether the addressing mode combination is legal for
// this Repr's frame version.
func (r FrameControlRepr) Validate() error {
	if !ValidateAddressing(r.FrameVersion, r.DstAddressingMode, r.SrcAddressingMode, r.PanIDCompression) {
		return ErrInvalidRepr
	}
	if r.SequenceNumberSuppression && r.FrameVersion != FrameVersion2020 {
		return ErrInvalidRepr
	}
	return nil
}

// Len returns the on-wire size of the Frame Control field: always 2
// octets.
func (FrameControlRepr) Len() int { return 2 }

// Emit writes this Repr onto buf, which must be at least Len() octets
// long.
func (r FrameControlRepr) Emit(buf []byte) error {
	if err := r.Validate(); err != nil {
		return err
	}
	fc, err := NewFrameControlMut(buf)
	if err != nil {
		return err
	}
	fc.SetFrameType(r.FrameType)
	fc.SetSecurityEnabled(r.SecurityEnabled)
	fc.SetFramePending(r.FramePending)
	fc.SetAckRequest(r.AckRequest)
	fc.SetPanIDCompression(r.PanIDCompression)
	fc.SetSequenceNumberSuppression(r.SequenceNumberSuppression)
	fc.SetIEsPresent(r.IEsPresent)
	fc.SetDstAddressingMode(r.DstAddressingMode)
	fc.SetSrcAddressingMode(r.SrcAddressingMode)
	fc.SetFrameVersion(r.FrameVersion)
	return nil
}

// ParseFrameControlRepr parses a FrameControlRepr out of a FrameControl
// view.
func ParseFrameControlRepr(fc FrameControl) FrameControlRepr {
	return FrameControlRepr{
		FrameType:                 fc.FrameType(),
		SecurityEnabled:           fc.SecurityEnabled(),
		FramePending:              fc.FramePending(),
		AckRequest:                fc.AckRequest(),
		PanIDCompression:          fc.PanIDCompression(),
		SequenceNumberSuppression: fc.SequenceNumberSuppression(),
		IEsPresent:                fc.IEsPresent(),
		DstAddressingMode:         fc.DstAddressingMode(),
		SrcAddressingMode:         fc.SrcAddressingMode(),
		FrameVersion:              fc.FrameVersion(),
	}
}

// AddressingFieldsRepr is an owned, validated snapshot of the Addressing
// Fields, carrying both PAN IDs regardless of whether the wire form will
// omit one of them per PAN ID compression; Emit derives presence from fc.
type AddressingFieldsRepr struct {
	DstPanID   uint16
	DstAddress Address
	SrcPanID   uint16
	SrcAddress Address
}

// Len returns the on-wire size this Repr will occupy given fc's
// addressing modes and PAN ID compression bit.
func (r AddressingFieldsRepr) Len(fc FrameControlRepr) int {
	dstPan, srcPan := AddressPresence(fc.FrameVersion, fc.DstAddressingMode, fc.SrcAddressingMode, fc.PanIDCompression)
	n := 0
	if dstPan {
		n += 2
	}
	n += fc.DstAddressingMode.Size()
	if srcPan {
		n += 2
	}
	n += fc.SrcAddressingMode.Size()
	return n
}

// Emit writes the addressing fields this Repr carries that are present
// per fc, onto buf.
func (r AddressingFieldsRepr) Emit(buf []byte, fc FrameControl) error {
	af, err := NewAddressingFieldsMut(buf, fc)
	if err != nil {
		return err
	}
	af.SetDstPanID(r.DstPanID)
	af.SetDstAddress(r.DstAddress)
	af.SetSrcPanID(r.SrcPanID)
	af.SetSrcAddress(r.SrcAddress)
	return nil
}

// ParseAddressingFieldsRepr parses an AddressingFieldsRepr out of an
// AddressingFields view. Fields the wire form omits read back as zero.
func ParseAddressingFieldsRepr(af AddressingFields) AddressingFieldsRepr {
	dstPan, _ := af.DstPanID()
	srcPan, _ := af.SrcPanID()
	return AddressingFieldsRepr{
		DstPanID:   dstPan,
		DstAddress: af.DstAddress(),
		SrcPanID:   srcPan,
		SrcAddress: af.SrcAddress(),
	}
}

// HeaderIERepr is an owned snapshot of a single Header Information
// Element.
type HeaderIERepr struct {
	ElementID ie.HeaderElementID
	Content   []byte
}

// Len returns the on-wire size of this Header IE: the 2-octet header word
// plus its content.
func (r HeaderIERepr) Len() int { return 2 + len(r.Content) }

// Emit writes this Header IE onto buf.
func (r HeaderIERepr) Emit(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	w, err := ie.NewHeaderIEWriter(buf)
	if err != nil {
		return err
	}
	w.SetElementID(r.ElementID)
	w.SetLength(len(r.Content))
	copy(w.Content(), r.Content)
	return nil
}

// ParseHeaderIERepr parses a HeaderIERepr out of a HeaderIE view. The
// content is copied so the Repr does not alias the source buffer.
func ParseHeaderIERepr(h ie.HeaderIE) HeaderIERepr {
	content := make([]byte, h.Len())
	copy(content, h.Content())
	return HeaderIERepr{ElementID: h.ElementID(), Content: content}
}

// PayloadIERepr is an owned snapshot of a single Payload Information
// Element.
type PayloadIERepr struct {
	GroupID ie.PayloadGroupID
	Content []byte
}

// Len returns the on-wire size of this Payload IE: the 2-octet header
// word plus its content.
func (r PayloadIERepr) Len() int { return 2 + len(r.Content) }

// Emit writes this Payload IE onto buf.
func (r PayloadIERepr) Emit(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	w, err := ie.NewPayloadIEWriter(buf)
	if err != nil {
		return err
	}
	w.SetGroupID(r.GroupID)
	w.SetLength(len(r.Content))
	copy(w.Content(), r.Content)
	return nil
}

// ParsePayloadIERepr parses a PayloadIERepr out of a PayloadIE view. The
// content is copied so the Repr does not alias the source buffer.
func ParsePayloadIERepr(p ie.PayloadIE) PayloadIERepr {
	content := make([]byte, p.Len())
	copy(content, p.Content())
	return PayloadIERepr{GroupID: p.GroupID(), Content: content}
}

// NestedIERepr is an owned snapshot of a single Nested Information
// Element, carried inside an MLME Payload IE's content, in either the
// short or the long form.
type NestedIERepr struct {
	Long       bool
	SubIDShort ie.NestedSubIDShort
	SubIDLong  ie.NestedSubIDLong
	Content    []byte
}

// Len returns the on-wire size of this Nested IE: the 2-octet header
// word plus its content.
func (r NestedIERepr) Len() int { return 2 + len(r.Content) }

// Emit writes this Nested IE onto buf.
func (r NestedIERepr) Emit(buf []byte) error {
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}
	w, err := ie.NewNestedIEWriter(buf)
	if err != nil {
		return err
	}
	if r.Long {
		w.SetLong(r.SubIDLong, len(r.Content))
	} else {
		w.SetShort(r.SubIDShort, len(r.Content))
	}
	copy(w.Content(), r.Content)
	return nil
}

// ParseNestedIERepr parses a NestedIERepr out of a NestedIE view. The
// content is copied so the Repr does not alias the source buffer.
func ParseNestedIERepr(n ie.NestedIE) NestedIERepr {
	content := make([]byte, n.Len())
	copy(content, n.Content())
	r := NestedIERepr{Long: n.IsLong(), Content: content}
	if r.Long {
		r.SubIDLong = n.SubIDLong()
	} else {
		r.SubIDShort = n.SubIDShort()
	}
	return r
}

// InformationElementsRepr is an owned snapshot of a frame's Header and
// Payload Information Element lists, not including the termination
// markers that frame the lists on the wire: those are derived from list
// presence and re-inserted on Emit, so a parsed-then-emitted Repr never
// carries a stale or duplicated terminator.
type InformationElementsRepr struct {
	HeaderIEs  []HeaderIERepr
	PayloadIEs []PayloadIERepr
}

// headerTerminations reports which termination markers Emit must insert,
// given whether a raw MAC payload follows the Information Elements.
// Reproduced verbatim from the standard's insertion table: a header-IE
// list with nothing after it needs no terminator at all (the frame's own
// length marks its end); a payload-IE list is always preceded by Header
// Termination 1; a header-IE list directly followed by a raw payload with
// no payload IEs is terminated by Header Termination 2 instead. Payload
// Termination is never required for a correct emission (the payload-IE
// list's own end is determined by the frame length), so pt is always
// false here even on the two rows where the standard allows it.
func (r InformationElementsRepr) headerTerminations(containsPayload bool) (ht1, ht2, pt bool) {
	hasHeader := len(r.HeaderIEs) > 0
	hasPayload := len(r.PayloadIEs) > 0
	switch {
	case !hasHeader && !hasPayload:
		return false, false, false
	case hasHeader && !hasPayload && !containsPayload:
		return false, false, false
	case hasHeader && !hasPayload && containsPayload:
		return false, true, false
	case !hasHeader && hasPayload:
		return true, false, false
	default: // hasHeader && hasPayload, with or without a trailing raw payload
		return true, false, false
	}
}

// BufferLen returns the on-wire size this Repr will occupy, including
// whichever termination markers containsPayload requires.
func (r InformationElementsRepr) BufferLen(containsPayload bool) int {
	n := 0
	for _, h := range r.HeaderIEs {
		n += h.Len()
	}
	ht1, ht2, pt := r.headerTerminations(containsPayload)
	if ht1 || ht2 {
		n += 2
	}
	for _, p := range r.PayloadIEs {
		n += p.Len()
	}
	if pt {
		n += 2
	}
	return n
}

// Emit writes the header-IE list, the termination markers containsPayload
// requires, and the payload-IE list onto buf, in that wire order.
func (r InformationElementsRepr) Emit(buf []byte, containsPayload bool) error {
	if len(buf) < r.BufferLen(containsPayload) {
		return ErrBufferTooShort
	}
	ht1, ht2, pt := r.headerTerminations(containsPayload)

	off := 0
	for _, h := range r.HeaderIEs {
		if err := h.Emit(buf[off:]); err != nil {
			return err
		}
		off += h.Len()
	}
	if ht1 {
		term := HeaderIERepr{ElementID: ie.HeaderElementHeaderTermination1}
		if err := term.Emit(buf[off:]); err != nil {
			return err
		}
		off += term.Len()
	}
	if ht2 {
		term := HeaderIERepr{ElementID: ie.HeaderElementHeaderTermination2}
		if err := term.Emit(buf[off:]); err != nil {
			return err
		}
		off += term.Len()
	}
	for _, p := range r.PayloadIEs {
		if err := p.Emit(buf[off:]); err != nil {
			return err
		}
		off += p.Len()
	}
	if pt {
		term := PayloadIERepr{GroupID: ie.PayloadGroupPayloadTermination}
		if err := term.Emit(buf[off:]); err != nil {
			return err
		}
		off += term.Len()
	}
	return nil
}

// ParseInformationElementsRepr parses the Header and Payload Information
// Element lists out of f, skipping the termination markers that frame
// them (Emit re-derives those from list presence).
func ParseInformationElementsRepr(f Frame) (InformationElementsRepr, error) {
	var r InformationElementsRepr

	hies, err := f.HeaderIEs()
	if err != nil {
		return InformationElementsRepr{}, err
	}
	for hies.Next() {
		h := hies.Current()
		if h.ElementID().IsTermination() {
			continue
		}
		r.HeaderIEs = append(r.HeaderIEs, ParseHeaderIERepr(h))
	}

	pies, err := f.PayloadIEs()
	if err != nil {
		return InformationElementsRepr{}, err
	}
	for pies.Next() {
		p := pies.Current()
		if p.GroupID().IsTermination() {
			continue
		}
		r.PayloadIEs = append(r.PayloadIEs, ParsePayloadIERepr(p))
	}

	return r, nil
}

// FrameRepr is an owned, validated snapshot of a complete frame, ready to
// be emitted onto the wire or re-parsed.
type FrameRepr struct {
	Control             FrameControlRepr
	SequenceNumber      uint8
	HaveSequenceNumber  bool
	Addressing          *AddressingFieldsRepr
	InformationElements *InformationElementsRepr
	Payload             []byte
}

// Validate reports whether this Repr describes a legal frame: a Data
// frame must carry addressing fields and a non-empty payload; whenever a
// payload is present at all, it must not be empty (an empty payload and
// an absent one are not distinguishable on the wire, so Repr forbids the
// former rather than silently accepting it).
func (r FrameRepr) Validate() error {
	if err := r.Control.Validate(); err != nil {
		return err
	}
	if r.Control.FrameType == FrameTypeData {
		if r.Addressing == nil {
			return ErrInvalidRepr
		}
		if len(r.Payload) == 0 {
			return ErrInvalidRepr
		}
	}
	if r.Payload != nil && len(r.Payload) == 0 {
		return ErrInvalidRepr
	}
	return nil
}

// Len returns the total on-wire size this Repr will occupy.
func (r FrameRepr) Len() int {
	n := r.Control.Len()
	if r.HaveSequenceNumber {
		n++
	}
	if r.Addressing != nil {
		n += r.Addressing.Len(r.Control)
	}
	if r.InformationElements != nil {
		n += r.InformationElements.BufferLen(len(r.Payload) > 0)
	}
	n += len(r.Payload)
	return n
}

// Emit writes the full frame onto buf, which must be at least Len()
// octets long.
func (r FrameRepr) Emit(buf []byte) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if len(buf) < r.Len() {
		return ErrBufferTooShort
	}

	off := 0
	if err := r.Control.Emit(buf[off:]); err != nil {
		return err
	}
	off += r.Control.Len()

	if r.HaveSequenceNumber {
		buf[off] = r.SequenceNumber
		off++
	}

	if r.Addressing != nil {
		fc, err := NewFrameControl(buf)
		if err != nil {
			return err
		}
		if err := r.Addressing.Emit(buf[off:], fc); err != nil {
			return err
		}
		off += r.Addressing.Len(r.Control)
	}

	containsPayload := len(r.Payload) > 0
	if r.InformationElements != nil {
		n := r.InformationElements.BufferLen(containsPayload)
		if err := r.InformationElements.Emit(buf[off:off+n], containsPayload); err != nil {
			return err
		}
		off += n
	}

	copy(buf[off:], r.Payload)
	return nil
}

// ParseFrameRepr parses a FrameRepr out of a fully validated Frame (one
// obtained through NewFrame).
func ParseFrameRepr(f Frame) (FrameRepr, error) {
	r := FrameRepr{Control: ParseFrameControlRepr(f.Control())}

	if seq, present := f.SequenceNumber(); present {
		r.SequenceNumber = seq
		r.HaveSequenceNumber = true
	}

	if af, err := f.Addressing(); err == nil {
		afr := ParseAddressingFieldsRepr(af)
		r.Addressing = &afr
	}

	if f.Control().IEsPresent() {
		ier, err := ParseInformationElementsRepr(f)
		if err != nil {
			return FrameRepr{}, err
		}
		r.InformationElements = &ier
	}

	payload, err := f.Payload()
	if err != nil {
		return FrameRepr{}, err
	}
	// An empty payload is left nil (Validate rejects a non-nil empty one),
	// and a present one is copied so the Repr does not alias f's buffer.
	if len(payload) > 0 {
		r.Payload = append([]byte(nil), payload...)
	}

	return r, nil
}
