package frame_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/dantte-lp/go154/frame"
	"github.com/dantte-lp/go154/frame/ie"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("decode hex: %v", err)
	}
	return b
}

// Scenario A: an Enhanced Beacon, sequence number suppressed, destination
// broadcast short address, extended source address, PAN ID compression
// set (source PAN ID omitted). A single Header Termination 1 hands off
// immediately to an MLME Payload IE nesting TSCH Synchronization, a
// default-template TSCH Timeslot, Channel Hopping, and TSCH
// Slotframe-and-Link, in that order.
func TestScenarioAEnhancedBeacon(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "40 eb cd ab ff ff 01 00 01 00 01 00 01 00 00 3f 11 88 06 1a 0e 00 00 00 00 00 01 1c 00 01 c8 00 01 1b 00")

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	if got, want := f.Control().FrameType(), frame.FrameTypeBeacon; got != want {
		t.Errorf("FrameType = %v, want %v", got, want)
	}
	if got, want := f.Control().FrameVersion(), frame.FrameVersion2020; got != want {
		t.Errorf("FrameVersion = %v, want %v", got, want)
	}
	if !f.Control().IEsPresent() {
		t.Error("IEsPresent = false, want true")
	}
	if !f.Control().PanIDCompression() {
		t.Error("PanIDCompression = false, want true")
	}
	if got, want := f.Variant(), frame.VariantEnhancedBeacon; got != want {
		t.Errorf("Variant = %v, want %v", got, want)
	}
	if _, present := f.SequenceNumber(); present {
		t.Error("SequenceNumber present, want suppressed")
	}

	af, err := f.Addressing()
	if err != nil {
		t.Fatalf("Addressing: %v", err)
	}
	dstPan, ok := af.DstPanID()
	if !ok || dstPan != 0xabcd {
		t.Errorf("DstPanID = (%#x, %v), want (0xabcd, true)", dstPan, ok)
	}
	if got := af.DstAddress(); !got.IsBroadcast() {
		t.Errorf("DstAddress = %v, want broadcast", got)
	}
	if _, ok := af.SrcPanID(); ok {
		t.Error("SrcPanID present, want omitted under PAN ID compression")
	}
	if got, want := af.SrcAddress().Mode(), frame.AddressingModeExtended; got != want {
		t.Errorf("SrcAddress mode = %v, want %v", got, want)
	}

	hies, err := f.HeaderIEs()
	if err != nil {
		t.Fatalf("HeaderIEs: %v", err)
	}
	if !hies.Next() {
		t.Fatal("expected a Header IE")
	}
	if got, want := hies.Current().ElementID(), ie.HeaderElementHeaderTermination1; got != want {
		t.Errorf("ElementID = %v, want %v", got, want)
	}
	if hies.Next() {
		t.Error("expected exactly one Header IE")
	}

	pies, err := f.PayloadIEs()
	if err != nil {
		t.Fatalf("PayloadIEs: %v", err)
	}
	if !pies.Next() {
		t.Fatal("expected a Payload IE")
	}
	mlme := pies.Current()
	if got, want := mlme.GroupID(), ie.PayloadGroupMLME; got != want {
		t.Errorf("GroupID = %v, want %v", got, want)
	}

	nested, err := mlme.NestedIEs()
	if err != nil {
		t.Fatalf("NestedIEs: %v", err)
	}

	if !nested.Next() {
		t.Fatal("expected TschSynchronization")
	}
	if got, want := nested.Current().SubIDShort(), ie.NestedSubIDShortTschSynchronization; got != want {
		t.Fatalf("sub id = %v, want %v", got, want)
	}
	sync, err := ie.NewTschSynchronization(nested.Current().Content())
	if err != nil {
		t.Fatalf("NewTschSynchronization: %v", err)
	}
	if sync.AbsoluteSlotNumber() != 14 {
		t.Errorf("AbsoluteSlotNumber = %d, want 14", sync.AbsoluteSlotNumber())
	}

	if !nested.Next() {
		t.Fatal("expected TschTimeslot")
	}
	if got, want := nested.Current().SubIDShort(), ie.NestedSubIDShortTschTimeslot; got != want {
		t.Fatalf("sub id = %v, want %v", got, want)
	}
	ts, err := ie.NewTschTimeslot(nested.Current().Content())
	if err != nil {
		t.Fatalf("NewTschTimeslot: %v", err)
	}
	if ts.ID() != ie.TschTimeslotDefaultID {
		t.Errorf("Timeslot ID = %d, want default", ts.ID())
	}

	if !nested.Next() {
		t.Fatal("expected Channel Hopping")
	}
	if got, want := nested.Current().SubIDLong(), ie.NestedSubIDLongChannelHopping; got != want {
		t.Fatalf("sub id = %v, want %v", got, want)
	}

	if !nested.Next() {
		t.Fatal("expected TschSlotframeAndLink")
	}
	if got, want := nested.Current().SubIDShort(), ie.NestedSubIDShortTschSlotframeAndLink; got != want {
		t.Fatalf("sub id = %v, want %v", got, want)
	}
	sl, err := ie.NewTschSlotframeAndLink(nested.Current().Content())
	if err != nil {
		t.Fatalf("NewTschSlotframeAndLink: %v", err)
	}
	if sl.NumberOfSlotframes() != 0 {
		t.Errorf("NumberOfSlotframes = %d, want 0", sl.NumberOfSlotframes())
	}

	if nested.Next() {
		t.Error("expected exactly four nested information elements")
	}
}

// Scenario B: an Enhanced Beacon carrying a non-default TSCH Timeslot
// template and a TSCH Slotframe-and-Link IE with one descriptor and two
// links, nested the same way as Scenario A.
func TestScenarioBEnhancedBeaconTschSlotframeAndLink(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "40 eb cd ab ff ff 01 00 01 00 01 00 01 00 00 3f 37 88 06 1a 11 00 00 00 00 00 19 1c "+
		"01 08 07 80 00 48 08 fc 03 20 03 e8 03 98 08 90 01 c0 00 60 09 a0 10 10 27 01 c8 00 0f 1b 01 00 "+
		"11 00 02 00 00 01 00 06 01 00 02 00 07")

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if got, want := f.Variant(), frame.VariantEnhancedBeacon; got != want {
		t.Errorf("Variant = %v, want %v", got, want)
	}

	pies, err := f.PayloadIEs()
	if err != nil {
		t.Fatalf("PayloadIEs: %v", err)
	}
	if !pies.Next() {
		t.Fatal("expected a Payload IE")
	}
	mlme := pies.Current()
	if got, want := mlme.GroupID(), ie.PayloadGroupMLME; got != want {
		t.Errorf("GroupID = %v, want %v", got, want)
	}

	nested, err := mlme.NestedIEs()
	if err != nil {
		t.Fatalf("NestedIEs: %v", err)
	}

	if !nested.Next() {
		t.Fatal("expected TschSynchronization")
	}
	sync, err := ie.NewTschSynchronization(nested.Current().Content())
	if err != nil {
		t.Fatalf("NewTschSynchronization: %v", err)
	}
	if sync.AbsoluteSlotNumber() != 17 {
		t.Errorf("AbsoluteSlotNumber = %d, want 17", sync.AbsoluteSlotNumber())
	}

	if !nested.Next() {
		t.Fatal("expected TschTimeslot")
	}
	if got, want := nested.Current().SubIDShort(), ie.NestedSubIDShortTschTimeslot; got != want {
		t.Fatalf("sub id = %v, want %v", got, want)
	}
	ts, err := ie.NewTschTimeslot(nested.Current().Content())
	if err != nil {
		t.Fatalf("NewTschTimeslot: %v", err)
	}
	if ts.ID() != 1 {
		t.Errorf("Timeslot ID = %d, want 1", ts.ID())
	}
	timings := ts.Timings()
	wantTimings := ie.TschTimeslotTimings{
		ID:             1,
		CcaOffset:      ie.FromMicroseconds(1800),
		Cca:            ie.FromMicroseconds(128),
		TxOffset:       ie.FromMicroseconds(2120),
		RxOffset:       ie.FromMicroseconds(1020),
		RxAckDelay:     ie.FromMicroseconds(800),
		TxAckDelay:     ie.FromMicroseconds(1000),
		RxWait:         ie.FromMicroseconds(2200),
		AckWait:        ie.FromMicroseconds(400),
		RxTx:           ie.FromMicroseconds(192),
		MaxAck:         ie.FromMicroseconds(2400),
		MaxTx:          ie.FromMicroseconds(4256),
		TimeSlotLength: ie.FromMicroseconds(10000),
	}
	if timings != wantTimings {
		t.Errorf("Timings = %+v, want %+v", timings, wantTimings)
	}

	if !nested.Next() {
		t.Fatal("expected Channel Hopping")
	}
	if got, want := nested.Current().SubIDLong(), ie.NestedSubIDLongChannelHopping; got != want {
		t.Fatalf("sub id = %v, want %v", got, want)
	}

	if !nested.Next() {
		t.Fatal("expected TschSlotframeAndLink")
	}
	sl, err := ie.NewTschSlotframeAndLink(nested.Current().Content())
	if err != nil {
		t.Fatalf("NewTschSlotframeAndLink: %v", err)
	}
	if sl.NumberOfSlotframes() != 1 {
		t.Fatalf("NumberOfSlotframes = %d, want 1", sl.NumberOfSlotframes())
	}
	descriptors := sl.Descriptors()
	if !descriptors.Next() {
		t.Fatal("expected a Slotframe Descriptor")
	}
	d := descriptors.Current()
	if d.Handle() != 0 {
		t.Errorf("Handle = %d, want 0", d.Handle())
	}
	if d.Size() != 17 {
		t.Errorf("Size = %d, want 17", d.Size())
	}
	if d.NumberOfLinks() != 2 {
		t.Fatalf("NumberOfLinks = %d, want 2", d.NumberOfLinks())
	}

	links := d.Links()
	if !links.Next() {
		t.Fatal("expected first Link Information entry")
	}
	l0 := links.Current()
	if l0.Timeslot() != 0 || l0.ChannelOffset() != 1 {
		t.Errorf("link0 = (ts=%d, ch=%d), want (0, 1)", l0.Timeslot(), l0.ChannelOffset())
	}
	if !l0.LinkOptions().Has(ie.TschLinkOptionRx) || !l0.LinkOptions().Has(ie.TschLinkOptionShared) {
		t.Errorf("link0 options = %v, want Rx|Shared", l0.LinkOptions())
	}
	if l0.LinkOptions().Has(ie.TschLinkOptionTx) {
		t.Errorf("link0 options = %v, want Tx unset", l0.LinkOptions())
	}

	if !links.Next() {
		t.Fatal("expected second Link Information entry")
	}
	l1 := links.Current()
	if l1.Timeslot() != 1 || l1.ChannelOffset() != 2 {
		t.Errorf("link1 = (ts=%d, ch=%d), want (1, 2)", l1.Timeslot(), l1.ChannelOffset())
	}
	if !l1.LinkOptions().Has(ie.TschLinkOptionTx) || !l1.LinkOptions().Has(ie.TschLinkOptionRx) || !l1.LinkOptions().Has(ie.TschLinkOptionShared) {
		t.Errorf("link1 options = %v, want Tx|Rx|Shared", l1.LinkOptions())
	}

	if nested.Next() {
		t.Error("expected exactly four nested information elements")
	}
}

// Scenario C: an Enhanced Ack addressed to an extended destination, no
// source addressing, carrying a single TimeCorrection header IE of
// time=-31us, nack=true.
func TestScenarioCEnhancedAckTimeCorrection(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "02 2e 37 cd ab 02 00 02 00 02 00 02 00 02 0f e1 8f")

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if got, want := f.Control().FrameType(), frame.FrameTypeAck; got != want {
		t.Errorf("FrameType = %v, want %v", got, want)
	}
	if got, want := f.Control().FrameVersion(), frame.FrameVersion2020; got != want {
		t.Errorf("FrameVersion = %v, want %v", got, want)
	}
	if got, want := f.Variant(), frame.VariantEnhancedAck; got != want {
		t.Errorf("Variant = %v, want %v", got, want)
	}
	seq, present := f.SequenceNumber()
	if !present || seq != 55 {
		t.Errorf("SequenceNumber = (%d, %v), want (55, true)", seq, present)
	}

	af, err := f.Addressing()
	if err != nil {
		t.Fatalf("Addressing: %v", err)
	}
	dstPan, ok := af.DstPanID()
	if !ok || dstPan != 0xabcd {
		t.Errorf("DstPanID = (%#x, %v), want (0xabcd, true)", dstPan, ok)
	}
	wantDst := frame.AddressFromBytes(frame.AddressingModeExtended, []byte{0x02, 0x00, 0x02, 0x00, 0x02, 0x00, 0x02, 0x00})
	if got := af.DstAddress(); got != wantDst {
		t.Errorf("DstAddress = %v, want %v", got, wantDst)
	}
	if got, want := af.SrcAddress().Mode(), frame.AddressingModeAbsent; got != want {
		t.Errorf("SrcAddress mode = %v, want %v", got, want)
	}

	hies, err := f.HeaderIEs()
	if err != nil {
		t.Fatalf("HeaderIEs: %v", err)
	}
	if !hies.Next() {
		t.Fatal("expected a Header IE")
	}
	tc := hies.Current()
	if got, want := tc.ElementID(), ie.HeaderElementTimeCorrection; got != want {
		t.Fatalf("ElementID = %v, want %v", got, want)
	}

	content := tc.Content()
	if len(content) != 2 {
		t.Fatalf("TimeCorrection content length = %d, want 2", len(content))
	}
	raw := uint16(content[0]) | uint16(content[1])<<8
	nack := raw&0x8000 != 0
	timeUs := int32(int16(raw&0x0fff<<4)) >> 4 // sign-extend the 12-bit field
	if !nack {
		t.Error("nack = false, want true")
	}
	if timeUs != -31 {
		t.Errorf("time correction = %dus, want -31us", timeUs)
	}

	payload, err := f.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if len(payload) != 0 {
		t.Errorf("Payload length = %d, want 0", len(payload))
	}
}

// Scenario D: an Immediate Ack, exactly 3 octets: Frame Control + Sequence
// Number, no addressing, no Information Elements.
func TestScenarioDImmediateAck(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "02 10 01")
	if len(buf) != 3 {
		t.Fatalf("test vector must be 3 octets, got %d", len(buf))
	}

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if got, want := f.Control().FrameType(), frame.FrameTypeAck; got != want {
		t.Errorf("FrameType = %v, want %v", got, want)
	}
	if got, want := f.Variant(), frame.VariantAck; got != want {
		t.Errorf("Variant = %v, want %v", got, want)
	}
	seq, ok := f.SequenceNumber()
	if !ok || seq != 0x01 {
		t.Errorf("SequenceNumber = (%#x, %v), want (0x01, true)", seq, ok)
	}
	payload, err := f.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if len(payload) != 0 {
		t.Errorf("Payload length = %d, want 0", len(payload))
	}
}

// Scenario E: a 2006 Data frame with PAN ID compression, destination
// broadcast short address, extended source address, and a four-octet
// payload.
func TestScenarioEDataFramePanIDCompression(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "41 d8 01 cd ab ff ff c7 d9 b5 14 00 4b 12 00 2b 00 00 00")

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if got, want := f.Control().FrameType(), frame.FrameTypeData; got != want {
		t.Errorf("FrameType = %v, want %v", got, want)
	}
	if got, want := f.Control().FrameVersion(), frame.FrameVersion2006; got != want {
		t.Errorf("FrameVersion = %v, want %v", got, want)
	}
	if !f.Control().PanIDCompression() {
		t.Error("PanIDCompression = false, want true")
	}
	seq, present := f.SequenceNumber()
	if !present || seq != 1 {
		t.Errorf("SequenceNumber = (%d, %v), want (1, true)", seq, present)
	}

	af, err := f.Addressing()
	if err != nil {
		t.Fatalf("Addressing: %v", err)
	}
	dstPan, ok := af.DstPanID()
	if !ok || dstPan != 0xabcd {
		t.Errorf("DstPanID = (%#x, %v), want (0xabcd, true)", dstPan, ok)
	}
	if got := af.DstAddress(); !got.IsBroadcast() {
		t.Errorf("DstAddress = %v, want broadcast", got)
	}
	if _, ok := af.SrcPanID(); ok {
		t.Error("SrcPanID present, want omitted under PAN ID compression")
	}
	wantSrc := frame.AddressFromBytes(frame.AddressingModeExtended, []byte{0xc7, 0xd9, 0xb5, 0x14, 0x00, 0x4b, 0x12, 0x00})
	if got := af.SrcAddress(); got != wantSrc {
		t.Errorf("SrcAddress = %v, want %v", got, wantSrc)
	}

	payload, err := f.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	wantPayload := []byte{0x2b, 0x00, 0x00, 0x00}
	if string(payload) != string(wantPayload) {
		t.Errorf("Payload = %x, want %x", payload, wantPayload)
	}
}

// Scenario F: round-tripping a frame whose destination and source PAN IDs
// are distinct must not collapse them via PAN ID compression.
func TestScenarioFDistinctPanIDsRoundTrip(t *testing.T) {
	t.Parallel()

	b := frame.NewBuilder(frame.FrameTypeData, frame.FrameVersion2006).
		SequenceNumber(7).
		DstAddress(frame.AddressFromBytes(frame.AddressingModeShort, []byte{0x01, 0x02}), 0x1111).
		SrcAddress(frame.AddressFromBytes(frame.AddressingModeShort, []byte{0x03, 0x04}), 0x2222)

	buf := make([]byte, b.Len())
	n, err := b.Build(buf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	buf = buf[:n]

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	if f.Control().PanIDCompression() {
		t.Error("PanIDCompression = true for distinct PAN IDs, want false")
	}

	af, err := f.Addressing()
	if err != nil {
		t.Fatalf("Addressing: %v", err)
	}
	dstPan, dstOK := af.DstPanID()
	srcPan, srcOK := af.SrcPanID()
	if !dstOK || dstPan != 0x1111 {
		t.Errorf("DstPanID = (%#x, %v), want (0x1111, true)", dstPan, dstOK)
	}
	if !srcOK || srcPan != 0x2222 {
		t.Errorf("SrcPanID = (%#x, %v), want (0x2222, true)", srcPan, srcOK)
	}
}

// A header-IE list followed directly by a raw payload, with no payload-IE
// list, must be terminated by Header Termination 2, not 1.
func TestBuilderHeaderThenRawPayloadUsesHT2(t *testing.T) {
	t.Parallel()

	b := frame.NewBuilder(frame.FrameTypeData, frame.FrameVersion2020).
		SequenceNumber(9).
		AddHeaderIE(frame.HeaderIERepr{ElementID: ie.HeaderElementTimeCorrection, Content: []byte{0x00, 0x00}}).
		Payload([]byte{0xaa, 0xbb})

	buf := make([]byte, b.Len())
	n, err := b.Build(buf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	buf = buf[:n]

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	hies, err := f.HeaderIEs()
	if err != nil {
		t.Fatalf("HeaderIEs: %v", err)
	}
	if !hies.Next() {
		t.Fatal("expected the TimeCorrection header IE")
	}
	if got, want := hies.Current().ElementID(), ie.HeaderElementTimeCorrection; got != want {
		t.Fatalf("ElementID = %v, want %v", got, want)
	}
	if !hies.Next() {
		t.Fatal("expected Header Termination 2")
	}
	if got, want := hies.Current().ElementID(), ie.HeaderElementHeaderTermination2; got != want {
		t.Errorf("ElementID = %v, want %v", got, want)
	}

	pies, err := f.PayloadIEs()
	if err != nil {
		t.Fatalf("PayloadIEs: %v", err)
	}
	if pies.Next() {
		t.Error("expected no Payload IEs when terminated by HT2")
	}

	payload, err := f.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if string(payload) != "\xaa\xbb" {
		t.Errorf("Payload = %x, want aabb", payload)
	}
}

// A header-IE list with nothing after it at all needs no terminator: the
// frame's own length marks the end of the list.
func TestBuilderHeaderIEOnlyNoTerminator(t *testing.T) {
	t.Parallel()

	b := frame.NewBuilder(frame.FrameTypeAck, frame.FrameVersion2020).
		SequenceNumber(1).
		AddHeaderIE(frame.HeaderIERepr{ElementID: ie.HeaderElementTimeCorrection, Content: []byte{0x00, 0x00}})

	buf := make([]byte, b.Len())
	n, err := b.Build(buf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	buf = buf[:n]

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	hies, err := f.HeaderIEs()
	if err != nil {
		t.Fatalf("HeaderIEs: %v", err)
	}
	if !hies.Next() {
		t.Fatal("expected the TimeCorrection header IE")
	}
	if hies.Next() {
		t.Error("expected no terminator after a header-IE-only list")
	}
}

// AddPayloadIE must let a Builder emit a header-IE list followed by a
// payload-IE list, terminated by Header Termination 1.
func TestBuilderHeaderAndPayloadIEs(t *testing.T) {
	t.Parallel()

	b := frame.NewBuilder(frame.FrameTypeData, frame.FrameVersion2020).
		SequenceNumber(3).
		AddHeaderIE(frame.HeaderIERepr{ElementID: ie.HeaderElementTimeCorrection, Content: []byte{0x00, 0x00}}).
		AddPayloadIE(frame.PayloadIERepr{GroupID: ie.PayloadGroupMLME, Content: []byte{0x01, 0x02, 0x03}}).
		Payload([]byte{0xcc})

	buf := make([]byte, b.Len())
	n, err := b.Build(buf)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	buf = buf[:n]

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}

	hies, err := f.HeaderIEs()
	if err != nil {
		t.Fatalf("HeaderIEs: %v", err)
	}
	if !hies.Next() {
		t.Fatal("expected the TimeCorrection header IE")
	}
	if !hies.Next() {
		t.Fatal("expected Header Termination 1")
	}
	if got, want := hies.Current().ElementID(), ie.HeaderElementHeaderTermination1; got != want {
		t.Errorf("ElementID = %v, want %v", got, want)
	}

	pies, err := f.PayloadIEs()
	if err != nil {
		t.Fatalf("PayloadIEs: %v", err)
	}
	if !pies.Next() {
		t.Fatal("expected the MLME Payload IE")
	}
	p := pies.Current()
	if got, want := p.GroupID(), ie.PayloadGroupMLME; got != want {
		t.Errorf("GroupID = %v, want %v", got, want)
	}
	if string(p.Content()) != "\x01\x02\x03" {
		t.Errorf("Content = %x, want 010203", p.Content())
	}

	payload, err := f.Payload()
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}
	if string(payload) != "\xcc" {
		t.Errorf("Payload = %x, want cc", payload)
	}
}

// Parsing a frame into a FrameRepr, emitting it back onto the wire, and
// re-parsing the result must produce a structurally identical Repr.
func TestFrameReprRoundTrip(t *testing.T) {
	t.Parallel()

	buf := mustHex(t, "40 eb cd ab ff ff 01 00 01 00 01 00 01 00 00 3f 11 88 06 1a 0e 00 00 00 00 00 01 1c 00 01 c8 00 01 1b 00 01 02")

	f, err := frame.NewFrame(buf)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	r, err := frame.ParseFrameRepr(f)
	if err != nil {
		t.Fatalf("ParseFrameRepr: %v", err)
	}

	out := make([]byte, r.Len())
	if err := r.Emit(out); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	f2, err := frame.NewFrame(out)
	if err != nil {
		t.Fatalf("NewFrame (re-parse): %v", err)
	}
	r2, err := frame.ParseFrameRepr(f2)
	if err != nil {
		t.Fatalf("ParseFrameRepr (re-parse): %v", err)
	}

	if r.Control != r2.Control {
		t.Errorf("Control = %+v, want %+v", r2.Control, r.Control)
	}
	if r.HaveSequenceNumber != r2.HaveSequenceNumber || r.SequenceNumber != r2.SequenceNumber {
		t.Errorf("SequenceNumber = (%d, %v), want (%d, %v)", r2.SequenceNumber, r2.HaveSequenceNumber, r.SequenceNumber, r.HaveSequenceNumber)
	}
	if (r.Addressing == nil) != (r2.Addressing == nil) {
		t.Fatalf("Addressing presence mismatch: %v vs %v", r.Addressing, r2.Addressing)
	}
	if r.Addressing != nil && *r.Addressing != *r2.Addressing {
		t.Errorf("Addressing = %+v, want %+v", r2.Addressing, r.Addressing)
	}
	if (r.InformationElements == nil) != (r2.InformationElements == nil) {
		t.Fatalf("InformationElements presence mismatch: %v vs %v", r.InformationElements, r2.InformationElements)
	}
	if r.InformationElements != nil {
		if len(r.InformationElements.HeaderIEs) != len(r2.InformationElements.HeaderIEs) {
			t.Errorf("HeaderIEs count = %d, want %d", len(r2.InformationElements.HeaderIEs), len(r.InformationElements.HeaderIEs))
		}
		if len(r.InformationElements.PayloadIEs) != len(r2.InformationElements.PayloadIEs) {
			t.Errorf("PayloadIEs count = %d, want %d", len(r2.InformationElements.PayloadIEs), len(r.InformationElements.PayloadIEs))
		}
	}
	if string(r.Payload) != string(r2.Payload) {
		t.Errorf("Payload = %x, want %x", r2.Payload, r.Payload)
	}
}

func TestAddressPresenceTable2020(t *testing.T) {
	t.Parallel()

	absent, short, extended := frame.AddressingModeAbsent, frame.AddressingModeShort, frame.AddressingModeExtended

	tests := []struct {
		name             string
		dst, src         frame.AddressingMode
		panIDCompression bool
		wantDst, wantSrc bool
	}{
		{"neither present, compression off", absent, absent, false, false, false},
		{"neither present, compression on", absent, absent, true, true, false},
		{"only dst, compression off", short, absent, false, true, false},
		{"only dst, compression on", short, absent, true, false, false},
		{"only src, compression off", absent, short, false, false, true},
		{"only src, compression on", absent, short, true, false, true},
		{"extended/extended, compression off", extended, extended, false, true, false},
		{"extended/extended, compression on", extended, extended, true, false, false},
		{"short/short, compression off", short, short, false, true, true},
		{"short/short, compression on", short, short, true, true, false},
		{"short/extended, compression off", short, extended, false, true, true},
		{"short/extended, compression on", short, extended, true, true, false},
		{"extended/short, compression off", extended, short, false, true, true},
		{"extended/short, compression on", extended, short, true, true, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dstPan, srcPan := frame.AddressPresence(frame.FrameVersion2020, tc.dst, tc.src, tc.panIDCompression)
			if dstPan != tc.wantDst || srcPan != tc.wantSrc {
				t.Errorf("AddressPresence(2020, %v, %v, %v) = (%v, %v), want (%v, %v)",
					tc.dst, tc.src, tc.panIDCompression, dstPan, srcPan, tc.wantDst, tc.wantSrc)
			}
		})
	}
}

func TestAddressPresenceTableLegacy(t *testing.T) {
	t.Parallel()

	absent, short, extended := frame.AddressingModeAbsent, frame.AddressingModeShort, frame.AddressingModeExtended

	tests := []struct {
		name             string
		ver              frame.FrameVersion
		dst, src         frame.AddressingMode
		panIDCompression bool
		wantDst, wantSrc bool
	}{
		{"both absent, compression off", frame.FrameVersion2006, absent, absent, false, false, true},
		{"both absent, compression on", frame.FrameVersion2006, absent, absent, true, false, true},
		{"dst absent, src present", frame.FrameVersion2003, absent, extended, false, false, true},
		{"dst present, src absent", frame.FrameVersion2003, short, absent, true, true, false},
		{"both present, compression on", frame.FrameVersion2006, short, extended, true, true, false},
		{"both present, compression off", frame.FrameVersion2006, short, extended, false, true, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			dstPan, srcPan := frame.AddressPresence(tc.ver, tc.dst, tc.src, tc.panIDCompression)
			if dstPan != tc.wantDst || srcPan != tc.wantSrc {
				t.Errorf("AddressPresence(%v, %v, %v, %v) = (%v, %v), want (%v, %v)",
					tc.ver, tc.dst, tc.src, tc.panIDCompression, dstPan, srcPan, tc.wantDst, tc.wantSrc)
			}
		})
	}
}

func TestTschTimeslotDefaultTemplate(t *testing.T) {
	t.Parallel()

	ts, err := ie.NewTschTimeslot([]byte{0x00})
	if err != nil {
		t.Fatalf("NewTschTimeslot: %v", err)
	}
	timings := ts.Timings()
	if timings.TimeSlotLength.Microseconds() != 10000 {
		t.Errorf("TimeSlotLength = %v, want 10000us", timings.TimeSlotLength)
	}
	if timings.RxWait != ie.DefaultGuardTime {
		t.Errorf("RxWait = %v, want %v", timings.RxWait, ie.DefaultGuardTime)
	}
}

func TestTschTimeslotThreeByteEncoding(t *testing.T) {
	t.Parallel()

	timings := ie.TschTimeslotTimings{
		ID:             1,
		CcaOffset:      ie.FromMicroseconds(1800),
		Cca:            ie.FromMicroseconds(128),
		TxOffset:       ie.FromMicroseconds(2120),
		RxOffset:       ie.FromMicroseconds(1020),
		RxAckDelay:     ie.FromMicroseconds(800),
		TxAckDelay:     ie.FromMicroseconds(1000),
		RxWait:         ie.FromMicroseconds(2200),
		AckWait:        ie.FromMicroseconds(400),
		RxTx:           ie.FromMicroseconds(192),
		MaxAck:         ie.FromMicroseconds(2400),
		MaxTx:          ie.FromMicroseconds(70000), // exceeds a 2-octet field
		TimeSlotLength: ie.FromMicroseconds(65535),
	}

	buf := make([]byte, 26)
	if err := ie.EmitTimings(buf, timings); err != nil {
		t.Fatalf("EmitTimings: %v", err)
	}

	ts, err := ie.NewTschTimeslot(buf)
	if err != nil {
		t.Fatalf("NewTschTimeslot: %v", err)
	}
	got := ts.Timings()
	if got.MaxTx != timings.MaxTx {
		t.Errorf("MaxTx = %v, want %v", got.MaxTx, timings.MaxTx)
	}
	if got.TimeSlotLength != timings.TimeSlotLength {
		t.Errorf("TimeSlotLength = %v, want %v", got.TimeSlotLength, timings.TimeSlotLength)
	}
}
