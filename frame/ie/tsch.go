package ie

import "fmt"

// TschSynchronization is a zero-copy view over a TSCH Synchronization
// Nested Information Element's content: the Absolute Slot Number and Join
// Metric carried by every TSCH Enhanced Beacon.
type TschSynchronization struct {
	buf []byte
}

// NewTschSynchronization returns a view over buf, which must be at least 6
// octets long.
func NewTschSynchronization(buf []byte) (TschSynchronization, error) {
	if len(buf) < 6 {
		return TschSynchronization{}, ErrBufferTooShort
	}
	return TschSynchronization{buf: buf}, nil
}

// AbsoluteSlotNumber returns the 5-octet little-endian Absolute Slot
// Number (ASN).
func (s TschSynchronization) AbsoluteSlotNumber() uint64 {
	var v uint64
	for i := 4; i >= 0; i-- {
		v = v<<8 | uint64(s.buf[i])
	}
	return v
}

// JoinMetric returns the Join Metric field.
func (s TschSynchronization) JoinMetric() uint8 { return s.buf[5] }

// SetAbsoluteSlotNumber writes the 5-octet ASN field.
func (s TschSynchronization) SetAbsoluteSlotNumber(asn uint64) {
	for i := 0; i < 5; i++ {
		s.buf[i] = byte(asn >> (8 * i))
	}
}

// SetJoinMetric writes the Join Metric field.
func (s TschSynchronization) SetJoinMetric(m uint8) { s.buf[5] = m }

func (s TschSynchronization) String() string {
	return fmt.Sprintf("TschSynchronization asn=%d join_metric=%d", s.AbsoluteSlotNumber(), s.JoinMetric())
}

// Default TSCH Timeslot timings, in microseconds, per the nominal 10ms
// timeslot template.
const (
	DefaultGuardTime       = Duration(2200)
	defaultCcaOffset       = Duration(1800)
	defaultCca             = Duration(128)
	defaultTxOffset        = Duration(2120)
	defaultRxAckDelay      = Duration(800)
	defaultTxAckDelay      = Duration(1000)
	defaultAckWait         = Duration(400)
	defaultRxTx            = Duration(192)
	defaultMaxAck          = Duration(2400)
	defaultMaxTx           = Duration(4256)
	defaultTimeSlotLength  = Duration(10000)
)

// TschTimeslotTimings holds the twelve timing fields of a TSCH Timeslot
// template, identified by its Timeslot ID.
type TschTimeslotTimings struct {
	ID                uint8
	CcaOffset         Duration
	Cca               Duration
	TxOffset          Duration
	RxOffset          Duration
	RxAckDelay        Duration
	TxAckDelay        Duration
	RxWait            Duration
	AckWait           Duration
	RxTx              Duration
	MaxAck            Duration
	MaxTx             Duration
	TimeSlotLength    Duration
}

// DefaultTschTimeslotTimings returns the template's default timings for
// Timeslot ID 0, derived from guardTime the same way the default 10ms
// template is: RxOffset and RxWait both depend on it.
func DefaultTschTimeslotTimings(id uint8, guardTime Duration) TschTimeslotTimings {
	return TschTimeslotTimings{
		ID:             id,
		CcaOffset:      defaultCcaOffset,
		Cca:            defaultCca,
		TxOffset:       defaultTxOffset,
		RxOffset:       defaultTxOffset.Sub(guardTime.Div(2)),
		RxAckDelay:     defaultRxAckDelay,
		TxAckDelay:     defaultTxAckDelay,
		RxWait:         guardTime,
		AckWait:        defaultAckWait,
		RxTx:           defaultRxTx,
		MaxAck:         defaultMaxAck,
		MaxTx:          defaultMaxTx,
		TimeSlotLength: defaultTimeSlotLength,
	}
}

func (t TschTimeslotTimings) String() string {
	return fmt.Sprintf("TschTimeslotTimings{id=%d tx_offset=%s rx_offset=%s time_slot_length=%s}",
		t.ID, t.TxOffset, t.RxOffset, t.TimeSlotLength)
}

// tschTimeslotFieldOffsets is the byte offset, within a TSCH Timeslot IE's
// content, of each of the first ten 2-octet timing fields (everything
// before MaxTx/TimeSlotLength).
var tschTimeslotFieldOffsets = [10]int{1, 3, 5, 7, 9, 11, 13, 15, 17, 19}

func readLE16(b []byte, off int) Duration {
	return Duration(uint16(b[off]) | uint16(b[off+1])<<8)
}

func writeLE(b []byte, off int, v uint64, width int) {
	for i := 0; i < width; i++ {
		b[off+i] = byte(v >> (8 * i))
	}
}

func readLE(b []byte, off, width int) uint64 {
	var v uint64
	for i := width - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[off+i])
	}
	return v
}

// TschTimeslot is a zero-copy view over a TSCH Timeslot Nested Information
// Element's content.
type TschTimeslot struct {
	buf []byte
}

// TschTimeslotDefaultID is the Timeslot ID reserved for "use the default
// 10ms template", carried with no timing fields at all.
const TschTimeslotDefaultID = 0

// NewTschTimeslot returns a view over buf. When the Timeslot ID (the first
// octet) is TschTimeslotDefaultID, buf need only be 1 octet long;
// otherwise it must be at least 25 octets (the ID plus the full set of
// timing fields in their 2-octet form; 26 octets selects the 3-octet
// MaxTx/2-octet TimeSlotLength encoding described in Timings).
func NewTschTimeslot(buf []byte) (TschTimeslot, error) {
	if len(buf) < 1 {
		return TschTimeslot{}, ErrBufferTooShort
	}
	t := TschTimeslot{buf: buf}
	if t.ID() != TschTimeslotDefaultID && len(buf) < 25 {
		return TschTimeslot{}, ErrBufferTooShort
	}
	return t, nil
}

// ID returns the Timeslot ID.
func (t TschTimeslot) ID() uint8 { return t.buf[0] }

// Timings returns the full set of timeslot timings. When ID is
// TschTimeslotDefaultID, this returns the default 10ms template (no
// timing fields are present on the wire); otherwise the fields are parsed
// from buf, selecting the 25-octet (2-octet MaxTx, 2-octet
// TimeSlotLength) or 26-octet (3-octet MaxTx, 2-octet TimeSlotLength)
// encoding by the content's total length.
func (t TschTimeslot) Timings() TschTimeslotTimings {
	if t.ID() == TschTimeslotDefaultID {
		return DefaultTschTimeslotTimings(t.ID(), DefaultGuardTime)
	}

	timings := TschTimeslotTimings{ID: t.ID()}
	fields := []*Duration{
		&timings.CcaOffset, &timings.Cca, &timings.TxOffset, &timings.RxOffset,
		&timings.RxAckDelay, &timings.TxAckDelay, &timings.RxWait, &timings.AckWait,
		&timings.RxTx, &timings.MaxAck,
	}
	for i, off := range tschTimeslotFieldOffsets {
		*fields[i] = readLE16(t.buf, off)
	}

	if len(t.buf) >= 26 {
		timings.MaxTx = Duration(readLE(t.buf, 21, 3))
		timings.TimeSlotLength = readLE16(t.buf, 24)
	} else {
		timings.MaxTx = readLE16(t.buf, 21)
		timings.TimeSlotLength = readLE16(t.buf, 23)
	}
	return timings
}

// EmitTimings writes the full timing field set into buf (which must be
// laid out the same way Timings reads it: 25 octets total for the 2-octet
// MaxTx encoding, 26 for the 3-octet encoding) and sets the Timeslot ID.
func EmitTimings(buf []byte, t TschTimeslotTimings) error {
	if t.ID == TschTimeslotDefaultID {
		if len(buf) < 1 {
			return ErrBufferTooShort
		}
		buf[0] = TschTimeslotDefaultID
		return nil
	}
	if len(buf) < 25 {
		return ErrBufferTooShort
	}
	buf[0] = t.ID
	fields := []Duration{
		t.CcaOffset, t.Cca, t.TxOffset, t.RxOffset,
		t.RxAckDelay, t.TxAckDelay, t.RxWait, t.AckWait,
		t.RxTx, t.MaxAck,
	}
	for i, off := range tschTimeslotFieldOffsets {
		writeLE(buf, off, uint64(fields[i]), 2)
	}
	if len(buf) >= 26 {
		writeLE(buf, 21, uint64(t.MaxTx), 3)
		writeLE(buf, 24, uint64(t.TimeSlotLength), 2)
	} else {
		writeLE(buf, 21, uint64(t.MaxTx), 2)
		writeLE(buf, 23, uint64(t.TimeSlotLength), 2)
	}
	return nil
}

// TschSlotframeAndLink is a zero-copy view over a TSCH Slotframe-and-Link
// Nested Information Element's content.
type TschSlotframeAndLink struct {
	buf []byte
}

// NewTschSlotframeAndLink returns a view over buf, which must be at least
// 1 octet long.
func NewTschSlotframeAndLink(buf []byte) (TschSlotframeAndLink, error) {
	if len(buf) < 1 {
		return TschSlotframeAndLink{}, ErrBufferTooShort
	}
	return TschSlotframeAndLink{buf: buf}, nil
}

// NumberOfSlotframes returns the count of Slotframe Descriptors that
// follow.
func (s TschSlotframeAndLink) NumberOfSlotframes() uint8 { return s.buf[0] }

// Descriptors returns an iterator over the Slotframe Descriptors.
func (s TschSlotframeAndLink) Descriptors() *SlotframeDescriptorIterator {
	return &SlotframeDescriptorIterator{
		data:    s.buf[1:],
		count:   int(s.NumberOfSlotframes()),
	}
}

// SlotframeDescriptor is a zero-copy view over a single Slotframe
// Descriptor within a TSCH Slotframe-and-Link IE.
type SlotframeDescriptor struct {
	buf []byte
}

// NewSlotframeDescriptor returns a view over buf, which must be at least 4
// octets long plus 5 octets per Link Information entry.
func NewSlotframeDescriptor(buf []byte) (SlotframeDescriptor, error) {
	if len(buf) < 4 {
		return SlotframeDescriptor{}, ErrBufferTooShort
	}
	d := SlotframeDescriptor{buf: buf}
	if len(buf) < d.Len() {
		return SlotframeDescriptor{}, ErrBufferTooShort
	}
	return d, nil
}

// Handle returns the Slotframe Handle.
func (d SlotframeDescriptor) Handle() uint8 { return d.buf[0] }

// Size returns the Slotframe Size.
func (d SlotframeDescriptor) Size() uint16 { return uint16(readLE(d.buf, 1, 2)) }

// NumberOfLinks returns the count of Link Information entries that
// follow.
func (d SlotframeDescriptor) NumberOfLinks() uint8 { return d.buf[3] }

// Len returns the total size in octets of this Slotframe Descriptor,
// including its Link Information entries.
func (d SlotframeDescriptor) Len() int { return 4 + int(d.NumberOfLinks())*linkInformationLen }

// Links returns an iterator over this descriptor's Link Information
// entries.
func (d SlotframeDescriptor) Links() *LinkInformationIterator {
	return &LinkInformationIterator{data: d.buf[4:d.Len()], count: int(d.NumberOfLinks())}
}

// SlotframeDescriptorIterator walks the Slotframe Descriptors of a TSCH
// Slotframe-and-Link IE. It stops silently — without signalling an error —
// on exhaustion of the declared count, exhaustion of the buffer, or a
// parse failure partway through a descriptor.
type SlotframeDescriptorIterator struct {
	data  []byte
	seen  int
	count int
	cur   SlotframeDescriptor
}

// Next advances the iterator.
func (it *SlotframeDescriptorIterator) Next() bool {
	if it.seen >= it.count || len(it.data) == 0 {
		return false
	}
	d, err := NewSlotframeDescriptor(it.data)
	if err != nil {
		it.data = nil
		return false
	}
	it.cur = d
	it.data = it.data[d.Len():]
	it.seen++
	return true
}

// Current returns the descriptor yielded by the most recent call to Next.
func (it *SlotframeDescriptorIterator) Current() SlotframeDescriptor { return it.cur }

const linkInformationLen = 5

// TschLinkOption is the bitmask of option flags carried by a Link
// Information entry.
type TschLinkOption uint8

const (
	TschLinkOptionTx          TschLinkOption = 1 << 0
	TschLinkOptionRx          TschLinkOption = 1 << 1
	TschLinkOptionShared      TschLinkOption = 1 << 2
	TschLinkOptionTimeKeeping TschLinkOption = 1 << 3
	TschLinkOptionPriority    TschLinkOption = 1 << 4
)

// Has reports whether opt is set.
func (o TschLinkOption) Has(opt TschLinkOption) bool { return o&opt != 0 }

// LinkInformation is a zero-copy view over a single Link Information entry
// within a Slotframe Descriptor.
type LinkInformation struct {
	buf []byte
}

// NewLinkInformation returns a view over buf, which must be at least 5
// octets long.
func NewLinkInformation(buf []byte) (LinkInformation, error) {
	if len(buf) < linkInformationLen {
		return LinkInformation{}, ErrBufferTooShort
	}
	return LinkInformation{buf: buf}, nil
}

// Timeslot returns the Timeslot field.
func (l LinkInformation) Timeslot() uint16 { return uint16(readLE(l.buf, 0, 2)) }

// ChannelOffset returns the Channel Offset field.
func (l LinkInformation) ChannelOffset() uint16 { return uint16(readLE(l.buf, 2, 2)) }

// LinkOptions returns the Link Options bitmask.
func (l LinkInformation) LinkOptions() TschLinkOption { return TschLinkOption(l.buf[4]) }

// LinkInformationIterator walks the Link Information entries of a
// Slotframe Descriptor.
type LinkInformationIterator struct {
	data  []byte
	seen  int
	count int
	cur   LinkInformation
}

// Next advances the iterator.
func (it *LinkInformationIterator) Next() bool {
	if it.seen >= it.count || len(it.data) < linkInformationLen {
		return false
	}
	l, err := NewLinkInformation(it.data)
	if err != nil {
		return false
	}
	it.cur = l
	it.data = it.data[linkInformationLen:]
	it.seen++
	return true
}

// Current returns the entry yielded by the most recent call to Next.
func (it *LinkInformationIterator) Current() LinkInformation { return it.cur }

// ChannelHopping is a zero-copy view over a Channel Hopping Nested
// Information Element's content.
type ChannelHopping struct {
	buf []byte
}

// NewChannelHopping returns a view over buf, which must be non-empty.
func NewChannelHopping(buf []byte) (ChannelHopping, error) {
	if len(buf) < 1 {
		return ChannelHopping{}, ErrBufferTooShort
	}
	return ChannelHopping{buf: buf}, nil
}

// HoppingSequenceID returns the Hopping Sequence ID field.
func (c ChannelHopping) HoppingSequenceID() uint8 { return c.buf[0] }

// SetHoppingSequenceID writes the Hopping Sequence ID field.
func (c ChannelHopping) SetHoppingSequenceID(id uint8) { c.buf[0] = id }
