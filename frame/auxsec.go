package frame

// SecurityLevel is the Security Level subfield of the Security Control
// octet. It determines the length of the Message Integrity Code this
// package reports but does not process.
type SecurityLevel uint8

const (
	SecurityLevelNone      SecurityLevel = 0
	SecurityLevelMIC32     SecurityLevel = 1
	SecurityLevelMIC64     SecurityLevel = 2
	SecurityLevelMIC128    SecurityLevel = 3
	SecurityLevelEncOnly   SecurityLevel = 4
	SecurityLevelEncMIC32  SecurityLevel = 5
	SecurityLevelEncMIC64  SecurityLevel = 6
	SecurityLevelEncMIC128 SecurityLevel = 7
)

// MICLength returns the Message Integrity Code length in octets this
// security level implies.
func (l SecurityLevel) MICLength() int {
	switch l {
	case SecurityLevelMIC32, SecurityLevelEncMIC32:
		return 4
	case SecurityLevelMIC64, SecurityLevelEncMIC64:
		return 8
	case SecurityLevelMIC128, SecurityLevelEncMIC128:
		return 16
	default:
		return 0
	}
}

// KeyIdentifierMode is the Key Identifier Mode subfield of the Security
// Control octet.
type KeyIdentifierMode uint8

const (
	KeyIdentifierModeImplicit        KeyIdentifierMode = 0
	KeyIdentifierModeIndex           KeyIdentifierMode = 1
	KeyIdentifierModeSource4Index    KeyIdentifierMode = 2
	KeyIdentifierModeSource8Index    KeyIdentifierMode = 3
)

// KeyIDLength returns the length in octets of the Key Identifier field
// this mode implies (Key Source length plus one octet Key Index).
func (m KeyIdentifierMode) KeyIDLength() int {
	switch m {
	case KeyIdentifierModeIndex:
		return 1
	case KeyIdentifierModeSource4Index:
		return 5
	case KeyIdentifierModeSource8Index:
		return 9
	default:
		return 0
	}
}

// SecurityControl is a zero-copy view over the one-octet Security Control
// field of the Auxiliary Security Header.
type SecurityControl struct {
	b byte
}

// NewSecurityControl wraps a raw Security Control octet.
func NewSecurityControl(b byte) SecurityControl { return SecurityControl{b: b} }

// SecurityLevel returns the Security Level subfield.
func (sc SecurityControl) SecurityLevel() SecurityLevel {
	return SecurityLevel(sc.b & 0b0000_0111)
}

// KeyIdentifierMode returns the Key Identifier Mode subfield.
func (sc SecurityControl) KeyIdentifierMode() KeyIdentifierMode {
	return KeyIdentifierMode((sc.b >> 3) & 0b11)
}

// FrameCounterSuppression reports whether the Frame Counter field is
// omitted (2020 only).
func (sc SecurityControl) FrameCounterSuppression() bool {
	return sc.b&0b0010_0000 != 0
}

// AuxiliarySecurityHeader is a zero-copy, read-only view over the
// Auxiliary Security Header. This package recognizes the header's
// structure — its length and subfields — but performs no cryptographic
// processing: callers that need to verify or decrypt a secured frame must
// do so themselves against Content/MIC.
type AuxiliarySecurityHeader struct {
	buf []byte
}

// NewAuxiliarySecurityHeader returns a view over buf, which must be at
// least one octet long (the Security Control octet).
func NewAuxiliarySecurityHeader(buf []byte) (AuxiliarySecurityHeader, error) {
	if len(buf) < 1 {
		return AuxiliarySecurityHeader{}, ErrBufferTooShort
	}
	h := AuxiliarySecurityHeader{buf: buf}
	if len(buf) < h.Len() {
		return AuxiliarySecurityHeader{}, ErrBufferTooShort
	}
	return h, nil
}

// SecurityControl returns the header's Security Control field.
func (h AuxiliarySecurityHeader) SecurityControl() SecurityControl {
	return NewSecurityControl(h.buf[0])
}

// Len returns the total length of the Auxiliary Security Header: Security
// Control, Frame Counter (unless suppressed), and Key Identifier.
func (h AuxiliarySecurityHeader) Len() int {
	n := 1
	sc := h.SecurityControl()
	if !sc.FrameCounterSuppression() {
		n += 4
	}
	n += sc.KeyIdentifierMode().KeyIDLength()
	return n
}

// FrameCounter returns the Frame Counter field and whether it is present.
func (h AuxiliarySecurityHeader) FrameCounter() (uint32, bool) {
	if h.SecurityControl().FrameCounterSuppression() {
		return 0, false
	}
	b := h.buf[1:5]
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, true
}

// MICLength returns the length in octets of the Message Integrity Code
// that this header's Security Level implies will follow the frame payload.
func (h AuxiliarySecurityHeader) MICLength() int {
	return h.SecurityControl().SecurityLevel().MICLength()
}
