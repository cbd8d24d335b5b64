package commands

import (
	"fmt"

	"github.com/dantte-lp/go154/frame"
)

// headerIESummary is one Header Information Element rendered for output.
type headerIESummary struct {
	ElementID  string `json:"element_id"`
	ContentLen int    `json:"content_len"`
}

// payloadIESummary is one Payload Information Element rendered for output.
type payloadIESummary struct {
	GroupID    string `json:"group_id"`
	ContentLen int    `json:"content_len"`
}

// decodedFrame is a JSON- and text-renderable snapshot of a decoded frame.
type decodedFrame struct {
	Summary        string             `json:"summary"`
	Variant        string             `json:"variant"`
	FrameType      string             `json:"frame_type"`
	FrameVersion   string             `json:"frame_version"`
	SequenceNumber *uint8             `json:"sequence_number,omitempty"`
	DstPanID       string             `json:"dst_pan_id,omitempty"`
	DstAddress     string             `json:"dst_address,omitempty"`
	SrcPanID       string             `json:"src_pan_id,omitempty"`
	SrcAddress     string             `json:"src_address,omitempty"`
	HeaderIEs      []headerIESummary  `json:"header_ies,omitempty"`
	PayloadIEs     []payloadIESummary `json:"payload_ies,omitempty"`
	PayloadLen     int                `json:"payload_len"`
}

// describeFrame walks f's fields and Information Elements and produces a
// flat, renderable snapshot. Returns the first error encountered chasing
// the frame's offset chain.
func describeFrame(f frame.Frame) (*decodedFrame, error) {
	fc := f.Control()
	df := &decodedFrame{
		Summary:      f.String(),
		Variant:      f.Variant().String(),
		FrameType:    fc.FrameType().String(),
		FrameVersion: fc.FrameVersion().String(),
	}

	if seq, present := f.SequenceNumber(); present {
		s := seq
		df.SequenceNumber = &s
	}

	addressing, err := f.Addressing()
	if err != nil {
		return nil, fmt.Errorf("addressing fields: %w", err)
	}
	if dstPan, present := addressing.DstPanID(); present {
		df.DstPanID = fmt.Sprintf("0x%04x", dstPan)
	}
	if !addressing.DstAddress().IsAbsent() {
		df.DstAddress = addressing.DstAddress().String()
	}
	if srcPan, present := addressing.SrcPanID(); present {
		df.SrcPanID = fmt.Sprintf("0x%04x", srcPan)
	}
	if !addressing.SrcAddress().IsAbsent() {
		df.SrcAddress = addressing.SrcAddress().String()
	}

	headerIEs, err := f.HeaderIEs()
	if err != nil {
		return nil, fmt.Errorf("header IEs: %w", err)
	}
	for headerIEs.Next() {
		h := headerIEs.Current()
		if h.ElementID().IsTermination() {
			continue
		}
		df.HeaderIEs = append(df.HeaderIEs, headerIESummary{
			ElementID:  h.ElementID().String(),
			ContentLen: h.Len(),
		})
	}

	payloadIEs, err := f.PayloadIEs()
	if err != nil {
		return nil, fmt.Errorf("payload IEs: %w", err)
	}
	for payloadIEs.Next() {
		p := payloadIEs.Current()
		if p.GroupID().IsTermination() {
			continue
		}
		df.PayloadIEs = append(df.PayloadIEs, payloadIESummary{
			GroupID:    p.GroupID().String(),
			ContentLen: p.Len(),
		})
	}

	payload, err := f.Payload()
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	df.PayloadLen = len(payload)

	return df, nil
}
