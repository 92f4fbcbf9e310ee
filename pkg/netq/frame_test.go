package netq

import (
	"bytes"
	"testing"

	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

func TestFrame_EncodeDecode_RoundTrip(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03, 0x04}
	f := Frame{
		PayloadType: PayloadTypeVoice,
		Sequence:    42,
		Timestamp:   800,
		SSRC:        312000,
		FNE: FNEHeader{
			CRC:           edac.CRC16CCITT(payload),
			StreamID:      99,
			PeerID:        312000,
			MessageLength: uint32(len(payload)),
			Function:      1,
			SubFunction:   2,
		},
		Payload: payload,
	}

	encoded := f.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.PayloadType != f.PayloadType || decoded.Sequence != f.Sequence ||
		decoded.Timestamp != f.Timestamp || decoded.SSRC != f.SSRC {
		t.Errorf("round trip mismatch: got %+v", decoded)
	}
	if decoded.FNE != f.FNE {
		t.Errorf("FNE header mismatch: got %+v, want %+v", decoded.FNE, f.FNE)
	}
	if !bytes.Equal(decoded.Payload, payload) {
		t.Errorf("payload mismatch: got %v, want %v", decoded.Payload, payload)
	}
}

func TestDecode_ShortFrame(t *testing.T) {
	if _, err := Decode(make([]byte, 10)); err != ErrShortFrame {
		t.Errorf("expected ErrShortFrame, got %v", err)
	}
}

func TestDecode_BadPayloadType(t *testing.T) {
	f := Frame{PayloadType: 0x99, Payload: []byte{1, 2}}
	f.FNE.CRC = edac.CRC16CCITT(f.Payload)
	encoded := f.Encode()
	if _, err := Decode(encoded); err != ErrBadPayloadType {
		t.Errorf("expected ErrBadPayloadType, got %v", err)
	}
}

func TestDecode_CRCMismatch(t *testing.T) {
	f := Frame{PayloadType: PayloadTypeControl, Payload: []byte{1, 2, 3}}
	f.FNE.CRC = 0xDEAD
	encoded := f.Encode()
	if _, err := Decode(encoded); err != ErrCRCMismatch {
		t.Errorf("expected ErrCRCMismatch, got %v", err)
	}
}
