package nxdn

import "testing"

func TestSACCH_EncodeDecode_RoundTrip(t *testing.T) {
	s := SACCH{RAN: 0x09, Structure: 0x02}
	copy(s.Payload[:], []byte{0xAB, 0xCD, 0xE0})

	frame := EncodeSACCH(s)
	got, err := DecodeSACCH(frame)
	if err != nil {
		t.Fatalf("DecodeSACCH: %v", err)
	}
	if got.RAN != s.RAN {
		t.Errorf("RAN mismatch: got %#x, want %#x", got.RAN, s.RAN)
	}
	if got.Structure != s.Structure {
		t.Errorf("Structure mismatch: got %d, want %d", got.Structure, s.Structure)
	}
	if got.Payload != s.Payload {
		t.Errorf("Payload mismatch: got %v, want %v", got.Payload, s.Payload)
	}
}

func TestSACCH_EncodeDecode_AllZero(t *testing.T) {
	frame := EncodeSACCH(SACCH{})
	got, err := DecodeSACCH(frame)
	if err != nil {
		t.Fatalf("DecodeSACCH: %v", err)
	}
	if got.RAN != 0 || got.Structure != 0 || got.Payload != ([3]byte{}) {
		t.Errorf("expected all-zero round trip, got %+v", got)
	}
}

func TestSACCH_Decode_CRCMismatch(t *testing.T) {
	frame := EncodeSACCH(SACCH{RAN: 0x3F, Structure: 0x01})
	frame[3] ^= 0xFF
	if _, err := DecodeSACCH(frame); err == nil {
		t.Errorf("expected CRC mismatch error on corrupted frame")
	}
}
