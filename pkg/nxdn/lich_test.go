package nxdn

import "testing"

func TestLICH_EncodeDecode_RoundTrip(t *testing.T) {
	var l LICH
	l.SetRFCT(LICHRFCTRCCH)
	l.SetFCT(LICHCACOutbound)
	l.SetOption(LICHDataNormal)
	l.SetDirection(LICHDirectionOutbound)

	frame := make([]byte, 1)
	l.Encode(frame)

	var got LICH
	if ok := got.Decode(frame); !ok {
		t.Fatalf("Decode: parity check failed on a freshly encoded LICH")
	}
	if got.RFCT != l.RFCT || got.FCT != l.FCT || got.Option != l.Option || got.Direction != l.Direction {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, l)
	}
}

func TestLICH_Decode_ParityMismatch(t *testing.T) {
	var l LICH
	l.SetRFCT(LICHRFCTRCCH)
	l.SetDirection(LICHDirectionOutbound)

	frame := make([]byte, 1)
	l.Encode(frame)
	frame[0] ^= 0x10 // flip a content bit without fixing parity

	var got LICH
	if ok := got.Decode(frame); ok {
		t.Errorf("expected parity check to fail on corrupted LICH byte")
	}
}
