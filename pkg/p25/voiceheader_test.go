package p25

import "testing"

func TestHDU_EncodeDecode_RoundTrip(t *testing.T) {
	lc := LC{
		MI:    [9]byte{1, 2, 3, 4, 5, 6, 7, 8, 9},
		AlgID: 0xAA,
		KeyID: 0x1234,
	}

	frame := EncodeHDU(lc)
	got, err := DecodeHDU(frame)
	if err != nil {
		t.Fatalf("DecodeHDU: %v", err)
	}
	if got.MI != lc.MI {
		t.Errorf("MI mismatch: got %v, want %v", got.MI, lc.MI)
	}
	if got.AlgID != lc.AlgID {
		t.Errorf("AlgID mismatch: got %#x, want %#x", got.AlgID, lc.AlgID)
	}
	if got.KeyID != lc.KeyID {
		t.Errorf("KeyID mismatch: got %#x, want %#x", got.KeyID, lc.KeyID)
	}
}

func TestLDU1LC_EncodeDecode_RoundTrip(t *testing.T) {
	lc := LC{
		LCO:       LCOGroup,
		MFId:      0x90,
		DstID:     0x00ABCD,
		SrcID:     0x001234,
		Emergency: true,
		Priority:  4,
	}

	frame := EncodeLDU1LC(lc)
	got, err := DecodeLDU1LC(frame)
	if err != nil {
		t.Fatalf("DecodeLDU1LC: %v", err)
	}
	if got.LCO != lc.LCO || got.MFId != lc.MFId || got.DstID != lc.DstID || got.SrcID != lc.SrcID {
		t.Errorf("LC mismatch: got %+v, want %+v", got, lc)
	}
	if !got.Emergency {
		t.Errorf("expected Emergency true")
	}
	if got.Priority != lc.Priority {
		t.Errorf("Priority mismatch: got %d, want %d", got.Priority, lc.Priority)
	}
	if !got.Group {
		t.Errorf("expected Group derived true for LCOGroup")
	}
}

func TestTDULC_EncodeDecode_RoundTrip(t *testing.T) {
	lc := LC{LCO: LCOGroup, DstID: 42, SrcID: 7}

	frame := EncodeTDULC(lc)
	got, err := DecodeTDULC(frame)
	if err != nil {
		t.Fatalf("DecodeTDULC: %v", err)
	}
	if got.DstID != lc.DstID || got.SrcID != lc.SrcID {
		t.Errorf("mismatch: got %+v, want %+v", got, lc)
	}
}

func TestLDU2MI_EncodeDecode_RoundTrip(t *testing.T) {
	mi := [9]byte{0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77, 0x88, 0x99}

	frame := EncodeLDU2MI(mi)
	got, err := DecodeLDU2MI(frame)
	if err != nil {
		t.Fatalf("DecodeLDU2MI: %v", err)
	}
	if got != mi {
		t.Errorf("MI mismatch: got %v, want %v", got, mi)
	}
}
