package dmr

import "testing"

func TestLC_EncodeDecode_RoundTrip(t *testing.T) {
	lc := LC{
		FLCO:      FLCOGroup,
		FeatureID: 0x00,
		Emergency: true,
		DstID:     34000,
		SrcID:     5300208,
	}

	decoded := Decode(lc.Encode())

	if decoded.FLCO != lc.FLCO {
		t.Errorf("FLCO mismatch: got %d, want %d", decoded.FLCO, lc.FLCO)
	}
	if decoded.DstID != lc.DstID {
		t.Errorf("DstID mismatch: got %d, want %d", decoded.DstID, lc.DstID)
	}
	if decoded.SrcID != lc.SrcID {
		t.Errorf("SrcID mismatch: got %d, want %d", decoded.SrcID, lc.SrcID)
	}
	if !decoded.Emergency {
		t.Errorf("expected Emergency flag to survive round trip")
	}
}

func TestLC_GroupCallDerivedFromFLCO(t *testing.T) {
	lc := Decode(LC{FLCO: FLCOGroup, DstID: 1, SrcID: 2}.Encode())
	if !lc.GroupCall {
		t.Errorf("expected GroupCall true for FLCOGroup")
	}

	lc = Decode(LC{FLCO: FLCOPrivate, DstID: 1, SrcID: 2}.Encode())
	if lc.GroupCall {
		t.Errorf("expected GroupCall false for FLCOPrivate")
	}
}
