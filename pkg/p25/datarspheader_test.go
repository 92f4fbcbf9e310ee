package p25

import "testing"

func TestDataRspHeader_EncodeDecode_RoundTrip(t *testing.T) {
	h := DataRspHeader{
		Outbound:       true,
		RspClass:       AckClassNACK,
		RspType:        AckTypeNACKIllegal,
		RspStatus:      0x05,
		MFId:           0x90,
		LLId:           0x0A0B0C,
		Extended:       true,
		BlocksToFollow: 1,
		SrcLLId:        0x010203,
	}

	frame := EncodeDataRspHeader(h)
	got, err := DecodeDataRspHeader(frame)
	if err != nil {
		t.Fatalf("DecodeDataRspHeader: %v", err)
	}

	if got != h {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
	if got := h.DataOctets(); got != 16*1-4 {
		t.Errorf("DataOctets mismatch: got %d, want %d", got, 16*1-4)
	}
}
