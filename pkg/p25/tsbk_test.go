package p25

import "testing"

func TestTSBK_EncodeDecode_RoundTrip(t *testing.T) {
	tsbk := TSBK{
		LCO:       TSBKOGrpVChGrant,
		LastBlock: true,
		MFId:      0x90,
	}
	payload := make([]byte, tsbkLengthBytes)
	payload[2] = 0xAB
	payload[3] = 0xCD

	frame := EncodeTSBK(tsbk, payload)

	got, rawPayload, err := DecodeTSBK(frame)
	if err != nil {
		t.Fatalf("DecodeTSBK: %v", err)
	}
	if got.LCO != tsbk.LCO {
		t.Errorf("LCO mismatch: got %#x, want %#x", got.LCO, tsbk.LCO)
	}
	if !got.LastBlock {
		t.Errorf("expected LastBlock true")
	}
	if got.MFId != tsbk.MFId {
		t.Errorf("MFId mismatch: got %#x, want %#x", got.MFId, tsbk.MFId)
	}
	if rawPayload[2] != 0xAB || rawPayload[3] != 0xCD {
		t.Errorf("payload bytes mismatch: got %#x %#x", rawPayload[2], rawPayload[3])
	}
}
