package dmr

import "testing"

func TestCSBK_EncodeDecode_RoundTrip(t *testing.T) {
	c := CSBK{
		CSBKO:     CSBKOPreamble,
		LastBlock: true,
		FID:       0x10,
	}
	payload := FromValue(0x0102030405060708)

	frame := EncodeCSBK(c, payload)

	decoded, decodedPayload, err := DecodeCSBK(frame)
	if err != nil {
		t.Fatalf("DecodeCSBK: %v", err)
	}
	if decoded.CSBKO != c.CSBKO {
		t.Errorf("CSBKO mismatch: got %d, want %d", decoded.CSBKO, c.CSBKO)
	}
	if !decoded.LastBlock {
		t.Errorf("expected LastBlock true")
	}
	if decoded.FID != c.FID {
		t.Errorf("FID mismatch: got %d, want %d", decoded.FID, c.FID)
	}
	if got := ToValue(decodedPayload); got != 0x0102030405060708 {
		t.Errorf("payload value mismatch: got %#x, want %#x", got, 0x0102030405060708)
	}
}

func TestCSBK_ToValueFromValue_RoundTrip(t *testing.T) {
	want := uint64(0xAABBCCDDEEFF0011)
	got := ToValue(FromValue(want))
	if got != want {
		t.Errorf("got %#x, want %#x", got, want)
	}
}

// TestCSBKCopyAnomaly asserts today's (anomalous) Copy behavior: the
// second assignment to Response silently overwrites the first, so the
// source CSBK's Reason value ends up in the copy's Response field and
// Response's own value is lost. This mirrors
// original_source/dmr/lc/CSBK.cpp's copy() exactly — see DESIGN.md Open
// Question #1.
func TestCSBKCopyAnomaly(t *testing.T) {
	src := CSBK{Response: 0x11, Reason: 0x22}

	got := src.Copy()

	if got.Response != src.Reason {
		t.Errorf("expected anomalous Copy to leave Response == Reason (%#x), got %#x", src.Reason, got.Response)
	}
	if got.Response == src.Response {
		t.Errorf("expected anomalous Copy to NOT preserve the original Response value")
	}
}

// TestCSBKCopyCorrectedBehavior documents the fix (Response and Reason
// each copied independently) without applying it — see
// TestCSBKCopyAnomaly and DESIGN.md Open Question #1 for why the
// anomaly is kept.
func TestCSBKCopyCorrectedBehavior(t *testing.T) {
	t.Skip("documents the corrected Copy behavior; the anomaly is intentionally preserved, see DESIGN.md")

	src := CSBK{Response: 0x11, Reason: 0x22}
	got := src.Copy()
	if got.Response != src.Response {
		t.Errorf("Response mismatch: got %#x, want %#x", got.Response, src.Response)
	}
	if got.Reason != src.Reason {
		t.Errorf("Reason mismatch: got %#x, want %#x", got.Reason, src.Reason)
	}
}
