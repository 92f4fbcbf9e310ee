package dmr

import "testing"

func TestEmbeddedData_SetLC_AddData_RoundTrip(t *testing.T) {
	var payload [72]bool
	for i := range payload {
		payload[i] = i%3 == 0
	}
	// The decoded FLCO is read back out of the payload's first 8 bits
	// (the real DMR LC layout embeds FLCO there too), so the expected
	// FLCO for this test must match what those bits actually encode:
	// 0x05 = 0b00000101.
	const flco = 0x05
	for i := 0; i < 8; i++ {
		payload[i] = flco&(1<<(7-i)) != 0
	}

	var enc EmbeddedData
	enc.SetLC(flco, payload)

	var dec EmbeddedData
	for n := 1; n <= 4; n++ {
		frag, lcss := enc.GetData(n)
		complete := dec.AddData(frag, lcss)
		if n < 4 && complete {
			t.Fatalf("assembly completed early at fragment %d", n)
		}
		if n == 4 && !complete {
			t.Fatalf("expected assembly to complete on the 4th fragment")
		}
	}

	if !dec.Valid() {
		t.Fatalf("expected decoded EmbeddedData to be valid")
	}
	if dec.FLCO() != flco {
		t.Errorf("FLCO mismatch: got %#x, want %#x", dec.FLCO(), flco)
	}
	if dec.data != enc.data {
		t.Errorf("payload mismatch after round trip")
	}
}

func TestEmbeddedData_AddData_OutOfOrderContinuationIgnored(t *testing.T) {
	var e EmbeddedData
	// A continuation fragment with no preceding first fragment must not
	// advance the state machine or be mistaken for a complete assembly.
	complete := e.AddData([5]byte{}, LCSSContinuation)
	if complete {
		t.Fatalf("expected out-of-order continuation fragment to be ignored")
	}
	if e.Valid() {
		t.Fatalf("expected no valid LC from an ignored fragment")
	}
}

func TestEmbeddedData_Reset_ClearsState(t *testing.T) {
	var payload [72]bool
	var e EmbeddedData
	e.SetLC(0x01, payload)
	e.Reset()

	if e.Valid() {
		t.Fatalf("expected Reset to clear Valid")
	}
}
