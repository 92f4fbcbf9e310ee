package dmr

import "testing"

func TestCACH_EncodeDecode_RoundTrip(t *testing.T) {
	for _, c := range []CACH{
		{AccessType: true, LCSS: LCSSFirstFragment, SlotNo: 1},
		{AccessType: false, LCSS: LCSSContinuation, SlotNo: 2},
		{AccessType: true, LCSS: LCSSLastFragment, SlotNo: 2},
	} {
		got := DecodeCACH(c.Encode())
		if got != c {
			t.Errorf("round trip mismatch: got %+v, want %+v", got, c)
		}
	}
}
