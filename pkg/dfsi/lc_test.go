package dfsi

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/DVMProject/dvmhost-sub010/pkg/p25"
)

func testIMBE() [9][imbeLength]byte {
	var imbe [9][imbeLength]byte
	for i := range imbe {
		for j := range imbe[i] {
			imbe[i][j] = byte(i*imbeLength + j)
		}
	}
	return imbe
}

func TestAssembler_LDU1_RoundTrip(t *testing.T) {
	lc := p25.LC{
		LCO:       p25.LCOGroup,
		MFId:      0x01,
		DstID:     34000,
		SrcID:     5300208,
		Group:     true,
		Emergency: true,
		Priority:  3,
	}
	lsd := LSD{LSD1: 0xAA, LSD2: 0xBB}
	imbe := testIMBE()

	records := EncodeLDU1(lc, lsd, 0x42, imbe)

	var a Assembler
	for i, data := range records {
		idx, err := a.DecodeLDU1Voice(data)
		if err != nil {
			t.Fatalf("DecodeLDU1Voice(record %d): %v", i, err)
		}
		if idx != i {
			t.Fatalf("record %d decoded into slot %d", i, idx)
		}
	}

	if !a.Complete() {
		t.Fatal("assembler did not see all nine subframes")
	}
	if a.RSSI != 0x42 {
		t.Errorf("RSSI = %#x, want 0x42", a.RSSI)
	}
	if a.LSD != lsd {
		t.Errorf("LSD = %+v, want %+v", a.LSD, lsd)
	}
	if diff := cmp.Diff(a.IMBE(), imbe); diff != "" {
		t.Errorf("IMBE mismatch (-got +want):\n%s", diff)
	}

	// LC fields arrive split across Voice3/4/5; MI/AlgID/KeyID are an
	// LDU2-only concern and lc leaves them zero, so the whole struct
	// compares equal.
	want := lc
	if diff := cmp.Diff(a.LC, want); diff != "" {
		t.Errorf("LC mismatch (-got +want):\n%s", diff)
	}
}

func TestAssembler_LDU2_RoundTrip(t *testing.T) {
	lc := p25.LC{
		AlgID: 0x80,
		KeyID: 0x1234,
		MI:    [9]byte{1, 2, 3, 4, 5, 6, 7, 8, 9},
	}
	lsd := LSD{LSD1: 0x11, LSD2: 0x22}
	imbe := testIMBE()

	records := EncodeLDU2(lc, lsd, 0x55, imbe)

	var a Assembler
	for i, data := range records {
		idx, err := a.DecodeLDU2Voice(data)
		if err != nil {
			t.Fatalf("DecodeLDU2Voice(record %d): %v", i, err)
		}
		if idx != i {
			t.Fatalf("record %d decoded into slot %d", i, idx)
		}
	}

	if !a.Complete() {
		t.Fatal("assembler did not see all nine subframes")
	}
	if a.RSSI != 0x55 {
		t.Errorf("RSSI = %#x, want 0x55", a.RSSI)
	}
	if a.LSD != lsd {
		t.Errorf("LSD = %+v, want %+v", a.LSD, lsd)
	}
	if diff := cmp.Diff(a.IMBE(), imbe); diff != "" {
		t.Errorf("IMBE mismatch (-got +want):\n%s", diff)
	}
	if diff := cmp.Diff(a.LC, lc); diff != "" {
		t.Errorf("LC mismatch (-got +want):\n%s", diff)
	}
}

func TestAssembler_Reset(t *testing.T) {
	var a Assembler
	records := EncodeLDU1(p25.LC{SrcID: 1}, LSD{}, 0, testIMBE())
	if _, err := a.DecodeLDU1Voice(records[0]); err != nil {
		t.Fatalf("DecodeLDU1Voice: %v", err)
	}
	if a.Complete() {
		t.Fatal("assembler reported complete after a single record")
	}
	a.Reset()
	if a.Complete() {
		t.Fatal("assembler reported complete immediately after Reset")
	}
	if a.LC != (p25.LC{}) {
		t.Errorf("Reset left LC = %+v, want zero value", a.LC)
	}
}

func TestAssembler_DecodeLDU1Voice_TooShort(t *testing.T) {
	var a Assembler
	if _, err := a.DecodeLDU1Voice([]byte{byte(FrameLDU1Voice1)}); err == nil {
		t.Fatal("expected error decoding a truncated record")
	}
}

func TestAssembler_DecodeLDU1Voice_UnknownFrameType(t *testing.T) {
	var a Assembler
	if _, err := a.DecodeLDU1Voice([]byte{byte(FrameTSBK), 0, 0}); err == nil {
		t.Fatal("expected error decoding a non-LDU1 frame type")
	}
}

func TestStartStop_EncodeDecode_RoundTrip(t *testing.T) {
	s := StartStop{RTMode: RTModeEnabled, Control: StartFlag, Type: TypeVoice}
	data := s.Encode()

	var got StartStop
	if !got.Decode(data) {
		t.Fatal("Decode rejected a freshly encoded Start/Stop record")
	}
	if diff := cmp.Diff(got, s); diff != "" {
		t.Errorf("round trip mismatch (-got +want):\n%s", diff)
	}
}

func TestStartStop_Decode_RejectsWrongFrameType(t *testing.T) {
	var s StartStop
	data := make([]byte, RecordLength(FrameStartStop))
	data[0] = byte(FrameLDU1Voice1)
	if s.Decode(data) {
		t.Fatal("Decode accepted a non-StartStop frame type")
	}
}

func TestStartStop_Decode_RejectsTooShort(t *testing.T) {
	var s StartStop
	if s.Decode([]byte{byte(FrameStartStop), 0x02}) {
		t.Fatal("Decode accepted a truncated record")
	}
}
