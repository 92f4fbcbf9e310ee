package nxdn

import "testing"

func TestRCCH_EncodeDecode_RoundTrip(t *testing.T) {
	var r RCCH
	r.MessageType = RCCHMessageTypeSiteInfo
	r.Content[0] = true
	r.Content[40] = true
	r.Content[87] = true

	buffer := EncodeRCCH(r)
	got := DecodeRCCH(buffer)

	if got.MessageType != r.MessageType {
		t.Errorf("MessageType mismatch: got %#x, want %#x", got.MessageType, r.MessageType)
	}
	if got.Content != r.Content {
		t.Errorf("Content mismatch: got %v, want %v", got.Content, r.Content)
	}
}

func TestRCCH_ThroughCAC_RoundTrip(t *testing.T) {
	r := RCCH{MessageType: RCCHMessageTypeSrvInfo}
	r.Content[10] = true

	c := CAC{RAN: 0x12, Structure: StructureRCCHSingle, Payload: EncodeRCCH(r)}
	frame := EncodeCAC(c)

	decoded, err := DecodeCAC(frame)
	if err != nil {
		t.Fatalf("DecodeCAC: %v", err)
	}
	got := DecodeRCCH(decoded.Payload)
	if got.MessageType != r.MessageType {
		t.Errorf("MessageType mismatch: got %#x, want %#x", got.MessageType, r.MessageType)
	}
	if got.Content != r.Content {
		t.Errorf("Content mismatch: got %v, want %v", got.Content, r.Content)
	}
}
