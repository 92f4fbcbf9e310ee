package dmr

import "github.com/DVMProject/dvmhost-sub010/pkg/bits"

// CACH is DMR's Common Announcement Channel: the 24-bit burst
// transmitted ahead of every Tier II/III TDMA slot carrying the access
// type, this slot's LCSS value (so a receiver can track the embedded-LC
// assembler across a slot change), and which of the two slots this CACH
// describes.
//
// The exact bit-for-bit CACH layout wasn't present in the retrieved
// source pack (no CACH.cpp/.h was recovered); this follows the field
// set ETSI TS 102 361-1 §9.1.2 defines (AT, LCSS, slot number) packed
// into the 24-bit burst MSB-first, with no additional FEC beyond the
// slot's own sync correction.
type CACH struct {
	AccessType bool // true: channel access permitted
	LCSS       LCSS
	SlotNo     byte // 1 or 2 — which logical slot this CACH precedes
}

// DecodeCACH unpacks a 24-bit CACH burst.
func DecodeCACH(raw *bits.BitArray) CACH {
	var c CACH
	c.AccessType = raw.GetBit(0)
	c.LCSS = LCSS(raw.GetBitsBE(1, 2))
	if raw.GetBit(3) {
		c.SlotNo = 2
	} else {
		c.SlotNo = 1
	}
	return c
}

// Encode packs a CACH back into its 24-bit burst form.
func (c CACH) Encode() *bits.BitArray {
	out := bits.NewBitArray(24)
	out.SetBit(0, c.AccessType)
	out.SetBitsBE(1, 2, uint32(c.LCSS))
	out.SetBit(3, c.SlotNo == 2)
	return out
}
