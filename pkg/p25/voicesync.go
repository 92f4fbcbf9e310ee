package p25

// imbeSubframeOffsets are the nine IMBE voice subframe byte offsets
// within an LDU1/LDU2 payload, grounded on
// original_source/src/p25/packet/Voice.cpp's insertNullAudio/
// insertEncryptedNullAudio, which test data[0,25,50,75,100,125,150,175,200]
// for an all-zero subframe before patching in silence.
var imbeSubframeOffsets = [9]int{0, 25, 50, 75, 100, 125, 150, 175, 200}

// imbeSubframeLen is the subframe's voice-payload length following the
// zero-check byte (the 11 bytes Voice.cpp's memcpy writes per subframe).
const imbeSubframeLen = 11

// MissingSubframes reports which of an LDU1/LDU2 payload's nine IMBE
// subframes are present (non-zero leading byte) versus missing,
// mirroring Voice.cpp's per-offset zero check used to decide where
// silence needs to be patched in.
func MissingSubframes(data []byte) [9]bool {
	var missing [9]bool
	for i, off := range imbeSubframeOffsets {
		if off >= len(data) {
			missing[i] = true
			continue
		}
		missing[i] = data[off] == 0x00
	}
	return missing
}

// InsertSilence fills every missing IMBE subframe in data with fill
// (the 11-byte silence/null pattern to substitute), mirroring
// Voice.cpp's insertNullAudio/insertEncryptedNullAudio. The exact
// P25_NULL_IMBE/P25_ENCRYPTED_NULL_IMBE byte values were never
// retrieved (no P25Defines.h in the pack), so callers supply fill
// explicitly instead of this package guessing the on-air silence
// pattern — see DESIGN.md.
func InsertSilence(data []byte, fill [imbeSubframeLen]byte) {
	missing := MissingSubframes(data)
	for i, m := range missing {
		if !m {
			continue
		}
		off := imbeSubframeOffsets[i]
		start := off + 1
		end := start + imbeSubframeLen
		if end > len(data) {
			continue
		}
		copy(data[start:end], fill[:])
	}
}

// NextMI derives the next call's Message Indicator from lastMI via the
// 64-cycle Galois LFSR original_source/src/p25/packet/Voice.cpp's
// getNextMI runs. Faithfully reproduced including the original's own
// gap: the inner shift loop only ever touches lastMI[0:7], so byte
// index 8 of the 9-byte MI is carried through unchanged by this LFSR,
// not a bug introduced in this port.
func NextMI(lastMI [9]byte) [9]byte {
	next := lastMI
	for cycle := 0; cycle < 64; cycle++ {
		carry := ((next[0] >> 7) ^ (next[0] >> 5) ^ (next[2] >> 5) ^
			(next[3] >> 5) ^ (next[4] >> 2) ^ (next[6] >> 6)) & 0x01

		var i int
		for i = 0; i < 7; i++ {
			next[i] = ((next[i] & 0x7F) << 1) | (next[i+1] >> 7)
		}
		next[7] = ((next[i] & 0x7F) << 1) | carry
	}
	return next
}
