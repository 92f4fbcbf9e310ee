package dmr

import (
	"github.com/DVMProject/dvmhost-sub010/pkg/bits"
	"github.com/DVMProject/dvmhost-sub010/pkg/bptc19696"
	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// DataType distinguishes the framing a full link control payload is
// carried in, since the CRC mask FullLC XORs over the RS parity bytes
// differs per slot type.
type DataType byte

const (
	DataTypeVoiceLCHeader    DataType = 0x01
	DataTypeTerminatorWithLC DataType = 0x02
)

// These masks are standard DMR air-interface constants (every
// MMDVMHost-lineage implementation XORs the RS(12,9) parity with one of
// them before transmission, so a plain zero-filled parity never appears
// on air), not something this module invented.
var (
	voiceLCHeaderCRCMask    = [3]byte{0x96, 0x96, 0x96}
	terminatorWithLCCRCMask = [3]byte{0x99, 0x99, 0x99}
	piHeaderCRCMask         = [2]byte{0x69, 0x69}
)

const lcHeaderLengthBytes = 12

// DecodeFullLC recovers an LC from a 196-bit BPTC-encoded full link
// control frame, checking the RS(12,9) parity after undoing the
// per-DataType CRC mask.
func DecodeFullLC(frame *bits.BitArray, dt DataType) (LC, error) {
	payload, ok := bptc19696.Decode(frame)
	if !ok {
		return LC{}, core.ErrFecUncorrectable
	}

	var word [12]byte
	copy(word[:], payload.Bytes())

	mask, err := crcMaskFor(dt)
	if err != nil {
		return LC{}, err
	}
	word[9] ^= mask[0]
	word[10] ^= mask[1]
	word[11] ^= mask[2]

	if !edac.CheckRS129(word) {
		return LC{}, core.ErrCRCMismatch
	}

	return Decode(word[:9]), nil
}

// EncodeFullLC computes the RS(12,9) parity for lc, masks it per dt, and
// BPTC(196,96)-encodes the result into a 196-bit frame.
func EncodeFullLC(lc LC, dt DataType) (*bits.BitArray, error) {
	var data9 [9]byte
	copy(data9[:], lc.Encode())

	word := edac.EncodeRS129(data9)

	mask, err := crcMaskFor(dt)
	if err != nil {
		return nil, err
	}
	word[9] ^= mask[0]
	word[10] ^= mask[1]
	word[11] ^= mask[2]

	payload := bits.WrapBitArray(word[:], 96)
	return bptc19696.Encode(payload), nil
}

func crcMaskFor(dt DataType) ([3]byte, error) {
	switch dt {
	case DataTypeVoiceLCHeader:
		return voiceLCHeaderCRCMask, nil
	case DataTypeTerminatorWithLC:
		return terminatorWithLCCRCMask, nil
	default:
		return [3]byte{}, core.ErrUnknownOpcode
	}
}
