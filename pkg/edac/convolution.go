package edac

import "github.com/DVMProject/dvmhost-sub010/pkg/bits"

// Convolution implements the K=5 rate-1/2 Viterbi convolutional code
// spec.md §4.1 requires for NXDN's CAC, SACCH and RCCH channels: two
// generator polynomials g1=d+d3+d4, g2=d+d1+d2+d4 over a 4-bit shift
// register, decoded with a 16-state trellis (8 add-compare-select
// butterflies per step) and a state-shift chainback.
//
// Grounded on the teacher's YSFConvolution (pkg/ysf/convolution.go),
// itself a port of YSFConvolution.cpp from MMDVM_CM by Jonathan Naylor
// G4KLX; generalized here to a caller-supplied chainback length instead
// of YSF's fixed frame size, and built on pkg/bits instead of a private
// bit-mask table.
const (
	convNumStatesD2  = 8
	convNumStates    = 16
	convMetricMax    = 2
	convConstraintK  = 5
)

var (
	convBranchTable1 = []uint8{0, 0, 0, 0, 1, 1, 1, 1}
	convBranchTable2 = []uint8{0, 1, 1, 0, 0, 1, 1, 0}
)

// Viterbi is a K=5 rate-1/2 convolutional decoder. The zero value is not
// usable; construct with NewViterbi.
type Viterbi struct {
	metrics1   []uint16
	metrics2   []uint16
	oldMetrics []uint16
	newMetrics []uint16
	decisions  []uint64
	dp         int
}

// NewViterbi allocates a decoder sized for up to maxSymbolPairs decode
// steps before a Chainback is required.
func NewViterbi(maxSymbolPairs int) *Viterbi {
	return &Viterbi{
		metrics1:  make([]uint16, convNumStates),
		metrics2:  make([]uint16, convNumStates),
		decisions: make([]uint64, maxSymbolPairs),
	}
}

// Start resets the decoder to begin a new frame.
func (c *Viterbi) Start() {
	for i := range c.metrics1 {
		c.metrics1[i] = 0
		c.metrics2[i] = 0
	}
	c.oldMetrics = c.metrics1
	c.newMetrics = c.metrics2
	c.dp = 0
}

// Decode feeds one soft-decision symbol pair (s0, s1 each 0 or 1) through
// the add-compare-select trellis.
func (c *Viterbi) Decode(s0, s1 uint8) {
	if c.dp >= len(c.decisions) {
		return
	}
	c.decisions[c.dp] = 0

	for i := uint8(0); i < convNumStatesD2; i++ {
		j := i * 2
		metric := uint16((convBranchTable1[i] ^ s0) + (convBranchTable2[i] ^ s1))

		m0 := c.oldMetrics[i] + metric
		m1 := c.oldMetrics[i+convNumStatesD2] + (convMetricMax - metric)
		var decision0 uint8
		if m0 >= m1 {
			decision0 = 1
			c.newMetrics[j+0] = m1
		} else {
			decision0 = 0
			c.newMetrics[j+0] = m0
		}

		m0 = c.oldMetrics[i] + (convMetricMax - metric)
		m1 = c.oldMetrics[i+convNumStatesD2] + metric
		var decision1 uint8
		if m0 >= m1 {
			decision1 = 1
			c.newMetrics[j+1] = m1
		} else {
			decision1 = 0
			c.newMetrics[j+1] = m0
		}

		c.decisions[c.dp] |= (uint64(decision1) << (j + 1)) | (uint64(decision0) << j)
	}

	c.dp++
	c.oldMetrics, c.newMetrics = c.newMetrics, c.oldMetrics
}

// Chainback traces the surviving path back through the trellis and
// writes the nBits decoded bits into out, big-endian bit-indexed.
func (c *Viterbi) Chainback(out []byte, nBits uint) {
	state := uint32(0)
	for nBits > 0 {
		nBits--
		c.dp--
		if c.dp < 0 {
			break
		}
		i := state >> (9 - convConstraintK)
		bit := uint8(c.decisions[c.dp]>>i) & 1
		state = (uint32(bit) << 7) | (state >> 1)
		bits.WriteBit(out, nBits, bit != 0)
	}
}

// EncodeConvolution performs rate-1/2 K=5 convolutional encoding of
// nBits input bits into 2*nBits output bits.
func EncodeConvolution(in []byte, out []byte, nBits uint) {
	var d1, d2, d3, d4 uint8
	k := uint(0)
	for i := uint(0); i < nBits; i++ {
		var d uint8
		if bits.ReadBit(in, i) {
			d = 1
		}
		g1 := (d + d3 + d4) & 1
		g2 := (d + d1 + d2 + d4) & 1
		d4, d3, d2, d1 = d3, d2, d1, d

		bits.WriteBit(out, k, g1 != 0)
		k++
		bits.WriteBit(out, k, g2 != 0)
		k++
	}
}
