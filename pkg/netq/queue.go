package netq

import (
	"sync"

	"github.com/DVMProject/dvmhost-sub010/pkg/edac"
)

// streamState tracks the monotonic sequence number and RTP timestamp
// for one in-progress stream, mirroring the teacher's StreamTracker
// per-stream bookkeeping but keyed on outbound framing state instead of
// loop-prevention.
type streamState struct {
	sequence  uint16
	timestamp uint32
}

// FrameQueue assembles outbound peer traffic into RTP+extension+FNE
// framed datagrams, one sequence/timestamp counter per active stream.
type FrameQueue struct {
	mu      sync.Mutex
	peerID  uint32
	streams map[uint32]*streamState
}

// New creates a FrameQueue that stamps outgoing frames with peerID as
// the RTP SSRC and FNE peer ID.
func New(peerID uint32) *FrameQueue {
	return &FrameQueue{
		peerID:  peerID,
		streams: make(map[uint32]*streamState),
	}
}

// Enqueue builds the next framed datagram for streamID, advancing that
// stream's sequence number and timestamp. function/subFunction are
// carried through verbatim in the FNE header for the receiver to
// dispatch on.
func (q *FrameQueue) Enqueue(streamID uint32, payloadType byte, function, subFunction byte, payload []byte) []byte {
	q.mu.Lock()
	st, ok := q.streams[streamID]
	if !ok {
		st = &streamState{}
		q.streams[streamID] = st
	}
	seq := st.sequence
	ts := st.timestamp
	st.sequence++
	st.timestamp += timestampStep
	q.mu.Unlock()

	f := Frame{
		PayloadType: payloadType,
		Sequence:    seq,
		Timestamp:   ts,
		SSRC:        q.peerID,
		FNE: FNEHeader{
			CRC:           edac.CRC16CCITT(payload),
			StreamID:      streamID,
			PeerID:        q.peerID,
			MessageLength: uint32(len(payload)),
			Function:      function,
			SubFunction:   subFunction,
		},
		Payload: payload,
	}
	return f.Encode()
}

// EndOfCall builds the final framed datagram for streamID, stamped
// with EndOfCallSeq, and forgets the stream's counters.
func (q *FrameQueue) EndOfCall(streamID uint32, payloadType byte, function, subFunction byte, payload []byte) []byte {
	q.mu.Lock()
	st, ok := q.streams[streamID]
	ts := uint32(0)
	if ok {
		ts = st.timestamp
	}
	delete(q.streams, streamID)
	q.mu.Unlock()

	f := Frame{
		PayloadType: payloadType,
		Sequence:    EndOfCallSeq,
		Timestamp:   ts,
		SSRC:        q.peerID,
		FNE: FNEHeader{
			CRC:           edac.CRC16CCITT(payload),
			StreamID:      streamID,
			PeerID:        q.peerID,
			MessageLength: uint32(len(payload)),
			Function:      function,
			SubFunction:   subFunction,
		},
		Payload: payload,
	}
	return f.Encode()
}

// Reset discards a stream's sequence/timestamp state without emitting
// an end-of-call frame, used when a call is abandoned rather than
// terminated cleanly.
func (q *FrameQueue) Reset(streamID uint32) {
	q.mu.Lock()
	delete(q.streams, streamID)
	q.mu.Unlock()
}

// ActiveStreams reports how many streams currently hold sequence state.
func (q *FrameQueue) ActiveStreams() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.streams)
}
