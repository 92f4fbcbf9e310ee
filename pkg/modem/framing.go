package modem

import (
	"fmt"

	"github.com/DVMProject/dvmhost-sub010/pkg/core"
	"github.com/DVMProject/dvmhost-sub010/pkg/ringbuffer"
)

// rxState is the frame receive state machine spec.md §4.3 names:
// START -> LENGTH1 -> [LENGTH2] -> TYPE -> DATA -> START.
type rxState int

const (
	rxStart rxState = iota
	rxLength1
	rxLength2
	rxType
	rxData
)

const readScratchSize = 256

// frameReader incrementally assembles frames from a ModemPort, buffering
// bytes in a RingBuffer between port.Read calls the way the teacher's
// pkg/bridge packages buffer RF traffic ahead of processing it, so a
// short read never loses partial frame bytes.
type frameReader struct {
	port  core.ModemPort
	ring  *ringbuffer.RingBuffer
	state rxState

	length  int
	op      Opcode
	payload []byte
	scratch [readScratchSize]byte
}

func newFrameReader(port core.ModemPort) *frameReader {
	return &frameReader{
		port: port,
		ring: ringbuffer.New(4096),
	}
}

func (f *frameReader) nextByte() (byte, error) {
	var one [1]byte
	for f.ring.Len() == 0 {
		n, err := f.port.Read(f.scratch[:])
		if err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, core.ErrModemTimeout
		}
		if err := f.ring.AddData(f.scratch[:n]); err != nil {
			// Firmware is outpacing the host; drop the oldest bytes
			// rather than block, matching the overflow-tolerant read
			// path spec.md's concurrency model calls for.
			f.ring.Clear()
			_ = f.ring.AddData(f.scratch[:n])
		}
	}
	f.ring.GetData(one[:])
	return one[0], nil
}

// readFrame blocks until one complete frame is assembled, resynchronizing
// on an unexpected start byte per spec.md §4.3.
func (f *frameReader) readFrame() (Opcode, []byte, error) {
	f.state = rxStart
	for {
		switch f.state {
		case rxStart:
			b, err := f.nextByte()
			if err != nil {
				return 0, nil, err
			}
			if b != frameStart {
				continue // resynchronize: discard and keep scanning
			}
			f.state = rxLength1

		case rxLength1:
			b, err := f.nextByte()
			if err != nil {
				f.state = rxStart
				return 0, nil, err
			}
			if b == 0 {
				f.state = rxLength2
				continue
			}
			f.length = int(b)
			f.state = rxType

		case rxLength2:
			b, err := f.nextByte()
			if err != nil {
				f.state = rxStart
				return 0, nil, err
			}
			f.length = int(b)
			f.state = rxType

		case rxType:
			b, err := f.nextByte()
			if err != nil {
				f.state = rxStart
				return 0, nil, err
			}
			if f.length >= 250 {
				f.state = rxStart
				return 0, nil, fmt.Errorf("modem: malformed frame length %d", f.length)
			}
			f.op = Opcode(b)
			// length includes the 0xFE/LEN/CMD header bytes already
			// consumed; the remaining payload is length - headerLen.
			headerLen := 3
			if f.length < headerLen {
				f.state = rxStart
				return 0, nil, core.ErrParseTooShort
			}
			f.payload = make([]byte, f.length-headerLen)
			if len(f.payload) == 0 {
				f.state = rxStart
				return f.op, f.payload, nil
			}
			f.state = rxData

		case rxData:
			for i := range f.payload {
				b, err := f.nextByte()
				if err != nil {
					f.state = rxStart
					return 0, nil, err
				}
				f.payload[i] = b
			}
			f.state = rxStart
			return f.op, f.payload, nil
		}
	}
}

// writeFrame writes a single command/response frame in the single- or
// double-length form spec.md §4.3 describes.
func (m *ModemLink) writeFrame(op Opcode, payload []byte) error {
	headerLen := 3
	total := headerLen + len(payload)

	var buf []byte
	if total < 255 {
		buf = make([]byte, 0, total)
		buf = append(buf, frameStart, byte(total), byte(op))
	} else {
		headerLen = 4
		total = headerLen + len(payload)
		buf = make([]byte, 0, total)
		buf = append(buf, frameStart, 0x00, byte(total), byte(op))
	}
	buf = append(buf, payload...)

	_, err := m.port.Write(buf)
	return err
}

// readFrame lazily creates the ModemLink's frameReader and reads one
// frame from the port.
func (m *ModemLink) readFrame() (Opcode, []byte, error) {
	if m.reader == nil {
		m.reader = newFrameReader(m.port)
	}
	return m.reader.readFrame()
}
