package netq

import "testing"

func TestFrameQueue_SequenceMonotonic(t *testing.T) {
	q := New(312000)

	first := q.Enqueue(100, PayloadTypeVoice, 1, 0, []byte{0xAA})
	second := q.Enqueue(100, PayloadTypeVoice, 1, 0, []byte{0xBB})

	fFirst, err := Decode(first)
	if err != nil {
		t.Fatalf("Decode first failed: %v", err)
	}
	fSecond, err := Decode(second)
	if err != nil {
		t.Fatalf("Decode second failed: %v", err)
	}

	if fSecond.Sequence != fFirst.Sequence+1 {
		t.Errorf("expected monotonic sequence, got %d then %d", fFirst.Sequence, fSecond.Sequence)
	}
	if fSecond.Timestamp != fFirst.Timestamp+timestampStep {
		t.Errorf("expected timestamp to advance by %d, got %d then %d", timestampStep, fFirst.Timestamp, fSecond.Timestamp)
	}
}

func TestFrameQueue_IndependentStreams(t *testing.T) {
	q := New(1)

	a := q.Enqueue(1, PayloadTypeVoice, 0, 0, []byte{1})
	b := q.Enqueue(2, PayloadTypeVoice, 0, 0, []byte{2})

	fa, _ := Decode(a)
	fb, _ := Decode(b)

	if fa.Sequence != 0 || fb.Sequence != 0 {
		t.Errorf("expected both fresh streams to start at sequence 0, got %d and %d", fa.Sequence, fb.Sequence)
	}
	if q.ActiveStreams() != 2 {
		t.Errorf("expected 2 active streams, got %d", q.ActiveStreams())
	}
}

func TestFrameQueue_EndOfCall(t *testing.T) {
	q := New(1)
	q.Enqueue(5, PayloadTypeVoice, 0, 0, []byte{1})

	end := q.EndOfCall(5, PayloadTypeVoice, 0, 0, []byte{2})
	f, err := Decode(end)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if f.Sequence != EndOfCallSeq {
		t.Errorf("expected end-of-call sequence %d, got %d", EndOfCallSeq, f.Sequence)
	}
	if q.ActiveStreams() != 0 {
		t.Errorf("expected stream state cleared after EndOfCall, got %d active", q.ActiveStreams())
	}
}

func TestFrameQueue_Reset(t *testing.T) {
	q := New(1)
	q.Enqueue(7, PayloadTypeVoice, 0, 0, []byte{1})
	q.Reset(7)

	if q.ActiveStreams() != 0 {
		t.Errorf("expected stream state cleared after Reset, got %d active", q.ActiveStreams())
	}

	restarted := q.Enqueue(7, PayloadTypeVoice, 0, 0, []byte{1})
	f, _ := Decode(restarted)
	if f.Sequence != 0 {
		t.Errorf("expected sequence to restart at 0 after Reset, got %d", f.Sequence)
	}
}
