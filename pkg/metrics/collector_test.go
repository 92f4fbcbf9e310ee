package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCollector(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())
	if collector == nil {
		t.Fatal("Expected non-nil collector")
	}
}

func TestCollector_CallMetrics(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	collector.CallStarted("DMR", 312000)
	if total := collector.GetCallsTotal("DMR"); total < 1 {
		t.Errorf("Expected at least 1 total call, got %d", total)
	}
	if active := collector.GetActiveCalls(); active < 1 {
		t.Error("Expected at least 1 active call")
	}

	collector.CallEnded(312000)
	if active := collector.GetActiveCalls(); active > 0 {
		t.Error("Expected 0 active calls after call ended")
	}
}

func TestCollector_FrameMetrics(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	collector.FrameReceived("P25")
	collector.FrameReceived("P25")
	collector.FrameSent("P25")

	if got := collector.GetFramesReceived("P25"); got != 2 {
		t.Errorf("expected 2 frames received, got %d", got)
	}
	if got := collector.GetFramesSent("P25"); got != 1 {
		t.Errorf("expected 1 frame sent, got %d", got)
	}
}

func TestCollector_BEREverage(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	collector.BERObserved("NXDN", 1.0)
	collector.BERObserved("NXDN", 3.0)

	if got := collector.GetAverageBER("NXDN"); got != 2.0 {
		t.Errorf("expected average BER 2.0, got %v", got)
	}
}

func TestCollector_Reset(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	collector.CallStarted("DMR", 312000)
	collector.Reset()

	if collector.GetActiveCalls() != 0 {
		t.Error("Expected active calls to be 0 after reset")
	}
}

func TestCollector_Concurrent(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(id int) {
			collector.CallStarted("DMR", uint32(312000+id))
			collector.FrameReceived("DMR")
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	if collector.GetFramesReceived("DMR") < 10 {
		t.Error("Expected at least 10 received frames")
	}
}
