package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/DVMProject/dvmhost-sub010/pkg/config"
)

func TestNewPublisher(t *testing.T) {
	cfg := config.MQTTConfig{
		Enabled:     true,
		Broker:      "tcp://localhost:1883",
		TopicPrefix: "dvmhost/test",
		ClientID:    "test-client",
		QoS:         1,
		Retained:    false,
	}

	pub := New(cfg, nil)
	if pub == nil {
		t.Fatal("Expected non-nil publisher")
	}
	if pub.cfg.Broker != cfg.Broker {
		t.Errorf("Expected broker %s, got %s", cfg.Broker, pub.cfg.Broker)
	}
}

func TestPublisher_StartWhenDisabled(t *testing.T) {
	pub := New(config.MQTTConfig{Enabled: false}, nil)

	if err := pub.Start(); err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
}

func TestPublisher_StopWithoutStart(t *testing.T) {
	pub := New(config.MQTTConfig{Enabled: false}, nil)
	pub.Stop() // should not panic
}

func TestPublisher_PublishWhenDisabled(t *testing.T) {
	pub := New(config.MQTTConfig{Enabled: false, TopicPrefix: "dvmhost/test"}, nil)

	if err := pub.PublishCallStart(CallStartEvent{Protocol: "DMR", SrcID: 312000, Timestamp: time.Now()}); err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
	if err := pub.PublishCallEnd(CallEndEvent{Protocol: "DMR", SrcID: 312000, Timestamp: time.Now()}); err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
	if err := pub.PublishFrameQueue(FrameQueueEvent{Protocol: "DMR", Depth: 1, Capacity: 10, Timestamp: time.Now()}); err != nil {
		t.Errorf("Expected no error when disabled, got %v", err)
	}
}

func TestTopicFormat(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		suffix   string
		expected string
	}{
		{"simple topic", "dvmhost", "calls/start", "dvmhost/calls/start"},
		{"trailing slash in prefix", "dvmhost/", "calls/start", "dvmhost/calls/start"},
		{"empty prefix", "", "calls/start", "calls/start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub := New(config.MQTTConfig{TopicPrefix: tt.prefix}, nil)
			if got := pub.formatTopic(tt.suffix); got != tt.expected {
				t.Errorf("Expected topic %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestEventSerialization(t *testing.T) {
	events := []interface{}{
		CallStartEvent{Protocol: "P25", SrcID: 123456, DstID: 3100, GroupCall: true, Timestamp: time.Now()},
		CallEndEvent{Protocol: "P25", SrcID: 123456, DstID: 3100, BER: 1.5, Timestamp: time.Now()},
		FrameQueueEvent{Protocol: "NXDN", Depth: 2, Capacity: 16, Timestamp: time.Now()},
	}

	for _, event := range events {
		if _, err := json.Marshal(event); err != nil {
			t.Errorf("failed to serialize %T: %v", event, err)
		}
	}
}
