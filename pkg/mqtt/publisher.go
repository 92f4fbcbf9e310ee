package mqtt

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/DVMProject/dvmhost-sub010/pkg/config"
	"github.com/DVMProject/dvmhost-sub010/pkg/logger"
)

// Publisher publishes call/frame lifecycle events to an MQTT broker
// over github.com/eclipse/paho.mqtt.golang, the way the teacher's
// network-event publisher did, re-targeted at this gateway's
// voice-call domain instead of DMR peer/bridge events.
type Publisher struct {
	cfg    config.MQTTConfig
	log    *logger.Logger
	client paho.Client
}

// CallStartEvent is published when a voice call begins.
type CallStartEvent struct {
	Protocol  string    `json:"protocol"`
	SrcID     uint32    `json:"src_id"`
	DstID     uint32    `json:"dst_id"`
	GroupCall bool      `json:"group_call"`
	Timestamp time.Time `json:"timestamp"`
}

// CallEndEvent is published when a voice call ends.
type CallEndEvent struct {
	Protocol  string    `json:"protocol"`
	SrcID     uint32    `json:"src_id"`
	DstID     uint32    `json:"dst_id"`
	BER       float64   `json:"ber"`
	Timestamp time.Time `json:"timestamp"`
}

// FrameQueueEvent is published when the outbound frame queue empties
// or fills, useful for dashboard/alerting consumers.
type FrameQueueEvent struct {
	Protocol  string    `json:"protocol"`
	Depth     int       `json:"depth"`
	Capacity  int       `json:"capacity"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates an MQTT publisher. The paho client itself is constructed
// but not connected until Start is called.
func New(cfg config.MQTTConfig, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &Publisher{
		cfg: cfg,
		log: log.WithComponent("mqtt"),
	}
}

// Start connects the publisher to its configured broker.
func (p *Publisher) Start() error {
	if !p.cfg.Enabled {
		p.log.Info("MQTT publisher disabled")
		return nil
	}

	opts := paho.NewClientOptions().
		AddBroker(p.cfg.Broker).
		SetClientID(p.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
		opts.SetPassword(p.cfg.Password)
	}

	p.client = paho.NewClient(opts)

	p.log.Info("Connecting to MQTT broker",
		logger.String("broker", p.cfg.Broker),
		logger.String("client_id", p.cfg.ClientID))

	token := p.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return nil
}

// Stop disconnects the publisher from its broker.
func (p *Publisher) Stop() {
	if p.client != nil && p.client.IsConnected() {
		p.log.Info("Disconnecting MQTT publisher")
		p.client.Disconnect(250)
	}
}

// PublishCallStart publishes a CallStartEvent.
func (p *Publisher) PublishCallStart(event CallStartEvent) error {
	return p.publish(p.formatTopic("calls/start"), event)
}

// PublishCallEnd publishes a CallEndEvent.
func (p *Publisher) PublishCallEnd(event CallEndEvent) error {
	return p.publish(p.formatTopic("calls/end"), event)
}

// PublishFrameQueue publishes a FrameQueueEvent.
func (p *Publisher) PublishFrameQueue(event FrameQueueEvent) error {
	return p.publish(p.formatTopic("queue"), event)
}

func (p *Publisher) publish(topic string, event interface{}) error {
	if !p.cfg.Enabled || p.client == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error("Failed to serialize event",
			logger.String("topic", topic),
			logger.Error(err))
		return err
	}

	token := p.client.Publish(topic, p.cfg.QoS, p.cfg.Retained, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		p.log.Error("Failed to publish event",
			logger.String("topic", topic),
			logger.Error(err))
		return err
	}
	return nil
}

func (p *Publisher) formatTopic(suffix string) string {
	prefix := strings.TrimSuffix(p.cfg.TopicPrefix, "/")
	if prefix == "" {
		return suffix
	}
	return fmt.Sprintf("%s/%s", prefix, suffix)
}
