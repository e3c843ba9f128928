package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttTimeout = 2 * time.Second

// ErrBrokerUnavailable is returned when the broker connection is down
// at emit time. The snapshot is dropped; paho reconnects in the
// background.
var ErrBrokerUnavailable = errors.New("mqtt broker unavailable")

// MQTTCollector publishes snapshots to a broker topic at QoS 0.
type MQTTCollector struct {
	client mqtt.Client
	topic  string
}

// NewMQTTCollector connects to the broker and returns the collector.
func NewMQTTCollector(broker, topic, clientID string) (*MQTTCollector, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(mqttTimeout)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); !token.WaitTimeout(mqttTimeout) || token.Error() != nil {
		err := token.Error()
		if err == nil {
			err = ErrBrokerUnavailable
		}
		return nil, fmt.Errorf("connect mqtt broker %s: %w", broker, err)
	}

	return &MQTTCollector{client: client, topic: topic}, nil
}

// Emit publishes one snapshot. QoS 0: fire and forget.
func (c *MQTTCollector) Emit(_ context.Context, snap Snapshot) error {
	if !c.client.IsConnected() {
		return ErrBrokerUnavailable
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	token := c.client.Publish(c.topic, 0, false, payload)
	if !token.WaitTimeout(mqttTimeout) {
		return fmt.Errorf("publish to %s: timeout", c.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", c.topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (c *MQTTCollector) Close() error {
	c.client.Disconnect(uint(mqttTimeout.Milliseconds()))
	return nil
}
