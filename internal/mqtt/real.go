package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/sweeney/charge-indicator/internal/events"
)

// bufferCapacity bounds the number of messages held while disconnected.
const bufferCapacity = 64

// RealClient publishes to and subscribes from an actual MQTT broker.
// Charge events published while the connection is down are buffered and
// replayed on reconnect; battery state reports arriving on TopicBattery are
// parsed and republished on the internal bus.
type RealClient struct {
	client paho.Client

	mu     sync.Mutex
	buffer *ringBuffer
}

// connectTimeout bounds how long the constructor waits for the first
// connection before giving up.
const connectTimeout = 10 * time.Second

// NewRealClient connects to the given broker. bus may be nil to skip the
// battery subscription (print-state mode).
func NewRealClient(broker string, bus *events.Bus) (*RealClient, error) {
	return newRealClient(broker, bus, connectTimeout)
}

func newRealClient(broker string, bus *events.Bus, timeout time.Duration) (*RealClient, error) {
	c := &RealClient{buffer: newRingBuffer(bufferCapacity)}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("charge-indicator").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectTimeout(timeout).
		SetOnConnectHandler(func(client paho.Client) {
			if bus != nil {
				c.subscribeBattery(client, bus)
			}
			c.replayBuffered(client)
		})

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(timeout) {
		// Stop the retry loop. An abandoned client left retrying would
		// eventually connect, run the OnConnect side effects, and steal
		// the battery subscription from a daemon that thinks MQTT is off.
		c.client.Disconnect(0)
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		c.client.Disconnect(0)
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return c, nil
}

// subscribeBattery installs the battery topic handler. Re-run on every
// reconnect since the session is not persisted.
func (c *RealClient) subscribeBattery(client paho.Client, bus *events.Bus) {
	token := client.Subscribe(TopicBattery, 0, func(_ paho.Client, msg paho.Message) {
		pct, ok := ParseBatteryPayload(msg.Payload())
		if !ok {
			// Malformed reports are expected noise, not errors.
			return
		}
		bus.PublishBatteryLevel(events.BatteryLevelChanged{Percent: pct})
	})
	if !token.WaitTimeout(5 * time.Second) {
		log.Printf("mqtt: battery subscribe timeout")
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("mqtt: battery subscribe failed: %v", err)
	}
}

// replayBuffered publishes everything queued while disconnected.
func (c *RealClient) replayBuffered(client paho.Client) {
	c.mu.Lock()
	msgs := c.buffer.drainAll()
	c.mu.Unlock()

	if len(msgs) == 0 {
		return
	}
	log.Printf("mqtt: replaying %d buffered messages", len(msgs))
	for _, m := range msgs {
		token := client.Publish(m.topic, m.qos, m.retained, m.payload)
		if !token.WaitTimeout(5 * time.Second) {
			log.Printf("mqtt: replay timeout on %s", m.topic)
		}
	}
}

// publish sends a message or buffers it while disconnected.
func (c *RealClient) publish(topic string, qos byte, retained bool, payload []byte) error {
	if !c.client.IsConnected() {
		c.mu.Lock()
		c.buffer.push(bufferedMsg{topic: topic, payload: payload, qos: qos, retained: retained})
		n := c.buffer.len()
		c.mu.Unlock()
		log.Printf("mqtt: disconnected, buffered message for %s (%d queued)", topic, n)
		return nil
	}

	token := c.client.Publish(topic, qos, retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishCharging sends a charging transition to the MQTT broker.
func (c *RealClient) PublishCharging(event ChargeEvent) error {
	payload, err := FormatPayload(event)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	// QoS 0 (at-most-once); the retained copy lets late subscribers see
	// the current state.
	return c.publish(Topic, 0, true, payload)
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (c *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	// QoS 1 (at-least-once) so shutdown events are not lost.
	return c.publish(TopicSystem, 1, event.Retained, payload)
}

// IsConnected reports whether the broker connection is up.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnected()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
