// Package mqtt provides broker transport with abstraction for testing:
// charging transitions and system lifecycle events out, battery state
// reports in.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for charging transition events.
const Topic = "power/charge-indicator/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "power/charge-indicator/system"

// TopicBattery is the topic the battery service publishes state reports on.
const TopicBattery = "power/battery/state"

// Publisher publishes events to MQTT.
type Publisher interface {
	// PublishCharging sends a charging transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	PublishCharging(event ChargeEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// ChargeEvent represents a charging state transition to be published.
type ChargeEvent struct {
	Timestamp time.Time
	Charging  bool
	Color     string // color name being shown, e.g. "GREEN"
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure for charge events.
type Payload struct {
	Charger ChargerPayload `json:"charger"`
}

// ChargerPayload contains the charging event details.
type ChargerPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"` // "CHARGING" or "NOT_CHARGING"
	Color     string `json:"color"`
}

// FormatPayload creates the JSON payload for a charge event.
func FormatPayload(event ChargeEvent) ([]byte, error) {
	state := "NOT_CHARGING"
	if event.Charging {
		state = "CHARGING"
	}
	payload := Payload{
		Charger: ChargerPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     state,
			Color:     event.Color,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}

// batteryPayload is the envelope the battery service publishes.
type batteryPayload struct {
	Battery struct {
		Percent *int `json:"percent"`
	} `json:"battery"`
}

// ParseBatteryPayload extracts the state of charge from a battery report.
// Malformed payloads are not errors; they report ok=false and are dropped
// by the caller. Out-of-range values are passed through for the policy to
// treat as unavailable.
func ParseBatteryPayload(data []byte) (pct int, ok bool) {
	var p batteryPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return 0, false
	}
	if p.Battery.Percent == nil {
		return 0, false
	}
	return *p.Battery.Percent, true
}
