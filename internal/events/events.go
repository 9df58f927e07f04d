// Package events provides the in-process event bus connecting the MQTT
// transport, the charge listener, and the status tracker.
package events

import "github.com/kelindar/event"

// Event type constants for kelindar/event.
const (
	TypeBatteryLevelChanged uint32 = iota + 1
	TypeChargingChanged
)

// BatteryLevelChanged is delivered when the external battery service
// reports a new state of charge.
type BatteryLevelChanged struct {
	Percent int
}

// Type returns the event type identifier for BatteryLevelChanged.
func (BatteryLevelChanged) Type() uint32 { return TypeBatteryLevelChanged }

// ChargingChanged is delivered when the detector accepts a sample.
// It fires on every accepted sample, including ones that confirm the
// current state.
type ChargingChanged struct {
	Charging bool
}

// Type returns the event type identifier for ChargingChanged.
func (ChargingChanged) Type() uint32 { return TypeChargingChanged }

// Bus wraps a kelindar/event dispatcher for typed broadcasting.
type Bus struct {
	dispatcher *event.Dispatcher
}

// New creates a new event bus.
func New() *Bus {
	return &Bus{dispatcher: event.NewDispatcher()}
}

// PublishBatteryLevel broadcasts a battery level report.
func (b *Bus) PublishBatteryLevel(ev BatteryLevelChanged) {
	event.Publish(b.dispatcher, ev)
}

// PublishCharging broadcasts a charging state sample.
func (b *Bus) PublishCharging(ev ChargingChanged) {
	event.Publish(b.dispatcher, ev)
}

// SubscribeBatteryLevel registers a handler for battery level reports.
// Returns an unsubscribe function.
func (b *Bus) SubscribeBatteryLevel(handler func(BatteryLevelChanged)) func() {
	unsub := event.Subscribe(b.dispatcher, handler)
	return func() { unsub() }
}

// SubscribeCharging registers a handler for charging state samples.
// Returns an unsubscribe function.
func (b *Bus) SubscribeCharging(handler func(ChargingChanged)) func() {
	unsub := event.Subscribe(b.dispatcher, handler)
	return func() { unsub() }
}
