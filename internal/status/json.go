package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string     `json:"event,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Charging      string     `json:"charging"`
	Color         string     `json:"color"`
	BatteryPct    *int       `json:"battery_percent,omitempty"`
	Ready         bool       `json:"ready"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Counts        CountsJSON `json:"event_counts"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	ChargeStarted int    `json:"charge_started"`
	ChargeStopped int    `json:"charge_stopped"`
	Reassertions  uint64 `json:"reassertions"`
	BatteryEvents int    `json:"battery_events"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Chip         string `json:"chip"`
	StatPin      int    `json:"stat_pin"`
	LEDEnabled   bool   `json:"led_enabled"`
	ForceOff     bool   `json:"force_off"`
	BatteryBased bool   `json:"battery_based"`
	SettleMs     int64  `json:"settle_ms"`
	ReassertMs   int64  `json:"reassert_ms"`
	IdleMs       int64  `json:"idle_ms"`
	Broker       string `json:"broker"`
	HTTPAddr     string `json:"http_addr"`
}

func chargingString(snap Snapshot) string {
	if !snap.Ready {
		return "UNKNOWN"
	}
	if snap.Charging {
		return "CHARGING"
	}
	return "NOT_CHARGING"
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Charging:      chargingString(snap),
		Color:         snap.Color.String(),
		Ready:         snap.Ready,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			ChargeStarted: snap.Counts.ChargeStarted,
			ChargeStopped: snap.Counts.ChargeStopped,
			Reassertions:  snap.Counts.Reassertions,
			BatteryEvents: snap.Counts.BatteryEvents,
		},
		Config: ConfigJSON{
			Chip:         snap.Config.Chip,
			StatPin:      snap.Config.StatPin,
			LEDEnabled:   snap.Config.LEDEnabled,
			ForceOff:     snap.Config.ForceOff,
			BatteryBased: snap.Config.BatteryBased,
			SettleMs:     snap.Config.SettleMs,
			ReassertMs:   snap.Config.ReassertMs,
			IdleMs:       snap.Config.IdleMs,
			Broker:       snap.Config.Broker,
			HTTPAddr:     snap.Config.HTTPAddr,
		},
	}
	if snap.BatteryKnown {
		pct := snap.BatteryPct
		inner.BatteryPct = &pct
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
