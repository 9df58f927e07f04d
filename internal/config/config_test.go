package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sweeney/charge-indicator/internal/logic"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "charge-indicator.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config rejected: %v", err)
	}
	if !cfg.LEDConfigured() {
		t.Error("default config should have LED pins assigned")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StatPin != Default().StatPin {
		t.Errorf("expected default stat pin, got %d", cfg.StatPin)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
stat_pin = 5
http_addr = ""

[led]
red_pin = 6
green_pin = 7
blue_pin = 8
active_low = false

[policy]
battery_based = true
level_critical = 5
level_low = 20
level_high = 80

[timing]
reassert_ms = 200
idle_ms = 2000

[mqtt]
broker = "tcp://10.0.0.2:1883"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.StatPin != 5 {
		t.Errorf("stat_pin: expected 5, got %d", cfg.StatPin)
	}
	if cfg.LED.RedPin != 6 || cfg.LED.ActiveLow {
		t.Errorf("led section not applied: %+v", cfg.LED)
	}
	if !cfg.Policy.BatteryBased || cfg.Policy.Critical != 5 {
		t.Errorf("policy section not applied: %+v", cfg.Policy)
	}
	timing := cfg.ChargeTiming()
	if timing.Reassert != 200*time.Millisecond || timing.Idle != 2*time.Second {
		t.Errorf("timing section not applied: %+v", timing)
	}
	// Untouched fields keep their defaults.
	if timing.Settle != 8*time.Millisecond {
		t.Errorf("settle default lost: %v", timing.Settle)
	}
	if cfg.MQTT.Broker != "tcp://10.0.0.2:1883" {
		t.Errorf("broker not applied: %s", cfg.MQTT.Broker)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeConfig(t, "stat_pin = [not valid")
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestValidateEmptyChip(t *testing.T) {
	cfg := Default()
	cfg.Chip = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty chip name")
	}
}

func TestValidateThresholdOrdering(t *testing.T) {
	cfg := Default()
	cfg.Policy.Critical = 50
	cfg.Policy.Low = 30
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for critical >= low")
	}
}

func TestValidateColorRange(t *testing.T) {
	cfg := Default()
	cfg.Policy.ColorMissing = 8
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for color selector out of range")
	}
}

func TestValidatePartialLEDPins(t *testing.T) {
	cfg := Default()
	cfg.LED.BluePin = PinUnset
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for partial LED pin set")
	}

	cfg.LED.RedPin = PinUnset
	cfg.LED.GreenPin = PinUnset
	if err := cfg.Validate(); err != nil {
		t.Errorf("all pins unset should be valid (LED control disabled): %v", err)
	}
	if cfg.LEDConfigured() {
		t.Error("LEDConfigured should be false with all pins unset")
	}
}

func TestValidateTimings(t *testing.T) {
	cfg := Default()
	cfg.Timing.ReassertMs = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero reassert interval")
	}
}

func TestLogicPolicyConversion(t *testing.T) {
	cfg := Default()
	cfg.Policy.ForceOff = true
	cfg.Policy.FixedColor = int(logic.ColorWhite)

	p := cfg.LogicPolicy()
	if !p.ForceOff {
		t.Error("force_off not converted")
	}
	if p.FixedColor != logic.ColorWhite {
		t.Errorf("fixed color: expected WHITE, got %s", p.FixedColor)
	}
	if p.ColorCritical != logic.ColorRed {
		t.Errorf("color_critical default: expected RED, got %s", p.ColorCritical)
	}
}
