// Package config holds the daemon configuration: line assignments, color
// policy, debounce timing, and transport settings. It is resolved once at
// startup, validated, and treated as immutable afterwards.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/sweeney/charge-indicator/internal/charge"
	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/logic"
)

// PinUnset marks an LED pin as not configured.
const PinUnset = -1

// Config is the full daemon configuration.
type Config struct {
	// Enabled gates the whole indicator. When false the daemon exits
	// immediately after logging, mirroring a disabled build option.
	Enabled bool `toml:"enabled"`

	// Chip is the GPIO character device name.
	Chip string `toml:"chip"`

	// StatPin is the BCM pin of the charger STAT input.
	StatPin int `toml:"stat_pin"`

	LED     LED     `toml:"led"`
	Policy  Policy  `toml:"policy"`
	Timing  Timing  `toml:"timing"`
	MQTT    MQTT    `toml:"mqtt"`
	Battery Battery `toml:"battery"`

	// HTTPAddr is the status server address; empty disables it.
	HTTPAddr string `toml:"http_addr"`
}

// LED holds the output line assignments. The three pins are all-or-nothing:
// leaving any unset disables LED control entirely while detection keeps
// running.
type LED struct {
	RedPin   int `toml:"red_pin"`
	GreenPin int `toml:"green_pin"`
	BluePin  int `toml:"blue_pin"`

	// ActiveLow marks common-anode wiring: a logical on is driven as an
	// electrical low.
	ActiveLow bool `toml:"active_low"`
}

// Policy mirrors logic.Policy with TOML tags and raw integer color
// selectors (0-7).
type Policy struct {
	ForceOff     bool `toml:"force_off"`
	FixedColor   int  `toml:"fixed_color"`
	BatteryBased bool `toml:"battery_based"`

	Critical int `toml:"level_critical"`
	Low      int `toml:"level_low"`
	High     int `toml:"level_high"`

	ColorCritical int `toml:"color_critical"`
	ColorLow      int `toml:"color_low"`
	ColorMedium   int `toml:"color_medium"`
	ColorHigh     int `toml:"color_high"`
	ColorMissing  int `toml:"color_missing"`
}

// Timing holds the debounce and cadence intervals in milliseconds.
type Timing struct {
	StabilizeMs    int64 `toml:"stabilize_ms"`
	SecondSampleMs int64 `toml:"second_sample_ms"`
	SettleMs       int64 `toml:"settle_ms"`
	ReassertMs     int64 `toml:"reassert_ms"`
	IdleMs         int64 `toml:"idle_ms"`
}

// MQTT holds broker settings.
type MQTT struct {
	// Broker address; empty disables MQTT entirely.
	Broker string `toml:"broker"`
}

// Battery holds fuel-gauge settings.
type Battery struct {
	// Supply is the power_supply class name read for the state of
	// charge; empty disables the sysfs gauge (battery events may still
	// feed the cache).
	Supply string `toml:"supply"`
}

// Default returns the stock configuration for a Raspberry Pi with a
// common-anode RGB LED.
func Default() Config {
	t := charge.DefaultTiming()
	return Config{
		Enabled: true,
		Chip:    gpio.DefaultChip,
		StatPin: gpio.DefaultPinStat,
		LED: LED{
			RedPin:    gpio.DefaultPinRed,
			GreenPin:  gpio.DefaultPinGreen,
			BluePin:   gpio.DefaultPinBlue,
			ActiveLow: true,
		},
		Policy: Policy{
			FixedColor:    int(logic.ColorBlue),
			Critical:      10,
			Low:           30,
			High:          80,
			ColorCritical: int(logic.ColorRed),
			ColorLow:      int(logic.ColorYellow),
			ColorMedium:   int(logic.ColorCyan),
			ColorHigh:     int(logic.ColorGreen),
			ColorMissing:  int(logic.ColorBlue),
		},
		Timing: Timing{
			StabilizeMs:    t.Stabilize.Milliseconds(),
			SecondSampleMs: t.SecondSample.Milliseconds(),
			SettleMs:       t.Settle.Milliseconds(),
			ReassertMs:     t.Reassert.Milliseconds(),
			IdleMs:         t.Idle.Milliseconds(),
		},
		MQTT:     MQTT{Broker: "tcp://localhost:1883"},
		Battery:  Battery{Supply: "battery"},
		HTTPAddr: ":8080",
	}
}

// Load returns the defaults overlaid with the TOML file at path.
// An empty path returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration-time invariants and fails fast so no
// component ever sees a bad value at runtime.
func (c Config) Validate() error {
	if c.Chip == "" {
		return fmt.Errorf("chip must be set")
	}
	if c.StatPin < 0 {
		return fmt.Errorf("stat_pin must be set")
	}

	set := 0
	for _, pin := range []int{c.LED.RedPin, c.LED.GreenPin, c.LED.BluePin} {
		if pin != PinUnset {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("led pins are all-or-nothing: %d of 3 configured", set)
	}

	if err := c.LogicPolicy().Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	t := c.ChargeTiming()
	for _, d := range []time.Duration{t.Stabilize, t.SecondSample, t.Settle, t.Reassert, t.Idle} {
		if d <= 0 {
			return fmt.Errorf("timing intervals must be positive")
		}
	}
	return nil
}

// LEDConfigured reports whether the three output lines are assigned.
func (c Config) LEDConfigured() bool {
	return c.LED.RedPin != PinUnset && c.LED.GreenPin != PinUnset && c.LED.BluePin != PinUnset
}

// LogicPolicy converts the raw selectors into the policy engine's form.
func (c Config) LogicPolicy() logic.Policy {
	return logic.Policy{
		ForceOff:      c.Policy.ForceOff,
		FixedColor:    logic.ColorCode(c.Policy.FixedColor),
		BatteryBased:  c.Policy.BatteryBased,
		Critical:      c.Policy.Critical,
		Low:           c.Policy.Low,
		High:          c.Policy.High,
		ColorCritical: logic.ColorCode(c.Policy.ColorCritical),
		ColorLow:      logic.ColorCode(c.Policy.ColorLow),
		ColorMedium:   logic.ColorCode(c.Policy.ColorMedium),
		ColorHigh:     logic.ColorCode(c.Policy.ColorHigh),
		ColorMissing:  logic.ColorCode(c.Policy.ColorMissing),
	}
}

// ChargeTiming converts the timing section into the detector's form.
func (c Config) ChargeTiming() charge.Timing {
	return charge.Timing{
		Stabilize:    time.Duration(c.Timing.StabilizeMs) * time.Millisecond,
		SecondSample: time.Duration(c.Timing.SecondSampleMs) * time.Millisecond,
		Settle:       time.Duration(c.Timing.SettleMs) * time.Millisecond,
		Reassert:     time.Duration(c.Timing.ReassertMs) * time.Millisecond,
		Idle:         time.Duration(c.Timing.IdleMs) * time.Millisecond,
	}
}
