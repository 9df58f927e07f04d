// Command charge-indicator watches a battery charger's STAT line over GPIO
// and drives a tri-color LED while charging. When not charging it stays dark
// and silent so the competing LED owner has the lines to itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/sweeney/charge-indicator/internal/battery"
	"github.com/sweeney/charge-indicator/internal/charge"
	"github.com/sweeney/charge-indicator/internal/config"
	"github.com/sweeney/charge-indicator/internal/events"
	"github.com/sweeney/charge-indicator/internal/gpio"
	"github.com/sweeney/charge-indicator/internal/led"
	"github.com/sweeney/charge-indicator/internal/mqtt"
	"github.com/sweeney/charge-indicator/internal/status"
	"github.com/sweeney/charge-indicator/internal/web"
)

func main() {
	configPath := flag.String("config", "", "Path to TOML configuration file")
	broker := flag.String("broker", "", `MQTT broker address ("off" disables, empty keeps config)`)
	httpAddr := flag.String("http", "", `HTTP status address ("off" disables, empty keeps config)`)
	chipName := flag.String("chip", "", "GPIO chip name (empty keeps config)")
	statPin := flag.Int("stat-pin", -1, "BCM pin number for charger STAT (negative keeps config)")
	printState := flag.Bool("print-state", false, "Print current charging state and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyOverrides(&cfg, *broker, *httpAddr, *chipName, *statPin)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: invalid configuration: %v", err)
	}

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyOverrides layers command-line flags over the loaded configuration.
func applyOverrides(cfg *config.Config, broker, httpAddr, chipName string, statPin int) {
	switch broker {
	case "":
	case "off":
		cfg.MQTT.Broker = ""
	default:
		cfg.MQTT.Broker = broker
	}
	switch httpAddr {
	case "":
	case "off":
		cfg.HTTPAddr = ""
	default:
		cfg.HTTPAddr = httpAddr
	}
	if chipName != "" {
		cfg.Chip = chipName
	}
	if statPin >= 0 {
		cfg.StatPin = statPin
	}
}

func chargingString(charging bool) string {
	if charging {
		return "CHARGING"
	}
	return "NOT CHARGING"
}

func run(cfg config.Config, printState bool) error {
	if !cfg.Enabled {
		log.Printf("charge indicator disabled by configuration")
		return nil
	}

	chip, err := gpio.OpenChip(cfg.Chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer chip.Close()

	// Print state mode: one raw sample, no daemon.
	if printState {
		line, err := chip.RequestStatInput(cfg.StatPin, func() {})
		if err != nil {
			return fmt.Errorf("request stat line: %w", err)
		}
		defer line.Close()
		raw, err := line.Value()
		if err != nil {
			return fmt.Errorf("read stat line: %w", err)
		}
		fmt.Println(chargingString(raw == 0))
		return nil
	}

	bus := events.New()

	// Battery gauge: MQTT reports refresh the cache; sysfs is the fallback
	// until the first report.
	var fallback battery.Gauge
	if cfg.Battery.Supply != "" {
		fallback = battery.NewSysfsGauge(cfg.Battery.Supply)
	}
	gauge := battery.NewCache(fallback)

	// LED driver: the three output lines are all-or-nothing. Missing lines
	// select the no-op driver and detection keeps running.
	var driver led.Driver = led.NewNoop()
	if cfg.LEDConfigured() {
		var lines [3]gpio.OutputLine
		for i, pin := range []int{cfg.LED.RedPin, cfg.LED.GreenPin, cfg.LED.BluePin} {
			line, err := chip.RequestLEDOutput(pin, cfg.LED.ActiveLow)
			if err != nil {
				return fmt.Errorf("init led lines: %w", err)
			}
			lines[i] = line
		}
		driver = led.NewLineDriver(lines[0], lines[1], lines[2])
	} else {
		log.Printf("led lines not configured, led control disabled")
	}
	defer driver.Close()

	ind := charge.NewIndicator(cfg.LogicPolicy(), gauge, driver)

	// The edge handler is installed at line request time, before the
	// detector exists; the relay makes the hand-off safe against an edge
	// firing in that window.
	relay := &edgeRelay{}
	statLine, err := chip.RequestStatInput(cfg.StatPin, relay.onEdge)
	if err != nil {
		return fmt.Errorf("request stat line: %w", err)
	}
	defer statLine.Close()
	det := charge.NewDetector(statLine, ind, bus, cfg.ChargeTiming())
	relay.set(det)

	startTime := time.Now()
	tracker := status.NewTracker(startTime, status.Config{
		Chip:         cfg.Chip,
		StatPin:      cfg.StatPin,
		LEDEnabled:   cfg.LEDConfigured(),
		ForceOff:     cfg.Policy.ForceOff,
		BatteryBased: cfg.Policy.BatteryBased,
		SettleMs:     cfg.Timing.SettleMs,
		ReassertMs:   cfg.Timing.ReassertMs,
		IdleMs:       cfg.Timing.IdleMs,
		Broker:       cfg.MQTT.Broker,
		HTTPAddr:     cfg.HTTPAddr,
	})

	unsubTrack := bus.SubscribeCharging(func(ev events.ChargingChanged) {
		tracker.RecordSample(ev.Charging, ind.LastColor())
	})
	defer unsubTrack()
	unsubBattery := bus.SubscribeBatteryLevel(func(ev events.BatteryLevelChanged) {
		tracker.RecordBattery(ev.Percent)
	})
	defer unsubBattery()

	// MQTT is optional; a broker outage must never stop charge detection.
	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		client, err := mqtt.NewRealClient(cfg.MQTT.Broker, bus)
		if err != nil {
			log.Printf("mqtt unavailable, continuing without it: %v", err)
		} else {
			publisher = client
			mqttStatus = client
			defer client.Close()

			unsubPub := bus.SubscribeCharging(func(ev events.ChargingChanged) {
				event := mqtt.ChargeEvent{
					Timestamp: time.Now(),
					Charging:  ev.Charging,
					Color:     ind.LastColor().String(),
				}
				if err := client.PublishCharging(event); err != nil {
					log.Printf("publish error: %v", err)
				}
			})
			defer unsubPub()
		}
	}

	// Bring-up debounce: stabilization wait plus double sample.
	initCharging, err := det.Baseline()
	if err != nil {
		return fmt.Errorf("initial sample: %w", err)
	}
	log.Printf("started: pin=%d charging=%v led=%v broker=%s",
		cfg.StatPin, initCharging, cfg.LEDConfigured(), cfg.MQTT.Broker)

	// Record the baseline directly so the startup snapshot is already
	// ready; the bus delivery of the same sample is a no-op refresh.
	tracker.RecordSample(initCharging, ind.LastColor())

	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Printf("failed to publish startup event: %v", err)
		}
	}

	// Start HTTP status server
	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	listener := charge.NewListener(ind, gauge)
	unsubListen := listener.Attach(bus)
	defer unsubListen()

	// Suppression loop: runs until process exit.
	sched := charge.NewScheduler(ind, cfg.ChargeTiming())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	return waitLoop(tracker, sched, publisher, mqttStatus, ticker.C, sigCh)
}

// edgeRelay forwards edge callbacks to the detector. The STAT line must be
// requested before the detector can be constructed over it, and the event
// goroutine already exists by then, so the pointer crosses goroutines through
// an atomic. Edges arriving before set are dropped; the baseline sample that
// follows reads the line anyway.
type edgeRelay struct {
	det atomic.Pointer[charge.Detector]
}

func (r *edgeRelay) set(det *charge.Detector) {
	r.det.Store(det)
}

func (r *edgeRelay) onEdge() {
	if det := r.det.Load(); det != nil {
		det.HandleEdge()
	}
}

// counters is the slice of the scheduler the wait loop needs.
type counters interface {
	Reassertions() uint64
}

// refresh copies the live counters into the tracker so the status page and
// the shutdown snapshot stay current.
func refresh(tracker *status.Tracker, counts counters, mqttStatus mqtt.ConnectionStatus) {
	tracker.SetReassertions(counts.Reassertions())
	if mqttStatus != nil {
		tracker.SetMQTTConnected(mqttStatus.IsConnected())
	}
}

// waitLoop blocks until a termination signal arrives, refreshing the tracker
// on every tick. On shutdown it publishes a retained SHUTDOWN system event
// carrying the final status snapshot.
func waitLoop(tracker *status.Tracker, counts counters, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			refresh(tracker, counts, mqttStatus)
			if publisher != nil {
				snap := tracker.Snapshot()
				reason := signalName(s)
				event := mqtt.SystemEvent{
					Timestamp:  snap.Now,
					Event:      "SHUTDOWN",
					Reason:     reason,
					Retained:   true,
					RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
				}
				if err := publisher.PublishSystem(event); err != nil {
					log.Printf("failed to publish shutdown event: %v", err)
				}
			}
			return nil

		case <-tick:
			refresh(tracker, counts, mqttStatus)
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return s.String()
}
