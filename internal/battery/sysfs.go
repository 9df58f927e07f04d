package battery

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const sysfsPowerSupplyPath = "/sys/class/power_supply"

// SysfsGauge reads the state of charge from the kernel power_supply class.
type SysfsGauge struct {
	capacityPath string
}

// NewSysfsGauge creates a gauge for the named supply (e.g. "battery",
// "BAT0"). The supply is not probed here; a missing attribute simply reads
// as unavailable.
func NewSysfsGauge(supply string) *SysfsGauge {
	return &SysfsGauge{
		capacityPath: filepath.Join(sysfsPowerSupplyPath, supply, "capacity"),
	}
}

// newSysfsGaugeAt is used by tests to point at a temp directory.
func newSysfsGaugeAt(capacityPath string) *SysfsGauge {
	return &SysfsGauge{capacityPath: capacityPath}
}

// StateOfCharge reads the capacity attribute. Any read or parse failure
// reports the percentage as unavailable.
func (g *SysfsGauge) StateOfCharge() (int, bool) {
	data, err := os.ReadFile(g.capacityPath)
	if err != nil {
		return 0, false
	}
	pct, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pct, true
}
