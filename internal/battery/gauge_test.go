package battery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCapacity(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capacity")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write capacity file: %v", err)
	}
	return path
}

func TestSysfsGaugeReadsCapacity(t *testing.T) {
	g := newSysfsGaugeAt(writeCapacity(t, "73\n"))
	pct, ok := g.StateOfCharge()
	if !ok {
		t.Fatal("expected reading to be available")
	}
	if pct != 73 {
		t.Errorf("expected 73, got %d", pct)
	}
}

func TestSysfsGaugeMissingFile(t *testing.T) {
	g := newSysfsGaugeAt(filepath.Join(t.TempDir(), "capacity"))
	if _, ok := g.StateOfCharge(); ok {
		t.Error("missing capacity file should read as unavailable")
	}
}

func TestSysfsGaugeMalformedContent(t *testing.T) {
	g := newSysfsGaugeAt(writeCapacity(t, "not-a-number\n"))
	if _, ok := g.StateOfCharge(); ok {
		t.Error("malformed capacity should read as unavailable")
	}
}

func TestSysfsGaugePath(t *testing.T) {
	g := NewSysfsGauge("BAT0")
	want := "/sys/class/power_supply/BAT0/capacity"
	if g.capacityPath != want {
		t.Errorf("expected %s, got %s", want, g.capacityPath)
	}
}

func TestCacheFallsBackUntilFirstEvent(t *testing.T) {
	inner := NewFake(40)
	c := NewCache(inner)

	pct, ok := c.StateOfCharge()
	if !ok || pct != 40 {
		t.Errorf("expected fallback reading 40, got %d ok=%v", pct, ok)
	}

	c.Update(85)
	pct, ok = c.StateOfCharge()
	if !ok || pct != 85 {
		t.Errorf("expected cached reading 85, got %d ok=%v", pct, ok)
	}
	if inner.Calls != 1 {
		t.Errorf("fallback should not be consulted after an event, calls=%d", inner.Calls)
	}
}

func TestCacheWithoutFallback(t *testing.T) {
	c := NewCache(nil)
	if _, ok := c.StateOfCharge(); ok {
		t.Error("empty cache without fallback should be unavailable")
	}
	c.Update(10)
	pct, ok := c.StateOfCharge()
	if !ok || pct != 10 {
		t.Errorf("expected 10 after update, got %d ok=%v", pct, ok)
	}
}

func TestCacheStoresOutOfRangeVerbatim(t *testing.T) {
	// The policy layer decides what out-of-range means; the cache does not
	// filter.
	c := NewCache(nil)
	c.Update(150)
	pct, ok := c.StateOfCharge()
	if !ok || pct != 150 {
		t.Errorf("expected verbatim 150, got %d ok=%v", pct, ok)
	}
}
