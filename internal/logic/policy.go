package logic

// ChargingFromRaw interprets a raw input level as a charging state.
// The charger STAT output is open-drain and active low: the PMIC drives the
// line to 0 while charging, and the internal pull-up holds it at 1 otherwise.
// The raw electrical level is always used; configured polarity metadata is
// deliberately ignored so the interpretation cannot be flipped by an overlay.
func ChargingFromRaw(raw int) bool {
	return raw == 0
}

// InitialCharging combines the two bring-up samples into the initial state.
// Both must agree as charging; a single not-charging read wins. This rejects
// power-up glitches on the STAT line.
func InitialCharging(first, second bool) bool {
	return first && second
}

// ComputeColor maps the policy, the charging state, and an optional battery
// percentage to the color the LEDs should show.
//
// Precedence, highest first:
//   - not charging: Off. Indication is suppressed entirely so the competing
//     LED owner gets the lines to itself.
//   - ForceOff: Off regardless of any other setting.
//   - BatteryBased: the band color for pct, or ColorMissing when the
//     percentage is unavailable (!ok) or outside [0,100].
//   - otherwise: FixedColor.
//
// Bands are strict and evaluated low to high: pct < Critical, else
// pct < Low, else pct < High, else the high band. A percentage exactly at a
// threshold belongs to the band above it.
func ComputeColor(p Policy, charging bool, pct int, ok bool) ColorCode {
	if !charging {
		return ColorOff
	}
	if p.ForceOff {
		return ColorOff
	}
	if !p.BatteryBased {
		return p.FixedColor
	}
	if !ok || pct < 0 || pct > 100 {
		return p.ColorMissing
	}
	switch {
	case pct < p.Critical:
		return p.ColorCritical
	case pct < p.Low:
		return p.ColorLow
	case pct < p.High:
		return p.ColorMedium
	default:
		return p.ColorHigh
	}
}
