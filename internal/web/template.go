package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/charge-indicator/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"chargingClass": func(snap status.Snapshot) string {
		if !snap.Ready {
			return "unknown"
		}
		if snap.Charging {
			return "on"
		}
		return "off"
	},
	"chargingText": func(snap status.Snapshot) string {
		if !snap.Ready {
			return "UNKNOWN"
		}
		if snap.Charging {
			return "CHARGING"
		}
		return "NOT CHARGING"
	},
	"swatch": func(c interface{ Channels() (bool, bool, bool) }) template.CSS {
		r, g, b := c.Channels()
		hex := func(on bool) string {
			if on {
				return "ff"
			}
			return "00"
		}
		return template.CSS("#" + hex(r) + hex(g) + hex(b))
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>Charge Indicator</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.swatch { display: inline-block; width: 12px; height: 12px; border: 1px solid #999; margin-right: 6px; vertical-align: middle; }
</style>
</head>
<body>
<h1>Charge Indicator</h1>

<h2>State</h2>
<table>
<tr><th>Charging</th><td class="{{chargingClass .Snapshot}}">{{chargingText .Snapshot}}</td></tr>
<tr><th>Color</th><td><span class="swatch" style="background: {{swatch .Color}}"></span>{{.Color}}</td></tr>
<tr><th>Battery</th><td>{{if .BatteryKnown}}{{.BatteryPct}}%{{else}}unknown{{end}}</td></tr>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Charge started</th><td>{{.Counts.ChargeStarted}}</td></tr>
<tr><th>Charge stopped</th><td>{{.Counts.ChargeStopped}}</td></tr>
<tr><th>Reassertions</th><td>{{.Counts.Reassertions}}</td></tr>
<tr><th>Battery events</th><td>{{.Counts.BatteryEvents}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>STAT pin</th><td>{{.Config.Chip}}/{{.Config.StatPin}}</td></tr>
<tr><th>LED control</th><td>{{if .Config.LEDEnabled}}enabled{{else}}disabled{{end}}</td></tr>
<tr><th>Settle</th><td>{{.Config.SettleMs}}ms</td></tr>
<tr><th>Reassert</th><td>{{.Config.ReassertMs}}ms</td></tr>
<tr><th>Idle</th><td>{{.Config.IdleMs}}ms</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
