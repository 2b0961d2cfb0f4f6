// Package lineprotocol renders a poll cycle as InfluxDB line protocol.
package lineprotocol

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	protocol "github.com/influxdata/line-protocol"

	envoy "github.com/loafoe/envoy-influx"
)

const precision = time.Nanosecond

// tags builds a tag set from key/value pairs, leaving out empty values.
func tags(kv ...string) map[string]string {
	t := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			t[kv[i]] = kv[i+1]
		}
	}
	return t
}

// Points returns every series for cycle. All of them carry
// cycle.CollectedAt as their timestamp.
func Points(cycle *envoy.Cycle) []*write.Point {
	at := cycle.CollectedAt
	s := cycle.Status

	points := []*write.Point{
		write.NewPoint("software_build_date", nil, map[string]interface{}{
			"value": s.SoftwareBuild.UnixNano(),
		}, at),
		write.NewPoint("database", nil, map[string]interface{}{
			"total_size":   s.DatabaseSize,
			"percent_full": s.DatabasePercentFull,
		}, at),
		write.NewPoint("phone_home", nil, map[string]interface{}{
			"update_status": s.UpdateStatus,
			"alerts":        s.Alerts,
			"last_report":   s.Network.LastReport.UnixNano(),
		}, at),
		write.NewPoint("device_time_skew", nil, map[string]interface{}{
			"device_timestamp": s.Clock.Local.UnixNano(),
			"skew_ns":          s.Clock.Skew.Nanoseconds(),
		}, at),
		write.NewPoint("comm", nil, map[string]interface{}{
			"number": s.Comm.Num,
			"level":  s.Comm.Level,
		}, at),
	}

	for _, iface := range s.Network.Interfaces {
		points = append(points, write.NewPoint("network",
			tags("interface", iface.Name, "type", iface.Type),
			map[string]interface{}{
				"signal_strength":     iface.SignalStrength,
				"signal_strength_max": iface.SignalStrengthMax,
				"carrier":             iface.Carrier,
			}, at))
	}

	for _, inv := range cycle.Inverters {
		points = append(points, write.NewPoint("inverter",
			tags("serial_number", inv.SerialNumber),
			map[string]interface{}{
				"last_report": inv.LastReport.UnixNano(),
				"last_watts":  inv.LastWatts,
				"max_watts":   inv.MaxWatts,
			}, at))
	}
	return points
}

// Encode renders the whole cycle up front so a caller writes all of it or
// none of it.
func Encode(cycle *envoy.Cycle) ([]byte, error) {
	if cycle == nil {
		return nil, fmt.Errorf("nil cycle")
	}
	var buf bytes.Buffer
	enc := protocol.NewEncoder(&buf)
	enc.SetPrecision(precision)
	enc.SetFieldSortOrder(protocol.SortFields)
	enc.FailOnFieldErr(true)
	for _, p := range Points(cycle) {
		if _, err := enc.Encode(p); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", p.Name(), err)
		}
	}
	return buf.Bytes(), nil
}

type Emitter struct {
	w io.Writer
}

func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: w}
}

// Write encodes cycle and hands it to the writer in a single call.
func (e *Emitter) Write(cycle *envoy.Cycle) error {
	b, err := Encode(cycle)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(b); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
