package envoy

import (
	_ "embed"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DeviceClockLayout is how the gateway reports current_date and current_time
// once joined with a space.
const DeviceClockLayout = "1/2/2006 15:04"

//go:embed zones.txt
var zoneList string

// CanonicalZones returns the IANA zone names in the order the reconciler
// searches them.
func CanonicalZones() []string {
	return strings.Fields(zoneList)
}

// DeviceClock is the gateway's wall clock resolved to a real instant.
type DeviceClock struct {
	Location *time.Location
	Local    time.Time
	// Skew is collector time minus device time.
	Skew time.Duration
}

// Reconciler maps the timezone the gateway reports back to a zone. Most
// firmware reports an abbreviation ("EST", "CEST", ...), which is not unique;
// the first zone in search order that currently uses it wins. Firmware that
// reports an IANA name ("America/New_York", "US/Pacific") gets that zone.
type Reconciler struct {
	locations []*time.Location
}

// NewReconciler searches the given zones, or CanonicalZones when none are
// given. Zones that cannot be loaded are skipped.
func NewReconciler(zones ...string) *Reconciler {
	if len(zones) == 0 {
		zones = CanonicalZones()
	}
	r := &Reconciler{locations: make([]*time.Location, 0, len(zones))}
	for _, name := range zones {
		loc, err := time.LoadLocation(name)
		if err != nil {
			continue
		}
		r.locations = append(r.locations, loc)
	}
	return r
}

// Resolve returns the first zone whose abbreviation at instant at equals
// label. When no abbreviation matches, a label naming a zone resolves to it.
func (r *Reconciler) Resolve(label string, at time.Time) (*time.Location, error) {
	for _, loc := range r.locations {
		if abbrev, _ := at.In(loc).Zone(); abbrev == label {
			return loc, nil
		}
	}
	if label != "" && label != "Local" {
		if loc, err := time.LoadLocation(label); err == nil {
			return loc, nil
		}
	}
	return nil, fmt.Errorf("%w: no zone uses %q", ErrTimezoneNotResolved, label)
}

// Reconcile resolves label and reads the device date and time in that zone.
func (r *Reconciler) Reconcile(label, date, clock string, at time.Time) (DeviceClock, error) {
	loc, err := r.Resolve(label, at)
	if err != nil {
		return DeviceClock{}, err
	}
	local, err := time.ParseInLocation(DeviceClockLayout, date+" "+clock, loc)
	if err != nil {
		return DeviceClock{}, fmt.Errorf("%w: %q %q: %v", ErrInvalidDeviceClockFormat, date, clock, err)
	}
	return DeviceClock{
		Location: loc,
		Local:    local,
		Skew:     at.Sub(local),
	}, nil
}
