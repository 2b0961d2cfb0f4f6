package envoy

import (
	"encoding/json"
	"time"
)

// SystemStatus is the normalized form of /home.json.
type SystemStatus struct {
	SoftwareBuild time.Time
	IsNonVoy      bool

	// As reported by the gateway; Clock holds the resolved instant.
	DeviceDate string
	DeviceTime string
	Timezone   string
	Clock      DeviceClock

	DatabaseSize        int64
	DatabasePercentFull int64

	Network      NetworkInfo
	Comm         CommInfo
	Alerts       int
	UpdateStatus string
}

type NetworkInfo struct {
	LastReport       time.Time
	WebComm          bool
	EverReported     bool
	PrimaryInterface string
	Interfaces       []NetworkInterface
}

type NetworkInterface struct {
	Type              string
	Name              string
	MAC               string
	IP                string
	DHCP              bool
	Carrier           bool
	SignalStrength    int
	SignalStrengthMax int
}

type CommInfo struct {
	Num   int
	Level int
}

// InverterReading is one microinverter from /api/v1/production/inverters.
// Watts may be zero or negative while an inverter is faulted or offline.
type InverterReading struct {
	SerialNumber string
	LastReport   time.Time
	DevType      int
	LastWatts    int
	MaxWatts     int
}

// Cycle is everything gathered in one poll. Every metric derived from it
// is stamped with CollectedAt.
type Cycle struct {
	ID          string
	CollectedAt time.Time
	Status      SystemStatus
	Inverters   []InverterReading
}

type homeResponse struct {
	SoftwareBuildEpoch *int64          `json:"software_build_epoch"`
	IsNonVoy           bool            `json:"is_nonvoy"`
	DBSize             *string         `json:"db_size"`
	DBPercentFull      *string         `json:"db_percent_full"`
	Timezone           *string         `json:"timezone"`
	CurrentDate        *string         `json:"current_date"`
	CurrentTime        *string         `json:"current_time"`
	Network            *homeNetwork    `json:"network"`
	Comm               *homeComm       `json:"comm"`
	Alerts             json.RawMessage `json:"alerts"`
	UpdateStatus       *string         `json:"update_status"`
}

type homeNetwork struct {
	WebComm                 bool            `json:"web_comm"`
	EverReportedToEnlighten bool            `json:"ever_reported_to_enlighten"`
	LastEnlightenReportTime *int64          `json:"last_enlighten_report_time"`
	PrimaryInterface        string          `json:"primary_interface"`
	Interfaces              []homeInterface `json:"interfaces"`
}

type homeInterface struct {
	Type              string `json:"type"`
	Interface         string `json:"interface"`
	MAC               string `json:"mac"`
	IP                string `json:"ip"`
	DHCP              bool   `json:"dhcp"`
	Carrier           bool   `json:"carrier"`
	SignalStrength    int    `json:"signal_strength"`
	SignalStrengthMax int    `json:"signal_strength_max"`
}

type homeComm struct {
	Num   *int `json:"num"`
	Level *int `json:"level"`
}

type inverterResponse struct {
	SerialNumber    *string `json:"serialNumber"`
	LastReportDate  *int64  `json:"lastReportDate"`
	DevType         int     `json:"devType"`
	LastReportWatts *int    `json:"lastReportWatts"`
	MaxReportWatts  *int    `json:"maxReportWatts"`
}
