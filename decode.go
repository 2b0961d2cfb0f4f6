package envoy

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	EndpointProbe     = "/installer/setup/home"
	EndpointHome      = "/home.json"
	EndpointInverters = "/api/v1/production/inverters"
)

type requiredField struct {
	name    string
	present bool
}

func checkRequired(endpoint string, fields []requiredField) error {
	for _, f := range fields {
		if !f.present {
			return &DecodeError{Endpoint: endpoint, Field: f.name, Err: ErrMissingField}
		}
	}
	return nil
}

func jsonDecodeError(endpoint string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Endpoint: endpoint, Field: typeErr.Field, Err: err}
	}
	return &DecodeError{Endpoint: endpoint, Err: err}
}

// DecodeHome normalizes a /home.json body. The device clock is resolved
// against collector time at; a nil r searches CanonicalZones.
func DecodeHome(body []byte, r *Reconciler, at time.Time) (*SystemStatus, error) {
	if r == nil {
		r = NewReconciler()
	}
	var raw homeResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, jsonDecodeError(EndpointHome, err)
	}
	err := checkRequired(EndpointHome, []requiredField{
		{"software_build_epoch", raw.SoftwareBuildEpoch != nil},
		{"db_size", raw.DBSize != nil},
		{"db_percent_full", raw.DBPercentFull != nil},
		{"timezone", raw.Timezone != nil},
		{"current_date", raw.CurrentDate != nil},
		{"current_time", raw.CurrentTime != nil},
		{"network", raw.Network != nil},
		{"network.last_enlighten_report_time", raw.Network != nil && raw.Network.LastEnlightenReportTime != nil},
		{"comm", raw.Comm != nil},
		{"comm.num", raw.Comm != nil && raw.Comm.Num != nil},
		{"comm.level", raw.Comm != nil && raw.Comm.Level != nil},
		{"alerts", raw.Alerts != nil},
		{"update_status", raw.UpdateStatus != nil},
	})
	if err != nil {
		return nil, err
	}

	size, err := ParseSize(*raw.DBSize)
	if err != nil {
		return nil, &DecodeError{Endpoint: EndpointHome, Field: "db_size", Err: err}
	}
	percent, err := ParseIntString(*raw.DBPercentFull)
	if err != nil {
		return nil, &DecodeError{Endpoint: EndpointHome, Field: "db_percent_full", Err: err}
	}
	if percent < 0 {
		return nil, &DecodeError{
			Endpoint: EndpointHome,
			Field:    "db_percent_full",
			Err:      fmt.Errorf("%w: negative percentage %d", ErrInvalidIntegerFormat, percent),
		}
	}
	alerts, err := CountArray(raw.Alerts)
	if err != nil {
		return nil, &DecodeError{Endpoint: EndpointHome, Field: "alerts", Err: err}
	}
	clock, err := r.Reconcile(*raw.Timezone, *raw.CurrentDate, *raw.CurrentTime, at)
	if err != nil {
		return nil, fmt.Errorf("reconciling device clock: %w", err)
	}

	status := &SystemStatus{
		SoftwareBuild:       EpochSeconds(*raw.SoftwareBuildEpoch),
		IsNonVoy:            raw.IsNonVoy,
		DeviceDate:          *raw.CurrentDate,
		DeviceTime:          *raw.CurrentTime,
		Timezone:            *raw.Timezone,
		Clock:               clock,
		DatabaseSize:        size,
		DatabasePercentFull: percent,
		Network: NetworkInfo{
			LastReport:       EpochSeconds(*raw.Network.LastEnlightenReportTime),
			WebComm:          raw.Network.WebComm,
			EverReported:     raw.Network.EverReportedToEnlighten,
			PrimaryInterface: raw.Network.PrimaryInterface,
		},
		Comm: CommInfo{
			Num:   *raw.Comm.Num,
			Level: *raw.Comm.Level,
		},
		Alerts:       alerts,
		UpdateStatus: *raw.UpdateStatus,
	}
	for _, iface := range raw.Network.Interfaces {
		status.Network.Interfaces = append(status.Network.Interfaces, NetworkInterface{
			Type:              iface.Type,
			Name:              iface.Interface,
			MAC:               iface.MAC,
			IP:                iface.IP,
			DHCP:              iface.DHCP,
			Carrier:           iface.Carrier,
			SignalStrength:    iface.SignalStrength,
			SignalStrengthMax: iface.SignalStrengthMax,
		})
	}
	return status, nil
}

// DecodeInverters normalizes an /api/v1/production/inverters body. Readings
// keep the order the gateway sent them in.
func DecodeInverters(body []byte) ([]InverterReading, error) {
	var raw []inverterResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, jsonDecodeError(EndpointInverters, err)
	}
	readings := make([]InverterReading, 0, len(raw))
	for i, inv := range raw {
		prefix := fmt.Sprintf("[%d].", i)
		err := checkRequired(EndpointInverters, []requiredField{
			{prefix + "serialNumber", inv.SerialNumber != nil},
			{prefix + "lastReportDate", inv.LastReportDate != nil},
			{prefix + "lastReportWatts", inv.LastReportWatts != nil},
			{prefix + "maxReportWatts", inv.MaxReportWatts != nil},
		})
		if err != nil {
			return nil, err
		}
		readings = append(readings, InverterReading{
			SerialNumber: *inv.SerialNumber,
			LastReport:   EpochSeconds(*inv.LastReportDate),
			DevType:      inv.DevType,
			LastWatts:    *inv.LastReportWatts,
			MaxWatts:     *inv.MaxReportWatts,
		})
	}
	return readings, nil
}
