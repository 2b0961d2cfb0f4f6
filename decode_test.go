package envoy_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	envoy "github.com/loafoe/envoy-influx"
)

func TestDecodeHome(t *testing.T) {
	status, err := envoy.DecodeHome([]byte(homeJSON), envoy.NewReconciler("UTC"), collectorTime)
	require.NoError(t, err)

	assert.Equal(t, "06/29/2023", status.DeviceDate)
	assert.Equal(t, "01:00", status.DeviceTime)
	assert.Equal(t, "UTC", status.Timezone)
	assert.True(t, status.Network.WebComm)
	assert.True(t, status.Network.EverReported)
	assert.False(t, status.IsNonVoy)
	assert.Equal(t, envoy.NetworkInterface{
		Type:              "wifi",
		Name:              "wlan0",
		MAC:               "11:22:33:44:55:66",
		IP:                "192.168.1.1",
		DHCP:              true,
		Carrier:           true,
		SignalStrength:    1,
		SignalStrengthMax: 5,
	}, status.Network.Interfaces[1])
}

func TestDecodeHomeZoneName(t *testing.T) {
	body := strings.NewReplacer(
		`"timezone":"UTC"`, `"timezone":"America/New_York"`,
		`"current_date":"06/29/2023"`, `"current_date":"01/01/2023"`,
	).Replace(homeJSON)
	at := time.Date(2023, 1, 1, 6, 5, 0, 0, time.UTC)

	status, err := envoy.DecodeHome([]byte(body), nil, at)
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", status.Clock.Location.String())
	assert.True(t, status.Clock.Local.Equal(time.Date(2023, 1, 1, 6, 0, 0, 0, time.UTC)))
	assert.Equal(t, 5*time.Minute, status.Clock.Skew)
}

func TestDecodeHomeAlertsCount(t *testing.T) {
	body := strings.Replace(homeJSON, `"alerts":[]`, `"alerts":[{"code":1},{"code":2},"x"]`, 1)
	status, err := envoy.DecodeHome([]byte(body), envoy.NewReconciler("UTC"), collectorTime)
	require.NoError(t, err)
	assert.Equal(t, 3, status.Alerts)
}

func TestDecodeHomeErrors(t *testing.T) {
	r := envoy.NewReconciler("UTC")

	_, err := envoy.DecodeHome([]byte(`not json`), r, collectorTime)
	assert.ErrorIs(t, err, envoy.ErrDecodeFailed)

	_, err = envoy.DecodeHome([]byte(strings.Replace(homeJSON, `"num":1`, `"num":"one"`, 1)), r, collectorTime)
	assert.ErrorIs(t, err, envoy.ErrDecodeFailed)
	var decodeErr *envoy.DecodeError
	if assert.ErrorAs(t, err, &decodeErr) {
		assert.Contains(t, decodeErr.Field, "num")
	}

	_, err = envoy.DecodeHome([]byte(strings.Replace(homeJSON, `"comm":{"num":1,"level":1}`, `"comm":{"num":1}`, 1)), r, collectorTime)
	if assert.ErrorAs(t, err, &decodeErr) {
		assert.Equal(t, "comm.level", decodeErr.Field)
		assert.ErrorIs(t, err, envoy.ErrMissingField)
	}

	_, err = envoy.DecodeHome([]byte(strings.Replace(homeJSON, `"db_percent_full":"1"`, `"db_percent_full":"-1"`, 1)), r, collectorTime)
	assert.ErrorIs(t, err, envoy.ErrInvalidIntegerFormat)

	_, err = envoy.DecodeHome([]byte(strings.Replace(homeJSON, `"current_time":"01:00"`, `"current_time":"1 AM"`, 1)), r, collectorTime)
	assert.ErrorIs(t, err, envoy.ErrInvalidDeviceClockFormat)
}

func TestDecodeInverters(t *testing.T) {
	readings, err := envoy.DecodeInverters([]byte(`[
		{"serialNumber":"1","lastReportDate":1688000000,"lastReportWatts":-2,"maxReportWatts":0},
		{"serialNumber":"2","lastReportDate":1688000300,"lastReportWatts":250,"maxReportWatts":290}
	]`))
	require.NoError(t, err)
	require.Len(t, readings, 2)
	assert.Equal(t, "1", readings[0].SerialNumber)
	assert.Equal(t, -2, readings[0].LastWatts)
	assert.Equal(t, 0, readings[0].MaxWatts)
	assert.Equal(t, "2", readings[1].SerialNumber)

	readings, err = envoy.DecodeInverters([]byte(`[]`))
	require.NoError(t, err)
	assert.Empty(t, readings)
}

func TestDecodeInvertersErrors(t *testing.T) {
	_, err := envoy.DecodeInverters([]byte(`{"0":{}}`))
	assert.ErrorIs(t, err, envoy.ErrDecodeFailed)

	_, err = envoy.DecodeInverters([]byte(`[{"serialNumber":"1","lastReportDate":1688000000,"lastReportWatts":1}]`))
	var decodeErr *envoy.DecodeError
	if assert.ErrorAs(t, err, &decodeErr) {
		assert.Equal(t, envoy.EndpointInverters, decodeErr.Endpoint)
		assert.Equal(t, "[0].maxReportWatts", decodeErr.Field)
		assert.ErrorIs(t, err, envoy.ErrMissingField)
	}

	_, err = envoy.DecodeInverters([]byte(`[{"serialNumber":1,"lastReportDate":1688000000,"lastReportWatts":1,"maxReportWatts":1}]`))
	assert.ErrorIs(t, err, envoy.ErrDecodeFailed)
}
