package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLapTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"00:12.345", 12*time.Second + 345*time.Millisecond},
		{"1:05", time.Minute + 5*time.Second},
		{"01:05.5", time.Minute + 5*time.Second + 500*time.Millisecond},
		{"01:05.05", time.Minute + 5*time.Second + 50*time.Millisecond},
		{"75:00.000", 75 * time.Minute},
		{"5999:59.999", 99*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond},
		{"99:59:59.999", 99*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond},
		{"2:03:04.006", 2*time.Hour + 3*time.Minute + 4*time.Second + 6*time.Millisecond},
		{" 00:01.000 ", time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLapTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Duration())
		})
	}
}

func TestParseLapTime_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"12",
		"12.5",
		"1:2",
		"00:60.000",
		"1:60:00.000",
		"1:5:00.000",
		"00:10.1234",
		"00:10.",
		"aa:10.000",
		"-1:10.000",
		"1:2:3:4",
		"100:00:00.000",
		"6000:00.000",
		"5124096:00:00.000",
		"3000000:00:00.000",
		"153722867280912930:00.000",
		"99999999999999999999:00.000",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseLapTime(in)
			assert.Error(t, err)
		})
	}
}

func TestLapTimeString(t *testing.T) {
	assert.Equal(t, "00:12.345", LapTimeFromMillis(12_345).String())
	assert.Equal(t, "59:59.999", LapTimeFromMillis(3_599_999).String())
	assert.Equal(t, "1:00:00.000", LapTimeFromMillis(3_600_000).String())
	assert.Equal(t, "00:00.000", LapTime(0).String())
}

func TestLapTimeRoundTrip(t *testing.T) {
	for _, s := range []string{"00:12.345", "10:00.001", "3:25:07.250"} {
		v, err := ParseLapTime(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}
}

func TestLapTimeJSON(t *testing.T) {
	var req TimeRequest
	err := json.Unmarshal([]byte(`{"userId":"abc","track":"SPRINT","time":"00:09.580"}`), &req)
	require.NoError(t, err)
	assert.Equal(t, int64(9580), req.Time.Milliseconds())

	out, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"abc","track":"SPRINT","time":"00:09.580"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"time":9.58}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"time":"fast"}`), &req))

	var empty TimeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"time":null}`), &empty))
	assert.Zero(t, empty.Time)
}
