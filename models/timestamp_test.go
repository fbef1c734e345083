package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"naive microseconds", `"2025-01-02T15:04:05.123456"`, time.Date(2025, 1, 2, 15, 4, 5, 123456000, time.UTC)},
		{"naive seconds", `"2025-01-02T15:04:05"`, time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"rfc3339 zulu", `"2025-01-02T15:04:05Z"`, time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"rfc3339 offset", `"2025-01-02T17:04:05+02:00"`, time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"null", `null`, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}
}

func TestTimestamp_Invalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12`), &ts))
}

func TestSandboxRun_BackendShape(t *testing.T) {
	body := `{"run_id":"r1","language":"python","status":"completed","stdout":"1\n","stderr":"",
		"exit_code":0,"image":"bugghost-python:latest","created_at":"2025-01-02T15:04:05.123456","completed_at":null}`

	var run SandboxRun
	require.NoError(t, json.Unmarshal([]byte(body), &run))
	assert.Equal(t, "1\n", Value(run.Stdout))
	assert.Equal(t, 2025, run.CreatedAt.Year())
	assert.Nil(t, run.CompletedAt)
}

func TestTimestamp_MarshalRoundTripsInstant(t *testing.T) {
	in := NewTimestamp(time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC))
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `"2025-01-02T15:04:05Z"`, string(data))
}
