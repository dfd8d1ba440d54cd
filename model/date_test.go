package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Date
		wantErr bool
	}{
		{name: "plain date", in: "2025-06-02", want: NewDate(2025, time.June, 2)},
		{name: "utc timestamp", in: "2025-06-02T00:00:00.000Z", want: NewDate(2025, time.June, 2)},
		{name: "offset keeps local day", in: "2025-06-02T23:30:00-03:00", want: NewDate(2025, time.June, 2)},
		{name: "surrounding spaces", in: " 2025-06-02 ", want: NewDate(2025, time.June, 2)},
		{name: "brazilian format", in: "02/06/2025", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	instant := time.Date(2025, time.June, 3, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, NewDate(2025, time.June, 3), DateOf(instant))
	assert.Equal(t, NewDate(2025, time.June, 2), DateOf(instant.In(saoPaulo)))
}

func TestDateJSON(t *testing.T) {
	type wrapper struct {
		Day Date `json:"dia"`
	}

	out, err := json.Marshal(wrapper{Day: NewDate(2025, time.December, 31)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"dia":"2025-12-31"}`, string(out))

	var in wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"dia":"2026-01-01T00:00:00Z"}`), &in))
	assert.Equal(t, NewDate(2026, time.January, 1), in.Day)

	require.NoError(t, json.Unmarshal([]byte(`{"dia":null}`), &in))
	assert.True(t, in.Day.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`{"dia":20250101}`), &in))
}

func TestDateScanAndValue(t *testing.T) {
	d := NewDate(2025, time.March, 9)

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.March, 9, 0, 0, 0, 0, time.UTC), v)

	var scanned Date
	require.NoError(t, scanned.Scan(v))
	assert.Equal(t, d, scanned)

	require.NoError(t, scanned.Scan([]byte("2024-02-29")))
	assert.Equal(t, NewDate(2024, time.February, 29), scanned)

	assert.Error(t, scanned.Scan(42))

	empty, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2025, time.February, 28)
	assert.Equal(t, NewDate(2025, time.March, 1), d.AddDays(1))
	assert.Equal(t, NewDate(2025, time.February, 24), d.AddDays(-4))
	assert.Equal(t, time.Friday, d.Weekday())
	assert.Equal(t, "2025-02-28", d.String())
}

func TestShiftValid(t *testing.T) {
	assert.True(t, ShiftMorning.Valid())
	assert.True(t, Shift("Noturno").Valid())
	assert.False(t, Shift("manha").Valid())
	assert.False(t, Shift("").Valid())
}
