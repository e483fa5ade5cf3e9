package api

import (
	"errors"
	"testing"
	"time"

	json "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseNumericID(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
		ok   bool
	}{
		{`42`, 42, true},
		{`"42"`, 42, true},
		{`" 7 "`, 7, true},
		{`3.0`, 3, true},
		{`3.5`, 0, false},
		{`0`, 0, false},
		{`-4`, 0, false},
		{`null`, 0, false},
		{`"abc"`, 0, false},
		{`""`, 0, false},
		{`true`, 0, false},
		{`{}`, 0, false},
		{``, 0, false},
		{`99999999999999999999`, 0, false},
		{`1e5`, 100000, true},
		{`1e200000000`, 0, false},
		{`"1e200000000"`, 0, false},
		{`1e-200000000`, 0, false},
		{`0e-200000000`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseNumericID(json.RawMessage(tt.raw))
			if !tt.ok {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformed))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{`10`, "10", true},
		{`10.25`, "10.25", true},
		{`"5.5"`, "5.5", true},
		{`0`, "0", true},
		{`null`, "", false},
		{`"ten"`, "", false},
		{``, "", false},
		{`[1]`, "", false},
		{`1e18`, "1e18", true},
		{`1e200000000`, "", false},
		{`"-1e200000000"`, "", false},
		{`1e-200000000`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseAmount(json.RawMessage(tt.raw))
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestProductNormalizeFallsBackToID(t *testing.T) {
	p := Product{RawID: json.RawMessage(`null`), RawAltID: json.RawMessage(`"8"`)}
	assert.NoError(t, p.Normalize())
	assert.Equal(t, int64(8), p.ID)

	p = Product{}
	assert.Error(t, p.Normalize())
}

func TestParseTime(t *testing.T) {
	ts, ok := ParseTime("2024-05-01T10:30:00")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), ts)

	_, ok = ParseTime("2024-05-01T10:30:00.123456Z")
	assert.True(t, ok)

	_, ok = ParseTime("yesterday")
	assert.False(t, ok)
}
