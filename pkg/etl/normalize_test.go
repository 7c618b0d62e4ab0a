package etl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate_StringFormats(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"iso", "2025-04-03", "2025-04-03"},
		{"long month", "April 3 2025", "2025-04-03"},
		{"long month comma", "April 3, 2025", "2025-04-03"},
		{"day first long", "3 April 2025", "2025-04-03"},
		{"slash day first", "03/04/2025", "2025-04-03"},
		{"slash unambiguous month first", "4/25/2025", "2025-04-25"},
		{"dash day first", "03-04-2025", "2025-04-03"},
		{"iso slashes", "2025/04/03", "2025-04-03"},
		{"padded whitespace", "  2025-04-03  ", "2025-04-03"},
		{"timestamp", "2025-04-03 09:30:00", "2025-04-03"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, CanonicalDate(*got))
		})
	}
}

func TestNormalizeDate_CanonicalFormIsStable(t *testing.T) {
	first := NormalizeDate("April 3, 2025")
	require.NotNil(t, first)

	second := NormalizeDate(CanonicalDate(*first))
	require.NotNil(t, second)
	assert.Equal(t, CanonicalDate(*first), CanonicalDate(*second))
}

func TestNormalizeDate_SerialDays(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"int serial", 45750, "2025-04-03"},
		{"float serial", 45750.0, "2025-04-03"},
		{"string serial", "45750", "2025-04-03"},
		{"epoch plus one", 1, "1899-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.in)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, CanonicalDate(*got))
		})
	}
}

func TestNormalizeDate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"empty string", ""},
		{"garbage", "sometime in spring"},
		{"zero serial", 0},
		{"negative serial", -3},
		{"implausible serial", 999999},
		{"unsupported type", []byte("2025-04-03")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, NormalizeDate(tt.in))
		})
	}
}

func TestNormalizeDate_TimeValueKeepsCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+13", 13*3600)
	in := time.Date(2025, 4, 3, 23, 30, 0, 0, loc)

	got := NormalizeDate(in)
	require.NotNil(t, got)
	assert.Equal(t, "2025-04-03", CanonicalDate(*got))
	assert.Equal(t, time.UTC, got.Location())
}

func TestNormalizeNumber(t *testing.T) {
	assert.Nil(t, NormalizeNumber(""))
	assert.Nil(t, NormalizeNumber("n/a"))
	assert.Nil(t, NormalizeNumber(nil))

	got := NormalizeNumber("4.35")
	require.NotNil(t, got)
	assert.InDelta(t, 4.35, *got, 1e-9)

	got = NormalizeNumber("1,234")
	require.NotNil(t, got)
	assert.InDelta(t, 1234, *got, 1e-9)
}

func TestNormalizePercent(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"fraction", 0.25, 25},
		{"fraction string", "0.25", 25},
		{"suffixed", "25%", 25},
		{"plain", 90, 90},
		{"plain string", "90", 90},
		{"exactly one", 1.0, 100},
		{"suffixed with space", " 85 % ", 85},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePercent(tt.in)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 1e-9)
		})
	}

	assert.Nil(t, NormalizePercent(""))
	assert.Nil(t, NormalizePercent("unknown"))
}

func TestNormalizeCount(t *testing.T) {
	got := NormalizeCount("42")
	require.NotNil(t, got)
	assert.Equal(t, 42, *got)

	assert.Nil(t, NormalizeCount(""))
	assert.Nil(t, NormalizeCount("many"))
}
