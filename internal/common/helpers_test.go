package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPluralizePoints(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "баллов"},
		{1, "балл"},
		{2, "балла"},
		{4, "балла"},
		{5, "баллов"},
		{11, "баллов"},
		{12, "баллов"},
		{14, "баллов"},
		{21, "балл"},
		{22, "балла"},
		{25, "баллов"},
		{100, "баллов"},
		{101, "балл"},
		{111, "баллов"},
		{-1, "балл"},
		{-3, "балла"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PluralizePoints(tc.n), "n=%d", tc.n)
	}
}

func TestFormatPoints(t *testing.T) {
	assert.Equal(t, "150 баллов", FormatPoints(150))
	assert.Equal(t, "21 балл", FormatPoints(21))
}

func TestLoadLocation_FallsBackToMSK(t *testing.T) {
	loc := LoadLocation("No/Such_Zone")
	_, offset := time.Now().In(loc).Zone()
	assert.Equal(t, 3*60*60, offset)
}

func TestFormatDateTime(t *testing.T) {
	ts := time.Date(2026, 3, 7, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "07.03.2026 12:30", FormatDateTime(ts, time.UTC))
}
