package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{2350, "2,350"},
		{100000, "100,000"},
		{1234567, "1,234,567"},
		{-2350, "-2,350"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatNumber(tc.in))
	}
}

func TestFormatRemaining(t *testing.T) {
	assert.Equal(t, "23h 59m", FormatRemaining(23*time.Hour+59*time.Minute+30*time.Second))
	assert.Equal(t, "0h 5m", FormatRemaining(5*time.Minute))
	assert.Equal(t, "0h 0m", FormatRemaining(-time.Minute))
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "▒▒▒▒▒▒▒▒▒▒", ProgressBar(100, 100, 500))
	assert.Equal(t, "█████▒▒▒▒▒", ProgressBar(300, 100, 500))
	assert.Equal(t, "██████████", ProgressBar(500, 100, 500))

	// Значение вне диапазона ограничивается
	assert.Equal(t, "▒▒▒▒▒▒▒▒▒▒", ProgressBar(50, 100, 500))
	assert.Equal(t, "██████████", ProgressBar(9999, 100, 500))

	// Вырожденный диапазон — полный бар
	assert.Equal(t, "██████████", ProgressBar(1, 5, 5))
}

func TestMedal(t *testing.T) {
	assert.Equal(t, "🥇", Medal(0))
	assert.Equal(t, "🥈", Medal(1))
	assert.Equal(t, "🥉", Medal(2))
	assert.Equal(t, "4.", Medal(3))
	assert.Equal(t, "10.", Medal(9))
}
