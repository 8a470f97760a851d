package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinInt(t *testing.T) {
	assert.Equal(t, 3, MinInt(3, 7))
	assert.Equal(t, 3, MinInt(7, 3))
	assert.Equal(t, -1, MinInt(-1, 0))
	assert.Equal(t, 5, MinInt(5, 5))
}

func TestRoundFloat(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		precision uint
		expected  float64
	}{
		{"round down", 1.234, 2, 1.23},
		{"round up", 1.236, 2, 1.24},
		{"negative value", -2.678, 2, -2.68},
		{"accumulated float error", 0.1 + 0.2, 2, 0.3},
		{"zero precision", 2.5, 0, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundFloat(tt.value, tt.precision))
		})
	}
}
