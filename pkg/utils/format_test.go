package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "$0.00"},
		{100, "$100.00"},
		{1000, "$1,000.00"},
		{12345, "$12,345.00"},
		{123456, "$123,456.00"},
		{1234567, "$1,234,567.00"},
		{2847.50, "$2,847.50"},
		{-1234.56, "-$1,234.56"},
		{0.999, "$1.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatUSD(tt.input), "FormatUSD(%f)", tt.input)
		})
	}
}

func TestFormatCompactUSD(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{2.95e12, "$2.95T"},
		{41.5e6, "$41.5M"},
		{3e9, "$3B"},
		{1500, "$1.5K"},
		{999, "$999.00"},
		{-2e6, "-$2M"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCompactUSD(tt.input), "FormatCompactUSD(%f)", tt.input)
		})
	}
}

func TestFormatPct(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{2.45, "+2.45%"},
		{-1.23, "-1.23%"},
		{0, "+0.00%"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPct(tt.input), "FormatPct(%f)", tt.input)
		})
	}
}
