package motor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{-1, "N/A"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1288490189, "1.2 GB"},
		{5 * 1024 * 1024 * 1024 * 1024, "5120 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatBytes(tt.in), "%d", tt.in)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "N/A", FormatDuration(-1))
	assert.Equal(t, "0ms", FormatDuration(0))
	assert.Equal(t, "124ms", FormatDuration(123.6))
	assert.Equal(t, "1.23s", FormatDuration(1234))
	assert.Equal(t, "60.00s", FormatDuration(60000))
}

func TestStatusCategory(t *testing.T) {
	tests := []struct {
		status   int
		category string
		class    string
	}{
		{0, "Unknown", "default"},
		{101, "Unknown", "default"},
		{204, "Success", "success"},
		{301, "Redirection", "info"},
		{418, "Client Error", "warning"},
		{503, "Server Error", "error"},
		{650, "Server Error", "error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.category, StatusCategory(tt.status), "%d", tt.status)
		assert.Equal(t, tt.class, StatusClass(tt.status), "%d", tt.status)
	}
}
