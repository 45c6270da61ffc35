package motor

import (
	"fmt"
	"math"
	"strconv"
)

var byteUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders a byte count using 1024 based units, e.g. "1.5 KB".
func FormatBytes(bytes int64) string {
	if bytes == 0 {
		return "0 B"
	}
	if bytes < 0 {
		return "N/A"
	}

	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(byteUnits) {
		i = len(byteUnits) - 1
	}

	value := float64(bytes) / math.Pow(1024, float64(i))
	// two decimals, trailing zeros dropped
	rounded := strconv.FormatFloat(math.Round(value*100)/100, 'f', -1, 64)
	return rounded + " " + byteUnits[i]
}

// FormatDuration renders milliseconds as "123ms" below a second, else "1.23s".
func FormatDuration(ms float64) string {
	if ms < 0 {
		return "N/A"
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", int64(math.Round(ms)))
	}
	return fmt.Sprintf("%.2fs", ms/1000)
}

// StatusCategory names the class of an http status code.
func StatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "Success"
	case status >= 300 && status < 400:
		return "Redirection"
	case status >= 400 && status < 500:
		return "Client Error"
	case status >= 500:
		return "Server Error"
	default:
		return "Unknown"
	}
}

// StatusClass maps a status code onto a severity used for colouring.
func StatusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "success"
	case status >= 300 && status < 400:
		return "info"
	case status >= 400 && status < 500:
		return "warning"
	case status >= 500:
		return "error"
	default:
		return "default"
	}
}
