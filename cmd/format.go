package cmd

import (
	"fmt"
	"strings"
	"time"
)

// formatMS renders a millisecond duration as h:mm:ss.t
func formatMS(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	tenths := int(d.Milliseconds()/100) % 10
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d.%d", hours, minutes, seconds, tenths)
	}
	return fmt.Sprintf("%d:%02d.%d", minutes, seconds, tenths)
}

// formatOptionalMS renders a nullable millisecond duration
func formatOptionalMS(ms *int64) string {
	if ms == nil {
		return "-"
	}
	return formatMS(*ms)
}

// truncate shortens a string to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// printRule prints a horizontal table rule
func printRule(width int) {
	fmt.Println(strings.Repeat("━", width))
}
