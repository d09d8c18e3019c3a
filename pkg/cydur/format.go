package cydur

import (
	"time"
)

// FormatDHMS converts seconds to a compound duration of days, hours, minutes
// and seconds.
//
//	FormatDHMS(6000000) // "69d10h40m"
//	FormatDHMS(0)       // "0s"
func FormatDHMS(seconds uint64) string {
	return dhmsLadder.Format(seconds)
}

// FormatWDHMS converts seconds to a compound duration of weeks, days, hours,
// minutes and seconds.
//
//	FormatWDHMS(6000000) // "9w6d10h40m"
func FormatWDHMS(seconds uint64) string {
	return wdhmsLadder.Format(seconds)
}

// FormatNS converts nanoseconds to a compound duration of days, hours,
// minutes, seconds, milliseconds, microseconds and nanoseconds.
//
//	FormatNS(3000129723) // "3s129µs723ns"
//	FormatNS(0)          // "0ns"
func FormatNS(nanoseconds uint64) string {
	return nsLadder.Format(nanoseconds)
}

// Duration formats d with FormatNS. Negative durations render as "0ns".
func Duration(d time.Duration) string {
	if d < 0 {
		return nsLadder.Zero()
	}
	return FormatNS(uint64(d))
}

// Seconds formats the whole seconds of d with FormatDHMS, dropping any
// sub-second remainder. Negative durations render as "0s".
func Seconds(d time.Duration) string {
	if d < 0 {
		return dhmsLadder.Zero()
	}
	return FormatDHMS(uint64(d / time.Second))
}

// Since returns the time elapsed since t, formatted with Duration.
//
//	start := time.Now()
//	// ...
//	fmt.Println(cydur.Since(start))
func Since(t time.Time) string {
	return Duration(time.Since(t))
}
