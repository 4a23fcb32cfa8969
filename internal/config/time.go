package config

import "time"

const defaultCacheTTL = time.Hour

// CalculateBetweenTime converts a timer to a duration with a one second floor.
func CalculateBetweenTime(timer Timer) time.Duration {
	intervalMs := CalculateMillisecondsOfPeriod(timer)

	minInterval := uint64(1000)
	if intervalMs < minInterval {
		intervalMs = minInterval
	}

	return time.Duration(intervalMs) * time.Millisecond
}

func CalculateMillisecondsOfPeriod(timer Timer) uint64 {
	return uint64(timer.Days)*24*60*60*1000 +
		uint64(timer.Hours)*60*60*1000 +
		uint64(timer.Minutes)*60*1000 +
		uint64(timer.Seconds)*1000
}

// GetCacheTTL returns how long converted results stay cached. An unset timer
// means one hour.
func GetCacheTTL() time.Duration {
	timer := GetConfig().Cache.TTL
	if timer == (Timer{}) {
		return defaultCacheTTL
	}
	return CalculateBetweenTime(timer)
}
