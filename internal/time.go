package internal

import "time"

// CurrentTimestamp is *the* way to get a current timestamp in idgate and
// time.Now() should be avoided.
//
// Timestamps are rounded to the nearest millisecond so that they can be
// persisted without losing precision, making comparisons in tests easier.
// They are also in the UTC time zone, because libs such as testify's assert
// use DeepEqual rather than time.Equal to compare times, and the internal
// representation includes the time zone.
func CurrentTimestamp() time.Time {
	return time.Now().Round(time.Millisecond).UTC()
}
