package domain

import "time"

// TimestampPrecision is the finest resolution the stores keep; PostgreSQL
// TIMESTAMPTZ holds microseconds.
const TimestampPrecision = time.Microsecond

// Timestamp returns t in UTC truncated to TimestampPrecision, so a value
// read back from storage equals the one that was written.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}
