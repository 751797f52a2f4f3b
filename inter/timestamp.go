package inter

import (
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
)

// Timestamp is a point in time in nanoseconds since the Unix epoch.
// Every time-gated rule of the claimdrop (phase start, settlement delays,
// proxy cooldowns) is expressed in this unit.
type Timestamp uint64

// FromUnix converts seconds since the Unix epoch into a Timestamp.
func FromUnix(t int64) Timestamp {
	return Timestamp(t * int64(time.Second))
}

// FromTime converts a wall-clock time into a Timestamp.
func FromTime(t time.Time) Timestamp {
	return Timestamp(t.UnixNano())
}

// Unix returns the timestamp truncated to whole seconds.
func (t Timestamp) Unix() int64 {
	return int64(t) / int64(time.Second)
}

// Time converts the timestamp back into a time.Time (UTC).
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

// Add returns t shifted by d. Negative results clamp to zero.
func (t Timestamp) Add(d time.Duration) Timestamp {
	if d < 0 && Timestamp(-d) > t {
		return 0
	}
	return Timestamp(int64(t) + int64(d))
}

// Sub returns the duration t-u.
func (t Timestamp) Sub(u Timestamp) time.Duration {
	return time.Duration(int64(t) - int64(u))
}

// IsZero reports whether the timestamp was never set.
func (t Timestamp) IsZero() bool {
	return t == 0
}

// Bytes returns the 8-byte big-endian encoding used in storage slots.
func (t Timestamp) Bytes() []byte {
	return bigendian.Uint64ToBytes(uint64(t))
}

// BytesToTimestamp decodes an 8-byte big-endian timestamp.
func BytesToTimestamp(b []byte) Timestamp {
	return Timestamp(bigendian.BytesToUint64(b))
}

// String renders the timestamp in RFC3339 for logs.
func (t Timestamp) String() string {
	return t.Time().Format(time.RFC3339Nano)
}
