package inter

import (
	"time"

	"github.com/Fantom-foundation/lachesis-base/common/bigendian"
)

// Timestamp is a UNIX nanoseconds timestamp.
type Timestamp uint64

// Bytes gets the big-endian byte representation of the timestamp.
func (t Timestamp) Bytes() []byte {
	return bigendian.Uint64ToBytes(uint64(t))
}

// Unix returns t as a Unix time, the number of seconds elapsed since
// January 1, 1970 UTC.
func (t Timestamp) Unix() int64 {
	return int64(t) / int64(time.Second)
}

// Time returns t as a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t))
}

// FromUnix converts seconds since epoch into a Timestamp.
func FromUnix(t int64) Timestamp {
	return Timestamp(t) * Timestamp(time.Second)
}

// MaxTimestamp returns the greater of x or y.
func MaxTimestamp(x, y Timestamp) Timestamp {
	if x > y {
		return x
	}
	return y
}
