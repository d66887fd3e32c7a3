package task

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// UnixTime is a timestamp stored and serialized as fractional unix seconds.
type UnixTime struct {
	time.Time
}

// Now returns the current instant as a UnixTime.
func Now() UnixTime {
	return UnixTime{time.Now()}
}

// MarshalJSON encodes the timestamp as fractional seconds since the epoch.
func (t UnixTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Seconds())
}

// UnmarshalJSON decodes fractional seconds since the epoch.
func (t *UnixTime) UnmarshalJSON(data []byte) error {
	var seconds float64
	if err := json.Unmarshal(data, &seconds); err != nil {
		return err
	}
	*t = fromSeconds(seconds)
	return nil
}

// Seconds returns the timestamp as fractional unix seconds.
func (t UnixTime) Seconds() float64 {
	return float64(t.UnixMicro()) / 1e6
}

// Value implements driver.Valuer, storing fractional seconds.
func (t UnixTime) Value() (driver.Value, error) {
	return t.Seconds(), nil
}

// Scan implements sql.Scanner for REAL and INTEGER columns.
func (t *UnixTime) Scan(src any) error {
	switch v := src.(type) {
	case float64:
		*t = fromSeconds(v)
		return nil
	case int64:
		*t = UnixTime{time.Unix(v, 0)}
		return nil
	case nil:
		*t = UnixTime{}
		return nil
	default:
		return fmt.Errorf("scan unix time: unsupported type %T", src)
	}
}

func fromSeconds(seconds float64) UnixTime {
	sec, frac := math.Modf(seconds)
	return UnixTime{time.Unix(int64(sec), int64(frac*1e9))}
}
