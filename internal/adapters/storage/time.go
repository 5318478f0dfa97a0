package storage

import (
	"fmt"
	"time"
)

// ParseTime parses a timestamp column. The stores write RFC3339Nano, which
// drops trailing zeros, so plain RFC3339 values parse under the same layout.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse time: %s", s)
	}
	return t, nil
}
