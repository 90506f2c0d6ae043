package utils

import "time"

// ParseTimestamp parses a timestamp as reported by the ledger or the explorer
// index into a time.Time. Both report ISO8601; the explorer includes
// microsecond fractions (e.g. "2023-07-03T20:09:59.000000Z") which the
// RFC3339 layout accepts as input.
func ParseTimestamp(timestamp string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		// Some ledger nodes report close times without the zone designator
		layout := "2006-01-02 15:04:05 -0700 MST"
		tAlt, errAlt := time.Parse(layout, timestamp)
		if errAlt != nil {
			return time.Time{}, err
		}
		return tAlt, nil
	}
	return t, nil
}
