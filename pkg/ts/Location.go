// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package ts

import (
	"errors"
	"strconv"
	"time"
)

// ParseLocation returns the location for "Local", "UTC", an hour offset such as "-8",
// or an IANA time zone name such as "America/Los_Angeles".
func ParseLocation(location string) (*time.Location, error) {
	if location == "" {
		return nil, errors.New("cannot parse location from empty string")
	}
	switch location {
	case "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	hours, err := strconv.Atoi(location)
	if err == nil {
		if hours < -12 || hours > 14 {
			return nil, errors.New("hour offset must be between -12 and 14: " + location)
		}
		return time.FixedZone("UTC"+location, hours*60*60), nil
	}
	return time.LoadLocation(location)
}
