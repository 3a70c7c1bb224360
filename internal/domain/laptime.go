package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LapTime is a recorded duration with millisecond precision. Its text form is
// [h:]mm:ss.SSS.
type LapTime time.Duration

// MaxLapTimeHours bounds the hours field; minute-only forms are bounded to the same span.
const MaxLapTimeHours = 99

// LapTimeFromMillis builds a LapTime from a stored millisecond count.
func LapTimeFromMillis(ms int64) LapTime {
	return LapTime(time.Duration(ms) * time.Millisecond)
}

// ParseLapTime parses m:ss, mm:ss.S through mm:ss.SSS and the same forms prefixed with
// an hours field.
func ParseLapTime(s string) (LapTime, error) {
	raw := s
	s = strings.TrimSpace(s)
	clock, frac, hasFrac := strings.Cut(s, ".")
	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid lap time %q: want [h:]mm:ss.SSS", raw)
	}

	fields := make([]int64, len(parts))
	for i, p := range parts {
		if !isDigits(p) {
			return 0, fmt.Errorf("invalid lap time %q: non-numeric field %q", raw, p)
		}
		v, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid lap time %q: %w", raw, err)
		}
		fields[i] = v
	}

	var hours, minutes, seconds int64
	if len(fields) == 3 {
		hours, minutes, seconds = fields[0], fields[1], fields[2]
		if len(parts[1]) != 2 || minutes >= 60 {
			return 0, fmt.Errorf("invalid lap time %q: minutes must be two digits below 60", raw)
		}
		if hours > MaxLapTimeHours {
			return 0, fmt.Errorf("invalid lap time %q: hours must not exceed %d", raw, MaxLapTimeHours)
		}
	} else {
		minutes, seconds = fields[0], fields[1]
		if minutes >= (MaxLapTimeHours+1)*60 {
			return 0, fmt.Errorf("invalid lap time %q: minutes must be below %d", raw, (MaxLapTimeHours+1)*60)
		}
	}
	if len(parts[len(parts)-1]) != 2 || seconds >= 60 {
		return 0, fmt.Errorf("invalid lap time %q: seconds must be two digits below 60", raw)
	}

	var millis int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 3 || !isDigits(frac) {
			return 0, fmt.Errorf("invalid lap time %q: fraction must be 1 to 3 digits", raw)
		}
		v, _ := strconv.ParseInt(frac+strings.Repeat("0", 3-len(frac)), 10, 64)
		millis = v
	}

	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return LapTime(d), nil
}

// Duration returns the value as a time.Duration.
func (t LapTime) Duration() time.Duration {
	return time.Duration(t)
}

// Milliseconds returns the value rounded to whole milliseconds.
func (t LapTime) Milliseconds() int64 {
	return time.Duration(t).Round(time.Millisecond).Milliseconds()
}

func (t LapTime) String() string {
	ms := t.Milliseconds()
	sign := ""
	if ms < 0 {
		sign = "-"
		ms = -ms
	}
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1000) % 60
	f := ms % 1000
	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d.%03d", sign, h, m, s, f)
	}
	return fmt.Sprintf("%s%02d:%02d.%03d", sign, m, s, f)
}

func (t LapTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *LapTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("lap time must be a string: %w", err)
	}
	v, err := ParseLapTime(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
