package schedule

import "fmt"

const minutesPerDay = 24 * 60

// TimeToMinutes converts "HH:mm" to minutes since midnight.
// The input must be exactly two zero-padded numeric fields separated by
// a colon, with hour in [0,23] and minute in [0,59].
func TimeToMinutes(t string) (int, error) {
	if len(t) != 5 || t[2] != ':' {
		return 0, ErrInvalidFormat
	}
	for _, i := range []int{0, 1, 3, 4} {
		if t[i] < '0' || t[i] > '9' {
			return 0, ErrInvalidFormat
		}
	}
	hours := int(t[0]-'0')*10 + int(t[1]-'0')
	mins := int(t[3]-'0')*10 + int(t[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, ErrInvalidFormat
	}
	return hours*60 + mins, nil
}

// MinutesToTime converts minutes since midnight to "HH:mm" format.
// Callers clamp; values outside [0,1439] are an error here.
func MinutesToTime(m int) (string, error) {
	if m < 0 || m >= minutesPerDay {
		return "", ErrOutOfRange
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60), nil
}

// DurationBetween returns the hours between two times of day. An end
// earlier than the start is taken to cross midnight. Equal times yield
// exactly 1.0 hour, the fixed default for a zero-length entry.
func DurationBetween(start, end string) (float64, error) {
	s, err := TimeToMinutes(start)
	if err != nil {
		return 0, fmt.Errorf("start time: %w", err)
	}
	e, err := TimeToMinutes(end)
	if err != nil {
		return 0, fmt.Errorf("end time: %w", err)
	}
	if e < s {
		e += minutesPerDay
	}
	diff := e - s
	if diff == 0 {
		diff = 60
	}
	return float64(diff) / 60, nil
}
