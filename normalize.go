package envoy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var sizeUnits = map[string]int64{
	"B":         1,
	"BYTE":      1,
	"BYTES":     1,
	"KB":        1 << 10,
	"KIB":       1 << 10,
	"KILOBYTE":  1 << 10,
	"KILOBYTES": 1 << 10,
	"MB":        1 << 20,
	"MIB":       1 << 20,
	"MEGABYTE":  1 << 20,
	"MEGABYTES": 1 << 20,
	"GB":        1 << 30,
	"GIB":       1 << 30,
	"GIGABYTE":  1 << 30,
	"GIGABYTES": 1 << 30,
}

// ParseSize converts a human size such as "12 MB" to bytes. Units are
// powers of 1024. An unknown or missing unit leaves the number unscaled.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || (i < len(s) && !unicode.IsSpace(rune(s[i])) && !unicode.IsLetter(rune(s[i]))) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSizeFormat, s)
	}
	n, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidSizeFormat, s, err)
	}

	multiplier := int64(1)
	if unit := strings.Fields(s[i:]); len(unit) > 0 {
		if m, ok := sizeUnits[strings.ToUpper(unit[0])]; ok {
			multiplier = m
		}
	}
	if n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSizeFormat, s)
	}
	return n * multiplier, nil
}

// ParseIntString parses a decimal integer carried in a JSON string.
func ParseIntString(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidIntegerFormat, s)
	}
	return n, nil
}

// CountArray returns the number of elements in a JSON array. The elements
// themselves are not decoded.
func CountArray(raw json.RawMessage) (int, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return 0, fmt.Errorf("%w: %.32s", ErrNotArray, trimmed)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	return len(elems), nil
}

// EpochSeconds converts Unix seconds to a UTC time.
func EpochSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
