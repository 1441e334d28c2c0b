package core

// convert.go turns loosely typed input (query strings, decoded JSON) into
// the Go values each column kind stores:
//
//	KindText  -> string
//	KindInt   -> int64
//	KindBool  -> bool
//	KindFloat -> float64
//	KindTime  -> time.Time (UTC)

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
	timestampLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
)

// ParseDate parses a calendar date in loc.
// Supports multiple date formats and handles 2-digit years with pivot.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid date: empty")
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseTime parses a timestamp, falling back to a bare date at midnight.
// Timestamps without an offset are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	t, err := ParseDate(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ParseBool accepts true/false, yes/no, t/f, y/n, 1/0.
func ParseBool(s string) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "t", "yes", "y", "1":
		return true, nil
	case "false", "f", "no", "n", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}

// ParseValue converts a query-string value to the Go value stored for kind.
func ParseValue(kind Kind, raw string, loc *time.Location) (any, error) {
	switch kind {
	case KindText:
		return raw, nil
	case KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return n, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", raw)
		}
		return f, nil
	case KindBool:
		return ParseBool(raw)
	case KindTime:
		return ParseTime(raw, loc)
	default:
		return nil, fmt.Errorf("unsupported kind %s", kind)
	}
}

// jsonNumber is the method set of json.Number from both encoding/json and
// goccy/go-json.
type jsonNumber interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// NormalizeValue converts a decoded JSON value for a column of kind.
// Numbers arrive as json.Number and timestamps as strings; everything else
// is passed through so the model's own type check can reject it.
func NormalizeValue(kind Kind, v any, loc *time.Location) (any, error) {
	switch kind {
	case KindInt:
		if n, ok := v.(jsonNumber); ok {
			i, err := n.Int64()
			if err != nil {
				return nil, fmt.Errorf("invalid number %s: not an integer", n.String())
			}
			return i, nil
		}
	case KindFloat:
		if n, ok := v.(jsonNumber); ok {
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("invalid number %s", n.String())
			}
			return f, nil
		}
	case KindTime:
		if s, ok := v.(string); ok {
			return ParseTime(s, loc)
		}
	}
	return v, nil
}

// coerce returns v as the Go type stored for kind, reporting false on a
// type mismatch. Integers widen to float columns; nothing else converts.
func coerce(kind Kind, v any) (any, bool) {
	switch kind {
	case KindText:
		s, ok := v.(string)
		return s, ok
	case KindInt:
		return toInt64(v)
	case KindBool:
		b, ok := v.(bool)
		return b, ok
	case KindFloat:
		switch f := v.(type) {
		case float64:
			return f, true
		case float32:
			return float64(f), true
		}
		if i, ok := toInt64(v); ok {
			return float64(i.(int64)), true
		}
	case KindTime:
		if t, ok := v.(time.Time); ok {
			return t.UTC(), true
		}
	}
	return nil, false
}

func toInt64(v any) (any, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	}
	return nil, false
}

// typeName describes v for error messages.
func typeName(v any) string {
	switch v.(type) {
	case string:
		return "text"
	case bool:
		return "bool"
	case float32, float64:
		return "float"
	case time.Time:
		return "time"
	}
	if _, ok := toInt64(v); ok {
		return "int"
	}
	return fmt.Sprintf("%T", v)
}
