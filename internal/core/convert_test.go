package core

import (
	"encoding/json"
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// ParseDate Tests
// ----------------------------------------------------------------------------

func TestParseDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantYear  int
		wantMonth time.Month
		wantDay   int
	}{
		// Valid: ISO
		{name: "ISO format", input: "2024-01-15", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "ISO leap day", input: "2024-02-29", wantValid: true, wantYear: 2024, wantMonth: time.February, wantDay: 29},
		{name: "ISO with slashes", input: "2024/03/05", wantValid: true, wantYear: 2024, wantMonth: time.March, wantDay: 5},
		{name: "dotted", input: "2024.03.05", wantValid: true, wantYear: 2024, wantMonth: time.March, wantDay: 5},
		{name: "compact", input: "20240305", wantValid: true, wantYear: 2024, wantMonth: time.March, wantDay: 5},

		// Valid: US
		{name: "US with slashes", input: "01/15/2024", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "US single digits", input: "1/5/2024", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 5},

		// Valid: named months
		{name: "month name", input: "Jan 15, 2024", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},
		{name: "day first month name", input: "15 Jan 2024", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},

		// Valid: whitespace
		{name: "surrounding whitespace", input: "  2024-01-15 ", wantValid: true, wantYear: 2024, wantMonth: time.January, wantDay: 15},

		// Invalid
		{name: "empty", input: "", wantValid: false},
		{name: "not a date", input: "yesterday", wantValid: false},
		{name: "impossible day", input: "2023-02-29", wantValid: false},
		{name: "month out of range", input: "2024-13-01", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, time.UTC)

			if (err == nil) != tt.wantValid {
				t.Fatalf("ParseDate(%q) error = %v, wantValid %v", tt.input, err, tt.wantValid)
			}
			if !tt.wantValid {
				return
			}
			if got.Year() != tt.wantYear || got.Month() != tt.wantMonth || got.Day() != tt.wantDay {
				t.Errorf("ParseDate(%q) = %s, want %d-%02d-%02d",
					tt.input, got.Format("2006-01-02"), tt.wantYear, tt.wantMonth, tt.wantDay)
			}
		})
	}
}

func TestParseDate_TwoDigitYear(t *testing.T) {
	originalPivot := TwoDigitYearPivot
	defer func() { TwoDigitYearPivot = originalPivot }()
	TwoDigitYearPivot = 20

	tests := []struct {
		name     string
		input    string
		wantYear int
	}{
		{"25 as 2025", "01/15/25", 2025},
		{"99 as 1999", "01/15/99", 1999},
		{"85 as 1985", "01/15/85", 1985},
		{"dash format", "1-15-99", 1999},
		{"dot format", "01.15.99", 1999},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, time.UTC)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if got.Year() != tt.wantYear {
				t.Errorf("ParseDate(%q).Year = %d, want %d", tt.input, got.Year(), tt.wantYear)
			}
		})
	}
}

func TestParseDateLocation(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	got, err := ParseDate("2024-03-01", kst)
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if got.Location() != kst {
		t.Errorf("location = %v, want KST", got.Location())
	}
	if want := time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseDate() = %v, want %v", got, want)
	}

	// nil location means UTC.
	got, err = ParseDate("2024-03-01", nil)
	if err != nil {
		t.Fatalf("ParseDate(nil loc) error = %v", err)
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}
}

// ----------------------------------------------------------------------------
// ParseTime Tests
// ----------------------------------------------------------------------------

func TestParseTime(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "RFC3339 keeps its offset",
			input: "2024-03-01T09:30:00+09:00",
			want:  time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC),
		},
		{
			name:  "RFC3339 with fraction",
			input: "2024-03-01T00:00:00.25Z",
			want:  time.Date(2024, 3, 1, 0, 0, 0, 250000000, time.UTC),
		},
		{
			name:  "no offset read in location",
			input: "2024-03-01 09:30:00",
			want:  time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC),
		},
		{
			name:  "T separator without offset",
			input: "2024-03-01T09:30:00",
			want:  time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC),
		},
		{
			name:  "bare date is local midnight",
			input: "2024-03-01",
			want:  time.Date(2024, 2, 29, 15, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			input:   "soon",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.input, kst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTime(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseTime(%q) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseBool Tests
// ----------------------------------------------------------------------------

func TestParseBool(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{"true", true, false},
		{"TRUE", true, false},
		{"t", true, false},
		{"yes", true, false},
		{"Y", true, false},
		{"1", true, false},
		{" true ", true, false},
		{"false", false, false},
		{"F", false, false},
		{"no", false, false},
		{"n", false, false},
		{"0", false, false},
		{"", false, true},
		{"maybe", false, true},
		{"2", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBool(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBool(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ParseValue / NormalizeValue Tests
// ----------------------------------------------------------------------------

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		raw     string
		want    any
		wantErr bool
	}{
		{"text passes through", KindText, " as is ", " as is ", false},
		{"int", KindInt, "42", int64(42), false},
		{"int with spaces", KindInt, " 7 ", int64(7), false},
		{"negative int", KindInt, "-3", int64(-3), false},
		{"int rejects fraction", KindInt, "1.5", nil, true},
		{"int rejects text", KindInt, "abc", nil, true},
		{"float", KindFloat, "0.25", 0.25, false},
		{"float from int text", KindFloat, "2", float64(2), false},
		{"float rejects text", KindFloat, "x", nil, true},
		{"bool", KindBool, "yes", true, false},
		{"bool rejects text", KindBool, "sure", nil, true},
		{"time", KindTime, "2024-03-01T00:00:00Z", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"time rejects text", KindTime, "later", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.kind, tt.raw, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseValue(%s, %q) error = %v, wantErr %v", tt.kind, tt.raw, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !sameValue(got, tt.want) {
				t.Errorf("ParseValue(%s, %q) = %#v, want %#v", tt.kind, tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		in      any
		want    any
		wantErr bool
	}{
		{"json int", KindInt, json.Number("12"), int64(12), false},
		{"json fraction into int", KindInt, json.Number("1.5"), nil, true},
		{"json float", KindFloat, json.Number("1.5"), 1.5, false},
		{"json int into float", KindFloat, json.Number("3"), float64(3), false},
		{"time string", KindTime, "2024-03-01T00:00:00Z", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), false},
		{"bad time string", KindTime, "noon", nil, true},
		{"text untouched", KindText, "hello", "hello", false},
		{"bool untouched", KindBool, true, true, false},
		{"mismatch passes through", KindInt, "12", "12", false},
		{"nil passes through", KindText, nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeValue(tt.kind, tt.in, time.UTC)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeValue(%s, %v) error = %v, wantErr %v", tt.kind, tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !sameValue(got, tt.want) {
				t.Errorf("NormalizeValue(%s, %v) = %#v, want %#v", tt.kind, tt.in, got, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// coerce Tests
// ----------------------------------------------------------------------------

func TestCoerce(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	tests := []struct {
		name   string
		kind   Kind
		in     any
		want   any
		wantOK bool
	}{
		{"string to text", KindText, "a", "a", true},
		{"int to text", KindText, 1, nil, false},
		{"int to int", KindInt, 5, int64(5), true},
		{"int32 to int", KindInt, int32(5), int64(5), true},
		{"uint8 to int", KindInt, uint8(5), int64(5), true},
		{"huge uint64 to int", KindInt, uint64(1 << 63), nil, false},
		{"float to int", KindInt, 5.0, nil, false},
		{"bool to int", KindInt, true, nil, false},
		{"int to float", KindFloat, 2, float64(2), true},
		{"float32 to float", KindFloat, float32(0.5), 0.5, true},
		{"string to float", KindFloat, "0.5", nil, false},
		{"bool to bool", KindBool, false, false, true},
		{"int to bool", KindBool, 0, nil, false},
		{"time to time", KindTime, time.Date(2024, 3, 1, 9, 0, 0, 0, kst), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), true},
		{"string to time", KindTime, "2024-03-01", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := coerce(tt.kind, tt.in)
			if ok != tt.wantOK {
				t.Fatalf("coerce(%s, %#v) ok = %v, want %v", tt.kind, tt.in, ok, tt.wantOK)
			}
			if ok && !sameValue(got, tt.want) {
				t.Errorf("coerce(%s, %#v) = %#v, want %#v", tt.kind, tt.in, got, tt.want)
			}
		})
	}
}

func TestTypeName(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "text"},
		{int64(1), "int"},
		{uint16(1), "int"},
		{1.5, "float"},
		{true, "bool"},
		{time.Time{}, "time"},
		{[]int{1}, "[]int"},
	}

	for _, tt := range tests {
		if got := typeName(tt.in); got != tt.want {
			t.Errorf("typeName(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
