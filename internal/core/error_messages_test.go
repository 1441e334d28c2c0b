package core

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
		wantStatus  int
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "not found",
			err:         notFound("get", "articles", "no row with id 9"),
			wantCode:    "NF001",
			wantMessage: "Record not found",
			wantStatus:  http.StatusNotFound,
		},
		{
			name: "missing reference",
			err: &OpError{Op: "create", Table: "articles", Column: "press_id", Kind: ErrNotFound,
				Msg: "referenced press.id = 4 does not exist"},
			wantCode:    "NF002",
			wantMessage: "Referenced record does not exist",
			wantStatus:  http.StatusNotFound,
		},
		{
			name:        "conflict",
			err:         &OpError{Op: "create", Table: "press", Kind: ErrConflict, Msg: "constraint violation"},
			wantCode:    "CF001",
			wantMessage: "This record conflicts with existing data",
			wantStatus:  http.StatusConflict,
		},
		{
			name:        "type mismatch names the column",
			err:         unprocessable("update", "articles", "views", "invalid value type: want int, got text"),
			wantCode:    "VAL001",
			wantMessage: "Invalid value type: views",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "unknown column",
			err:         unprocessable("create", "articles", "author", `unknown column "author"`),
			wantCode:    "VAL002",
			wantMessage: "Unknown column: author",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "read-only column",
			err:         unprocessable("update", "articles", "id", `column "id" is read-only`),
			wantCode:    "VAL003",
			wantMessage: "This column cannot be changed: id",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "empty filter",
			err:         unprocessable("filter", "articles", "", "column filter needs at least one value"),
			wantCode:    "VAL004",
			wantMessage: "Invalid filter",
			wantStatus:  http.StatusUnprocessableEntity,
		},
		{
			name:        "internal",
			err:         asInternal("list", "articles", errors.New("no such table: articles")),
			wantCode:    "ERR001",
			wantMessage: "The data operation failed",
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name:        "internal with connection cause",
			err:         asInternal("list", "articles", errors.New("dial tcp: connection refused")),
			wantCode:    "DB004",
			wantMessage: "Unable to connect to database",
			wantStatus:  http.StatusServiceUnavailable,
		},
		{
			name:        "wrapped kind still classified",
			err:         fmt.Errorf("handler: %w", notFound("get", "press", "gone")),
			wantCode:    "NF001",
			wantMessage: "Record not found",
			wantStatus:  http.StatusNotFound,
		},
		{
			name:        "timeout maps correctly",
			err:         errors.New("context deadline exceeded (timeout)"),
			wantCode:    "DB006",
			wantMessage: "Operation timed out",
			wantStatus:  http.StatusGatewayTimeout,
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("DEADLOCK detected"),
			wantCode:    "DB007",
			wantMessage: "Database was busy with conflicting operations",
			wantStatus:  http.StatusServiceUnavailable,
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
			wantStatus:  http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("MapError() status = %d, want %d", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := &OpError{Op: "create", Table: "press", Kind: ErrConflict}
	result := FormatUserError(err)

	expected := "This record conflicts with existing data (Code: CF001). Check for duplicate values and references"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "classified error is user facing",
			err:  notFound("get", "press", ""),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOpError(t *testing.T) {
	cause := errors.New("disk full")
	err := &OpError{Op: "create", Table: "press", Kind: ErrInternal, Msg: "insert failed", Err: cause}

	if got, want := err.Error(), "create press: internal error: insert failed: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrInternal) {
		t.Error("errors.Is(err, ErrInternal) = false")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("errors.Is(err, ErrNotFound) = true")
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{notFound("get", "press", ""), "not_found"},
		{&OpError{Op: "create", Kind: ErrConflict}, "conflict"},
		{unprocessable("create", "press", "name", "bad"), "unprocessable"},
		{asInternal("list", "press", errors.New("boom")), "internal"},
		{errors.New("unclassified"), "error"},
	}

	for _, tt := range tests {
		if got := Outcome(tt.err); got != tt.want {
			t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
