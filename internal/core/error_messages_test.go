package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "source not found maps correctly",
			err:         &SourceNotFoundError{Path: "data/jobs.csv", Err: os.ErrNotExist},
			wantCode:    "FILE001",
			wantMessage: "The input file does not exist or cannot be read",
		},
		{
			name:        "invalid csv maps correctly",
			err:         fmt.Errorf("load data/jobs.csv: invalid csv: %w", errors.New("bare \" in non-quoted field")),
			wantCode:    "FILE002",
			wantMessage: "The input file is not a valid CSV",
		},
		{
			name:        "empty source maps correctly",
			err:         fmt.Errorf("load data/jobs.csv: %w", ErrEmptySource),
			wantCode:    "FILE003",
			wantMessage: "The input file has no header row",
		},
		{
			name:        "destination write maps correctly",
			err:         &DestinationWriteError{Path: "out/clean.csv", Err: os.ErrPermission},
			wantCode:    "FILE004",
			wantMessage: "The cleaned file could not be written",
		},
		{
			name:        "cancellation maps correctly",
			err:         fmt.Errorf("clean: %w", context.Canceled),
			wantCode:    "RUN001",
			wantMessage: "The run was interrupted before the output was written",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("SOURCE NOT FOUND: x.csv"),
			wantCode:    "FILE001",
			wantMessage: "The input file does not exist or cannot be read",
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
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := &SourceNotFoundError{Path: "data/jobs.csv", Err: os.ErrNotExist}
	result := FormatUserError(err)

	expected := "The input file does not exist or cannot be read (Code: FILE001). Check the --input path"
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
			name: "known error is user facing",
			err:  ErrEmptySource,
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

func TestErrorTypes_Unwrap(t *testing.T) {
	notFound := fmt.Errorf("run: %w", &SourceNotFoundError{Path: "x.csv", Err: os.ErrNotExist})
	if !errors.Is(notFound, os.ErrNotExist) {
		t.Error("SourceNotFoundError should unwrap to its cause")
	}

	var target *SourceNotFoundError
	if !errors.As(notFound, &target) || target.Path != "x.csv" {
		t.Errorf("errors.As failed, got %+v", target)
	}

	writeErr := &DestinationWriteError{Path: "y.csv", Err: os.ErrPermission}
	if !errors.Is(writeErr, os.ErrPermission) {
		t.Error("DestinationWriteError should unwrap to its cause")
	}
}
