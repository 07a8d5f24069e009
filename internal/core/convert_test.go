package core

import (
	"testing"
	"time"
)

// ----------------------------------------------------------------------------
// IsMissing Tests
// ----------------------------------------------------------------------------

func TestIsMissing(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"NA", true},
		{"N/A", true},
		{"NaN", true},
		{"nan", true},
		{"NULL", true},
		{"None", true},
		{" <NA> ", true},
		{"#N/A", true},
		{"0", false},
		{"Senior", false},
		{"na", false},
		{"Nairobi", false},
	}

	for _, tt := range tests {
		if got := IsMissing(tt.input); got != tt.want {
			t.Errorf("IsMissing(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// ToDecimal Tests
// ----------------------------------------------------------------------------

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		wantValue string
	}{
		{name: "positive integer", input: "123", wantValid: true, wantValue: "123"},
		{name: "negative integer", input: "-456", wantValid: true, wantValue: "-456"},
		{name: "explicit plus", input: "+7", wantValid: true, wantValue: "7"},
		{name: "decimal", input: "123.45", wantValid: true, wantValue: "123.45"},
		{name: "scientific", input: "1.5e3", wantValid: true, wantValue: "1500"},
		{name: "surrounding whitespace", input: "  42  ", wantValid: true, wantValue: "42"},
		{name: "empty", input: "", wantValid: false},
		{name: "missing marker", input: "NaN", wantValid: false},
		{name: "currency rejected", input: "$1,234", wantValid: false},
		{name: "identifier", input: "AI00001", wantValid: false},
		{name: "text", input: "Senior", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDecimal(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ToDecimal(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if tt.wantValid && got.Decimal.String() != tt.wantValue {
				t.Errorf("ToDecimal(%q) = %s, want %s", tt.input, got.Decimal.String(), tt.wantValue)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ToPgText Tests
// ----------------------------------------------------------------------------

func TestToPgText(t *testing.T) {
	if got := ToPgText("  Remote  "); !got.Valid || got.String != "  Remote  " {
		t.Errorf("ToPgText should keep the text as read: got %+v", got)
	}
	if got := ToPgText("   "); got.Valid {
		t.Errorf("ToPgText(blank) should be invalid, got %+v", got)
	}
	if got := ToPgText("NA"); got.Valid {
		t.Errorf("ToPgText(NA) should be invalid, got %+v", got)
	}
}

// ----------------------------------------------------------------------------
// ToPgTimestamp Tests
// ----------------------------------------------------------------------------

func TestToPgTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      time.Time
	}{
		{"ISO date", "2024-01-01", true, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"ISO timestamp", "2024-02-15 13:45:00", true, time.Date(2024, 2, 15, 13, 45, 0, 0, time.UTC)},
		{"RFC3339 with zone", "2024-02-15T13:45:00+02:00", true, time.Date(2024, 2, 15, 11, 45, 0, 0, time.UTC)},
		{"US date", "03/15/2024", true, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"compact", "20240315", true, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"month name", "Jan 5, 2024", true, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"two digit year", "1/2/24", true, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"two digit year at cutoff", "1/2/49", true, time.Date(2049, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"two digit year past cutoff", "1/2/55", true, time.Date(1955, 1, 2, 0, 0, 0, 0, time.UTC)},
		{"missing", "", false, time.Time{}},
		{"free text", "posted last week", false, time.Time{}},
		{"plain number", "42", false, time.Time{}},
		{"impossible date", "2024-13-45", false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPgTimestamp(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("ToPgTimestamp(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
			if tt.wantValid && !got.Time.Equal(tt.want) {
				t.Errorf("ToPgTimestamp(%q) = %v, want %v", tt.input, got.Time, tt.want)
			}
		})
	}
}

func TestToPgTimestamp_KeepsOffset(t *testing.T) {
	got := ToPgTimestamp("2024-01-02T00:00:00+02:00")
	if !got.Valid {
		t.Fatal("expected valid timestamp")
	}
	if _, offset := got.Time.Zone(); offset != 2*60*60 {
		t.Errorf("offset = %d, want %d", offset, 2*60*60)
	}
	if y, m, d := got.Time.Date(); y != 2024 || m != time.January || d != 2 {
		t.Errorf("date = %d-%02d-%02d, want 2024-01-02", y, m, d)
	}
}

// ----------------------------------------------------------------------------
// Header Tests
// ----------------------------------------------------------------------------

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"job_title", "job_title"},
		{"  salary_usd  ", "salary_usd"},
		{`="posting_date"`, "posting_date"},
		{"=company", "company"},
		{`"quoted"`, "quoted"},
	}

	for _, tt := range tests {
		if got := CleanHeader(tt.input); got != tt.want {
			t.Errorf("CleanHeader(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestUniqueHeaders(t *testing.T) {
	got := UniqueHeaders([]string{"id", "name", "id", "", "id"})
	want := []string{"id", "name", "id.1", "Unnamed: 3", "id.2"}

	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("header[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
