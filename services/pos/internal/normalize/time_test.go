package normalize

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTime(t *testing.T) {
	ist := time.FixedZone("IST", 5*60*60+30*60)

	tests := []struct {
		name   string
		input  any
		loc    *time.Location
		want   time.Time
		wantOK bool
	}{
		{name: "rfc3339", input: "2024-04-15T10:30:00Z", want: time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC), wantOK: true},
		{name: "rfc3339Offset", input: "2024-04-15T16:00:00+05:30", want: time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC), wantOK: true},
		{name: "isoNoZoneUsesLocation", input: "2024-04-15T16:00:00", loc: ist, want: time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC), wantOK: true},
		{name: "dateOnly", input: "2024-04-15", want: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "dayFirstDateOnly", input: "15/04/2024", want: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), wantOK: true},
		{name: "dayFirst24h", input: "15/04/2024 18:05:09", want: time.Date(2024, 4, 15, 18, 5, 9, 0, time.UTC), wantOK: true},
		{name: "dayFirstPM", input: "15/04/2024 10:30:15 pm", want: time.Date(2024, 4, 15, 22, 30, 15, 0, time.UTC), wantOK: true},
		{name: "dayFirstNoonPM", input: "15/04/2024 12:10:00 PM", want: time.Date(2024, 4, 15, 12, 10, 0, 0, time.UTC), wantOK: true},
		{name: "dayFirstMidnightAM", input: "15/04/2024 12:10:00am", want: time.Date(2024, 4, 15, 0, 10, 0, 0, time.UTC), wantOK: true},
		{name: "dayFirstCommaNoSeconds", input: "1/2/2024, 9:05 am", want: time.Date(2024, 2, 1, 9, 5, 0, 0, time.UTC), wantOK: true},
		{name: "dayFirstInLocation", input: "15/04/2024 16:00:00", loc: ist, want: time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC), wantOK: true},
		{name: "unixMillisFloat", input: 1713177000000.0, want: time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC), wantOK: true},
		{name: "unixMillisNumber", input: json.Number("1713177000000"), want: time.Date(2024, 4, 15, 10, 30, 0, 0, time.UTC), wantOK: true},
		{name: "lastMillisOfYear9999", input: json.Number("253402300799999"), want: time.Date(9999, 12, 31, 23, 59, 59, 999_000_000, time.UTC), wantOK: true},
		{name: "millisPastYear9999", input: json.Number("99999999999999999"), want: fixedNow, wantOK: false},
		{name: "hugeFloatMillis", input: 1e30, want: fixedNow, wantOK: false},
		{name: "negativeMillis", input: json.Number("-5"), want: fixedNow, wantOK: false},
		{name: "offsetPastYear9999", input: "9999-12-31T23:00:00-05:00", want: fixedNow, wantOK: false},
		{name: "invalidDay", input: "31/02/2024", want: fixedNow, wantOK: false},
		{name: "invalidMonth", input: "10/13/2024", want: fixedNow, wantOK: false},
		{name: "invalidPMHour", input: "15/04/2024 13:00:00 pm", want: fixedNow, wantOK: false},
		{name: "garbage", input: "yesterday-ish", want: fixedNow, wantOK: false},
		{name: "empty", input: "", want: fixedNow, wantOK: false},
		{name: "nil", input: nil, want: fixedNow, wantOK: false},
		{name: "boolean", input: true, want: fixedNow, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Time(tt.input, fixedNow, tt.loc)
			if ok != tt.wantOK {
				t.Fatalf("Time(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Time(%v) = %v, want %v", tt.input, got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("Time(%v) location = %v, want UTC", tt.input, got.Location())
			}
		})
	}
}
