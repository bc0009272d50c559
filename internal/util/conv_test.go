package util_test

import (
	"testing"
	"time"

	"edu_manage_backend/internal/util"
)

func TestParseClockDuration(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"", 0, false},
		{"00:30", 30 * time.Second, false},
		{"15:00", 15 * time.Minute, false},
		{"01:30:00", 90 * time.Minute, false},
		{"00:00:00", 0, false},
		{"90", 0, true},
		{"1:2:3:4", 0, true},
		{"aa:bb", 0, true},
		{"-1:00", 0, true},
	}

	for _, tc := range cases {
		got, err := util.ParseClockDuration(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %v, want %v", tc.in, got, tc.want)
		}
	}
}
