package redis

import (
	"testing"
	"time"
)

func TestDecodeListing(t *testing.T) {
	ts := time.Date(2026, 8, 14, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		data      string
		writtenAt string
		wantOK    bool
		wantErr   bool
		wantIDs   []string
		wantTime  time.Time
	}{
		{
			name:      "valid payload and timestamp",
			data:      `[{"ID":"1","Title":"a"},{"ID":"2","Title":"b"}]`,
			writtenAt: ts.Format(time.RFC3339Nano),
			wantOK:    true,
			wantIDs:   []string{"1", "2"},
			wantTime:  ts,
		},
		{
			name:      "empty timestamp is a miss",
			data:      `[{"ID":"1"}]`,
			writtenAt: "",
			wantOK:    false,
		},
		{
			name:      "garbage timestamp is a miss",
			data:      `[{"ID":"1"}]`,
			writtenAt: "not-a-time",
			wantOK:    false,
		},
		{
			name:      "malformed payload is an error",
			data:      `{"not":"a list"`,
			writtenAt: ts.Format(time.RFC3339Nano),
			wantErr:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			records, writtenAt, ok, err := decodeListing([]byte(tc.data), tc.writtenAt)

			if tc.wantErr {
				if err == nil {
					t.Fatal("expected an error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeListing() error = %v", err)
			}
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !tc.wantOK {
				// A miss must never hand back a zero-time listing the
				// in-memory tier would treat as warm but never fresh.
				if records != nil || !writtenAt.IsZero() {
					t.Errorf("miss returned records=%v writtenAt=%v", records, writtenAt)
				}
				return
			}

			var ids []string
			for _, rec := range records {
				ids = append(ids, rec.ID)
			}
			if len(ids) != len(tc.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tc.wantIDs)
			}
			for i := range ids {
				if ids[i] != tc.wantIDs[i] {
					t.Errorf("ids[%d] = %q, want %q", i, ids[i], tc.wantIDs[i])
				}
			}
			if !writtenAt.Equal(tc.wantTime) {
				t.Errorf("writtenAt = %v, want %v", writtenAt, tc.wantTime)
			}
		})
	}
}
