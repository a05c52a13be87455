package gradebook

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-01")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "2026-02-01" {
		t.Fatalf("got %s", d)
	}
	if _, err := ParseDate("02/01/2026"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestDaysUntil(t *testing.T) {
	a := NewDate(2026, time.January, 1)
	b := NewDate(2026, time.January, 31)
	if got := a.DaysUntil(b); got != 30 {
		t.Fatalf("DaysUntil = %d, want 30", got)
	}
	if got := b.DaysUntil(a); got != -30 {
		t.Fatalf("DaysUntil reversed = %d, want -30", got)
	}
	if got := a.DaysUntil(a); got != 0 {
		t.Fatalf("DaysUntil self = %d, want 0", got)
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	in := NewDate(2026, time.September, 1)
	buf, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != `"2026-09-01"` {
		t.Fatalf("marshal = %s", buf)
	}
	var out Date
	if err := json.Unmarshal(buf, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Equal(in.Time) {
		t.Fatalf("round trip mismatch: %s != %s", out, in)
	}
}
