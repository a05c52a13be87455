package gradebook

import (
	"testing"
	"time"
)

func sem(id string, start, end Date) Semester {
	return Semester{ID: id, AccountID: "acct", Start: start, End: end}
}

func TestNonOverlapping(t *testing.T) {
	jan1 := NewDate(2026, time.January, 1)
	jan10 := NewDate(2026, time.January, 10)
	jan15 := NewDate(2026, time.January, 15)
	jan31 := NewDate(2026, time.January, 31)
	feb1 := NewDate(2026, time.February, 1)
	feb28 := NewDate(2026, time.February, 28)

	a := sem("a", jan1, jan31)
	b := sem("b", feb1, feb28)
	if !NonOverlapping(a, []Semester{b}, "") {
		t.Fatal("adjacent months do not overlap")
	}
	// symmetric
	if !NonOverlapping(b, []Semester{a}, "") {
		t.Fatal("overlap check must be symmetric")
	}

	c := sem("c", jan1, jan15)
	d := sem("d", jan10, jan31)
	if NonOverlapping(c, []Semester{d}, "") {
		t.Fatal("Jan 1-15 and Jan 10-31 overlap")
	}
	if NonOverlapping(d, []Semester{c}, "") {
		t.Fatal("overlap check must be symmetric")
	}
}

func TestNonOverlappingSharedBoundaryDay(t *testing.T) {
	a := sem("a", NewDate(2026, time.January, 1), NewDate(2026, time.January, 31))
	b := sem("b", NewDate(2026, time.January, 31), NewDate(2026, time.March, 1))
	// overlap is inclusive: sharing one calendar day is a conflict
	if NonOverlapping(a, []Semester{b}, "") {
		t.Fatal("sharing a boundary day must count as overlap")
	}
}

func TestNonOverlappingExcludesSelf(t *testing.T) {
	a := sem("a", NewDate(2026, time.January, 1), NewDate(2026, time.January, 31))
	// revalidating an edit against itself must not self-conflict
	if !NonOverlapping(a, []Semester{a}, "a") {
		t.Fatal("excluded id must be skipped")
	}
	if NonOverlapping(a, []Semester{a}, "") {
		t.Fatal("without exclusion the same interval conflicts")
	}
}
