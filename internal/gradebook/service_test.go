package gradebook

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/gradekeep/gradekeep/internal/grading"
)

func newTestService(t *testing.T) (*Service, *memoryStore) {
	t.Helper()
	store := NewInMemoryStore()
	store.SeedSystem(grading.System{
		ID:          "ch",
		Name:        "CH",
		Family:      grading.FamilyCalculative,
		Calculative: &grading.CalculativeDetail{Bottom: 1, Top: 6, BottomPer: 20},
	})
	store.SeedSystem(grading.System{
		ID:     "us",
		Name:   "US Letter",
		Family: grading.FamilyRepresentative,
		Bands: []grading.Band{
			{ID: "us-a", Bottom: 90, Top: 101, Label: "A", Level: 1},
			{ID: "us-b", Bottom: 80, Top: 90, Label: "B", Level: 2},
			{ID: "us-f", Bottom: 0, Top: 60, Label: "F", Level: 5},
		},
	})
	return NewService(store, nil), store
}

func addAccount(t *testing.T, store *memoryStore, id, systemID string) {
	t.Helper()
	err := store.CreateAccount(context.Background(), Account{
		ID:       id,
		Email:    id + "@example.com",
		SystemID: systemID,
		Plan:     PlanFree,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCreateSemesterRejectsOverlap(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "ch")
	ctx := context.Background()

	_, err := svc.CreateSemester(ctx, "u1", "HS26",
		NewDate(2026, time.January, 1), NewDate(2026, time.June, 30))
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.CreateSemester(ctx, "u1", "clash",
		NewDate(2026, time.June, 30), NewDate(2026, time.December, 20))
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("want ErrOverlap, got %v", err)
	}
	// another account may use the same dates
	addAccount(t, store, "u2", "ch")
	if _, err := svc.CreateSemester(ctx, "u2", "HS26",
		NewDate(2026, time.January, 1), NewDate(2026, time.June, 30)); err != nil {
		t.Fatal(err)
	}
}

func TestCreateSemesterRejectsReversedDates(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "ch")

	_, err := svc.CreateSemester(context.Background(), "u1", "bad",
		NewDate(2026, time.June, 1), NewDate(2026, time.January, 1))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestEditSemesterAgainstItself(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "ch")
	ctx := context.Background()

	sem, err := svc.CreateSemester(ctx, "u1", "HS26",
		NewDate(2026, time.January, 1), NewDate(2026, time.June, 30))
	if err != nil {
		t.Fatal(err)
	}
	// shrinking inside its own old range must not self-conflict
	sem.Name = "HS26 (short)"
	sem.End = NewDate(2026, time.May, 31)
	if err := svc.EditSemester(ctx, "u1", sem); err != nil {
		t.Fatal(err)
	}
}

func TestSemesterOwnershipGuards(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "owner", "ch")
	addAccount(t, store, "intruder", "ch")
	ctx := context.Background()

	sem, err := svc.CreateSemester(ctx, "owner", "HS26",
		NewDate(2026, time.January, 1), NewDate(2026, time.June, 30))
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteSemester(ctx, "intruder", sem.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	sem.Name = "stolen"
	if err := svc.EditSemester(ctx, "intruder", sem); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	// nothing was written
	got, err := store.ListSemesters(ctx, "owner")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "HS26" {
		t.Fatalf("semester mutated despite refusal: %+v", got)
	}
}

func TestSubjectCap(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "ch")
	ctx := context.Background()

	for i := 0; i < FreeSubjectLimit; i++ {
		if _, err := svc.CreateSubject(ctx, "u1", fmt.Sprintf("Subject %d", i), 1, false); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.CreateSubject(ctx, "u1", "one too many", 1, false); !errors.Is(err, ErrSubjectLimit) {
		t.Fatalf("want ErrSubjectLimit, got %v", err)
	}
	// the premium flag lifts the cap
	if _, err := svc.CreateSubject(ctx, "u1", "premium extra", 1, true); err != nil {
		t.Fatal(err)
	}
}

func TestCreateSubjectValidation(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "ch")
	ctx := context.Background()

	if _, err := svc.CreateSubject(ctx, "u1", "", 1, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty name: want ErrInvalidInput, got %v", err)
	}
	if _, err := svc.CreateSubject(ctx, "u1", "Math", 0, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero weight: want ErrInvalidInput, got %v", err)
	}
}

func TestCreateGradeResolvesScore(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "ch")
	ctx := context.Background()

	sub, err := svc.CreateSubject(ctx, "u1", "Math", 2, false)
	if err != nil {
		t.Fatal(err)
	}
	four := 4.0
	g, err := svc.CreateGrade(ctx, "u1",
		GradeInput{SubjectID: sub.ID, Date: NewDate(2026, time.March, 10), Weight: 1},
		grading.Submission{Grade: &four})
	if err != nil {
		t.Fatal(err)
	}
	if g.Score != 68.0 {
		t.Fatalf("score = %v, want 68.0", g.Score)
	}
}

func TestEditGradeReResolves(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "ch")
	ctx := context.Background()

	sub, _ := svc.CreateSubject(ctx, "u1", "Math", 1, false)
	four := 4.0
	g, err := svc.CreateGrade(ctx, "u1",
		GradeInput{SubjectID: sub.ID, Date: NewDate(2026, time.March, 10), Weight: 1},
		grading.Submission{Grade: &four})
	if err != nil {
		t.Fatal(err)
	}

	g2, err := svc.EditGrade(ctx, "u1", g.ID,
		GradeInput{SubjectID: sub.ID, Date: g.Date, Weight: 1},
		grading.Submission{Points: &grading.PointsPair{Total: 10, Earned: 5}})
	if err != nil {
		t.Fatal(err)
	}
	// 5/10 * 0.8 + 0.2 = 0.6
	if g2.Score != 60.0 {
		t.Fatalf("score = %v, want 60.0", g2.Score)
	}
}

func TestGradeOwnershipRefusedEndToEnd(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "owner", "ch")
	addAccount(t, store, "intruder", "ch")
	ctx := context.Background()

	sub, _ := svc.CreateSubject(ctx, "owner", "Math", 1, false)
	four := 4.0
	in := GradeInput{SubjectID: sub.ID, Date: NewDate(2026, time.March, 10), Weight: 1}

	if _, err := svc.CreateGrade(ctx, "intruder", in, grading.Submission{Grade: &four}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	grades, err := store.ListSubjectGrades(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(grades) != 0 {
		t.Fatal("refused mutation must not write")
	}

	g, _ := svc.CreateGrade(ctx, "owner", in, grading.Submission{Grade: &four})
	if err := svc.DeleteGrade(ctx, "intruder", g.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if !svc.Owns(ctx, "owner", g.ID, KindGrade) {
		t.Fatal("owner must still own the grade")
	}
	if svc.Owns(ctx, "intruder", g.ID, KindGrade) {
		t.Fatal("intruder must not own the grade")
	}
}

func TestListGradesAnnotatesRepresentative(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "us")
	ctx := context.Background()

	sub, _ := svc.CreateSubject(ctx, "u1", "History", 1, false)
	_, err := svc.CreateGrade(ctx, "u1",
		GradeInput{SubjectID: sub.ID, Date: NewDate(2026, time.March, 1), Weight: 1},
		grading.Submission{BandID: "us-b"})
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.CreateGrade(ctx, "u1",
		GradeInput{SubjectID: sub.ID, Date: NewDate(2026, time.April, 1), Weight: 1},
		grading.Submission{BandID: "us-a"})
	if err != nil {
		t.Fatal(err)
	}

	grades, err := svc.ListGrades(ctx, "u1", OrderDateDesc)
	if err != nil {
		t.Fatal(err)
	}
	if len(grades) != 2 {
		t.Fatalf("got %d grades", len(grades))
	}
	if !grades[0].Date.After(grades[1].Date.Time) {
		t.Fatal("desc order expected")
	}
	if grades[0].Display == nil || grades[0].Display.Label != "A" {
		t.Fatalf("band annotation missing: %+v", grades[0].Display)
	}
}

func TestDeleteSubjectCascadesGrades(t *testing.T) {
	svc, store := newTestService(t)
	addAccount(t, store, "u1", "ch")
	ctx := context.Background()

	sub, _ := svc.CreateSubject(ctx, "u1", "Math", 1, false)
	four := 4.0
	g, _ := svc.CreateGrade(ctx, "u1",
		GradeInput{SubjectID: sub.ID, Date: NewDate(2026, time.March, 10), Weight: 1},
		grading.Submission{Grade: &four})

	if err := svc.DeleteSubject(ctx, "u1", sub.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetGrade(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("grade should cascade with subject, got %v", err)
	}
}
