// Package dashboard composes the per-semester and historical summary views
// out of the gradebook store and the grading engine.
package dashboard

import (
	"context"
	"time"

	"github.com/gradekeep/gradekeep/internal/gradebook"
	"github.com/gradekeep/gradekeep/internal/grading"
)

// SubjectSummary is one subject's aggregate within a semester's date range.
type SubjectSummary struct {
	Subject   gradebook.Subject `json:"subject"`
	Score     float64           `json:"score"` // truncated weighted average, 0-100
	NumGrades int               `json:"num_grades"`
	Average   *grading.Display  `json:"average,omitempty"`
	Top       *grading.Display  `json:"top,omitempty"`
	Legend    *grading.Band     `json:"legend,omitempty"`
}

// TotalAverage is the semester-wide weighted average over subjects.
type TotalAverage struct {
	Score   float64          `json:"score"`
	Display *grading.Display `json:"display,omitempty"`
	Legend  *grading.Band    `json:"legend,omitempty"`
}

// Summary is a dashboard or insights entry for one semester. NoData marks an
// account with no current semester or no graded subjects in it.
type Summary struct {
	NoData   bool                `json:"no_data,omitempty"`
	Semester *gradebook.Semester `json:"semester,omitempty"`
	Progress int                 `json:"progress,omitempty"`
	Subjects []SubjectSummary    `json:"subjects,omitempty"`
	TotalAvg *TotalAverage       `json:"total_avg,omitempty"`
}

type Assembler struct {
	store gradebook.Store
}

func NewAssembler(store gradebook.Store) *Assembler {
	return &Assembler{store: store}
}

// BuildDashboard summarizes the semester containing now. When no semester
// contains now, or no subject has grades inside it, the summary is the
// no-data marker rather than an error.
func (a *Assembler) BuildDashboard(ctx context.Context, accountID string, now time.Time) (Summary, error) {
	semesters, err := a.store.ListSemesters(ctx, accountID)
	if err != nil {
		return Summary{}, err
	}
	today := gradebook.DateOf(now)
	var current *gradebook.Semester
	for i := range semesters {
		s := semesters[i]
		if !today.Before(s.Start.Time) && !today.After(s.End.Time) {
			current = &s
			break
		}
	}
	if current == nil {
		return Summary{NoData: true}, nil
	}

	sys, resolver, err := a.systemFor(ctx, accountID)
	if err != nil {
		return Summary{}, err
	}
	subjects, err := a.summarizeSubjects(ctx, accountID, *current, sys, resolver)
	if err != nil {
		return Summary{}, err
	}
	if len(subjects) == 0 {
		return Summary{NoData: true}, nil
	}

	return Summary{
		Semester: current,
		Progress: progress(*current, today),
		Subjects: subjects,
		TotalAvg: totalAverage(subjects, sys, resolver),
	}, nil
}

// BuildInsights summarizes every semester of the account, current or not.
// An account without semesters yields an empty list, not a no-data marker.
func (a *Assembler) BuildInsights(ctx context.Context, accountID string) ([]Summary, error) {
	semesters, err := a.store.ListSemesters(ctx, accountID)
	if err != nil {
		return nil, err
	}
	sys, resolver, err := a.systemFor(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(semesters))
	for i := range semesters {
		sem := semesters[i]
		subjects, err := a.summarizeSubjects(ctx, accountID, sem, sys, resolver)
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			Semester: &sem,
			Subjects: subjects,
			TotalAvg: totalAverage(subjects, sys, resolver),
		})
	}
	return out, nil
}

func (a *Assembler) systemFor(ctx context.Context, accountID string) (grading.System, grading.Resolver, error) {
	acct, err := a.store.GetAccount(ctx, accountID)
	if err != nil {
		return grading.System{}, nil, err
	}
	sys, err := a.store.GetSystem(ctx, acct.SystemID)
	if err != nil {
		return grading.System{}, nil, err
	}
	resolver, err := grading.ForSystem(sys)
	if err != nil {
		return grading.System{}, nil, err
	}
	return sys, resolver, nil
}

// summarizeSubjects aggregates each subject's grades dated inside the
// semester. Subjects without grades in range are skipped entirely.
func (a *Assembler) summarizeSubjects(ctx context.Context, accountID string, sem gradebook.Semester, sys grading.System, resolver grading.Resolver) ([]SubjectSummary, error) {
	subjects, err := a.store.ListSubjects(ctx, accountID)
	if err != nil {
		return nil, err
	}
	var out []SubjectSummary
	for _, sub := range subjects {
		grades, err := a.store.ListSubjectGrades(ctx, sub.ID)
		if err != nil {
			return nil, err
		}
		inRange := grades[:0:0]
		for _, g := range grades {
			if !g.Date.Before(sem.Start.Time) && !g.Date.After(sem.End.Time) {
				inRange = append(inRange, g)
			}
		}
		if len(inRange) == 0 {
			continue
		}
		avg := grading.WeightedAverage(len(inRange),
			func(i int) float64 { return inRange[i].Score },
			func(i int) float64 { return inRange[i].Weight })
		top := grading.TopScore(len(inRange),
			func(i int) float64 { return inRange[i].Score })

		out = append(out, SubjectSummary{
			Subject:   sub,
			Score:     avg,
			NumGrades: len(inRange),
			Average:   displayOf(resolver, avg),
			Top:       displayOf(resolver, top),
			Legend:    legendOf(sys, avg),
		})
	}
	return out, nil
}

func totalAverage(subjects []SubjectSummary, sys grading.System, resolver grading.Resolver) *TotalAverage {
	avg := grading.WeightedAverage(len(subjects),
		func(i int) float64 { return subjects[i].Score },
		func(i int) float64 { return subjects[i].Subject.Weight })
	return &TotalAverage{
		Score:   avg,
		Display: displayOf(resolver, avg),
		Legend:  legendOf(sys, avg),
	}
}

// displayOf converts an aggregated percentage, tolerating band gaps: a
// percentage no band covers renders without a display rather than failing
// the whole view.
func displayOf(resolver grading.Resolver, pct float64) *grading.Display {
	d, err := resolver.DisplayGrade(pct)
	if err != nil {
		return nil
	}
	return &d
}

func legendOf(sys grading.System, pct float64) *grading.Band {
	if sys.Family != grading.FamilyCalculative {
		return nil
	}
	b, ok := grading.LegendFor(sys, pct)
	if !ok {
		return nil
	}
	return &b
}

// progress is elapsed semester time as a whole percentage: 0 on the first
// day, approaching 100 at the end.
func progress(sem gradebook.Semester, today gradebook.Date) int {
	span := sem.Start.DaysUntil(sem.End)
	if span == 0 {
		return 100
	}
	return int(float64(sem.Start.DaysUntil(today)) / float64(span) * 100)
}
