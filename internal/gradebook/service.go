package gradebook

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gradekeep/gradekeep/internal/audit"
	"github.com/gradekeep/gradekeep/internal/grading"
)

// Service implements the gradebook's mutation and listing operations.
// Every mutation first runs the ownership guard against the requesting
// account; a failed guard refuses the mutation before anything is written.
type Service struct {
	store Store
	audit audit.Logger
}

func NewService(store Store, log audit.Logger) *Service {
	return &Service{store: store, audit: log}
}

// Store exposes the underlying store for read-side collaborators
// (dashboard assembly, HTTP listings).
func (s *Service) Store() Store { return s.store }

// Owns reports whether the record id of the given kind belongs to accountID.
// A miss is false, never an error: callers render "forbidden" uniformly
// whether the record is absent or someone else's.
func (s *Service) Owns(ctx context.Context, accountID, id string, kind Kind) bool {
	switch kind {
	case KindSemester:
		semesters, err := s.store.ListSemesters(ctx, accountID)
		if err != nil {
			return false
		}
		for _, sem := range semesters {
			if sem.ID == id {
				return true
			}
		}
	case KindSubject:
		subjects, err := s.store.ListSubjects(ctx, accountID)
		if err != nil {
			return false
		}
		for _, sub := range subjects {
			if sub.ID == id {
				return true
			}
		}
	case KindGrade:
		grades, err := s.store.ListGrades(ctx, accountID, OrderDateAsc)
		if err != nil {
			return false
		}
		for _, g := range grades {
			if g.ID == id {
				return true
			}
		}
	}
	return false
}

func (s *Service) logEvent(ctx context.Context, accountID, typ, key string, data any) {
	if s.audit == nil {
		return
	}
	// the log is best-effort; a failed append never rolls back the mutation
	_ = s.audit.Append(ctx, accountID, typ, key, data)
}

// ---- semesters ----

func (s *Service) CreateSemester(ctx context.Context, accountID, name string, start, end Date) (Semester, error) {
	sem := Semester{ID: uuid.NewString(), AccountID: accountID, Name: name, Start: start, End: end}
	if err := s.validateSemester(ctx, sem, ""); err != nil {
		return Semester{}, err
	}
	if err := s.store.PutSemester(ctx, sem); err != nil {
		return Semester{}, err
	}
	s.logEvent(ctx, accountID, "SemesterCreated", sem.ID, sem)
	return sem, nil
}

func (s *Service) EditSemester(ctx context.Context, accountID string, sem Semester) error {
	if !s.Owns(ctx, accountID, sem.ID, KindSemester) {
		return ErrForbidden
	}
	sem.AccountID = accountID
	if err := s.validateSemester(ctx, sem, sem.ID); err != nil {
		return err
	}
	if err := s.store.PutSemester(ctx, sem); err != nil {
		return err
	}
	s.logEvent(ctx, accountID, "SemesterEdited", sem.ID, sem)
	return nil
}

func (s *Service) DeleteSemester(ctx context.Context, accountID, id string) error {
	if !s.Owns(ctx, accountID, id, KindSemester) {
		return ErrForbidden
	}
	if err := s.store.DeleteSemester(ctx, id); err != nil {
		return err
	}
	s.logEvent(ctx, accountID, "SemesterDeleted", id, nil)
	return nil
}

func (s *Service) validateSemester(ctx context.Context, sem Semester, excludeID string) error {
	if sem.End.Before(sem.Start.Time) {
		return fmt.Errorf("%w: semester ends before it starts", ErrInvalidInput)
	}
	existing, err := s.store.ListSemesters(ctx, sem.AccountID)
	if err != nil {
		return err
	}
	if !NonOverlapping(sem, existing, excludeID) {
		return ErrOverlap
	}
	return nil
}

// ---- subjects ----

// CreateSubject adds a subject. premium comes from the policy layer: free
// accounts are capped at FreeSubjectLimit subjects.
func (s *Service) CreateSubject(ctx context.Context, accountID, name string, weight float64, premium bool) (Subject, error) {
	if name == "" || weight <= 0 {
		return Subject{}, ErrInvalidInput
	}
	existing, err := s.store.ListSubjects(ctx, accountID)
	if err != nil {
		return Subject{}, err
	}
	if len(existing) >= FreeSubjectLimit && !premium {
		return Subject{}, ErrSubjectLimit
	}
	sub := Subject{ID: uuid.NewString(), AccountID: accountID, Name: name, Weight: weight}
	if err := s.store.PutSubject(ctx, sub); err != nil {
		return Subject{}, err
	}
	s.logEvent(ctx, accountID, "SubjectCreated", sub.ID, sub)
	return sub, nil
}

func (s *Service) EditSubject(ctx context.Context, accountID string, sub Subject) error {
	if sub.Name == "" || sub.Weight <= 0 {
		return ErrInvalidInput
	}
	if !s.Owns(ctx, accountID, sub.ID, KindSubject) {
		return ErrForbidden
	}
	sub.AccountID = accountID
	if err := s.store.PutSubject(ctx, sub); err != nil {
		return err
	}
	s.logEvent(ctx, accountID, "SubjectEdited", sub.ID, sub)
	return nil
}

func (s *Service) DeleteSubject(ctx context.Context, accountID, id string) error {
	if !s.Owns(ctx, accountID, id, KindSubject) {
		return ErrForbidden
	}
	if err := s.store.DeleteSubject(ctx, id); err != nil {
		return err
	}
	s.logEvent(ctx, accountID, "SubjectDeleted", id, nil)
	return nil
}

// ---- grades ----

// GradeInput is everything a grade mutation carries besides the raw score.
type GradeInput struct {
	SubjectID string
	Date      Date
	Weight    float64
	Note      string
}

func (s *Service) resolveScore(ctx context.Context, accountID string, sub grading.Submission) (float64, error) {
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	sys, err := s.store.GetSystem(ctx, acct.SystemID)
	if err != nil {
		return 0, err
	}
	resolver, err := grading.ForSystem(sys)
	if err != nil {
		return 0, err
	}
	return resolver.ResolveSubmission(sub)
}

// CreateGrade resolves the submission under the account's grading system and
// stores the resulting percentage.
func (s *Service) CreateGrade(ctx context.Context, accountID string, in GradeInput, sub grading.Submission) (Grade, error) {
	if in.Weight <= 0 {
		return Grade{}, ErrInvalidInput
	}
	if !s.Owns(ctx, accountID, in.SubjectID, KindSubject) {
		return Grade{}, ErrForbidden
	}
	score, err := s.resolveScore(ctx, accountID, sub)
	if err != nil {
		return Grade{}, err
	}
	g := Grade{
		ID:        uuid.NewString(),
		SubjectID: in.SubjectID,
		Date:      in.Date,
		Weight:    in.Weight,
		Score:     score,
		Note:      in.Note,
	}
	if err := s.store.PutGrade(ctx, g); err != nil {
		return Grade{}, err
	}
	s.logEvent(ctx, accountID, "GradeCreated", g.ID, g)
	return g, nil
}

// EditGrade re-resolves the submission; a stored score is never mutated
// directly.
func (s *Service) EditGrade(ctx context.Context, accountID, gradeID string, in GradeInput, sub grading.Submission) (Grade, error) {
	if in.Weight <= 0 {
		return Grade{}, ErrInvalidInput
	}
	if !s.Owns(ctx, accountID, gradeID, KindGrade) || !s.Owns(ctx, accountID, in.SubjectID, KindSubject) {
		return Grade{}, ErrForbidden
	}
	score, err := s.resolveScore(ctx, accountID, sub)
	if err != nil {
		return Grade{}, err
	}
	g := Grade{
		ID:        gradeID,
		SubjectID: in.SubjectID,
		Date:      in.Date,
		Weight:    in.Weight,
		Score:     score,
		Note:      in.Note,
	}
	if err := s.store.PutGrade(ctx, g); err != nil {
		return Grade{}, err
	}
	s.logEvent(ctx, accountID, "GradeEdited", g.ID, g)
	return g, nil
}

func (s *Service) DeleteGrade(ctx context.Context, accountID, id string) error {
	if !s.Owns(ctx, accountID, id, KindGrade) {
		return ErrForbidden
	}
	if err := s.store.DeleteGrade(ctx, id); err != nil {
		return err
	}
	s.logEvent(ctx, accountID, "GradeDeleted", id, nil)
	return nil
}

// ListGrades returns the account's grades in date order, annotated with
// their representative band when the account's system has bands.
func (s *Service) ListGrades(ctx context.Context, accountID string, order Order) ([]AnnotatedGrade, error) {
	grades, err := s.store.ListGrades(ctx, accountID, order)
	if err != nil {
		return nil, err
	}
	acct, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	sys, err := s.store.GetSystem(ctx, acct.SystemID)
	if err != nil {
		return nil, err
	}
	out := make([]AnnotatedGrade, 0, len(grades))
	if sys.Family != grading.FamilyRepresentative {
		for _, g := range grades {
			out = append(out, AnnotatedGrade{Grade: g})
		}
		return out, nil
	}
	resolver, err := grading.ForSystem(sys)
	if err != nil {
		return nil, err
	}
	for _, g := range grades {
		ag := AnnotatedGrade{Grade: g}
		if d, err := resolver.DisplayGrade(g.Score); err == nil {
			ag.Display = &d
		}
		out = append(out, ag)
	}
	return out, nil
}
