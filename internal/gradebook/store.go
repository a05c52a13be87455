package gradebook

import (
	"context"
	"sort"
	"sync"

	"github.com/gradekeep/gradekeep/internal/grading"
)

// Store is the persistence boundary of the gradebook. Implementations:
// SQLStore for sqlite/postgres, NewInMemoryStore for tests and offline use.
type Store interface {
	CreateAccount(ctx context.Context, a Account) error
	GetAccount(ctx context.Context, id string) (Account, error)
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	UpdateAccount(ctx context.Context, a Account) error

	// Grading-system configuration is read-only to the service.
	GetSystem(ctx context.Context, id string) (grading.System, error)
	ListSystems(ctx context.Context) ([]grading.System, error)

	ListSemesters(ctx context.Context, accountID string) ([]Semester, error)
	PutSemester(ctx context.Context, s Semester) error
	DeleteSemester(ctx context.Context, id string) error

	ListSubjects(ctx context.Context, accountID string) ([]Subject, error)
	PutSubject(ctx context.Context, s Subject) error
	DeleteSubject(ctx context.Context, id string) error

	GetGrade(ctx context.Context, id string) (Grade, error)
	ListGrades(ctx context.Context, accountID string, order Order) ([]Grade, error)
	ListSubjectGrades(ctx context.Context, subjectID string) ([]Grade, error)
	PutGrade(ctx context.Context, g Grade) error
	DeleteGrade(ctx context.Context, id string) error
}

type memoryStore struct {
	mu        sync.RWMutex
	accounts  map[string]Account
	systems   map[string]grading.System
	semesters map[string]Semester
	subjects  map[string]Subject
	grades    map[string]Grade
}

// NewInMemoryStore returns an empty Store backed by maps. Systems must be
// loaded with SeedSystem before accounts can reference them.
func NewInMemoryStore() *memoryStore {
	return &memoryStore{
		accounts:  map[string]Account{},
		systems:   map[string]grading.System{},
		semesters: map[string]Semester{},
		subjects:  map[string]Subject{},
		grades:    map[string]Grade{},
	}
}

// SeedSystem installs a grading system. Configuration rows are otherwise
// read-only, so only the memory store exposes this.
func (m *memoryStore) SeedSystem(sys grading.System) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.systems[sys.ID] = sys
}

func (m *memoryStore) CreateAccount(_ context.Context, a Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.accounts {
		if existing.Email == a.Email {
			return ErrInvalidInput
		}
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *memoryStore) GetAccount(_ context.Context, id string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (m *memoryStore) GetAccountByEmail(_ context.Context, email string) (Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

func (m *memoryStore) UpdateAccount(_ context.Context, a Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.ID]; !ok {
		return ErrNotFound
	}
	m.accounts[a.ID] = a
	return nil
}

func (m *memoryStore) GetSystem(_ context.Context, id string) (grading.System, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sys, ok := m.systems[id]
	if !ok {
		return grading.System{}, ErrNotFound
	}
	return sys, nil
}

func (m *memoryStore) ListSystems(_ context.Context) ([]grading.System, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]grading.System, 0, len(m.systems))
	for _, sys := range m.systems {
		out = append(out, sys)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryStore) ListSemesters(_ context.Context, accountID string) ([]Semester, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Semester
	for _, s := range m.semesters {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start.Time) })
	return out, nil
}

func (m *memoryStore) PutSemester(_ context.Context, s Semester) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.semesters[s.ID] = s
	return nil
}

func (m *memoryStore) DeleteSemester(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.semesters[id]; !ok {
		return ErrNotFound
	}
	delete(m.semesters, id)
	return nil
}

func (m *memoryStore) ListSubjects(_ context.Context, accountID string) ([]Subject, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Subject
	for _, s := range m.subjects {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryStore) PutSubject(_ context.Context, s Subject) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects[s.ID] = s
	return nil
}

func (m *memoryStore) DeleteSubject(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subjects[id]; !ok {
		return ErrNotFound
	}
	delete(m.subjects, id)
	// grades cascade with their subject
	for gid, g := range m.grades {
		if g.SubjectID == id {
			delete(m.grades, gid)
		}
	}
	return nil
}

func (m *memoryStore) GetGrade(_ context.Context, id string) (Grade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.grades[id]
	if !ok {
		return Grade{}, ErrNotFound
	}
	return g, nil
}

func (m *memoryStore) ListGrades(_ context.Context, accountID string, order Order) ([]Grade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	owned := map[string]bool{}
	for _, s := range m.subjects {
		if s.AccountID == accountID {
			owned[s.ID] = true
		}
	}
	var out []Grade
	for _, g := range m.grades {
		if owned[g.SubjectID] {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if order == OrderDateDesc {
			return out[j].Date.Before(out[i].Date.Time)
		}
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out, nil
}

func (m *memoryStore) ListSubjectGrades(_ context.Context, subjectID string) ([]Grade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Grade
	for _, g := range m.grades {
		if g.SubjectID == subjectID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out, nil
}

func (m *memoryStore) PutGrade(_ context.Context, g Grade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grades[g.ID] = g
	return nil
}

func (m *memoryStore) DeleteGrade(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.grades[id]; !ok {
		return ErrNotFound
	}
	delete(m.grades, id)
	return nil
}
