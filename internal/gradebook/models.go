package gradebook

import (
	"errors"
	"time"

	"github.com/gradekeep/gradekeep/internal/grading"
)

var (
	// ErrForbidden is returned when a mutation targets a record the
	// requesting account does not own.
	ErrForbidden = errors.New("gradebook: record not owned by account")
	// ErrOverlap is returned when a semester would share a day with another.
	ErrOverlap = errors.New("gradebook: semester overlaps an existing one")
	// ErrSubjectLimit is returned when a free account already has the maximum
	// number of subjects.
	ErrSubjectLimit = errors.New("gradebook: subject limit reached")
	// ErrInvalidInput covers bad field values (non-positive weight, end
	// before start, empty name).
	ErrInvalidInput = errors.New("gradebook: invalid input")
	// ErrNotFound is returned by stores on a lookup miss.
	ErrNotFound = errors.New("gradebook: not found")
)

// FreeSubjectLimit caps subjects for accounts without the unlimited-subjects
// permission.
const FreeSubjectLimit = 10

// Plan names. Plans map to permissions in internal/policy; the gradebook
// itself only sees the resulting premium boolean.
const (
	PlanFree    = "free"
	PlanPremium = "premium"
)

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	SystemID     string    `json:"system_id"`
	Plan         string    `json:"plan"`
	Sponsored    bool      `json:"sponsored"`
	CreatedAt    time.Time `json:"created_at"`
}

type Semester struct {
	ID        string `json:"id"`
	AccountID string `json:"-"`
	Name      string `json:"name"`
	Start     Date   `json:"start"`
	End       Date   `json:"end"`
}

type Subject struct {
	ID        string  `json:"id"`
	AccountID string  `json:"-"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
}

type Grade struct {
	ID        string  `json:"id"`
	SubjectID string  `json:"subject_id"`
	Date      Date    `json:"date"`
	Weight    float64 `json:"weight"`
	Score     float64 `json:"score"`
	Note      string  `json:"note,omitempty"`
}

// AnnotatedGrade is a grade decorated with its representative band, for
// listings under a representative system. Display stays nil for calculative
// systems and for scores outside every band.
type AnnotatedGrade struct {
	Grade
	Display *grading.Display `json:"display,omitempty"`
}

// Kind names an ownable record type for the ownership guard.
type Kind string

const (
	KindSemester Kind = "semester"
	KindSubject  Kind = "subject"
	KindGrade    Kind = "grade"
)

// Order is a listing direction for grades.
type Order string

const (
	OrderDateAsc  Order = "date_asc"
	OrderDateDesc Order = "date_desc"
)
