package gradebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gradekeep/gradekeep/internal/grading"
)

// SQLStore persists the gradebook in sqlite or postgres. The schema lives in
// internal/db; placeholders are $1-style, which both drivers accept.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) CreateAccount(ctx context.Context, a Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (id,email,name,password_hash,system_id,plan,sponsored,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.Email, a.Name, a.PasswordHash, a.SystemID, a.Plan, a.Sponsored, a.CreatedAt.Unix())
	return err
}

func (s *SQLStore) scanAccount(row *sql.Row) (Account, error) {
	var a Account
	var created int64
	err := row.Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.SystemID, &a.Plan, &a.Sponsored, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	if err != nil {
		return Account{}, err
	}
	a.CreatedAt = unixTime(created)
	return a, nil
}

func (s *SQLStore) GetAccount(ctx context.Context, id string) (Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id,email,name,password_hash,system_id,plan,sponsored,created_at
		 FROM accounts WHERE id=$1`, id))
}

func (s *SQLStore) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	return s.scanAccount(s.db.QueryRowContext(ctx,
		`SELECT id,email,name,password_hash,system_id,plan,sponsored,created_at
		 FROM accounts WHERE email=$1`, email))
}

func (s *SQLStore) UpdateAccount(ctx context.Context, a Account) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET email=$1,name=$2,password_hash=$3,system_id=$4,plan=$5,sponsored=$6
		 WHERE id=$7`,
		a.Email, a.Name, a.PasswordHash, a.SystemID, a.Plan, a.Sponsored, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) GetSystem(ctx context.Context, id string) (grading.System, error) {
	var sys grading.System
	var family string
	err := s.db.QueryRowContext(ctx,
		`SELECT id,name,family FROM grading_systems WHERE id=$1`, id).
		Scan(&sys.ID, &sys.Name, &family)
	if errors.Is(err, sql.ErrNoRows) {
		return grading.System{}, ErrNotFound
	}
	if err != nil {
		return grading.System{}, err
	}
	sys.Family = grading.Family(family)
	if err := s.loadSystemDetail(ctx, &sys); err != nil {
		return grading.System{}, err
	}
	return sys, nil
}

func (s *SQLStore) ListSystems(ctx context.Context) ([]grading.System, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,name,family FROM grading_systems ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []grading.System
	for rows.Next() {
		var sys grading.System
		var family string
		if err := rows.Scan(&sys.ID, &sys.Name, &family); err != nil {
			return nil, err
		}
		sys.Family = grading.Family(family)
		out = append(out, sys)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if err := s.loadSystemDetail(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *SQLStore) loadSystemDetail(ctx context.Context, sys *grading.System) error {
	var det grading.CalculativeDetail
	err := s.db.QueryRowContext(ctx,
		`SELECT bottom,top,bottom_per FROM calculative_details WHERE system_id=$1`, sys.ID).
		Scan(&det.Bottom, &det.Top, &det.BottomPer)
	switch {
	case err == nil:
		sys.Calculative = &det
	case errors.Is(err, sql.ErrNoRows):
		// representative systems have no detail row
	default:
		return err
	}
	sys.Bands, err = s.loadBands(ctx, `representative_bands`, sys.ID)
	if err != nil {
		return err
	}
	sys.LegendBands, err = s.loadBands(ctx, `legend_bands`, sys.ID)
	return err
}

func (s *SQLStore) loadBands(ctx context.Context, table, systemID string) ([]grading.Band, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id,bottom,top,label,level FROM %s WHERE system_id=$1`, table), systemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []grading.Band
	for rows.Next() {
		var b grading.Band
		if err := rows.Scan(&b.ID, &b.Bottom, &b.Top, &b.Label, &b.Level); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLStore) ListSemesters(ctx context.Context, accountID string) ([]Semester, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,account_id,name,start_date,end_date FROM semesters
		 WHERE account_id=$1 ORDER BY start_date`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Semester
	for rows.Next() {
		var sem Semester
		var start, end string
		if err := rows.Scan(&sem.ID, &sem.AccountID, &sem.Name, &start, &end); err != nil {
			return nil, err
		}
		if sem.Start, err = ParseDate(start); err != nil {
			return nil, err
		}
		if sem.End, err = ParseDate(end); err != nil {
			return nil, err
		}
		out = append(out, sem)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutSemester(ctx context.Context, sem Semester) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO semesters (id,account_id,name,start_date,end_date)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name,
		   start_date=EXCLUDED.start_date, end_date=EXCLUDED.end_date`,
		sem.ID, sem.AccountID, sem.Name, sem.Start.String(), sem.End.String())
	return err
}

func (s *SQLStore) DeleteSemester(ctx context.Context, id string) error {
	return s.deleteRow(ctx, `DELETE FROM semesters WHERE id=$1`, id)
}

func (s *SQLStore) ListSubjects(ctx context.Context, accountID string) ([]Subject, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,account_id,name,weight FROM subjects
		 WHERE account_id=$1 ORDER BY name`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Subject
	for rows.Next() {
		var sub Subject
		if err := rows.Scan(&sub.ID, &sub.AccountID, &sub.Name, &sub.Weight); err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutSubject(ctx context.Context, sub Subject) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subjects (id,account_id,name,weight) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, weight=EXCLUDED.weight`,
		sub.ID, sub.AccountID, sub.Name, sub.Weight)
	return err
}

func (s *SQLStore) DeleteSubject(ctx context.Context, id string) error {
	// grades cascade via FK
	return s.deleteRow(ctx, `DELETE FROM subjects WHERE id=$1`, id)
}

func (s *SQLStore) GetGrade(ctx context.Context, id string) (Grade, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,subject_id,grade_date,weight,score,note FROM grades WHERE id=$1`, id)
	var g Grade
	var date string
	err := row.Scan(&g.ID, &g.SubjectID, &date, &g.Weight, &g.Score, &g.Note)
	if errors.Is(err, sql.ErrNoRows) {
		return Grade{}, ErrNotFound
	}
	if err != nil {
		return Grade{}, err
	}
	if g.Date, err = ParseDate(date); err != nil {
		return Grade{}, err
	}
	return g, nil
}

func (s *SQLStore) ListGrades(ctx context.Context, accountID string, order Order) ([]Grade, error) {
	dir := "ASC"
	if order == OrderDateDesc {
		dir = "DESC"
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT g.id,g.subject_id,g.grade_date,g.weight,g.score,g.note
		 FROM grades g JOIN subjects s ON g.subject_id = s.id
		 WHERE s.account_id=$1 ORDER BY g.grade_date %s`, dir), accountID)
	if err != nil {
		return nil, err
	}
	return scanGrades(rows)
}

func (s *SQLStore) ListSubjectGrades(ctx context.Context, subjectID string) ([]Grade, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,subject_id,grade_date,weight,score,note FROM grades
		 WHERE subject_id=$1 ORDER BY grade_date`, subjectID)
	if err != nil {
		return nil, err
	}
	return scanGrades(rows)
}

func scanGrades(rows *sql.Rows) ([]Grade, error) {
	defer rows.Close()
	var out []Grade
	for rows.Next() {
		var g Grade
		var date string
		if err := rows.Scan(&g.ID, &g.SubjectID, &date, &g.Weight, &g.Score, &g.Note); err != nil {
			return nil, err
		}
		var err error
		if g.Date, err = ParseDate(date); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutGrade(ctx context.Context, g Grade) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO grades (id,subject_id,grade_date,weight,score,note)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET subject_id=EXCLUDED.subject_id,
		   grade_date=EXCLUDED.grade_date, weight=EXCLUDED.weight,
		   score=EXCLUDED.score, note=EXCLUDED.note`,
		g.ID, g.SubjectID, g.Date.String(), g.Weight, g.Score, g.Note)
	return err
}

func (s *SQLStore) DeleteGrade(ctx context.Context, id string) error {
	return s.deleteRow(ctx, `DELETE FROM grades WHERE id=$1`, id)
}

func (s *SQLStore) deleteRow(ctx context.Context, query, id string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
