package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"punch-payroll/internal/domain"
)

type SqliteRunRepo struct {
	db *sql.DB
}

func NewSqliteRunRepo(db *sql.DB) *SqliteRunRepo {
	return &SqliteRunRepo{db: db}
}

func (r *SqliteRunRepo) SaveRun(run domain.Run) (id int64, err error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.Exec(
		`INSERT INTO runs (source, created_at, employees) VALUES (?, ?, ?)`,
		run.Source,
		run.CreatedAt.UTC().Format(time.RFC3339Nano),
		run.Results.Len(),
	)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for pos, er := range run.Results.All() {
		res, err := tx.Exec(
			`INSERT INTO employee_results (run_id, position, employee, wage_total, benefit_total) VALUES (?, ?, ?, ?, ?)`,
			id, pos, er.Employee, er.WageTotal, er.BenefitTotal,
		)
		if err != nil {
			return 0, err
		}
		resultID, err := res.LastInsertId()
		if err != nil {
			return 0, err
		}
		for bpos, b := range er.Bands {
			if _, err := tx.Exec(
				`INSERT INTO band_hours (result_id, position, band, hours) VALUES (?, ?, ?, ?)`,
				resultID, bpos, b.Label, b.Hours,
			); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// GetRuns возвращает заголовки расчётов, новые первыми. Результаты не загружаются, для них есть GetRun.
func (r *SqliteRunRepo) GetRuns(source string, limit int) ([]domain.Run, error) {
	query := `SELECT id, source, created_at, employees FROM runs`
	args := []any{}
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SqliteRunRepo) GetRun(id int64) (domain.Run, error) {
	run, err := scanRun(r.db.QueryRow(`SELECT id, source, created_at, employees FROM runs WHERE id = ?`, id))
	if err != nil {
		return domain.Run{}, fmt.Errorf("run %d: %w", id, err)
	}

	results, err := r.loadResults(id)
	if err != nil {
		return domain.Run{}, fmt.Errorf("run %d results: %w", id, err)
	}
	run.Results = results
	return run, nil
}

func (r *SqliteRunRepo) loadResults(runID int64) (domain.Results, error) {
	rows, err := r.db.Query(
		`SELECT id, employee, wage_total, benefit_total FROM employee_results WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return domain.Results{}, err
	}
	var ids []int64
	var list []domain.EmployeeResult
	for rows.Next() {
		var id int64
		var er domain.EmployeeResult
		if err := rows.Scan(&id, &er.Employee, &er.WageTotal, &er.BenefitTotal); err != nil {
			rows.Close()
			return domain.Results{}, err
		}
		ids = append(ids, id)
		list = append(list, er)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return domain.Results{}, err
	}
	rows.Close()

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	rows, err = r.db.Query(
		`SELECT b.result_id, b.band, b.hours FROM band_hours b
		 JOIN employee_results e ON e.id = b.result_id
		 WHERE e.run_id = ? ORDER BY b.result_id, b.position`,
		runID,
	)
	if err != nil {
		return domain.Results{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var resultID int64
		var bh domain.BandHours
		if err := rows.Scan(&resultID, &bh.Label, &bh.Hours); err != nil {
			return domain.Results{}, err
		}
		if i, ok := index[resultID]; ok {
			list[i].Bands = append(list[i].Bands, bh)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Results{}, err
	}

	results := domain.NewResults()
	for _, er := range list {
		results.Set(er)
	}
	return results, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (domain.Run, error) {
	var run domain.Run
	var created string
	if err := s.Scan(&run.ID, &run.Source, &created, &run.Employees); err != nil {
		return domain.Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return domain.Run{}, err
	}
	run.CreatedAt = t
	return run, nil
}
