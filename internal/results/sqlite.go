package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore хранит результаты в одной таблице: ключевые поля отдельными
// колонками, полный документ в doc_json.
type SQLiteStore struct {
	db *sql.DB
}

func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS results (
  run_id TEXT PRIMARY KEY,
  test_name TEXT NOT NULL,
  created_at INTEGER NOT NULL,
  jobs INTEGER NOT NULL,
  machines INTEGER NOT NULL,
  solutions_match INTEGER NOT NULL,
  doc_json TEXT NOT NULL
);
`); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Save(ctx context.Context, r TestResult) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal result %q: %w", r.TestName, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO results (run_id, test_name, created_at, jobs, machines, solutions_match, doc_json)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.RunID,
		r.TestName,
		r.CreatedAt.UnixMilli(),
		r.Parameters.Jobs,
		r.Parameters.Machines,
		r.Comparison.SolutionsMatch,
		string(doc),
	)
	return err
}

// List возвращает все результаты в порядке сохранения.
func (s *SQLiteStore) List(ctx context.Context) ([]TestResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc_json FROM results ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TestResult
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var r TestResult
		if err := json.Unmarshal([]byte(doc), &r); err != nil {
			return nil, fmt.Errorf("corrupt result row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// MatchRate возвращает число совпавших сравнений и общее число записей.
func (s *SQLiteStore) MatchRate(ctx context.Context) (matched, total int, err error) {
	row := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(solutions_match), 0), COUNT(*) FROM results`)
	err = row.Scan(&matched, &total)
	return matched, total, err
}
