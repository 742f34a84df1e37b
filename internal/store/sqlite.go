package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/aire-labs/aire/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	grade      TEXT NOT NULL,
	score      REAL NOT NULL,
	killed     INTEGER NOT NULL DEFAULT 0,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS users (
	email         TEXT PRIMARY KEY,
	analyses_used INTEGER NOT NULL DEFAULT 0,
	paid          INTEGER NOT NULL DEFAULT 0,
	updated_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_analyses_email ON analyses(email);
CREATE INDEX IF NOT EXISTS idx_analyses_grade ON analyses(grade);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, email string, analysis *model.Analysis) (*model.AnalysisRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal analysis")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, email, address, grade, score, killed, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, email, analysis.Input.Address, string(analysis.Result.Grade),
		analysis.Result.FinalScore, boolToInt(analysis.Result.KillSwitch), string(payload), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert analysis")
	}

	return &model.AnalysisRecord{
		ID:        id,
		Email:     email,
		Analysis:  *analysis,
		CreatedAt: now,
	}, nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, payload, created_at FROM analyses WHERE id = ?`,
		id,
	)

	var rec model.AnalysisRecord
	var payload string
	err := row.Scan(&rec.ID, &rec.Email, &payload, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Errorf("analysis not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan analysis")
	}
	if err := json.Unmarshal([]byte(payload), &rec.Analysis); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal analysis")
	}
	return &rec, nil
}

func (s *SQLiteStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisRecord, error) {
	query := `SELECT id, email, payload, created_at FROM analyses WHERE 1=1`
	var args []any

	if filter.Email != "" {
		query += ` AND email = ?`
		args = append(args, filter.Email)
	}
	if filter.Grade != "" {
		query += ` AND grade = ?`
		args = append(args, string(filter.Grade))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list analyses")
	}
	defer rows.Close()

	var records []model.AnalysisRecord
	for rows.Next() {
		var rec model.AnalysisRecord
		var payload string
		if err := rows.Scan(&rec.ID, &rec.Email, &payload, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan analysis row")
		}
		if err := json.Unmarshal([]byte(payload), &rec.Analysis); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal analysis row")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list analyses iterate")
}

func (s *SQLiteStore) GetOrCreateUser(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT email, analyses_used, paid, updated_at FROM users WHERE email = ?`,
		email,
	)

	var u model.User
	var paid int
	err := row.Scan(&u.Email, &u.AnalysesUsed, &paid, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		now := time.Now().UTC()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO users (email, analyses_used, paid, updated_at) VALUES (?, 0, 0, ?)`,
			email, now,
		)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: insert user")
		}
		return &model.User{Email: email, UpdatedAt: now}, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan user")
	}
	u.Paid = paid != 0
	return &u, nil
}

func (s *SQLiteStore) IncrementUsage(ctx context.Context, email string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET analyses_used = analyses_used + 1, updated_at = ? WHERE email = ?`,
		time.Now().UTC(), email,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: increment usage %s", email)
	}
	return checkRowsAffected(res, "user", email)
}

func (s *SQLiteStore) SetPaid(ctx context.Context, email string, paid bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET paid = ?, updated_at = ? WHERE email = ?`,
		boolToInt(paid), time.Now().UTC(), email,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: set paid %s", email)
	}
	return checkRowsAffected(res, "user", email)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
