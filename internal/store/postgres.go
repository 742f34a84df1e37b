package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/aire-labs/aire/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock satisfies it,
// which is what makes the Postgres store testable without a database.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool. Used by tests with pgxmock.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS analyses (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL DEFAULT '',
	address    TEXT NOT NULL DEFAULT '',
	grade      TEXT NOT NULL,
	score      DOUBLE PRECISION NOT NULL,
	killed     BOOLEAN NOT NULL DEFAULT false,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
	email         TEXT PRIMARY KEY,
	analyses_used INTEGER NOT NULL DEFAULT 0,
	paid          BOOLEAN NOT NULL DEFAULT false,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_analyses_email ON analyses(email);
CREATE INDEX IF NOT EXISTS idx_analyses_grade ON analyses(grade);
CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, email string, analysis *model.Analysis) (*model.AnalysisRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal analysis")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (id, email, address, grade, score, killed, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, email, analysis.Input.Address, string(analysis.Result.Grade),
		analysis.Result.FinalScore, analysis.Result.KillSwitch, payload, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert analysis")
	}

	return &model.AnalysisRecord{
		ID:        id,
		Email:     email,
		Analysis:  *analysis,
		CreatedAt: now,
	}, nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, email, payload, created_at FROM analyses WHERE id = $1`,
		id,
	)

	var rec model.AnalysisRecord
	var payload []byte
	err := row.Scan(&rec.ID, &rec.Email, &payload, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Errorf("analysis not found: %s", id)
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan analysis")
	}
	if err := json.Unmarshal(payload, &rec.Analysis); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal analysis")
	}
	return &rec, nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, filter AnalysisFilter) ([]model.AnalysisRecord, error) {
	query := `SELECT id, email, payload, created_at FROM analyses WHERE 1=1`
	var args []any
	argNum := 1

	if filter.Email != "" {
		query += fmt.Sprintf(" AND email = $%d", argNum)
		args = append(args, filter.Email)
		argNum++
	}
	if filter.Grade != "" {
		query += fmt.Sprintf(" AND grade = $%d", argNum)
		args = append(args, string(filter.Grade))
		argNum++
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT $%d", argNum)
	args = append(args, limit)
	argNum++

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list analyses")
	}
	defer rows.Close()

	var records []model.AnalysisRecord
	for rows.Next() {
		var rec model.AnalysisRecord
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.Email, &payload, &rec.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan analysis row")
		}
		if err := json.Unmarshal(payload, &rec.Analysis); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal analysis row")
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: list analyses iterate")
}

func (s *PostgresStore) GetOrCreateUser(ctx context.Context, email string) (*model.User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (email) VALUES ($1)
		 ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		 RETURNING email, analyses_used, paid, updated_at`,
		email,
	)

	var u model.User
	if err := row.Scan(&u.Email, &u.AnalysesUsed, &u.Paid, &u.UpdatedAt); err != nil {
		return nil, eris.Wrap(err, "postgres: upsert user")
	}
	return &u, nil
}

func (s *PostgresStore) IncrementUsage(ctx context.Context, email string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET analyses_used = analyses_used + 1, updated_at = now() WHERE email = $1`,
		email,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: increment usage %s", email)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("user not found: %s", email)
	}
	return nil
}

func (s *PostgresStore) SetPaid(ctx context.Context, email string, paid bool) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET paid = $1, updated_at = now() WHERE email = $2`,
		paid, email,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: set paid %s", email)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("user not found: %s", email)
	}
	return nil
}
