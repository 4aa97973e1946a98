package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shardbot/internal/model"
	"shardbot/pkg/logger"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

const snapshotRowID = 1

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (c *PostgresConfig) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

// PostgresStore keeps the snapshot in a single jsonb row, preserving
// the opaque load/save contract while making the data queryable.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(cfg PostgresConfig) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id INT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}

	logger.Logger().Info("connected to snapshot database")
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*model.Snapshot, error) {
	query, args, err := squirrel.
		Select("data").
		From("snapshots").
		Where(squirrel.Eq{"id": snapshotRowID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var data []byte
	err = s.db.GetContext(ctx, &data, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Logger().Info("no snapshot row, starting empty")
			return model.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("failed to load snapshot row: %w", err)
	}

	snap := model.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot row: %w", err)
	}
	return snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query, args, err := squirrel.
		Insert("snapshots").
		Columns("id", "data").
		Values(snapshotRowID, data).
		Suffix("ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert snapshot row: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
