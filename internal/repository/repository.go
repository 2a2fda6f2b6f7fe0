package repository

import (
	"context"
	"fmt"

	"questpath/pkg/logger"

	"github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

type Repository struct {
	db      *sqlx.DB
	builder squirrel.StatementBuilderType
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) Transaction(ctx context.Context, t func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	err = t(tx)
	if err != nil {
		txErr := tx.Rollback()
		if txErr != nil {
			return errors.Wrapf(err, "rollback error: %v", txErr)
		}
		return err
	}
	return tx.Commit()
}

type Config struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

func (c *Config) GetDatabaseURL() string {
	if c.Driver == DriverSQLite {
		if c.Path == "" {
			return ":memory:"
		}
		return c.Path
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
	)
}

func New(ctx context.Context, cfg Config) (*Repository, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	var placeholder squirrel.PlaceholderFormat
	switch driver {
	case DriverPostgres:
		placeholder = squirrel.Dollar
	case DriverSQLite:
		placeholder = squirrel.Question
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
	cfg.Driver = driver

	db, err := sqlx.ConnectContext(ctx, driver, cfg.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// each :memory: connection is its own database
		db.SetMaxOpenConns(1)
	}

	repo := &Repository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}

	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Logger().Info("Connected to database successfully", zap.String("driver", driver))
	return repo, nil
}

func (r *Repository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS client_tokens (
		name       TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to create client_tokens table: %w", err)
	}
	return nil
}
