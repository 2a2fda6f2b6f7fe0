package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

func (r *Repository) GetToken(ctx context.Context, key string) (string, error) {
	query, args, err := r.builder.
		Select("token").
		From("client_tokens").
		Where(squirrel.Eq{"name": key}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("failed to build token select query: %w", err)
	}

	var token string
	err = r.db.GetContext(ctx, &token, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

func (r *Repository) SaveToken(ctx context.Context, key, token string) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		deleteQuery, deleteArgs, err := r.builder.
			Delete("client_tokens").
			Where(squirrel.Eq{"name": key}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build token delete query: %w", err)
		}

		if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
			return fmt.Errorf("failed to clear token: %w", err)
		}

		insertQuery, insertArgs, err := r.builder.
			Insert("client_tokens").
			SetMap(map[string]interface{}{
				"name":       key,
				"token":      token,
				"updated_at": time.Now().UTC(),
			}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build token insert query: %w", err)
		}

		if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
			return fmt.Errorf("failed to insert token: %w", err)
		}
		return nil
	})
}

// DeleteToken removes key. Deleting a missing key is not an error.
func (r *Repository) DeleteToken(ctx context.Context, key string) error {
	query, args, err := r.builder.
		Delete("client_tokens").
		Where(squirrel.Eq{"name": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build token delete query: %w", err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}

// MemoryTokenStore keeps tokens for the life of the process.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]string)}
}

func (m *MemoryTokenStore) GetToken(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	token, ok := m.tokens[key]
	if !ok {
		return "", ErrNotFound
	}
	return token, nil
}

func (m *MemoryTokenStore) SaveToken(_ context.Context, key, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = token
	return nil
}

func (m *MemoryTokenStore) DeleteToken(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}
