package localdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/farmstand/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func get(ctx context.Context, q dbx.DBTX, key string) (string, bool, error) {
	var value string
	err := q.QueryRowContext(ctx, `SELECT value FROM localdata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get localdata[%s]: %w", key, err)
	}
	return value, true, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (string, bool, error) {
	return get(ctx, r.db, key)
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO localdata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set localdata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM localdata WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete localdata[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Take(ctx context.Context, key string) (string, bool, error) {
	var value string
	var found bool
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		value, found, err = get(ctx, tx, key)
		if err != nil || !found {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM localdata WHERE key = ?`, key)
		return err
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to take localdata[%s]: %w", key, err)
	}
	return value, found, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM localdata`)
	if err != nil {
		return fmt.Errorf("failed to clear localdata: %w", err)
	}
	return nil
}
