package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/farmstand/internal/common"
	"github.com/dmitrijs2005/farmstand/internal/dbx"
	"github.com/dmitrijs2005/farmstand/internal/devserver/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const userColumns = `id, email, password_hash, display_name, photo_url, phone, location, bio, refresh_token, created_at`

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, photo_url, phone, location, bio, refresh_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.PhotoURL, u.Phone, u.Location, u.Bio, u.RefreshToken)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) scanOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.PhotoURL,
		&u.Phone, &u.Location, &u.Bio, &u.RefreshToken, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *SQLiteRepository) GetByRefreshToken(ctx context.Context, token string) (*models.User, error) {
	return r.scanOne(ctx, `SELECT `+userColumns+` FROM users WHERE refresh_token = ? AND refresh_token != ''`, token)
}

func (r *SQLiteRepository) UpdateIdentity(ctx context.Context, id, displayName, photoURL string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, photo_url = ? WHERE id = ?`,
		displayName, photoURL, id)
	return checkUpdated(res, err)
}

func (r *SQLiteRepository) UpdateContact(ctx context.Context, id, displayName, phone, location, bio string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET display_name = ?, phone = ?, location = ?, bio = ? WHERE id = ?`,
		displayName, phone, location, bio, id)
	return checkUpdated(res, err)
}

func (r *SQLiteRepository) SetRefreshToken(ctx context.Context, id, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET refresh_token = ? WHERE id = ?`, token, id)
	return checkUpdated(res, err)
}

func checkUpdated(res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
