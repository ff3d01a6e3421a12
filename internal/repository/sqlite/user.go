package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joblink/joblink/internal/models"
	"github.com/joblink/joblink/pkg/apperr"
)

func (r *SQLiteRepo) CreateUser(ctx context.Context, u *models.User) (int64, error) {
	if u == nil {
		return 0, fmt.Errorf("user is nil")
	}

	ts := now()
	res, err := r.conn.Exec(ctx,
		`INSERT INTO users (name, email, password_hash, role, phone, avatar_url, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Email, u.PasswordHash, string(u.Role), nullable(u.Phone), nullable(u.AvatarURL), ts, ts)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, apperr.Conflict("This email is already registered. Please use a different email or try logging in.").WithStatus(409)
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *SQLiteRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return r.scanUser(r.conn.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, phone, avatar_url, refresh_token, created, updated FROM users WHERE id = ?`, id))
}

func (r *SQLiteRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	// email column is COLLATE NOCASE, so the lookup is case-insensitive
	return r.scanUser(r.conn.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, phone, avatar_url, refresh_token, created, updated FROM users WHERE email = ?`, email))
}

func (r *SQLiteRepo) SetRefreshToken(ctx context.Context, id int64, token string) error {
	_, err := r.conn.Exec(ctx, `UPDATE users SET refresh_token = ?, updated = ? WHERE id = ?`, token, now(), id)
	return err
}

func (r *SQLiteRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.conn.QueryRows(ctx,
		`SELECT id, name, email, password_hash, role, phone, avatar_url, refresh_token, created, updated FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		u, err := scanUserRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepo) scanUser(row *sql.Row) (*models.User, error) {
	u, err := scanUserRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func scanUserRow(s rowScanner) (*models.User, error) {
	var u models.User
	var role string
	var phone, avatar, refresh sql.NullString
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &phone, &avatar, &refresh, &u.Created, &u.Updated); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	u.Phone = phone.String
	u.AvatarURL = avatar.String
	u.RefreshToken = refresh.String
	return &u, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
