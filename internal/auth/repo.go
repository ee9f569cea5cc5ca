package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"unihub/pkg/database"
	"unihub/pkg/models"
)

type Repo struct {
	DB  *sqlx.DB
	now func() time.Time
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{DB: db, now: time.Now}
}

const upsertSQLite = `
	INSERT INTO users (open_id, name, email, login_method, role, created_at, last_signed_in)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(open_id) DO UPDATE SET
		name = excluded.name,
		email = excluded.email,
		login_method = excluded.login_method,
		role = CASE WHEN excluded.role = 'admin' THEN 'admin' ELSE users.role END,
		last_signed_in = excluded.last_signed_in`

const upsertMySQL = `
	INSERT INTO users (open_id, name, email, login_method, role, created_at, last_signed_in)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		name = VALUES(name),
		email = VALUES(email),
		login_method = VALUES(login_method),
		role = IF(VALUES(role) = 'admin', 'admin', role),
		last_signed_in = VALUES(last_signed_in)`

// RecordSignIn upserts the token's subject and returns the stored user.
// A stored admin role is never downgraded by a token.
func (r *Repo) RecordSignIn(ctx context.Context, claims *Claims) (*models.User, error) {
	q := upsertSQLite
	if r.DB.DriverName() == database.DriverMySQL {
		q = upsertMySQL
	}
	now := r.now().UTC()
	_, err := r.DB.ExecContext(ctx, q,
		claims.OpenID(), claims.Name, claims.Email, claims.LoginMethod, NormalizeRole(claims.Role), now, now)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}

	u, err := r.GetByOpenID(ctx, claims.OpenID())
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("upsert user: %s vanished", claims.OpenID())
	}
	return u, nil
}

func (r *Repo) GetByOpenID(ctx context.Context, openID string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`
		SELECT open_id, name, email, login_method, role, created_at, last_signed_in
		FROM users
		WHERE open_id = ?
	`), openID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get by open id: %w", err)
	}
	return &u, nil
}

// SetRole changes a stored user's role; used by operators to promote admins.
func (r *Repo) SetRole(ctx context.Context, openID, role string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`UPDATE users SET role = ? WHERE open_id = ?`), NormalizeRole(role), openID)
	if err != nil {
		return fmt.Errorf("set role: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set role rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set role: user %s not found", openID)
	}
	return nil
}
