package devapi

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/adept-userform/internal/userapi"
)

const schema = `CREATE TABLE IF NOT EXISTS users (
	id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	username      VARCHAR(255) NOT NULL,
	email         VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uq_users_email (email)
)`

const (
	qGet    = `SELECT id, username, email FROM users WHERE id = ?`
	qInsert = `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`
	qUpdate = `UPDATE users SET username = ?, email = ? WHERE id = ?`
)

// mysqlDuplicateKey is ER_DUP_ENTRY.
const mysqlDuplicateKey = 1062

type userRow struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
}

// SQLStore persists users in a MySQL `users` table.  The unique key on
// email enforces ErrDuplicateEmail; the default collation makes it
// case-insensitive.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore { return &SQLStore{db: db} }

// Migrate creates the users table when absent.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("devapi: migrate: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (userapi.User, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return userapi.User{}, ErrNotFound
	}
	var row userRow
	if err := s.db.GetContext(ctx, &row, qGet, n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return userapi.User{}, ErrNotFound
		}
		return userapi.User{}, fmt.Errorf("devapi: get user %d: %w", n, err)
	}
	return row.user(), nil
}

func (s *SQLStore) Create(ctx context.Context, u userapi.User) (userapi.User, error) {
	hash, err := hashPassword(u.Password)
	if err != nil {
		return userapi.User{}, err
	}
	res, err := s.db.ExecContext(ctx, qInsert, u.Username, u.Email, hash)
	if err != nil {
		return userapi.User{}, wrapSQLError("insert user", err)
	}
	n, err := res.LastInsertId()
	if err != nil {
		return userapi.User{}, fmt.Errorf("devapi: insert user: %w", err)
	}
	return userRow{ID: n, Username: u.Username, Email: u.Email}.user(), nil
}

// Update rewrites username and email, then re-reads the row.  MySQL reports
// zero affected rows for a no-op update, so existence is checked by the read.
func (s *SQLStore) Update(ctx context.Context, id string, u userapi.User) (userapi.User, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return userapi.User{}, ErrNotFound
	}
	if _, err := s.db.ExecContext(ctx, qUpdate, u.Username, u.Email, n); err != nil {
		return userapi.User{}, wrapSQLError("update user", err)
	}
	return s.Get(ctx, id)
}

func (r userRow) user() userapi.User {
	return userapi.User{
		ID:       userapi.ID(strconv.FormatInt(r.ID, 10)),
		Username: r.Username,
		Email:    r.Email,
	}
}

func wrapSQLError(op string, err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateKey {
		return ErrDuplicateEmail
	}
	return fmt.Errorf("devapi: %s: %w", op, err)
}
