package auth

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartbuy/auth/pkg/pg"
)

// PostgresStorage implements Storage on a pgx connection pool. The unique
// index on users.email is the race-safety mechanism for resolve-or-create:
// the database serializes concurrent inserts, not this code.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage wraps an existing connection pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

const userColumns = `id, email, username, password, verified, created_at`

// The password column is text, not bytea; hashes cross the driver boundary
// as nullable strings.
func scanUser(row pgx.Row) (*User, error) {
	var (
		u    User
		hash *string
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &hash, &u.Verified, &u.CreatedAt); err != nil {
		return nil, err
	}
	if hash != nil {
		u.PasswordHash = []byte(*hash)
	}
	return &u, nil
}

func hashParam(hash []byte) *string {
	if len(hash) == 0 {
		return nil
	}
	s := string(hash)
	return &s
}

func (s *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *PostgresStorage) CreateUser(ctx context.Context, user *User) (*User, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO users (email, username, password, verified)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		user.Email, user.Username, hashParam(user.PasswordHash), user.Verified)

	created, err := scanUser(row)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

func (s *PostgresStorage) SetUserVerified(ctx context.Context, userID int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET verified = true WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *PostgresStorage) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

var _ Storage = (*PostgresStorage)(nil)
