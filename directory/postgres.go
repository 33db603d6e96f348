package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// DBTX is the subset of *sql.DB and *sql.Tx the repository needs.
type DBTX interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PingContext(ctx context.Context) error
}

// Postgres reads and writes the users table.
type Postgres struct {
	db DBTX
}

// NewPostgres wraps an open database handle.
func NewPostgres(db DBTX) *Postgres {
	return &Postgres{db: db}
}

// Open opens a pgx-backed *sql.DB for dsn and checks it is reachable.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return db, nil
}

// FindByEmail returns the user whose email equals email exactly.
func (r *Postgres) FindByEmail(ctx context.Context, email string) (User, error) {
	query :=
		`SELECT id, email, password, name, personal_info FROM users
		 WHERE email = $1
		 `

	var u User
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.PersonalInfo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Create inserts a user and returns it with its generated id.
func (r *Postgres) Create(ctx context.Context, in NewUser) (User, error) {
	query :=
		`INSERT INTO users (email, password, name, personal_info)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	u := User{Email: in.Email, PasswordHash: in.PasswordHash, Name: in.Name, PersonalInfo: in.PersonalInfo}
	err := r.db.QueryRowContext(ctx, query, in.Email, in.PasswordHash, in.Name, in.PersonalInfo).Scan(&u.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return User{}, ErrDuplicateEmail
		}
		return User{}, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// Ping checks database connectivity.
func (r *Postgres) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
