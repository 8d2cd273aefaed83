package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/ademidov/authgate/internal/common"
	"github.com/ademidov/authgate/internal/server/models"
)

// pgUniqueViolation is the PostgreSQL error code for a violated unique
// constraint.
const pgUniqueViolation = "23505"

// PostgresRepository is the alternative credential store backend, selected
// with storage backend "postgres".
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, email, password, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password, created_at FROM users
		 WHERE email = $1
		 `
	return r.findOne(ctx, query, email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password, created_at FROM users
		 WHERE id = $1
		 `
	return r.findOne(ctx, query, id)
}

func (r *PostgresRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	query :=
		`SELECT id, username, email, password, created_at FROM users
		 WHERE email = $1 OR username = $2
		 `
	return r.findOne(ctx, query, email, username)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}
