package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/FACorreiaa/pune-companion/internal/app/models"
)

// UserRecord is a profile row including the password hash. It never leaves
// this package; handlers see models.User.
type UserRecord struct {
	models.User
	PasswordHash string
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	CreateUser(ctx context.Context, email, name, passwordHash string) (*UserRecord, error)
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*UserRecord, error)
	UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	pgpool *pgxpool.Pool
}

func NewRepository(pgpool *pgxpool.Pool, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgpool,
	}
}

const userColumns = "id, email, name, password_hash, language, is_admin, created_at"

func (r *RepositoryImpl) scanUser(row pgx.Row) (*UserRecord, error) {
	var u UserRecord
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Language, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *RepositoryImpl) CreateUser(ctx context.Context, email, name, passwordHash string) (*UserRecord, error) {
	query := `
        INSERT INTO profiles (id, email, name, password_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + userColumns
	row := r.pgpool.QueryRow(ctx, query, uuid.New(), strings.ToLower(email), name, passwordHash)
	user, err := r.scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrConflict
		}
		r.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (r *RepositoryImpl) GetUserByEmail(ctx context.Context, email string) (*UserRecord, error) {
	query := "SELECT " + userColumns + " FROM profiles WHERE email = $1"
	user, err := r.scanUser(r.pgpool.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *RepositoryImpl) GetUserByID(ctx context.Context, id uuid.UUID) (*UserRecord, error) {
	query := "SELECT " + userColumns + " FROM profiles WHERE id = $1"
	user, err := r.scanUser(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get user by id", zap.Error(err))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *RepositoryImpl) UpdateLanguage(ctx context.Context, id uuid.UUID, language string) error {
	tag, err := r.pgpool.Exec(ctx,
		"UPDATE profiles SET language = $2, updated_at = now() WHERE id = $1", id, language)
	if err != nil {
		r.logger.Error("Failed to update language", zap.Error(err))
		return fmt.Errorf("failed to update language: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *RepositoryImpl) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := r.pgpool.Exec(ctx,
		"UPDATE profiles SET name = $2, updated_at = now() WHERE id = $1", id, name)
	if err != nil {
		r.logger.Error("Failed to update name", zap.Error(err))
		return fmt.Errorf("failed to update name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
