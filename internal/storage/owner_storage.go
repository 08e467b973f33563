package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOwnerNotFound = errors.New("owner not found")
	ErrLoginTaken    = errors.New("login already taken")
)

// OwnerStorage определяет интерфейс для учётной записи владельца.
type OwnerStorage interface {
	Create(ctx context.Context, owner *models.Owner) error
	GetByLogin(ctx context.Context, login string) (*models.Owner, error)
	Count(ctx context.Context) (int, error)
}

// PostgresOwnerStorage реализует OwnerStorage для PostgreSQL.
type PostgresOwnerStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresOwnerStorage создаёт новый экземпляр PostgresOwnerStorage.
func NewPostgresOwnerStorage(pool *pgxpool.Pool) *PostgresOwnerStorage {
	return &PostgresOwnerStorage{pool: pool}
}

// Create сохраняет учётную запись владельца.
func (s *PostgresOwnerStorage) Create(ctx context.Context, owner *models.Owner) error {
	if owner.ID == uuid.Nil {
		owner.ID = uuid.New()
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO owners (id, login, password_hash, created_at)
		 VALUES ($1, $2, $3, NOW())
		 RETURNING created_at`,
		owner.ID, owner.Login, owner.PasswordHash,
	).Scan(&owner.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrLoginTaken
		}
		return fmt.Errorf("failed to create owner: %w", err)
	}

	return nil
}

// GetByLogin ищет учётную запись владельца по логину.
func (s *PostgresOwnerStorage) GetByLogin(ctx context.Context, login string) (*models.Owner, error) {
	var owner models.Owner
	err := s.pool.QueryRow(ctx,
		`SELECT id, login, password_hash, created_at FROM owners WHERE login = $1`,
		login,
	).Scan(&owner.ID, &owner.Login, &owner.PasswordHash, &owner.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("failed to get owner by login: %w", err)
	}

	return &owner, nil
}

// Count возвращает число зарегистрированных владельцев.
func (s *PostgresOwnerStorage) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM owners`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count owners: %w", err)
	}
	return count, nil
}
